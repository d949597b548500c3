package actions

import (
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// ThrowAction implements the response-family Throw contract (§4.D):
// raises a Thrown error, the result's FullName supplying the type and
// reason rendered as "<type>: <reason>".
type ThrowAction struct{}

func (a *ThrowAction) Role() ast.ActionRole { return ast.RoleResponse }
func (a *ThrowAction) Verbs() []string      { return []string{"throw"} }
func (a *ThrowAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.With, ast.For}
}

func (a *ThrowAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "throw", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	typ := result.Base
	reason := result.Specifier(0)
	if reason == "" {
		if w, ok := clauseWith(ctx); ok {
			reason, _ = w.AsString()
		}
	}
	if reason == "" {
		reason = object.Base
	}

	return value.Value{}, registry.Fresh, runtimectx.Thrown(typ, reason, object.Base)
}
