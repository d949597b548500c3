package actions

import (
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// GivenAction implements the test-family Given contract (§4.D): binds a
// fixture value under result.Base (priority: `_literal_`, `_expression_`,
// `resolve(object.base)`, else `object.base` as a literal), the
// test-scenario arrange step.
type GivenAction struct{}

func (a *GivenAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *GivenAction) Verbs() []string      { return []string{"given"} }
func (a *GivenAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.With, ast.From}
}

func (a *GivenAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "given", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	if v, ok := clauseLiteral(ctx); ok {
		return v, registry.Fresh, nil
	}
	if v, ok := clauseExpression(ctx); ok {
		return v, registry.Fresh, nil
	}
	if v, ok := ctx.Resolve(object.Base); ok {
		return v, registry.Fresh, nil
	}
	return value.String(object.Base), registry.Fresh, nil
}
