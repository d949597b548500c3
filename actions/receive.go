package actions

import (
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// ReceiveAction implements the source-read Receive contract (§4.D): a
// simple identity lookup used by event-driven entry points, where the
// event payload has already been bound under object.Base before the
// feature set runs.
type ReceiveAction struct{}

func (a *ReceiveAction) Role() ast.ActionRole { return ast.RoleRequest }
func (a *ReceiveAction) Verbs() []string      { return []string{"receive"} }
func (a *ReceiveAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From, ast.Via}
}

func (a *ReceiveAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "receive", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}
	v, ok := ctx.Resolve(object.Base)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(object.Base)
	}
	return v, registry.Fresh, nil
}
