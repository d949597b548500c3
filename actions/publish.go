package actions

import (
	"time"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/events"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// PublishAction implements the export-family Publish contract (§4.D):
// binds `object.base` externally under name `result.base`, emitting a
// VariablePublishedEvent, fire-and-forget.
type PublishAction struct{}

func (a *PublishAction) Role() ast.ActionRole { return ast.RoleExport }
func (a *PublishAction) Verbs() []string      { return []string{"publish"} }
func (a *PublishAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.With, ast.For}
}

func (a *PublishAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "publish", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	v, ok := ctx.Resolve(object.Base)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(object.Base)
	}

	ctx.Emit(events.VariablePublishedEvent{Name: result.Base, Value: v, At: time.Now()})
	return v, registry.Fresh, nil
}
