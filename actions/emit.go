package actions

import (
	"context"
	"time"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/events"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// EmitAction implements the response-family Emit contract (§4.D): wraps
// the resolved payload in a DomainEvent named by `result.base`, keyed
// under `_expression_name_` when present, else `object.base` when it
// isn't a reserved type-name token, else "data". Uses PublishAndTrack
// when an event bus is available so subscribers observe the event
// before the statement completes.
type EmitAction struct{}

func (a *EmitAction) Role() ast.ActionRole { return ast.RoleResponse }
func (a *EmitAction) Verbs() []string      { return []string{"emit"} }
func (a *EmitAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.With, ast.For}
}

func (a *EmitAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "emit", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	var v value.Value
	if w, ok := clauseWith(ctx); ok {
		v = w
	} else if e, ok := clauseExpression(ctx); ok {
		v = e
	} else if r, ok := ctx.Resolve(object.Base); ok {
		v = r
	} else {
		v = value.Null()
	}

	key := "data"
	if name, ok := clauseExpressionName(ctx); ok {
		key = name
	} else if !reservedTypeNames[object.Base] && object.Base != "" {
		key = object.Base
	}

	payload := map[string]value.Value{key: v}
	ev := events.DomainEvent{Type: result.Base, Payload: payload, At: time.Now()}

	if bus := ctx.EventBus(); bus != nil {
		if err := bus.PublishAndTrack(context.Background(), ev); err != nil {
			return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "emit")
		}
	}

	return value.Map(payload), registry.Fresh, nil
}
