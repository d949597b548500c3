package actions

import (
	"time"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/events"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// NotifyAction implements the response-family Notify contract (§4.D): a
// registered NotificationService handles delivery; absent one, it emits
// NotificationSentEvent.
type NotifyAction struct{}

func (a *NotifyAction) Role() ast.ActionRole { return ast.RoleResponse }
func (a *NotifyAction) Verbs() []string      { return []string{"notify"} }
func (a *NotifyAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.With, ast.Via}
}

func (a *NotifyAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "notify", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	message, ok := ctx.Resolve(object.Base)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(object.Base)
	}
	channel := result.Base

	if svc, ok := runtimectx.Service[NotificationService](ctx); ok {
		if err := svc.Notify(channel, message); err != nil {
			return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "notify")
		}
		return message, registry.Fresh, nil
	}

	ctx.Emit(events.NotificationSentEvent{Channel: channel, Message: message, At: time.Now()})
	return message, registry.Fresh, nil
}
