package actions

import (
	"time"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/events"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// SendAction implements the response-family Send contract (§4.D):
// delivers via a registered socket connection (by id), else a
// messaging service, else falls back to MessageSentEvent. Data resolves
// strictly from `result.base`; the destination is `object.base`.
type SendAction struct{}

func (a *SendAction) Role() ast.ActionRole { return ast.RoleResponse }
func (a *SendAction) Verbs() []string      { return []string{"send"} }
func (a *SendAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.To, ast.Via}
}

func (a *SendAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "send", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	data, ok := ctx.Resolve(result.Base)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(result.Base)
	}
	destination := object.Base

	if sock, ok := runtimectx.Service[SocketServer](ctx); ok {
		if err := sock.Send(destination, []byte(data.String())); err != nil {
			return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "send")
		}
		return data, registry.Fresh, nil
	}
	if msg, ok := runtimectx.Service[MessagingService](ctx); ok {
		if err := msg.Publish(destination, data); err != nil {
			return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "send")
		}
		return data, registry.Fresh, nil
	}

	ctx.Emit(events.MessageSentEvent{Destination: destination, Data: data, At: time.Now()})
	return data, registry.Fresh, nil
}
