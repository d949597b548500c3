package actions

import (
	"time"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/events"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// BroadcastAction implements the server-family Broadcast contract
// (§4.D): sends a message to every connection on a registered
// SocketServer, falling back to BroadcastRequestedEvent absent one.
type BroadcastAction struct{}

func (a *BroadcastAction) Role() ast.ActionRole { return ast.RoleServer }
func (a *BroadcastAction) Verbs() []string      { return []string{"broadcast"} }
func (a *BroadcastAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.With, ast.Via}
}

func (a *BroadcastAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "broadcast", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	message, ok := ctx.Resolve(object.Base)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(object.Base)
	}

	if sock, ok := runtimectx.Service[SocketServer](ctx); ok {
		if err := sock.Broadcast([]byte(message.String())); err != nil {
			return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "broadcast")
		}
		return message, registry.Fresh, nil
	}

	ctx.Emit(events.BroadcastRequestedEvent{Message: message, At: time.Now()})
	return message, registry.Fresh, nil
}
