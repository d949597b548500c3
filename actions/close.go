package actions

import (
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// CloseAction implements the server-family Close contract (§4.D):
// closes a SocketServer connection by id.
type CloseAction struct{}

func (a *CloseAction) Role() ast.ActionRole { return ast.RoleServer }
func (a *CloseAction) Verbs() []string      { return []string{"close"} }
func (a *CloseAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.On}
}

func (a *CloseAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "close", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	connID := object.Base
	if v, ok := ctx.Resolve(object.Base); ok {
		if s, ok := v.AsString(); ok && s != "" {
			connID = s
		}
	}

	sock, ok := runtimectx.Service[SocketServer](ctx)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.MissingService("SocketServer")
	}
	if err := sock.Close(connID); err != nil {
		return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "close")
	}
	return value.Bool(true), registry.Fresh, nil
}
