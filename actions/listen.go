package actions

import (
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// ListenAction implements the server-family Listen contract (§4.D):
// opens a SocketServer on the given port.
type ListenAction struct{}

func (a *ListenAction) Role() ast.ActionRole { return ast.RoleServer }
func (a *ListenAction) Verbs() []string      { return []string{"listen"} }
func (a *ListenAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.On}
}

func (a *ListenAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "listen", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	port := startPort(result, object, ctx, 9000)

	sock, ok := runtimectx.Service[SocketServer](ctx)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.MissingService("SocketServer")
	}
	if err := sock.Listen(port); err != nil {
		return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "listen")
	}
	return value.Int(int64(port)), registry.Fresh, nil
}
