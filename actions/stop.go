package actions

import (
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// StopAction implements the server-family Stop contract (§4.D), the
// inverse of Start: stops the registered HTTPServerControl or
// SocketServer, or unwatches a file-monitor path.
type StopAction struct{}

func (a *StopAction) Role() ast.ActionRole { return ast.RoleServer }
func (a *StopAction) Verbs() []string      { return []string{"stop"} }
func (a *StopAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.On, ast.With}
}

func (a *StopAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "stop", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	if ctrl, ok := runtimectx.Service[HTTPServerControl](ctx); ok {
		if err := ctrl.Stop(); err != nil {
			return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "stop")
		}
		return value.Bool(true), registry.Fresh, nil
	}
	if sock, ok := runtimectx.Service[SocketServer](ctx); ok {
		if err := sock.Stop(); err != nil {
			return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "stop")
		}
		return value.Bool(true), registry.Fresh, nil
	}
	if fm, ok := runtimectx.Service[FileMonitorService](ctx); ok {
		path := startPath(object, ctx)
		if err := fm.Unwatch(path); err != nil {
			return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "stop")
		}
		return value.Bool(true), registry.Fresh, nil
	}
	return value.Value{}, registry.Fresh, runtimectx.MissingService("HTTPServerControl")
}
