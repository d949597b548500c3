package actions

import (
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// WaitAction implements the server-family Wait contract (§4.D): marks
// the activation's context blocked and, when a ShutdownCoordinator is
// registered, blocks the calling goroutine until SIGINT/SIGTERM (§5).
type WaitAction struct{}

func (a *WaitAction) Role() ast.ActionRole { return ast.RoleServer }
func (a *WaitAction) Verbs() []string      { return []string{"wait"} }
func (a *WaitAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.For, ast.On}
}

func (a *WaitAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "wait", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	ctx.EnterWaitState()
	if coord, ok := runtimectx.Service[ShutdownCoordinator](ctx); ok {
		coord.InstallOnce()
		coord.Wait()
	}
	return value.Bool(true), registry.Fresh, nil
}
