package actions

import (
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// WhenAction implements the test-family When contract (§4.D): forks a
// child context seeded with the current bindings (plus any `with`
// overrides) through the registered TestExecutionContext, executes the
// named feature set, and returns its terminal datum.
type WhenAction struct{}

func (a *WhenAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *WhenAction) Verbs() []string      { return []string{"when"} }
func (a *WhenAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.With, ast.On}
}

func (a *WhenAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "when", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	seed := ctx.Bindings()
	if w, ok := clauseWith(ctx); ok {
		if m, ok := w.AsDict(); ok {
			for k, v := range m {
				seed[k] = v
			}
		}
	}

	tc, ok := runtimectx.Service[TestExecutionContext](ctx)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.MissingService("TestExecutionContext")
	}
	out, err := tc.RunFeatureSet(object.Base, seed)
	if err != nil {
		return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "when: "+object.Base)
	}
	return out, registry.Fresh, nil
}
