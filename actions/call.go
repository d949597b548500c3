package actions

import (
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// ServiceCaller backs Call's dispatch to a named entry in a service
// registry distinct from the typed context service registry — e.g. a
// plugin or RPC-style handler keyed by string name (§4.D Call).
type ServiceCaller interface {
	Call(name string, args map[string]value.Value) (value.Value, error)
}

// CallAction implements the source-read Call contract (§4.D): issues a
// call to a registered service by name.
type CallAction struct{}

func (a *CallAction) Role() ast.ActionRole { return ast.RoleRequest }
func (a *CallAction) Verbs() []string      { return []string{"call"} }
func (a *CallAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From, ast.To, ast.Via, ast.With}
}

func (a *CallAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "call", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	caller, ok := runtimectx.Service[ServiceCaller](ctx)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.MissingService("ServiceCaller")
	}

	var args map[string]value.Value
	if w, ok := clauseWith(ctx); ok {
		if m, ok := w.AsDict(); ok {
			args = m
		}
	}

	out, err := caller.Call(object.Base, args)
	if err != nil {
		return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "call: "+object.Base)
	}
	return out, registry.Fresh, nil
}
