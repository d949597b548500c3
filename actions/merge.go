package actions

import (
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// MergeAction implements the own-family Merge contract (aliases
// combine/join/concat, §4.D) — dictionary merge (second wins), list
// concat, string concat; binds back with allowRebind=true, one of the
// three rebind-permitted actions (§5).
type MergeAction struct{}

func (a *MergeAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *MergeAction) Verbs() []string      { return []string{"merge", "combine", "join", "concat"} }
func (a *MergeAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.With, ast.Into}
}

func (a *MergeAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "merge", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	left, hasLeft := ctx.Resolve(result.Base)
	if !hasLeft {
		return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(result.Base)
	}

	var right value.Value
	hasRight := false
	if w, ok := clauseWith(ctx); ok {
		right, hasRight = w, true
	} else if v, ok := ctx.Resolve(object.Base); ok {
		right, hasRight = v, true
	} else if l, ok := clauseLiteral(ctx); ok {
		right, hasRight = l, true
	}
	if !hasRight {
		return value.Value{}, registry.Fresh, runtimectx.InvalidInput("merge requires a source value")
	}

	out := mergeOrReplace(left, right)
	if err := ctx.Bind(result.Base, out, true, result.Span); err != nil {
		return value.Value{}, registry.Rebound, err
	}
	return out, registry.Rebound, nil
}
