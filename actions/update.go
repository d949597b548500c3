package actions

import (
	"dario.cat/mergo"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// UpdateAction implements the own-family Update contract (aliases
// modify/change/set/configure, §4.D) — one of only three actions
// permitted to rebind a binding (§5 immutability policy).
type UpdateAction struct{}

func (a *UpdateAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *UpdateAction) Verbs() []string {
	return []string{"update", "modify", "change", "set", "configure"}
}
func (a *UpdateAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.With, ast.To, ast.From, ast.Into}
}

func (a *UpdateAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "update", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	target, hasTarget := ctx.Resolve(result.Base)
	if !hasTarget {
		if clauseVerb(ctx) == "configure" {
			target = value.Map(map[string]value.Value{})
		} else {
			return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(result.Base)
		}
	}

	src, hasSrc := updateSource(object, ctx)
	if !hasSrc {
		return value.Value{}, registry.Fresh, runtimectx.InvalidInput("update requires a source value")
	}

	var out value.Value
	if field := result.Specifier(0); field != "" {
		m, ok := target.AsDict()
		if !ok {
			m = make(map[string]value.Value)
		}
		m[field] = src
		out = value.Map(m)
	} else {
		out = mergeOrReplace(target, src)
	}

	if err := ctx.Bind(result.Base, out, true, result.Span); err != nil {
		return value.Value{}, registry.Rebound, err
	}
	return out, registry.Rebound, nil
}

func updateSource(object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, bool) {
	if w, ok := clauseWith(ctx); ok {
		return w, true
	}
	if t, ok := clauseTo(ctx); ok {
		return t, true
	}
	if l, ok := clauseLiteral(ctx); ok {
		return l, true
	}
	if e, ok := clauseExpression(ctx); ok {
		return e, true
	}
	if v, ok := ctx.Resolve(object.Base); ok {
		return v, true
	}
	if object.LiteralValue != nil {
		return literalToValue(object.LiteralValue), true
	}
	return value.Value{}, false
}

// mergeOrReplace implements Update/Merge's shared fallback: dictionary
// shallow-merge (second wins), list concat, string concat, else replace
// (§4.D Update, Merge).
func mergeOrReplace(target, src value.Value) value.Value {
	if tm, ok := target.AsDict(); ok {
		if sm, ok := src.AsDict(); ok {
			out := make(map[string]value.Value, len(tm)+len(sm))
			for k, v := range tm {
				out[k] = v
			}
			if err := mergo.Merge(&out, sm, mergo.WithOverride()); err != nil {
				for k, v := range sm {
					out[k] = v
				}
			}
			return value.Map(out)
		}
	}
	if txs, ok := target.AsList(); ok {
		if sxs, ok := src.AsList(); ok {
			return value.List(append(append([]value.Value{}, txs...), sxs...))
		}
	}
	if target.Kind() == value.KindString && src.Kind() == value.KindString {
		ts, _ := target.AsString()
		ss, _ := src.AsString()
		return value.String(ts + ss)
	}
	return src
}
