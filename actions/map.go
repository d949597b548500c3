package actions

import (
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// MapAction implements the own-family Map contract (§4.D): projects
// result.Specifier(0) out of each element of a list (skipping reserved
// type-name tokens), passing whole dicts through when no field name
// applies, or projects directly when the object resolves to a single
// dict.
type MapAction struct{}

func (a *MapAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *MapAction) Verbs() []string      { return []string{"map"} }
func (a *MapAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From}
}

func (a *MapAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "map", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	src, ok := ctx.Resolve(object.Base)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(object.Base)
	}

	field := result.Specifier(0)
	if reservedTypeNames[field] {
		field = ""
	}

	if m, ok := src.AsDict(); ok {
		if field != "" {
			if v, has := m[field]; has {
				return v, registry.Fresh, nil
			}
			return value.Value{}, registry.Fresh, runtimectx.PropertyNotFound(field, object.Base)
		}
		return src, registry.Fresh, nil
	}

	xs, ok := src.AsList()
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.TypeMismatch("list or map", src.Kind().String(), object.Base)
	}

	out := make([]value.Value, len(xs))
	for i, item := range xs {
		if field == "" {
			out[i] = item
			continue
		}
		if m, ok := item.AsDict(); ok {
			out[i] = m[field]
			continue
		}
		out[i] = item
	}
	return value.List(out), registry.Fresh, nil
}
