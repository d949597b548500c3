package actions

import (
	"sort"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

var sortOrders = map[string]bool{"ascending": true, "descending": true}

// SortAction implements the own-family Sort contract (§4.D): orders an
// array of homogeneous primitives ascending or descending.
type SortAction struct{}

func (a *SortAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *SortAction) Verbs() []string      { return []string{"sort"} }
func (a *SortAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From, ast.With}
}

func (a *SortAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "sort", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	src, ok := ctx.Resolve(object.Base)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(object.Base)
	}
	xs, ok := src.AsList()
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.TypeMismatch("list", src.Kind().String(), object.Base)
	}

	order, _ := resolveOperationName(result, sortOrders)
	if order == "" {
		order = "ascending"
	}

	out := append([]value.Value{}, xs...)
	sort.SliceStable(out, func(i, j int) bool {
		less := lessPrimitive(out[i], out[j])
		if order == "descending" {
			return !less && !out[i].Equal(out[j])
		}
		return less
	})
	return value.List(out), registry.Fresh, nil
}

func lessPrimitive(a, b value.Value) bool {
	if af, aok := a.AsDouble(); aok {
		if bf, bok := b.AsDouble(); bok {
			return af < bf
		}
	}
	as, _ := a.AsString()
	bs, _ := b.AsString()
	return as < bs
}
