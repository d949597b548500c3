package actions

import (
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

var reduceOps = map[string]bool{
	"count": true, "sum": true, "avg": true, "average": true,
	"min": true, "max": true, "first": true, "last": true,
}

// ReduceAction implements the own-family Reduce contract (§4.D):
// aggregates a list via count/sum/avg/min/max/first/last, reading the
// aggregation type/field from the `with aggregate(field)` auxiliaries
// (else from result specifiers). Empty-list boundary behaviors follow
// §8: sum/count -> 0, avg -> 0, first/last -> [].
type ReduceAction struct{}

func (a *ReduceAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *ReduceAction) Verbs() []string      { return []string{"reduce"} }
func (a *ReduceAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From, ast.With}
}

func (a *ReduceAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "reduce", object.Preposition); err != nil {
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

	aggType, field := reduceAggregation(result, ctx)
	if aggType == "" {
		return value.Value{}, registry.Fresh, runtimectx.InvalidInput("reduce requires an aggregation type")
	}

	switch aggType {
	case "count":
		return value.Int(int64(len(xs))), registry.Fresh, nil
	case "first":
		if len(xs) == 0 {
			return value.List(nil), registry.Fresh, nil
		}
		return fieldOrSelf(xs[0], field), registry.Fresh, nil
	case "last":
		if len(xs) == 0 {
			return value.List(nil), registry.Fresh, nil
		}
		return fieldOrSelf(xs[len(xs)-1], field), registry.Fresh, nil
	case "sum", "avg", "average", "min", "max":
		return reduceNumeric(aggType, xs, field), registry.Fresh, nil
	}
	return value.Value{}, registry.Fresh, runtimectx.InvalidInput("reduce: unknown aggregation " + aggType)
}

func reduceAggregation(result ast.ResultDescriptor, ctx *runtimectx.ExecutionContext) (string, string) {
	if t, ok := clauseAggregationType(ctx); ok {
		f, _ := clauseAggregationField(ctx)
		return t, f
	}
	t, idx := resolveOperationName(result, reduceOps)
	if t == "" {
		return "", ""
	}
	var field string
	for i, s := range result.Specifiers {
		if i != idx {
			field = s
			break
		}
	}
	return t, field
}

func fieldOrSelf(v value.Value, field string) value.Value {
	if field == "" {
		return v
	}
	if m, ok := v.AsDict(); ok {
		return m[field]
	}
	return v
}

func reduceNumeric(aggType string, xs []value.Value, field string) value.Value {
	if len(xs) == 0 {
		if aggType == "sum" || aggType == "avg" || aggType == "average" {
			return value.Int(0)
		}
		return value.Null()
	}
	var sum float64
	var min, max float64
	allInt := true
	for i, item := range xs {
		fv := fieldOrSelf(item, field)
		f, ok := fv.AsDouble()
		if !ok {
			continue
		}
		if fv.Kind() != value.KindInteger {
			allInt = false
		}
		sum += f
		if i == 0 || f < min {
			min = f
		}
		if i == 0 || f > max {
			max = f
		}
	}
	switch aggType {
	case "sum":
		if allInt {
			return value.Int(int64(sum))
		}
		return value.Float(sum)
	case "avg", "average":
		return value.Float(sum / float64(len(xs)))
	case "min":
		if allInt {
			return value.Int(int64(min))
		}
		return value.Float(min)
	case "max":
		if allInt {
			return value.Int(int64(max))
		}
		return value.Float(max)
	}
	return value.Null()
}
