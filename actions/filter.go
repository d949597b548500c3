package actions

import (
	"regexp"
	"strings"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// FilterAction implements the own-family Filter contract (§4.D): reads
// its predicate from the where-clause auxiliaries (else from result
// specifiers) and keeps elements that satisfy it.
type FilterAction struct{}

func (a *FilterAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *FilterAction) Verbs() []string      { return []string{"filter"} }
func (a *FilterAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From}
}

func (a *FilterAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "filter", object.Preposition); err != nil {
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

	field, op, predVal, err := filterPredicate(result, ctx)
	if err != nil {
		return value.Value{}, registry.Fresh, err
	}

	var out []value.Value
	for _, item := range xs {
		fv := item
		if field != "" {
			if m, ok := item.AsDict(); ok {
				fv = m[field]
			}
		}
		ok, err := filterMatches(fv, op, predVal)
		if err != nil {
			return value.Value{}, registry.Fresh, err
		}
		if ok {
			out = append(out, item)
		}
	}
	return value.List(out), registry.Fresh, nil
}

func filterPredicate(result ast.ResultDescriptor, ctx *runtimectx.ExecutionContext) (field, op string, predVal value.Value, err error) {
	if f, ok := clauseWhereField(ctx); ok {
		field, _ = f, true
		op, _ = clauseWhereOp(ctx)
		predVal, _ = clauseWhereValue(ctx)
		return field, op, predVal, nil
	}
	if len(result.Specifiers) >= 2 {
		return result.Specifiers[0], "is", value.String(result.Specifiers[1]), nil
	}
	return "", "", value.Value{}, runtimectx.InvalidInput("filter requires a where clause or specifier predicate")
}

func filterMatches(fv value.Value, op string, predVal value.Value) (bool, error) {
	switch op {
	case "", "is", "==", "equals":
		if eq, ok := value.EqualAsDouble(fv, predVal); ok {
			return eq, nil
		}
		return fv.Equal(predVal), nil
	case "is-not", "!=":
		if eq, ok := value.EqualAsDouble(fv, predVal); ok {
			return !eq, nil
		}
		return !fv.Equal(predVal), nil
	case ">", ">=", "<", "<=":
		af, aok := fv.AsDouble()
		bf, bok := predVal.AsDouble()
		if !aok || !bok {
			return false, nil
		}
		switch op {
		case ">":
			return af > bf, nil
		case ">=":
			return af >= bf, nil
		case "<":
			return af < bf, nil
		default:
			return af <= bf, nil
		}
	case "contains":
		fs, _ := fv.AsString()
		ps, _ := predVal.AsString()
		return strings.Contains(fs, ps), nil
	case "starts-with":
		fs, _ := fv.AsString()
		ps, _ := predVal.AsString()
		return strings.HasPrefix(fs, ps), nil
	case "ends-with":
		fs, _ := fv.AsString()
		ps, _ := predVal.AsString()
		return strings.HasSuffix(fs, ps), nil
	case "matches":
		fs, _ := fv.AsString()
		ps, _ := predVal.AsString()
		re, err := regexp.Compile(ps)
		if err != nil {
			return false, runtimectx.Wrap(err, "filter: invalid regex "+ps)
		}
		return re.MatchString(fs), nil
	case "in", "not-in":
		found := membership(fv, predVal)
		if op == "in" {
			return found, nil
		}
		return !found, nil
	default:
		return false, runtimectx.InvalidInput("filter: unknown operator " + op)
	}
}

// membership implements Filter's in/not-in set test, accepting both an
// array predicate value and a comma-separated string (§4.D Filter).
func membership(fv value.Value, predVal value.Value) bool {
	if xs, ok := predVal.AsList(); ok {
		for _, x := range xs {
			if fv.Equal(x) {
				return true
			}
		}
		return false
	}
	if s, ok := predVal.AsString(); ok {
		fs, _ := fv.AsString()
		for _, part := range strings.Split(s, ",") {
			if strings.TrimSpace(part) == fs {
				return true
			}
		}
	}
	return false
}
