package actions

import (
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// CompareAction implements the own-family Compare contract (§4.D):
// returns {matches, result ∈ equal|notEqual|less|greater}, preferring
// numeric coercion, then string lexicographic, then boolean equality,
// then a stringified fallback.
type CompareAction struct{}

func (a *CompareAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *CompareAction) Verbs() []string      { return []string{"compare"} }
func (a *CompareAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.To, ast.Against, ast.With}
}

func (a *CompareAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "compare", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	lhs, ok := ctx.Resolve(result.Base)
	if !ok {
		if e, ok2 := clauseExpression(ctx); ok2 {
			lhs = e
		} else {
			return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(result.Base)
		}
	}
	rhs, ok := ctx.Resolve(object.Base)
	if !ok {
		if l, ok2 := clauseLiteral(ctx); ok2 {
			rhs = l
		} else if object.LiteralValue != nil {
			rhs = literalToValue(object.LiteralValue)
		} else {
			return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(object.Base)
		}
	}

	outcome := compareValues(lhs, rhs)
	return value.Map(map[string]value.Value{
		"matches": value.Bool(outcome == "equal"),
		"result":  value.String(outcome),
	}), registry.Fresh, nil
}

// compareValues returns "equal"/"notEqual"/"less"/"greater" following
// §4.D's priority: numeric coercion, then string lexicographic, then
// boolean equality, then stringified fallback.
func compareValues(a, b value.Value) string {
	if af, aok := a.AsDouble(); aok {
		if bf, bok := b.AsDouble(); bok {
			switch {
			case af < bf:
				return "less"
			case af > bf:
				return "greater"
			default:
				return "equal"
			}
		}
	}
	if a.Kind() == value.KindString || b.Kind() == value.KindString {
		as, _ := a.AsString()
		bs, _ := b.AsString()
		switch {
		case as < bs:
			return "less"
		case as > bs:
			return "greater"
		default:
			return "equal"
		}
	}
	if ab, aok := a.AsBool(); aok {
		if bb, bok := b.AsBool(); bok {
			if ab == bb {
				return "equal"
			}
			return "notEqual"
		}
	}
	if a.String() == b.String() {
		return "equal"
	}
	return "notEqual"
}

func literalToValue(l *ast.Literal) value.Value {
	switch {
	case l.String != nil:
		return value.String(*l.String)
	case l.Integer != nil:
		return value.Int(*l.Integer)
	case l.Float != nil:
		return value.Float(*l.Float)
	case l.Boolean != nil:
		return value.Bool(*l.Boolean)
	default:
		return value.Null()
	}
}
