package actions

import (
	"time"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/internal/idgen"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// CreateAction implements the own-family Create contract (§4.D):
// constructs date-range/recurrence opaque values, auto-populates a
// missing "id" field on typed results, and otherwise passes a resolved
// source value through.
type CreateAction struct{}

func (a *CreateAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *CreateAction) Verbs() []string      { return []string{"create"} }
func (a *CreateAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From, ast.With}
}

func (a *CreateAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "create", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	switch result.Specifier(0) {
	case "date-range":
		return a.createDateRange(ctx)
	case "recurrence":
		return a.createRecurrence(ctx)
	}

	var src value.Value
	hasSrc := false
	if e, ok := clauseExpression(ctx); ok {
		src, hasSrc = e, true
	} else if l, ok := clauseLiteral(ctx); ok {
		src, hasSrc = l, true
	} else if v, ok := ctx.Resolve(object.Base); ok {
		src, hasSrc = v, true
	}

	if !hasSrc {
		return value.String(""), registry.Fresh, nil
	}

	if result.TypeAnnotation != "" {
		if m, ok := src.AsDict(); ok {
			if _, has := m["id"]; !has {
				m["id"] = value.String(idgen.CreateID())
				return value.Map(m), registry.Fresh, nil
			}
		}
	}
	return src, registry.Fresh, nil
}

func (a *CreateAction) createDateRange(ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	fromV, hasFrom := clauseFrom(ctx)
	toV, hasTo := clauseTo(ctx)
	if !hasFrom || !hasTo {
		return value.Value{}, registry.Fresh, runtimectx.MissingRequiredField("from/to")
	}
	start, err := resolveDateTime(fromV)
	if err != nil {
		return value.Value{}, registry.Fresh, err
	}
	end, err := resolveDateTime(toV)
	if err != nil {
		return value.Value{}, registry.Fresh, err
	}
	return value.DateRangeValue(value.DateRange{Start: start, End: end}), registry.Fresh, nil
}

func (a *CreateAction) createRecurrence(ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	e, ok := clauseExpression(ctx)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.MissingRequiredField("expression")
	}
	m, ok := e.AsDict()
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.TypeMismatch("map", e.Kind().String(), "_expression_")
	}
	pattern, _ := m["pattern"].AsString()
	count, _ := m["count"].AsInt()
	start := time.Now()
	if sv, ok := m["start"]; ok {
		if t, ok := sv.DateRaw(); ok {
			start = t
		} else if s, ok := sv.AsString(); ok {
			if t, err := parseDate(s); err == nil {
				start = t
			}
		}
	}
	return value.RecurrenceValue(value.Recurrence{Pattern: pattern, Start: start, Count: int(count)}), registry.Fresh, nil
}

func resolveDateTime(v value.Value) (time.Time, error) {
	if t, ok := v.DateRaw(); ok {
		return t, nil
	}
	s, _ := v.AsString()
	t, err := parseDate(s)
	if err != nil {
		return time.Time{}, runtimectx.Wrap(err, "create: invalid date "+s)
	}
	return t, nil
}
