package actions

import (
	"os"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/internal/codec"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// parsedBodyCache avoids re-running codec.ParseStringBody against the same
// string repeatedly when a ForEach loop extracts several fields out of one
// large JSON/form/key-value body across statements. 128 distinct bodies is
// enough headroom for a feature set's working set without holding unbounded
// strings live.
var parsedBodyCache, _ = lru.New[string, value.Value](128)

func parseStringBody(s string) value.Value {
	if v, ok := parsedBodyCache.Get(s); ok {
		return v
	}
	v := codec.ParseStringBody(s)
	parsedBodyCache.Add(s, v)
	return v
}

// dateProperties are the date-family result specifiers Extract
// recognizes when the resolved node is a Date/DateRange/Recurrence
// (§4.D Extract).
var dateProperties = map[string]bool{
	"year": true, "month": true, "day": true, "hour": true, "minute": true,
	"second": true, "weekday": true, "timezone": true, "days": true,
	"start": true, "end": true, "pattern": true, "next": true, "all": true,
	"years": true, "months": true, "hours": true, "minutes": true, "seconds": true,
}

// ExtractAction implements the source-read Extract contract (§4.D).
type ExtractAction struct{}

func (a *ExtractAction) Role() ast.ActionRole { return ast.RoleRequest }
func (a *ExtractAction) Verbs() []string      { return []string{"extract"} }
func (a *ExtractAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From, ast.Via}
}

func (a *ExtractAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "extract", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	if object.Base == "env" {
		if len(object.Specifiers) > 0 && object.Specifiers[0] != "" {
			name := object.Specifiers[0]
			v, ok := os.LookupEnv(name)
			if !ok {
				return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable("env:" + name)
			}
			return value.String(v), registry.Fresh, nil
		}
		return value.Value{}, registry.Fresh, runtimectx.InvalidInput("extract from env requires a NAME specifier")
	}

	if object.Base == "parameter" {
		params, ok := runtimectx.Service[ParameterStorage](ctx)
		if !ok {
			return value.Value{}, registry.Fresh, runtimectx.MissingService("ParameterStorage")
		}
		if len(object.Specifiers) > 0 && object.Specifiers[0] != "" {
			v, ok := params.Get(object.Specifiers[0])
			if !ok {
				return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable("parameter:" + object.Specifiers[0])
			}
			return v, registry.Fresh, nil
		}
		all := params.GetAll()
		m := make(map[string]value.Value, len(all))
		for k, v := range all {
			m[k] = v
		}
		return value.Map(m), registry.Fresh, nil
	}

	node, ok := ctx.Resolve(object.Base)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(object.Base)
	}

	for _, spec := range object.Specifiers {
		next, err := walkOne(node, spec, object.Base)
		if err != nil {
			return value.Value{}, registry.Fresh, err
		}
		node = next
	}

	out, err := applyResultSpecifiers(node, result, ctx)
	if err != nil {
		return value.Value{}, registry.Fresh, err
	}
	return out, registry.Fresh, nil
}

// walkOne descends one specifier into node: dict lookup by key, array
// reverse-index, or string re-parsing (JSON/form/key-value/command-value)
// when node is a string (§4.D Extract).
func walkOne(node value.Value, spec string, on string) (value.Value, error) {
	switch node.Kind() {
	case value.KindMap:
		m, _ := node.AsDict()
		v, ok := m[spec]
		if !ok {
			return value.Value{}, runtimectx.PropertyNotFound(spec, on)
		}
		return v, nil
	case value.KindList:
		xs, _ := node.AsList()
		v, ok := reverseIndex(xs, spec)
		if !ok {
			return value.Value{}, runtimectx.PropertyNotFound(spec, on)
		}
		return v, nil
	case value.KindString:
		s, _ := node.AsString()
		parsed := parseStringBody(s)
		return walkOne(parsed, spec, on)
	case value.KindDate, value.KindDateRange, value.KindRecurrence:
		if dateProperties[spec] {
			return dateProperty(node, spec)
		}
		return value.Value{}, runtimectx.PropertyNotFound(spec, on)
	default:
		return value.Value{}, runtimectx.PropertyNotFound(spec, on)
	}
}

// applyResultSpecifiers handles result.Specifiers: a schema-name
// qualifier, list-access specifiers, or date property names (§4.D
// Extract).
func applyResultSpecifiers(node value.Value, result ast.ResultDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, error) {
	for _, spec := range result.Specifiers {
		if isPascalCase(spec) && !dateProperties[spec] {
			if ctx.SchemaRegistryRef != nil && ctx.SchemaRegistryRef.Has(spec) {
				if err := ctx.SchemaRegistryRef.Validate(spec, node); err != nil {
					return value.Value{}, runtimectx.Wrap(err, "extract: schema validation failed for "+spec)
				}
				continue
			}
		}
		if node.Kind() == value.KindList {
			xs, _ := node.AsList()
			if v, ok := reverseIndex(xs, spec); ok {
				node = v
				continue
			}
		}
		if dateProperties[spec] {
			v, err := dateProperty(node, spec)
			if err != nil {
				return value.Value{}, err
			}
			node = v
			continue
		}
	}
	return node, nil
}

// dateProperty projects a single named field off a Date/DateRange/
// Recurrence opaque value (§4.D Extract date properties).
func dateProperty(node value.Value, prop string) (value.Value, error) {
	switch node.Kind() {
	case value.KindDate:
		t, _ := node.DateRaw()
		switch prop {
		case "year":
			return value.Int(int64(t.Year())), nil
		case "month":
			return value.Int(int64(t.Month())), nil
		case "day":
			return value.Int(int64(t.Day())), nil
		case "hour":
			return value.Int(int64(t.Hour())), nil
		case "minute":
			return value.Int(int64(t.Minute())), nil
		case "second":
			return value.Int(int64(t.Second())), nil
		case "weekday":
			return value.String(t.Weekday().String()), nil
		case "timezone":
			name, _ := t.Zone()
			return value.String(name), nil
		}
	case value.KindDateRange:
		dr, _ := node.DateRangeValue()
		switch prop {
		case "start":
			return value.DateValue(dr.Start), nil
		case "end":
			return value.DateValue(dr.End), nil
		case "days":
			return value.Int(int64(dr.End.Sub(dr.Start).Hours() / 24)), nil
		}
	case value.KindRecurrence:
		r, _ := node.RecurrenceRaw()
		switch prop {
		case "pattern":
			return value.String(r.Pattern), nil
		case "next":
			return value.DateValue(r.Start), nil
		case "all", "years", "months", "hours", "minutes", "seconds":
			return value.List(nil), nil
		}
	}
	return value.Value{}, runtimectx.PropertyNotFound(prop, node.Kind().String())
}
