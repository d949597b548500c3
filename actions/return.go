package actions

import (
	"encoding/json"
	"strings"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// ReturnAction implements the response-family Return contract (§4.D):
// captures the terminal status/reason/data triple. Only the first
// Return (or Throw) in an activation wins (§3, §4.B).
type ReturnAction struct{}

func (a *ReturnAction) Role() ast.ActionRole { return ast.RoleResponse }
func (a *ReturnAction) Verbs() []string      { return []string{"return"} }
func (a *ReturnAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.With, ast.To, ast.For}
}

// Execute builds Response{status=result.base, reason=object.base, data}.
// data is the first available of _expression_, _literal_,
// resolve(object.base), or each object specifier; when that leaves data
// empty, the context is probed for the first of a fixed set of common
// names and bound under key "value" (§4.D Return).
func (a *ReturnAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "return", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	status := result.Base
	reason := object.Base

	data := map[string]value.Value{}
	if v, ok := clauseExpression(ctx); ok {
		flattenReturnValue(data, "", v)
	} else if v, ok := clauseLiteral(ctx); ok {
		flattenReturnValue(data, "", v)
	} else if v, ok := ctx.Resolve(object.Base); ok {
		flattenReturnValue(data, "", v)
	} else {
		for _, spec := range object.Specifiers {
			if v, ok := ctx.Resolve(spec); ok {
				data[spec] = v
			}
		}
	}

	if len(data) == 0 {
		for _, key := range returnDefaultProbeKeys {
			if v, ok := ctx.Resolve(key); ok {
				data["value"] = v
				break
			}
		}
	}

	ctx.SetResponse(runtimectx.Response{Status: status, Reason: reason, Data: data})
	return value.Map(data), registry.Fresh, nil
}

// returnDefaultProbeKeys is the fixed, ordered fallback Return consults
// when none of _expression_/_literal_/object.base/specifiers produced
// any data (§4.D Return).
var returnDefaultProbeKeys = []string{"greeting", "message", "result", "data", "output", "value"}

// flattenReturnValue assembles Return's data map: a map flattens
// recursively under dot-path keys, a list is JSON-stringified under key
// (or "value" at the top level), a string that looks like a JSON object
// is re-parsed and flattened under its own keys, and any other scalar is
// stored under key (or "value" at the top level).
func flattenReturnValue(dst map[string]value.Value, key string, v value.Value) {
	switch v.Kind() {
	case value.KindMap:
		m, _ := v.AsDict()
		for k, sub := range m {
			flattenReturnValue(dst, dotPathJoin(key, k), sub)
		}
	case value.KindList:
		b, err := json.Marshal(v.Raw())
		if err != nil {
			b = []byte("[]")
		}
		dst[firstNonEmpty(key, "value")] = value.String(string(b))
	case value.KindString:
		s, _ := v.AsString()
		if looksLikeJSONObject(s) {
			var m map[string]any
			if err := json.Unmarshal([]byte(s), &m); err == nil {
				for k, raw := range m {
					flattenReturnValue(dst, dotPathJoin(key, k), value.FromAny(raw))
				}
				return
			}
		}
		dst[firstNonEmpty(key, "value")] = v
	default:
		dst[firstNonEmpty(key, "value")] = v
	}
}

func dotPathJoin(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func looksLikeJSONObject(s string) bool {
	t := strings.TrimSpace(s)
	return strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}")
}
