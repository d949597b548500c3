package actions

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// computeOps are the named operations Compute dispatches to when named
// explicitly by a result specifier or by result.Base (§4.D Compute).
var computeOps = map[string]bool{
	"hash": true, "length": true, "count": true, "uppercase": true,
	"lowercase": true, "identity": true, "date": true, "format": true,
	"distance": true, "intersect": true, "difference": true, "union": true,
}

// ComputeAction implements the own-family Compute contract (§4.D).
type ComputeAction struct{}

func (a *ComputeAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *ComputeAction) Verbs() []string      { return []string{"compute"} }
func (a *ComputeAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From, ast.With}
}

func (a *ComputeAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "compute", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	op, _ := resolveOperationName(result, computeOps)

	if op == "intersect" || op == "difference" || op == "union" {
		return a.computeSetOp(op, object, ctx)
	}

	if dateOffsetPattern.MatchString(op) {
		return a.computeDateOffset(op, object, ctx)
	}

	src, hasSrc := computeSource(object, ctx)

	switch op {
	case "hash":
		if !hasSrc {
			return value.Value{}, registry.Fresh, runtimectx.InvalidInput("compute hash requires a source value")
		}
		s, _ := src.AsString()
		sum := sha256.Sum256([]byte(s))
		return value.String(hex.EncodeToString(sum[:])), registry.Fresh, nil

	case "length", "count":
		if !hasSrc {
			return value.Value{}, registry.Fresh, runtimectx.InvalidInput("compute " + op + " requires a source value")
		}
		n := src.Len()
		if n < 0 {
			return src, registry.Fresh, nil // documented identity on scalars, §4.D / §8
		}
		return value.Int(int64(n)), registry.Fresh, nil

	case "uppercase":
		s, _ := src.AsString()
		return value.String(strings.ToUpper(s)), registry.Fresh, nil

	case "lowercase":
		s, _ := src.AsString()
		return value.String(strings.ToLower(s)), registry.Fresh, nil

	case "date":
		s, _ := src.AsString()
		t, err := parseDate(s)
		if err != nil {
			return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "compute date: "+s)
		}
		return value.DateValue(t), registry.Fresh, nil

	case "format":
		return a.computeFormat(src, ctx)

	case "distance":
		return a.computeDistance(object, ctx)

	default: // "identity" and the unnamed fall-through (e.g. arithmetic <a+b>)
		return a.computeIdentity(src, hasSrc, ctx)
	}
}

// computeSource resolves Compute's input value in priority order:
// _expression_ (a binary expression's [left, right, op] list included),
// _with_, _literal_, resolve(object.Base).
func computeSource(object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, bool) {
	if e, ok := clauseExpression(ctx); ok {
		return e, true
	}
	if w, ok := clauseWith(ctx); ok {
		return w, true
	}
	if l, ok := clauseLiteral(ctx); ok {
		return l, true
	}
	if v, ok := ctx.Resolve(object.Base); ok {
		return v, true
	}
	return value.Value{}, false
}

// computeIdentity handles Compute's documented identity passthrough, and
// the implicit arithmetic dispatch for a `<a+b>`-shaped binary
// expression (exec's clause binder stores that on _expression_ as the
// [left, right, op] list binaryOperands reads; see exec/clause.go).
func (a *ComputeAction) computeIdentity(src value.Value, hasSrc bool, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if lhs, rhs, op, ok := binaryOperands(ctx); ok {
		result, err := arithmetic(lhs, rhs, op)
		if err != nil {
			return value.Value{}, registry.Fresh, err
		}
		return result, registry.Fresh, nil
	}
	if !hasSrc {
		return value.Null(), registry.Fresh, nil
	}
	return src, registry.Fresh, nil
}

// binaryOperands reads the resolved left/right operands and arithmetic
// operator for a `<a OP b>` clause, which exec's clause binder resolves
// against the context and stores as a 3-element list on _expression_:
// [left, right, String(op)].
func binaryOperands(ctx *runtimectx.ExecutionContext) (value.Value, value.Value, string, bool) {
	e, ok := clauseExpression(ctx)
	if !ok {
		return value.Value{}, value.Value{}, "", false
	}
	items, ok := e.AsList()
	if !ok || len(items) != 3 {
		return value.Value{}, value.Value{}, "", false
	}
	op, ok := items[2].AsString()
	if !ok {
		return value.Value{}, value.Value{}, "", false
	}
	return items[0], items[1], op, true
}

func arithmetic(lhs, rhs value.Value, op string) (value.Value, error) {
	lf, lok := lhs.AsDouble()
	rf, rok := rhs.AsDouble()
	if lok && rok {
		var out float64
		switch op {
		case "+":
			out = lf + rf
		case "-":
			out = lf - rf
		case "*":
			out = lf * rf
		case "/":
			if rf == 0 {
				return value.Value{}, runtimectx.RuntimeError("compute: division by zero")
			}
			out = lf / rf
		default:
			return value.Value{}, runtimectx.InvalidInput("compute: unknown arithmetic operator " + op)
		}
		if lhs.Kind() == value.KindInteger && rhs.Kind() == value.KindInteger && op != "/" {
			return value.Int(int64(out)), nil
		}
		return value.Float(out), nil
	}
	if op == "+" {
		ls, _ := lhs.AsString()
		rs, _ := rhs.AsString()
		return value.String(ls + rs), nil
	}
	return value.Value{}, runtimectx.TypeMismatch("number", lhs.Kind().String(), "")
}

func (a *ComputeAction) computeFormat(src value.Value, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	t, ok := src.DateRaw()
	if !ok {
		s, _ := src.AsString()
		parsed, err := parseDate(s)
		if err != nil {
			return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "compute format")
		}
		t = parsed
	}
	layout := time.RFC3339
	if w, ok := clauseWith(ctx); ok {
		if s, ok := w.AsString(); ok && s != "" {
			layout = goLayoutFromToken(s)
		}
	}
	return value.String(t.Format(layout)), registry.Fresh, nil
}

// goLayoutFromToken maps a small set of common pattern tokens to Go's
// reference-time layout; anything unrecognized is passed through
// verbatim on the assumption it is already a Go layout string.
func goLayoutFromToken(token string) string {
	switch token {
	case "date", "YYYY-MM-DD":
		return "2006-01-02"
	case "datetime", "YYYY-MM-DD HH:mm:ss":
		return "2006-01-02 15:04:05"
	case "iso8601", "ISO8601":
		return time.RFC3339
	default:
		return token
	}
}

func parseDate(s string) (time.Time, error) {
	layouts := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02", "2006-01-02 15:04:05"}
	var lastErr error
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

func (a *ComputeAction) computeDistance(object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	from, ok := ctx.Resolve(object.Base)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(object.Base)
	}
	w, ok := clauseWith(ctx)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.MissingRequiredField("with")
	}
	fm, ok1 := from.AsDict()
	tm, ok2 := w.AsDict()
	if !ok1 || !ok2 {
		return value.Value{}, registry.Fresh, runtimectx.TypeMismatch("map with lat/lng", from.Kind().String(), object.Base)
	}
	flat, _ := fm["lat"].AsDouble()
	flng, _ := fm["lng"].AsDouble()
	tlat, _ := tm["lat"].AsDouble()
	tlng, _ := tm["lng"].AsDouble()
	meters := haversineMeters(flat, flng, tlat, tlng)
	return value.DistanceValue(value.Distance{Meters: meters, Unit: "m"}), registry.Fresh, nil
}

func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusM = 6371000.0
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

func (a *ComputeAction) computeDateOffset(op string, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	src, ok := ctx.Resolve(object.Base)
	if !ok {
		if e, ok2 := clauseExpression(ctx); ok2 {
			src = e
		} else {
			return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(object.Base)
		}
	}
	base, ok := src.DateRaw()
	if !ok {
		s, _ := src.AsString()
		parsed, err := parseDate(s)
		if err != nil {
			return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "compute date-offset")
		}
		base = parsed
	}

	m := dateOffsetPattern.FindStringSubmatch(op)
	n, _ := strconv.Atoi(m[1])
	unit := m[2]

	var out time.Time
	switch unit {
	case "d":
		out = base.AddDate(0, 0, n)
	case "h":
		out = base.Add(time.Duration(n) * time.Hour)
	case "m":
		out = base.Add(time.Duration(n) * time.Minute)
	case "s":
		out = base.Add(time.Duration(n) * time.Second)
	case "y":
		out = base.AddDate(n, 0, 0)
	case "M":
		out = base.AddDate(0, n, 0)
	}
	return value.DateValue(out), registry.Fresh, nil
}

// computeSetOp implements the multiset intersect/difference/union laws
// §8 pins: intersect keeps min-count per distinct element, difference is
// A-minus-B preserving A's order, union dedups by deep key with A
// winning conflicts for maps.
func (a *ComputeAction) computeSetOp(op string, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	left, ok := ctx.Resolve(object.Base)
	if !ok {
		if e, ok2 := clauseExpression(ctx); ok2 {
			left = e
		} else {
			return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(object.Base)
		}
	}
	right, ok := clauseWith(ctx)
	if !ok {
		if e, ok2 := clauseExpression(ctx); ok2 {
			right = e
		} else {
			return value.Value{}, registry.Fresh, runtimectx.MissingRequiredField("with")
		}
	}

	if left.Kind() == value.KindString && right.Kind() == value.KindString {
		ls, _ := left.AsString()
		rs, _ := right.AsString()
		return value.String(stringSetOp(op, ls, rs)), registry.Fresh, nil
	}
	if left.Kind() == value.KindMap && right.Kind() == value.KindMap && op == "union" {
		lm, _ := left.AsDict()
		rm, _ := right.AsDict()
		out := make(map[string]value.Value, len(lm)+len(rm))
		for k, v := range rm {
			out[k] = v
		}
		if err := mergo.Merge(&out, lm, mergo.WithOverride()); err != nil { // A wins on key conflict
			for k, v := range lm {
				out[k] = v
			}
		}
		return value.Map(out), registry.Fresh, nil
	}

	lxs, _ := left.AsList()
	rxs, _ := right.AsList()
	return value.List(listSetOp(op, lxs, rxs)), registry.Fresh, nil
}

func listSetOp(op string, a, b []value.Value) []value.Value {
	countB := make(map[uint64]int, len(b))
	for _, v := range b {
		countB[v.DeepKey()]++
	}
	switch op {
	case "intersect":
		used := make(map[uint64]int, len(countB))
		var out []value.Value
		for _, v := range a {
			k := v.DeepKey()
			if used[k] < countB[k] {
				out = append(out, v)
				used[k]++
			}
		}
		return out
	case "difference":
		remaining := make(map[uint64]int, len(countB))
		for k, c := range countB {
			remaining[k] = c
		}
		var out []value.Value
		for _, v := range a {
			k := v.DeepKey()
			if remaining[k] > 0 {
				remaining[k]--
				continue
			}
			out = append(out, v)
		}
		return out
	case "union":
		seen := make(map[uint64]bool, len(a)+len(b))
		out := make([]value.Value, 0, len(a)+len(b))
		for _, v := range a {
			k := v.DeepKey()
			if !seen[k] {
				seen[k] = true
				out = append(out, v)
			}
		}
		for _, v := range b {
			k := v.DeepKey()
			if !seen[k] {
				seen[k] = true
				out = append(out, v)
			}
		}
		return out
	}
	return nil
}

func stringSetOp(op, a, b string) string {
	switch op {
	case "intersect":
		countB := make(map[rune]int)
		for _, r := range b {
			countB[r]++
		}
		var out []rune
		used := make(map[rune]int)
		for _, r := range a {
			if used[r] < countB[r] {
				out = append(out, r)
				used[r]++
			}
		}
		return string(out)
	case "difference":
		remaining := make(map[rune]int)
		for _, r := range b {
			remaining[r]++
		}
		var out []rune
		for _, r := range a {
			if remaining[r] > 0 {
				remaining[r]--
				continue
			}
			out = append(out, r)
		}
		return string(out)
	case "union":
		seen := make(map[rune]bool)
		var out []rune
		for _, r := range a + b {
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
		return string(out)
	}
	return ""
}
