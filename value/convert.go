package value

import (
	"math"

	"github.com/spf13/cast"
)

// AsString returns v's string representation when the conversion is
// total and well-defined (§4.A: "coercions are explicit and total").
// Scalars stringify directly; composites fall back to their canonical
// JSON form rather than failing.
func (v Value) AsString() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindInteger, KindFloat, KindBoolean:
		return Stringify(v), true
	case KindNull:
		return "", true
	default:
		return Stringify(v), true
	}
}

// AsInt converts v to an integer. Float→Integer narrowing only succeeds
// when the float carries no fractional part; widening from Integer→Float
// is explicit, so this never silently truncates.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInteger:
		return v.i, true
	case KindFloat:
		if math.Trunc(v.f) == v.f && !math.IsInf(v.f, 0) {
			return int64(v.f), true
		}
		return 0, false
	case KindString:
		i, err := cast.ToInt64E(v.str)
		return i, err == nil
	case KindBoolean:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// AsDouble converts v to a float64. Integer→Float widening is always
// allowed (§4.A).
func (v Value) AsDouble() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInteger:
		return float64(v.i), true
	case KindString:
		f, err := cast.ToFloat64E(v.str)
		return f, err == nil
	case KindBoolean:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// AsBool converts v to a boolean. Numeric zero/non-zero and the strings
// "true"/"false" (case-insensitive, via cast) both coerce; everything
// else fails rather than guessing a truthiness rule for composites.
func (v Value) AsBool() (bool, bool) {
	switch v.kind {
	case KindBoolean:
		return v.b, true
	case KindInteger:
		return v.i != 0, true
	case KindFloat:
		return v.f != 0, true
	case KindString:
		b, err := cast.ToBoolE(v.str)
		return b, err == nil
	default:
		return false, false
	}
}

// AsList returns a copy of the element slice for KindList; any other
// kind, scalars included, reports false.
func (v Value) AsList() ([]Value, bool) {
	switch v.kind {
	case KindList:
		cp := make([]Value, len(v.list))
		copy(cp, v.list)
		return cp, true
	default:
		return nil, false
	}
}

// AsDict returns the backing map for KindMap.
func (v Value) AsDict() (map[string]Value, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	cp := make(map[string]Value, len(v.m))
	for k, val := range v.m {
		cp[k] = val
	}
	return cp, true
}

// FromAny lifts a Go-native value (as produced by encoding/json,
// gopkg.in/yaml.v3, pelletier/go-toml/v2, or spf13/afero-read bytes
// already unmarshaled) into a Value. Numbers decoded from JSON arrive as
// float64 by default; FromAny narrows them to KindInteger when they carry
// no fractional part so downstream equality (Int 3 != Float 3.0) still
// behaves predictably for data read off the wire.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case int32:
		return Int(int64(t))
	case float32:
		return fromFloat(float64(t))
	case float64:
		return fromFloat(t)
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			items[i] = FromAny(e)
		}
		return List(items)
	case []Value:
		return List(t)
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			m[k] = FromAny(e)
		}
		return Map(m)
	case map[any]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			ks, _ := cast.ToStringE(k)
			m[ks] = FromAny(e)
		}
		return Map(m)
	default:
		s, err := cast.ToStringE(t)
		if err != nil {
			return Null()
		}
		return String(s)
	}
}

func fromFloat(f float64) Value {
	if math.Trunc(f) == f && math.Abs(f) < 1e15 {
		return Int(int64(f))
	}
	return Float(f)
}
