package value

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Stringify produces the canonical representation described in §4.A:
// the canonical JSON form for String/Integer/Float/Boolean/List/Map, and
// a human-readable representation for opaque handles and date-family
// values (which have no single canonical JSON shape).
func Stringify(v Value) string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBoolean:
		if v.b {
			return "true"
		}
		return "false"
	case KindInteger:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindString:
		bs, _ := json.Marshal(v.str)
		return string(bs)
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = Stringify(e)
		}
		out := "["
		for i, p := range parts {
			if i > 0 {
				out += ","
			}
			out += p
		}
		return out + "]"
	case KindMap:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := "{"
		for i, k := range keys {
			if i > 0 {
				out += ","
			}
			kb, _ := json.Marshal(k)
			out += string(kb) + ":" + Stringify(v.m[k])
		}
		return out + "}"
	case KindDate:
		return v.date.Format("2006-01-02T15:04:05Z07:00")
	case KindDateRange:
		return fmt.Sprintf("%s..%s", v.dateRange.Start.Format("2006-01-02"), v.dateRange.End.Format("2006-01-02"))
	case KindRecurrence:
		return fmt.Sprintf("recurrence(%s x%d)", v.recurrence.Pattern, v.recurrence.Count)
	case KindDistance:
		return fmt.Sprintf("%g%s", v.distance.Meters, v.distance.Unit)
	case KindOpaque:
		return fmt.Sprintf("<%s>", v.opaqueTag)
	default:
		return ""
	}
}

// MarshalJSON lets Value participate directly in encoding/json-based
// codecs (internal/codec) and in Response.Data serialization (§6).
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBoolean:
		return json.Marshal(v.b)
	case KindInteger:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f)
	case KindString:
		return json.Marshal(v.str)
	case KindList:
		return json.Marshal(v.list)
	case KindMap:
		return json.Marshal(v.m)
	case KindDate:
		return json.Marshal(v.date)
	default:
		return json.Marshal(Stringify(v))
	}
}
