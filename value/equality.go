package value

// Equal implements structural deep equality with numeric strict typing:
// Integer(3) and Float(3.0) are unequal here even though EqualAsDouble
// treats them the same. This is the equality Binding comparisons and
// the repository's entity-id matching use.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == other.str
	case KindInteger:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindBoolean:
		return v.b == other.b
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(other.m) {
			return false
		}
		for k, val := range v.m {
			ov, ok := other.m[k]
			if !ok || !val.Equal(ov) {
				return false
			}
		}
		return true
	case KindDate:
		return v.date.Equal(other.date)
	case KindDateRange:
		return v.dateRange.Start.Equal(other.dateRange.Start) && v.dateRange.End.Equal(other.dateRange.End)
	case KindRecurrence:
		return v.recurrence == other.recurrence
	case KindDistance:
		return v.distance == other.distance
	case KindOpaque:
		return v.opaqueTag == other.opaqueTag && v.opaqueHandle == other.opaqueHandle
	default:
		return false
	}
}

// EqualAsDouble compares two values after widening both to float64,
// succeeding only when both sides support AsDouble. Compare and Filter's
// numeric operators use this instead of Equal so `3 == 3.0` reads true
// there, per the "numeric coercion attempted first" dispatch order
// (§4.D Compare).
func EqualAsDouble(a, b Value) (bool, bool) {
	af, aok := a.AsDouble()
	bf, bok := b.AsDouble()
	if !aok || !bok {
		return false, false
	}
	return af == bf, true
}
