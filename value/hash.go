package value

import (
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// DeepKey returns a stable digest of v's structural content, used by
// Compute's multiset operations (intersect/difference/union, §4.D) where
// a cheap comparable key is needed for values that may be composite. Two values with DeepKey equal are not
// guaranteed Equal (hash collision), so callers that need certainty
// still fall back to Equal; in practice this is used purely as a map key
// to group candidates before a final Equal check.
func (v Value) DeepKey() uint64 {
	h := xxhash.New()
	writeDeepKey(h, v)
	return h.Sum64()
}

func writeDeepKey(h *xxhash.Digest, v Value) {
	_, _ = h.Write([]byte{byte(v.kind)})
	switch v.kind {
	case KindString:
		_, _ = h.Write([]byte(v.str))
	case KindInteger:
		_, _ = h.Write([]byte(strconv.FormatInt(v.i, 10)))
	case KindFloat:
		_, _ = h.Write([]byte(strconv.FormatFloat(v.f, 'g', -1, 64)))
	case KindBoolean:
		if v.b {
			_, _ = h.Write([]byte{1})
		} else {
			_, _ = h.Write([]byte{0})
		}
	case KindList:
		for _, e := range v.list {
			writeDeepKey(h, e)
		}
	case KindMap:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = h.Write([]byte(k))
			writeDeepKey(h, v.m[k])
		}
	default:
		_, _ = h.Write([]byte(Stringify(v)))
	}
}
