package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualStrictNumericTyping(t *testing.T) {
	assert.False(t, Int(3).Equal(Float(3.0)), "Int(3) and Float(3.0) must be unequal under strict Equal")

	eq, ok := EqualAsDouble(Int(3), Float(3.0))
	require.True(t, ok)
	assert.True(t, eq, "Int(3) and Float(3.0) must compare equal when both widened to double")
}

func TestAsIntNarrowingRejectsFraction(t *testing.T) {
	_, ok := Float(3.5).AsInt()
	assert.False(t, ok)

	i, ok := Float(3.0).AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(3), i)
}

func TestAsDoubleWideningAlwaysSucceeds(t *testing.T) {
	f, ok := Int(7).AsDouble()
	require.True(t, ok)
	assert.Equal(t, 7.0, f)
}

func TestListCopiesOnConstruction(t *testing.T) {
	src := []Value{Int(1), Int(2)}
	v := List(src)
	src[0] = Int(99)

	list, ok := v.AsList()
	require.True(t, ok)
	got, _ := list[0].AsInt()
	assert.Equal(t, int64(1), got)
}

func TestFromAnyNarrowsWholeFloats(t *testing.T) {
	v := FromAny(float64(3))
	assert.Equal(t, KindInteger, v.Kind())

	v2 := FromAny(3.5)
	assert.Equal(t, KindFloat, v2.Kind())
}

func TestDeepKeyStableAcrossMapOrdering(t *testing.T) {
	a := Map(map[string]Value{"a": Int(1), "b": Int(2)})
	b := Map(map[string]Value{"b": Int(2), "a": Int(1)})
	assert.Equal(t, a.DeepKey(), b.DeepKey())
}

func TestStringifyCanonicalJSON(t *testing.T) {
	v := Map(map[string]Value{"a": Int(1), "b": String("x")})
	assert.Equal(t, `{"a":1,"b":"x"}`, Stringify(v))
}
