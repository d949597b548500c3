package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arolang/aro-sub008/value"
)

func TestMergeOrReplaceDictSecondWins(t *testing.T) {
	target := value.Map(map[string]value.Value{
		"name":  value.String("ada"),
		"count": value.Int(1),
	})
	src := value.Map(map[string]value.Value{
		"count": value.Int(2),
		"extra": value.Bool(true),
	})

	out := mergeOrReplace(target, src)
	m, ok := out.AsDict()
	assert.True(t, ok)

	name, _ := m["name"].AsString()
	assert.Equal(t, "ada", name)

	count, _ := m["count"].AsInt()
	assert.Equal(t, int64(2), count, "src value must override target on shared keys")

	extra, _ := m["extra"].AsBool()
	assert.True(t, extra)
}

func TestMergeOrReplaceListConcat(t *testing.T) {
	target := value.List([]value.Value{value.Int(1), value.Int(2)})
	src := value.List([]value.Value{value.Int(3)})

	out := mergeOrReplace(target, src)
	xs, ok := out.AsList()
	assert.True(t, ok)
	assert.Len(t, xs, 3)
}

func TestMergeOrReplaceStringConcat(t *testing.T) {
	out := mergeOrReplace(value.String("foo"), value.String("bar"))
	s, ok := out.AsString()
	assert.True(t, ok)
	assert.Equal(t, "foobar", s)
}
