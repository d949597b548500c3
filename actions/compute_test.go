package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

func TestComputeUnionMergesMapsWithLeftWinningConflicts(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	require.NoError(t, ctx.Bind("base", value.Map(map[string]value.Value{
		"name":  value.String("left"),
		"color": value.String("red"),
	}), false, ast.Span{}))
	require.NoError(t, ctx.Bind("_with_", value.Map(map[string]value.Value{
		"name": value.String("right"),
		"size": value.Int(3),
	}), true, ast.Span{}))

	result, _ := ast.NewResultDescriptor("merged", []string{"union"}, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("base", nil, ast.ArticleThe, ast.With, nil, ast.Span{})

	a := &ComputeAction{}
	out, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)

	m, ok := out.AsDict()
	require.True(t, ok)
	name, _ := m["name"].AsString()
	assert.Equal(t, "left", name, "base (A) wins on key conflict")
	color, _ := m["color"].AsString()
	assert.Equal(t, "red", color)
	size, _ := m["size"].AsInt()
	assert.Equal(t, int64(3), size)
}

func TestComputeHashProducesHexDigest(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	require.NoError(t, ctx.Bind("secret", value.String("payload"), false, ast.Span{}))

	result, _ := ast.NewResultDescriptor("digest", []string{"hash"}, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("secret", nil, ast.ArticleThe, ast.From, nil, ast.Span{})

	a := &ComputeAction{}
	out, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)

	s, _ := out.AsString()
	assert.Len(t, s, 64)
}
