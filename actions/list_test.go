package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/internal/fsx"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

func TestListFiltersEntriesByGlobPattern(t *testing.T) {
	mem := fsx.NewMem()
	require.NoError(t, mem.WriteFile("/data/a.json", []byte(`{}`), 0o644))
	require.NoError(t, mem.WriteFile("/data/b.txt", []byte(`x`), 0o644))

	ctx := runtimectx.New("fs", "biz", nil)
	runtimectx.Register[fsx.FileSystem](ctx, mem)
	require.NoError(t, ctx.Bind("_with_", value.String("*.json"), true, ast.Span{}))

	result, _ := ast.NewResultDescriptor("entries", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("/data", nil, ast.ArticleThe, ast.From, nil, ast.Span{})

	a := &ListAction{}
	out, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)

	xs, ok := out.AsList()
	require.True(t, ok)
	require.Len(t, xs, 1)
	m, _ := xs[0].AsDict()
	name, _ := m["name"].AsString()
	assert.Equal(t, "a.json", name)
}
