package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

func TestExtractFromEnvReadsNamedVariable(t *testing.T) {
	t.Setenv("ARO_TEST_VAR", "hello")
	ctx := runtimectx.New("fs", "biz", nil)

	result, _ := ast.NewResultDescriptor("value", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("env", []string{"ARO_TEST_VAR"}, ast.ArticleThe, ast.From, nil, ast.Span{})

	a := &ExtractAction{}
	out, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)

	s, _ := out.AsString()
	assert.Equal(t, "hello", s)
}

func TestExtractFromEnvUndefinedVariableErrors(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	result, _ := ast.NewResultDescriptor("value", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("env", []string{"ARO_DOES_NOT_EXIST"}, ast.ArticleThe, ast.From, nil, ast.Span{})

	a := &ExtractAction{}
	_, _, err := a.Execute(result, object, ctx)
	require.Error(t, err)
	assert.True(t, runtimectx.Is(err, runtimectx.KindUndefinedVariable))
}

func TestExtractWalksDictKey(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	require.NoError(t, ctx.Bind("order", value.Map(map[string]value.Value{
		"total": value.Int(42),
	}), false, ast.Span{}))

	result, _ := ast.NewResultDescriptor("total", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("order", []string{"total"}, ast.ArticleThe, ast.From, nil, ast.Span{})

	a := &ExtractAction{}
	out, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)

	i, _ := out.AsInt()
	assert.Equal(t, int64(42), i)
}

func TestExtractReparsesStringBodyAndCachesResult(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	body := `{"name":"widget","price":9}`
	require.NoError(t, ctx.Bind("response", value.String(body), false, ast.Span{}))

	result, _ := ast.NewResultDescriptor("name", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("response", []string{"name"}, ast.ArticleThe, ast.From, nil, ast.Span{})

	a := &ExtractAction{}
	out, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, "widget", s)

	// second extraction against the identical body should hit the cache and
	// still resolve the other field correctly.
	result2, _ := ast.NewResultDescriptor("price", nil, ast.ArticleThe, "", ast.Span{})
	object2, _ := ast.NewObjectDescriptor("response", []string{"price"}, ast.ArticleThe, ast.From, nil, ast.Span{})
	out2, _, err := a.Execute(result2, object2, ctx)
	require.NoError(t, err)
	n, _ := out2.AsInt()
	assert.Equal(t, int64(9), n)
}

func TestExtractUnknownPropertyErrors(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	require.NoError(t, ctx.Bind("order", value.Map(map[string]value.Value{
		"total": value.Int(42),
	}), false, ast.Span{}))

	result, _ := ast.NewResultDescriptor("missing", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("order", []string{"missing"}, ast.ArticleThe, ast.From, nil, ast.Span{})

	a := &ExtractAction{}
	_, _, err := a.Execute(result, object, ctx)
	require.Error(t, err)
	assert.True(t, runtimectx.Is(err, runtimectx.KindPropertyNotFound))
}
