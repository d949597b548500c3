package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

func rawData(t *testing.T, data map[string]value.Value) map[string]any {
	t.Helper()
	out := map[string]any{}
	for k, v := range data {
		out[k] = v.Raw()
	}
	return out
}

func TestReturnAcceptsForPreposition(t *testing.T) {
	ctx := runtimectx.New("add", "test", nil)
	require.NoError(t, ctx.Bind("sum", value.Int(8), false, ast.Span{}))

	result, _ := ast.NewResultDescriptor("OK", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("sum", nil, ast.ArticleThe, ast.For, nil, ast.Span{})

	a := &ReturnAction{}
	_, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)

	resp, ok := ctx.ResponseCaptured()
	require.True(t, ok)
	assert.Equal(t, "OK", resp.Status)
	assert.Equal(t, "sum", resp.Reason)
	assert.Equal(t, map[string]any{"value": int64(8)}, rawData(t, resp.Data))
}

func TestReturnFlattensExpressionMapUnderDotPaths(t *testing.T) {
	ctx := runtimectx.New("fs", "test", nil)
	nested := value.Map(map[string]value.Value{
		"user": value.Map(map[string]value.Value{
			"name": value.String("ada"),
		}),
		"count": value.Int(2),
	})
	require.NoError(t, ctx.Bind("_expression_", nested, true, ast.Span{}))

	result, _ := ast.NewResultDescriptor("OK", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("payload", nil, ast.ArticleThe, ast.With, nil, ast.Span{})

	a := &ReturnAction{}
	_, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)

	resp, _ := ctx.ResponseCaptured()
	assert.Equal(t, map[string]any{"user.name": "ada", "count": int64(2)}, rawData(t, resp.Data))
}

func TestReturnJSONStringifiesExpressionList(t *testing.T) {
	ctx := runtimectx.New("fs", "test", nil)
	require.NoError(t, ctx.Bind("_expression_", value.List([]value.Value{value.Int(1), value.Int(2)}), true, ast.Span{}))

	result, _ := ast.NewResultDescriptor("OK", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("items", nil, ast.ArticleThe, ast.With, nil, ast.Span{})

	a := &ReturnAction{}
	_, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)

	resp, _ := ctx.ResponseCaptured()
	s, ok := resp.Data["value"].AsString()
	require.True(t, ok)
	assert.JSONEq(t, "[1,2]", s)
}

func TestReturnReparsesJSONObjectStringUnderOwnKeys(t *testing.T) {
	ctx := runtimectx.New("fs", "test", nil)
	require.NoError(t, ctx.Bind("_literal_", value.String(`{"a":1,"b":"two"}`), true, ast.Span{}))

	result, _ := ast.NewResultDescriptor("OK", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("payload", nil, ast.ArticleThe, ast.With, nil, ast.Span{})

	a := &ReturnAction{}
	_, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)

	resp, _ := ctx.ResponseCaptured()
	assert.Equal(t, map[string]any{"a": float64(1), "b": "two"}, rawData(t, resp.Data))
}

func TestReturnFallsBackToObjectBaseResolution(t *testing.T) {
	ctx := runtimectx.New("fs", "test", nil)
	require.NoError(t, ctx.Bind("greeting", value.String("hello"), false, ast.Span{}))

	result, _ := ast.NewResultDescriptor("OK", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("greeting", nil, ast.ArticleThe, ast.With, nil, ast.Span{})

	a := &ReturnAction{}
	_, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)

	resp, _ := ctx.ResponseCaptured()
	assert.Equal(t, map[string]any{"value": "hello"}, rawData(t, resp.Data))
}

func TestReturnFallsBackToObjectSpecifiers(t *testing.T) {
	ctx := runtimectx.New("fs", "test", nil)
	require.NoError(t, ctx.Bind("name", value.String("ada"), false, ast.Span{}))
	require.NoError(t, ctx.Bind("age", value.Int(30), false, ast.Span{}))

	result, _ := ast.NewResultDescriptor("OK", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("profile", []string{"name", "age"}, ast.ArticleThe, ast.With, nil, ast.Span{})

	a := &ReturnAction{}
	_, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)

	resp, _ := ctx.ResponseCaptured()
	assert.Equal(t, map[string]any{"name": "ada", "age": int64(30)}, rawData(t, resp.Data))
}

func TestReturnProbesDefaultKeysWhenDataEmpty(t *testing.T) {
	ctx := runtimectx.New("fs", "test", nil)
	require.NoError(t, ctx.Bind("message", value.String("hi there"), false, ast.Span{}))

	result, _ := ast.NewResultDescriptor("OK", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("unbound", []string{"also_unbound"}, ast.ArticleThe, ast.With, nil, ast.Span{})

	a := &ReturnAction{}
	_, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)

	resp, _ := ctx.ResponseCaptured()
	assert.Equal(t, map[string]any{"value": "hi there"}, rawData(t, resp.Data))
}

func TestReturnOnlyFirstResponseWins(t *testing.T) {
	ctx := runtimectx.New("fs", "test", nil)
	require.NoError(t, ctx.Bind("first", value.String("one"), false, ast.Span{}))
	require.NoError(t, ctx.Bind("second", value.String("two"), false, ast.Span{}))

	result1, _ := ast.NewResultDescriptor("OK", nil, ast.ArticleThe, "", ast.Span{})
	object1, _ := ast.NewObjectDescriptor("first", nil, ast.ArticleThe, ast.With, nil, ast.Span{})
	a := &ReturnAction{}
	_, _, err := a.Execute(result1, object1, ctx)
	require.NoError(t, err)

	result2, _ := ast.NewResultDescriptor("ERROR", nil, ast.ArticleThe, "", ast.Span{})
	object2, _ := ast.NewObjectDescriptor("second", nil, ast.ArticleThe, ast.With, nil, ast.Span{})
	_, _, err = a.Execute(result2, object2, ctx)
	require.NoError(t, err)

	resp, ok := ctx.ResponseCaptured()
	require.True(t, ok)
	assert.Equal(t, "OK", resp.Status)
}
