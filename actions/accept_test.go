package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

func orderValue(status string) value.Value {
	return value.Map(map[string]value.Value{
		"id":     value.String("o1"),
		"status": value.String(status),
	})
}

func TestAcceptTransitionsStateAndRebinds(t *testing.T) {
	ctx := runtimectx.New("orders", "test", nil)
	require.NoError(t, ctx.Bind("order", orderValue("draft"), false, ast.Span{}))

	result, _ := ast.NewResultDescriptor("transition", []string{"draft_to_placed"}, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("order", []string{"status"}, ast.ArticleThe, ast.On, nil, ast.Span{})

	a := &AcceptAction{}
	out, policy, err := a.Execute(result, object, ctx)
	require.NoError(t, err)
	assert.Equal(t, registry.Rebound, policy)

	m, ok := out.AsDict()
	require.True(t, ok)
	status, _ := m["status"].AsString()
	assert.Equal(t, "placed", status)

	bound, ok := ctx.Resolve("order")
	require.True(t, ok)
	bm, _ := bound.AsDict()
	bs, _ := bm["status"].AsString()
	assert.Equal(t, "placed", bs)
}

func TestAcceptFailsWhenCurrentStateDoesNotMatch(t *testing.T) {
	ctx := runtimectx.New("orders", "test", nil)
	require.NoError(t, ctx.Bind("order", orderValue("placed"), false, ast.Span{}))

	result, _ := ast.NewResultDescriptor("transition", []string{"draft_to_placed"}, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("order", []string{"status"}, ast.ArticleThe, ast.On, nil, ast.Span{})

	a := &AcceptAction{}
	_, _, err := a.Execute(result, object, ctx)
	require.Error(t, err)
	assert.True(t, runtimectx.Is(err, runtimectx.KindAcceptState))
	assert.Contains(t, err.Error(), `Cannot accept state draft->placed on order: status. Current state is "placed".`)
}

func TestAcceptDefaultsFieldToStatus(t *testing.T) {
	ctx := runtimectx.New("orders", "test", nil)
	require.NoError(t, ctx.Bind("order", orderValue("draft"), false, ast.Span{}))

	result, _ := ast.NewResultDescriptor("transition", []string{"draft_to_placed"}, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("order", nil, ast.ArticleThe, ast.On, nil, ast.Span{})

	a := &AcceptAction{}
	out, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)
	m, _ := out.AsDict()
	status, _ := m["status"].AsString()
	assert.Equal(t, "placed", status)
}

func TestAcceptRejectsUnrecognizedPreposition(t *testing.T) {
	ctx := runtimectx.New("orders", "test", nil)
	require.NoError(t, ctx.Bind("order", orderValue("draft"), false, ast.Span{}))

	result, _ := ast.NewResultDescriptor("transition", []string{"draft_to_placed"}, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("order", []string{"status"}, ast.ArticleThe, ast.With, nil, ast.Span{})

	a := &AcceptAction{}
	_, _, err := a.Execute(result, object, ctx)
	require.Error(t, err)
	assert.True(t, runtimectx.Is(err, runtimectx.KindInvalidPreposition))
}

func TestParseAcceptSpecFromTwoSpecifiers(t *testing.T) {
	result, _ := ast.NewResultDescriptor("transition", []string{"draft", "placed"}, ast.ArticleThe, "", ast.Span{})
	from, to, ok := parseAcceptSpec(result)
	require.True(t, ok)
	assert.Equal(t, "draft", from)
	assert.Equal(t, "placed", to)
}

func TestParseAcceptSpecFromBaseToken(t *testing.T) {
	result, _ := ast.NewResultDescriptor("draft_to_placed", nil, ast.ArticleThe, "", ast.Span{})
	from, to, ok := parseAcceptSpec(result)
	require.True(t, ok)
	assert.Equal(t, "draft", from)
	assert.Equal(t, "placed", to)
}
