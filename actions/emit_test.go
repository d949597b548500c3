package actions

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/events"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

func TestEmitPayloadKeyPrefersExpressionName(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	require.NoError(t, ctx.Bind("amount", value.Int(42), false, ast.Span{}))
	require.NoError(t, ctx.Bind("_expression_", value.Int(42), true, ast.Span{}))
	require.NoError(t, ctx.Bind("_expression_name_", value.String("amount"), true, ast.Span{}))

	result, _ := ast.NewResultDescriptor("order-placed", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("Integer", nil, ast.ArticleThe, ast.For, nil, ast.Span{})

	a := &EmitAction{}
	out, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)
	m, ok := out.AsDict()
	require.True(t, ok)
	v, has := m["amount"]
	require.True(t, has)
	i, _ := v.AsInt()
	assert.Equal(t, int64(42), i)
}

func TestEmitPayloadKeySkipsReservedTypeName(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	require.NoError(t, ctx.Bind("Integer", value.Int(7), false, ast.Span{}))

	result, _ := ast.NewResultDescriptor("order-placed", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("Integer", nil, ast.ArticleThe, ast.For, nil, ast.Span{})

	a := &EmitAction{}
	out, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)
	m, _ := out.AsDict()
	_, has := m["data"]
	assert.True(t, has, "reserved type-name object.base should fall back to \"data\"")
}

func TestEmitPublishesTrackedDomainEvent(t *testing.T) {
	bus := events.New(nil)
	var mu sync.Mutex
	var seen []events.DomainEvent
	bus.SubscribeDomain("order-placed", func(_ context.Context, ev events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, ev.(events.DomainEvent))
		return nil
	})

	ctx := runtimectx.New("fs", "biz", bus)
	require.NoError(t, ctx.Bind("order", value.String("o1"), false, ast.Span{}))

	result, _ := ast.NewResultDescriptor("order-placed", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("order", nil, ast.ArticleThe, ast.For, nil, ast.Span{})

	a := &EmitAction{}
	_, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 1)
	assert.Equal(t, "order-placed", seen[0].Type)
}
