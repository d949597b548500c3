package runtimectx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/value"
)

func TestBindResolveFreshName(t *testing.T) {
	ctx := New("fs", "biz", nil)
	require.NoError(t, ctx.Bind("x", value.Int(3), false, ast.Span{}))

	v, ok := ctx.Resolve("x")
	require.True(t, ok)
	got, _ := v.AsInt()
	assert.Equal(t, int64(3), got)
}

func TestBindRebindWithoutPermissionFails(t *testing.T) {
	ctx := New("fs", "biz", nil)
	require.NoError(t, ctx.Bind("x", value.Int(1), false, ast.Span{}))

	err := ctx.Bind("x", value.Int(2), false, ast.Span{})
	require.Error(t, err)
	assert.True(t, Is(err, KindImmutabilityViolation))
}

func TestBindRebindWithPermissionSucceeds(t *testing.T) {
	ctx := New("fs", "biz", nil)
	require.NoError(t, ctx.Bind("x", value.Int(1), false, ast.Span{}))
	require.NoError(t, ctx.Bind("x", value.Int(2), true, ast.Span{}))

	v, _ := ctx.Resolve("x")
	got, _ := v.AsInt()
	assert.Equal(t, int64(2), got)
}

func TestReservedClauseNamesAlwaysRebindable(t *testing.T) {
	ctx := New("fs", "biz", nil)
	require.NoError(t, ctx.Bind("_literal_", value.String("a"), false, ast.Span{}))
	require.NoError(t, ctx.Bind("_literal_", value.String("b"), false, ast.Span{}))

	ctx.ClearClauseBindings()
	_, ok := ctx.Resolve("_literal_")
	assert.False(t, ok)
}

func TestSetResponseFirstCallWins(t *testing.T) {
	ctx := New("fs", "biz", nil)
	ctx.SetResponse(Response{Status: "OK"})
	ctx.SetResponse(Response{Status: "ignored"})

	r, ok := ctx.ResponseCaptured()
	require.True(t, ok)
	assert.Equal(t, "OK", r.Status)
}

func TestServiceRegistryRoundTrip(t *testing.T) {
	ctx := New("fs", "biz", nil)
	Register[interface{ Root() string }](ctx, rootedFS{path: "/tmp"})

	svc, ok := Service[interface{ Root() string }](ctx)
	require.True(t, ok)
	assert.Equal(t, "/tmp", svc.Root())
}

type rootedFS struct{ path string }

func (r rootedFS) Root() string { return r.path }

func TestChildSeedsBindingsNotClauses(t *testing.T) {
	ctx := New("fs", "biz", nil)
	require.NoError(t, ctx.Bind("order", value.String("o1"), false, ast.Span{}))
	require.NoError(t, ctx.Bind("_literal_", value.String("aux"), false, ast.Span{}))

	child := ctx.Child("child-fs", "biz")
	v, ok := child.Resolve("order")
	require.True(t, ok)
	s, _ := v.AsString()
	assert.Equal(t, "o1", s)

	_, ok = child.Resolve("_literal_")
	assert.False(t, ok)
}
