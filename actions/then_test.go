package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

func TestThenPassesOnNumericToleranceMatch(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	require.NoError(t, ctx.Bind("total", value.Float(9.99997), false, ast.Span{}))
	require.NoError(t, ctx.Bind("_literal_", value.Float(10.0), true, ast.Span{}))

	result, _ := ast.NewResultDescriptor("total", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("expected", nil, ast.ArticleThe, ast.To, nil, ast.Span{})

	a := &ThenAction{}
	out, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)
	b, _ := out.AsBool()
	assert.True(t, b)
}

func TestThenFailsAndDiffsStringMismatch(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	require.NoError(t, ctx.Bind("greeting", value.String("hello world"), false, ast.Span{}))
	require.NoError(t, ctx.Bind("_literal_", value.String("hello earth"), true, ast.Span{}))

	result, _ := ast.NewResultDescriptor("greeting", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("expected", nil, ast.ArticleThe, ast.Against, nil, ast.Span{})

	a := &ThenAction{}
	_, _, err := a.Execute(result, object, ctx)
	require.Error(t, err)
	assert.True(t, runtimectx.Is(err, runtimectx.KindAssertion))
	assert.Contains(t, err.Error(), "greeting")
}

func TestAssertDefaultsExpectedToTrue(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	require.NoError(t, ctx.Bind("ready", value.Bool(true), false, ast.Span{}))

	result, _ := ast.NewResultDescriptor("ready", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("state", nil, ast.ArticleThe, ast.On, nil, ast.Span{})

	a := &AssertAction{}
	out, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)
	b, _ := out.AsBool()
	assert.True(t, b)
}

func TestAssertionRecorderIsNotified(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	require.NoError(t, ctx.Bind("count", value.Int(2), false, ast.Span{}))
	require.NoError(t, ctx.Bind("_literal_", value.Int(3), true, ast.Span{}))

	rec := &recordingAssertions{}
	runtimectx.Register[AssertionRecorder](ctx, rec)

	result, _ := ast.NewResultDescriptor("count", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("expected", nil, ast.ArticleThe, ast.For, nil, ast.Span{})

	a := &AssertAction{}
	_, _, err := a.Execute(result, object, ctx)
	require.Error(t, err)
	require.Len(t, rec.calls, 1)
	assert.False(t, rec.calls[0].passed)
	assert.Equal(t, "count", rec.calls[0].variable)
}

type recordedAssertion struct {
	variable        string
	expected, actual value.Value
	passed          bool
}

type recordingAssertions struct {
	calls []recordedAssertion
}

func (r *recordingAssertions) RecordAssertion(variable string, expected, actual value.Value, passed bool) {
	r.calls = append(r.calls, recordedAssertion{variable, expected, actual, passed})
}
