package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

type fakeLoggingService struct {
	target, level, source, message string
}

func (f *fakeLoggingService) Write(target, level, source, message string) error {
	f.target, f.level, f.source, f.message = target, level, source, message
	return nil
}

func TestLogMessagePriorityPrefersLiteralOverVariable(t *testing.T) {
	ctx := runtimectx.New("billing", "biz", nil)
	require.NoError(t, ctx.Bind("note", value.String("from variable"), false, ast.Span{}))
	require.NoError(t, ctx.Bind("_literal_", value.String("from literal"), true, ast.Span{}))

	svc := &fakeLoggingService{}
	runtimectx.Register[LoggingService](ctx, svc)

	result, _ := ast.NewResultDescriptor("note", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("console", nil, ast.ArticleThe, ast.At, nil, ast.Span{})

	a := &LogAction{}
	out, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)

	s, _ := out.AsString()
	assert.Equal(t, "from literal", s)
	assert.Equal(t, "from literal", svc.message)
	assert.Equal(t, "console", svc.target)
	assert.Equal(t, "billing", svc.source)
}

func TestLogMessageFallsBackToResultFullName(t *testing.T) {
	ctx := runtimectx.New("billing", "biz", nil)
	svc := &fakeLoggingService{}
	runtimectx.Register[LoggingService](ctx, svc)

	result, _ := ast.NewResultDescriptor("summary", []string{"warn"}, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("console", nil, ast.ArticleThe, ast.At, nil, ast.Span{})

	a := &LogAction{}
	_, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)
	assert.Equal(t, "summary: warn", svc.message)
}
