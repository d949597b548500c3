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

func TestPublishReturnsObjectValueForExecutorToBindUnderResultName(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	require.NoError(t, ctx.Bind("internalCount", value.Int(5), false, ast.Span{}))

	result, _ := ast.NewResultDescriptor("publicCount", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("internalCount", nil, ast.ArticleThe, ast.For, nil, ast.Span{})

	a := &PublishAction{}
	out, policy, err := a.Execute(result, object, ctx)
	require.NoError(t, err)
	assert.Equal(t, registry.Fresh, policy)

	i, _ := out.AsInt()
	assert.Equal(t, int64(5), i)
}
