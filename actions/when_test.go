package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

type fakeTestExecutionContext struct {
	gotName string
	gotSeed map[string]value.Value
	result  value.Value
}

func (f *fakeTestExecutionContext) RunFeatureSet(name string, seed map[string]value.Value) (value.Value, error) {
	f.gotName, f.gotSeed = name, seed
	return f.result, nil
}

func TestWhenForksChildSeededWithCurrentBindings(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	require.NoError(t, ctx.Bind("order", value.String("o1"), false, ast.Span{}))
	require.NoError(t, ctx.Bind("_with_", value.Map(map[string]value.Value{"override": value.Bool(true)}), true, ast.Span{}))

	tc := &fakeTestExecutionContext{result: value.String("done")}
	runtimectx.Register[TestExecutionContext](ctx, tc)

	result, _ := ast.NewResultDescriptor("outcome", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("checkout-scenario", nil, ast.ArticleThe, ast.On, nil, ast.Span{})

	a := &WhenAction{}
	out, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)

	s, _ := out.AsString()
	assert.Equal(t, "done", s)
	assert.Equal(t, "checkout-scenario", tc.gotName)

	order, has := tc.gotSeed["order"]
	require.True(t, has)
	orderStr, _ := order.AsString()
	assert.Equal(t, "o1", orderStr)

	override, has := tc.gotSeed["override"]
	require.True(t, has)
	b, _ := override.AsBool()
	assert.True(t, b)
}
