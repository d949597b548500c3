package exec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/arolang/aro-sub008/actions"
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
)

func newTestExecutor() *Executor {
	reg := registry.New()
	for _, impl := range actions.All() {
		reg.Register(impl)
	}
	return New(reg, nil)
}

func strLit(s string) *ast.Literal { return &ast.Literal{String: &s} }

func givenStmt(name, literal string) ast.Statement {
	result, _ := ast.NewResultDescriptor(name, nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("value", nil, ast.ArticleThe, ast.With, strLit(literal), ast.Span{})
	expr := ast.Expression{Kind: ast.ExprLiteral, Literal: strLit(literal)}
	aro := ast.AROStatement{
		Action:      ast.Action{Verb: "given", Role: ast.RoleOwn},
		Result:      result,
		Object:      object,
		ValueSource: &expr,
	}
	return ast.Statement{ARO: &aro}
}

func returnStmt(resultName string) ast.Statement {
	result, _ := ast.NewResultDescriptor("ok", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor(resultName, nil, ast.ArticleThe, ast.With, nil, ast.Span{})
	aro := ast.AROStatement{
		Action: ast.Action{Verb: "return", Role: ast.RoleResponse},
		Result: result,
		Object: object,
	}
	return ast.Statement{ARO: &aro}
}

func TestRunFeatureSetBindsAndReturns(t *testing.T) {
	ex := newTestExecutor()
	ctx := runtimectx.New("greet", "test", nil)

	fs := ast.FeatureSet{
		Name:             "greet",
		BusinessActivity: "test",
		Body: []ast.Statement{
			givenStmt("greeting", "hello"),
			returnStmt("greeting"),
		},
	}

	resp, err := ex.RunFeatureSet(fs, ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Status)

	want := map[string]any{"value": "hello"}
	got := map[string]any{}
	for k, v := range resp.Data {
		got[k] = v.Raw()
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("response data mismatch (-want +got):\n%s", diff)
	}
}

func TestRunFeatureSetStopsAtFirstResponse(t *testing.T) {
	ex := newTestExecutor()
	ctx := runtimectx.New("double-return", "test", nil)

	fs := ast.FeatureSet{
		Name:             "double-return",
		BusinessActivity: "test",
		Body: []ast.Statement{
			givenStmt("first", "one"),
			returnStmt("first"),
			givenStmt("second", "two"),
			returnStmt("second"),
		},
	}

	resp, err := ex.RunFeatureSet(fs, ctx)
	require.NoError(t, err)

	got, ok := resp.Data["value"]
	require.True(t, ok)
	s, _ := got.AsString()
	require.Equal(t, "one", s)

	_, bound := ctx.Resolve("second")
	require.False(t, bound, "statements after the captured response must not execute")
}

func TestRunFeatureSetUnknownVerbSuggestsClosestMatch(t *testing.T) {
	ex := newTestExecutor()
	ctx := runtimectx.New("typo", "test", nil)

	result, _ := ast.NewResultDescriptor("x", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("y", nil, ast.ArticleThe, ast.With, strLit("z"), ast.Span{})
	aro := ast.AROStatement{
		Action: ast.Action{Verb: "giveen"},
		Result: result,
		Object: object,
	}
	fs := ast.FeatureSet{Name: "typo", BusinessActivity: "test", Body: []ast.Statement{{ARO: &aro}}}

	_, err := ex.RunFeatureSet(fs, ctx)
	require.Error(t, err)
	ae, ok := err.(*runtimectx.ActionError)
	require.True(t, ok)
	require.Contains(t, ae.Error(), "given")
}
