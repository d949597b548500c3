package actions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/runtimectx"
)

type fakeHTTPClient struct {
	calls  int
	method string
	url    string
}

func (f *fakeHTTPClient) Do(method, url string, headers map[string]string, body []byte, timeout time.Duration) (int, map[string]string, []byte, error) {
	f.calls++
	f.method, f.url = method, url
	return 200, map[string]string{"content-type": "application/json"}, []byte(`{"ok":true}`), nil
}

func TestRequestDefaultsGetMethodFromPreposition(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	client := &fakeHTTPClient{}
	runtimectx.Register[HTTPClient](ctx, client)

	result, _ := ast.NewResultDescriptor("profile", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("https://example.com/profile", nil, ast.ArticleThe, ast.From, nil, ast.Span{})

	a := &RequestAction{}
	out, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)

	m, ok := out.AsDict()
	require.True(t, ok)
	status, _ := m["status"].AsInt()
	assert.Equal(t, int64(200), status)
	assert.Equal(t, "GET", client.method)
	assert.Equal(t, 1, client.calls)
}

func TestRequestUsesRegisteredRateLimiterWhenPresent(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	client := &fakeHTTPClient{}
	runtimectx.Register[HTTPClient](ctx, client)
	runtimectx.Register[RateLimiter](ctx, rate.NewLimiter(rate.Inf, 1))

	result, _ := ast.NewResultDescriptor("profile", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("https://example.com/profile", nil, ast.ArticleThe, ast.From, nil, ast.Span{})

	a := &RequestAction{}
	_, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
}

func TestRequestSkipsLimitingWhenNoneRegistered(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	client := &fakeHTTPClient{}
	runtimectx.Register[HTTPClient](ctx, client)

	result, _ := ast.NewResultDescriptor("profile", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("https://example.com/profile", nil, ast.ArticleThe, ast.From, nil, ast.Span{})

	a := &RequestAction{}
	_, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
}
