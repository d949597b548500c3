package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

type fakeFileMonitor struct {
	watched []string
}

func (f *fakeFileMonitor) Watch(path string) error {
	f.watched = append(f.watched, path)
	return nil
}

func (f *fakeFileMonitor) Unwatch(path string) error { return nil }

type fakeHTTPServer struct{ port int }

func (f *fakeHTTPServer) Start(port int) error { f.port = port; return nil }
func (f *fakeHTTPServer) Stop() error          { return nil }

func TestStartFileMonitorRequiresService(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	result, _ := ast.NewResultDescriptor("file-monitor", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("./watched", nil, ast.ArticleThe, ast.On, nil, ast.Span{})

	a := &StartAction{}
	_, _, err := a.Execute(result, object, ctx)
	require.Error(t, err)
	assert.True(t, runtimectx.Is(err, runtimectx.KindMissingService))
}

func TestStartFileMonitorWatchesResolvedPath(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	fm := &fakeFileMonitor{}
	runtimectx.Register[FileMonitorService](ctx, fm)

	result, _ := ast.NewResultDescriptor("file-monitor", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("./watched", nil, ast.ArticleThe, ast.On, nil, ast.Span{})

	a := &StartAction{}
	out, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)
	s, _ := out.AsString()
	assert.Equal(t, "./watched", s)
	assert.Equal(t, []string{"./watched"}, fm.watched)
}

func TestStartHTTPServerPortFromWithMap(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	require.NoError(t, ctx.Bind("_with_", value.Map(map[string]value.Value{"port": value.Int(9090)}), true, ast.Span{}))

	srv := &fakeHTTPServer{}
	runtimectx.Register[HTTPServerControl](ctx, srv)

	result, _ := ast.NewResultDescriptor("http-server", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("api", nil, ast.ArticleThe, ast.On, nil, ast.Span{})

	a := &StartAction{}
	out, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)
	port, _ := out.AsInt()
	assert.Equal(t, int64(9090), port)
	assert.Equal(t, 9090, srv.port)
}

func TestStartHTTPServerDefaultsPortFromBaseDigits(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	srv := &fakeHTTPServer{}
	runtimectx.Register[HTTPServerControl](ctx, srv)

	result, _ := ast.NewResultDescriptor("http-server", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("service-8123", nil, ast.ArticleThe, ast.On, nil, ast.Span{})

	a := &StartAction{}
	out, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)
	port, _ := out.AsInt()
	assert.Equal(t, int64(8123), port)
}
