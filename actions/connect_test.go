package actions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/runtimectx"
)

type fakeConnectingSocket struct {
	fakeSocketServer
	connID string
	err    error
}

func (f *fakeConnectingSocket) Connect(host string, port int) (string, error) {
	return f.connID, f.err
}

func TestConnectReturnsStructuredResultOnSuccess(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	sock := &fakeConnectingSocket{connID: "c-1"}
	runtimectx.Register[SocketServer](ctx, sock)

	result, _ := ast.NewResultDescriptor("link", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("example.com", []string{"8080"}, ast.ArticleThe, ast.To, nil, ast.Span{})

	a := &ConnectAction{}
	out, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)

	m, _ := out.AsDict()
	id, _ := m["connectionId"].AsString()
	assert.Equal(t, "c-1", id)
	ok, _ := m["success"].AsBool()
	assert.True(t, ok)
	port, _ := m["port"].AsInt()
	assert.Equal(t, int64(8080), port)
}

func TestConnectReturnsStructuredFailureInsteadOfError(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	sock := &fakeConnectingSocket{err: errors.New("refused")}
	runtimectx.Register[SocketServer](ctx, sock)

	result, _ := ast.NewResultDescriptor("link", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("example.com", []string{"8080"}, ast.ArticleThe, ast.To, nil, ast.Span{})

	a := &ConnectAction{}
	out, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err, "Connect always returns a structured result, never an error")

	m, _ := out.AsDict()
	ok, _ := m["success"].AsBool()
	assert.False(t, ok)
	assert.True(t, m["connectionId"].IsNull())
}
