package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

type fakeSocketServer struct {
	sentTo string
	sent   []byte
}

func (f *fakeSocketServer) Send(connectionID string, data []byte) error {
	f.sentTo, f.sent = connectionID, data
	return nil
}
func (f *fakeSocketServer) Broadcast(data []byte) error { return nil }
func (f *fakeSocketServer) Close(connectionID string) error { return nil }
func (f *fakeSocketServer) Connect(host string, port int) (string, error) { return "", nil }
func (f *fakeSocketServer) Listen(port int) error { return nil }
func (f *fakeSocketServer) Stop() error { return nil }

func TestSendResolvesDataFromResultAndDestinationFromObject(t *testing.T) {
	ctx := runtimectx.New("fs", "biz", nil)
	require.NoError(t, ctx.Bind("payload", value.String("hello"), false, ast.Span{}))

	sock := &fakeSocketServer{}
	runtimectx.Register[SocketServer](ctx, sock)

	result, _ := ast.NewResultDescriptor("payload", nil, ast.ArticleThe, "", ast.Span{})
	object, _ := ast.NewObjectDescriptor("conn-1", nil, ast.ArticleThe, ast.To, nil, ast.Span{})

	a := &SendAction{}
	out, _, err := a.Execute(result, object, ctx)
	require.NoError(t, err)

	s, _ := out.AsString()
	assert.Equal(t, "hello", s)
	assert.Equal(t, "conn-1", sock.sentTo)
	assert.Equal(t, "hello", string(sock.sent))
}
