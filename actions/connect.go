package actions

import (
	"strconv"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// ConnectAction implements the server-family Connect contract (§4.D):
// opens an outbound SocketServer connection to object.base:port,
// returning {connectionId, host, port, success}.
type ConnectAction struct{}

func (a *ConnectAction) Role() ast.ActionRole { return ast.RoleServer }
func (a *ConnectAction) Verbs() []string      { return []string{"connect"} }
func (a *ConnectAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.To, ast.On}
}

func (a *ConnectAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "connect", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	host := object.Base
	port := 0
	if spec := object.Specifier(0); spec != "" {
		if i, err := strconv.Atoi(spec); err == nil {
			port = i
		}
	}
	if port == 0 {
		if w, ok := clauseWith(ctx); ok {
			if m, ok := w.AsDict(); ok {
				if p, has := m["port"]; has {
					if i, ok := p.AsInt(); ok {
						port = int(i)
					}
				}
			}
		}
	}

	sock, ok := runtimectx.Service[SocketServer](ctx)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.MissingService("SocketServer")
	}
	connID, err := sock.Connect(host, port)
	if err != nil {
		return value.Map(map[string]value.Value{
			"connectionId": value.Null(),
			"host":         value.String(host),
			"port":         value.Int(int64(port)),
			"success":      value.Bool(false),
		}), registry.Fresh, nil
	}
	return value.Map(map[string]value.Value{
		"connectionId": value.String(connID),
		"host":         value.String(host),
		"port":         value.Int(int64(port)),
		"success":      value.Bool(true),
	}), registry.Fresh, nil
}
