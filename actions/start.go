package actions

import (
	"strconv"
	"strings"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// StartAction implements the server-family Start contract (§4.D):
// branches on `result.base` ∈ {http-server, socket-server,
// file-monitor}, delegating to the matching registered service.
type StartAction struct{}

func (a *StartAction) Role() ast.ActionRole { return ast.RoleServer }
func (a *StartAction) Verbs() []string      { return []string{"start"} }
func (a *StartAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.On, ast.With}
}

func (a *StartAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "start", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	switch result.Base {
	case "socket-server":
		port := startPort(result, object, ctx, 9000)
		if sock, ok := runtimectx.Service[SocketServer](ctx); ok {
			if err := sock.Listen(port); err != nil {
				return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "start")
			}
		}
		return value.Int(int64(port)), registry.Fresh, nil

	case "file-monitor":
		path := startPath(object, ctx)
		fm, ok := runtimectx.Service[FileMonitorService](ctx)
		if !ok {
			return value.Value{}, registry.Fresh, runtimectx.MissingService("FileMonitorService")
		}
		if err := fm.Watch(path); err != nil {
			return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "start")
		}
		return value.String(path), registry.Fresh, nil

	default: // "http-server" and anything unspecified
		port := startPort(result, object, ctx, 8080)
		ctrl, ok := runtimectx.Service[HTTPServerControl](ctx)
		if !ok {
			return value.Value{}, registry.Fresh, runtimectx.MissingService("HTTPServerControl")
		}
		if err := ctrl.Start(port); err != nil {
			return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "start")
		}
		return value.Int(int64(port)), registry.Fresh, nil
	}
}

// startPort resolves a port following §4.D's priority: `_with_`
// (a map's "port" key, or an integer), the result's specifier parsed as
// an int, `_literal_`, the registered OpenAPISpecService's port, digits
// found in `object.base`, else def.
func startPort(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext, def int) int {
	if w, ok := clauseWith(ctx); ok {
		if m, ok := w.AsDict(); ok {
			if p, ok := m["port"]; ok {
				if i, ok := p.AsInt(); ok {
					return int(i)
				}
			}
		}
		if i, ok := w.AsInt(); ok {
			return int(i)
		}
	}
	if spec := result.Specifier(0); spec != "" {
		if i, err := strconv.Atoi(spec); err == nil {
			return i
		}
	}
	if l, ok := clauseLiteral(ctx); ok {
		if i, ok := l.AsInt(); ok {
			return int(i)
		}
	}
	if spec, ok := runtimectx.Service[OpenAPISpecService](ctx); ok {
		if port, has := spec.Port(); has {
			return port
		}
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, object.Base)
	if digits != "" {
		if i, err := strconv.Atoi(digits); err == nil {
			return i
		}
	}
	return def
}

func startPath(object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) string {
	if w, ok := clauseWith(ctx); ok {
		if s, ok := w.AsString(); ok && s != "" {
			return s
		}
	}
	if v, ok := ctx.Resolve(object.Base); ok {
		if s, ok := v.AsString(); ok && s != "" {
			return s
		}
	}
	if object.Base != "" {
		return object.Base
	}
	return "."
}
