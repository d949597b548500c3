package actions

import (
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// ExecConfig is the typed shape Execute's `with {...}` syntax decodes
// into (§4.D Execute).
type ExecConfig struct {
	Command          string
	WorkingDirectory string
	Environment      map[string]string
	Timeout          int // milliseconds
	Shell            bool
	CaptureStderr    bool
}

const defaultExecTimeoutMs = 30000

// ExecuteAction implements the source-read Execute contract (§4.D):
// issues outbound requests to the host shell, supporting both the
// `<command: "bin"> with "args"` and `with {command, ...}` syntaxes.
type ExecuteAction struct{}

func (a *ExecuteAction) Role() ast.ActionRole { return ast.RoleRequest }
func (a *ExecuteAction) Verbs() []string      { return []string{"execute"} }
func (a *ExecuteAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.With, ast.Via}
}

func (a *ExecuteAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "execute", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	shell, ok := runtimectx.Service[ShellExecutor](ctx)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.MissingService("ShellExecutor")
	}

	cfg := ExecConfig{Timeout: defaultExecTimeoutMs}
	var command string
	var args []string

	w, hasWith := clauseWith(ctx)
	if hasWith {
		if m, ok := w.AsDict(); ok {
			raw := make(map[string]any, len(m))
			for k, v := range m {
				raw[k] = v.Raw()
			}
			_ = mapstructure.Decode(raw, &cfg)
		}
	}

	if cfg.Command != "" {
		command = cfg.Command
	} else if spec := result.Specifier(0); spec != "" {
		command = spec
	} else {
		command = result.Base
	}

	if lit, ok := clauseLiteral(ctx); ok {
		if s, ok := lit.AsString(); ok && s != "" {
			args = strings.Fields(s)
		}
	}

	if command == "" {
		return value.Value{}, registry.Fresh, runtimectx.InvalidInput("execute requires a command")
	}

	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultExecTimeoutMs * time.Millisecond
	}

	res, err := shell.Run(command, args, cfg.WorkingDirectory, cfg.Environment, timeout, cfg.CaptureStderr)
	if err != nil {
		return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "execute: "+command)
	}

	return value.Map(map[string]value.Value{
		"error":    value.Bool(res.Error),
		"message":  value.String(res.Message),
		"output":   value.String(res.Output),
		"exitCode": value.Int(int64(res.ExitCode)),
		"command":  value.String(res.Command),
	}), registry.Fresh, nil
}
