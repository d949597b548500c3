package actions

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// LogAction implements the response-family Log contract (§4.D), aliased
// to print/output/debug. Message resolution priority is
// `_result_expression_` > `_literal_` > `_expression_` > the variable at
// `result.base` > the result's full name. The target is `object.base`;
// `object.specifiers[0]` selects stdout ("output", default) or stderr
// ("error"). Rendering depends on the context's OutputContextKind. A
// registered LoggingService preempts direct writes entirely.
type LogAction struct{}

func (a *LogAction) Role() ast.ActionRole { return ast.RoleResponse }
func (a *LogAction) Verbs() []string      { return []string{"log", "print", "output", "debug"} }
func (a *LogAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.With, ast.At}
}

func (a *LogAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "log", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	message := resolveLogMessage(result, ctx)
	target := object.Base
	level := result.Specifier(0)
	if level == "" {
		level = "info"
	}

	if svc, ok := runtimectx.Service[LoggingService](ctx); ok {
		if err := svc.Write(target, level, ctx.FeatureSetName, message); err != nil {
			return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "log")
		}
		return value.String(message), registry.Fresh, nil
	}

	writeLog(ctx, target, object.Specifier(0), message)
	return value.String(message), registry.Fresh, nil
}

func resolveLogMessage(result ast.ResultDescriptor, ctx *runtimectx.ExecutionContext) string {
	if v, ok := clauseResultExpression(ctx); ok {
		return v.String()
	}
	if v, ok := clauseLiteral(ctx); ok {
		return v.String()
	}
	if v, ok := clauseExpression(ctx); ok {
		return v.String()
	}
	if v, ok := ctx.Resolve(result.Base); ok {
		return v.String()
	}
	return result.FullName()
}

// writeLog renders message per ctx.OutputContextKind and writes it to
// stdout or stderr depending on the object's "output"/"error" specifier.
func writeLog(ctx *runtimectx.ExecutionContext, target, specifier, message string) {
	out := os.Stdout
	if specifier == "error" {
		out = os.Stderr
	}

	switch ctx.OutputContextKind {
	case runtimectx.OutputMachine:
		line, err := json.Marshal(map[string]string{
			"level":   "info",
			"source":  ctx.FeatureSetName,
			"message": message,
		})
		if err != nil {
			fmt.Fprintln(out, message)
			return
		}
		fmt.Fprintln(out, string(line))

	case runtimectx.OutputDeveloper:
		fmt.Fprintf(out, "LOG[%s] %s: %s\n", target, ctx.FeatureSetName, message)

	default:
		if ctx.IsCompiled {
			fmt.Fprintln(out, message)
			return
		}
		fmt.Fprintf(out, "[%s] %s\n", ctx.FeatureSetName, message)
	}

	logrus.WithFields(logrus.Fields{
		"businessActivity": ctx.BusinessActivity,
		"featureSet":       ctx.FeatureSetName,
		"target":           target,
	}).Debug(message)
}
