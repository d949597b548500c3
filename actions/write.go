package actions

import (
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/internal/codec"
	"github.com/arolang/aro-sub008/internal/fsx"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// WriteAction implements the response-family Write contract (§4.D):
// serializes a value per the destination path's extension and writes
// it, the inverse of Read.
type WriteAction struct{}

func (a *WriteAction) Role() ast.ActionRole { return ast.RoleResponse }
func (a *WriteAction) Verbs() []string      { return []string{"write"} }
func (a *WriteAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.To, ast.With}
}

func (a *WriteAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "write", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	path, err := resolveFilePath(object, ctx)
	if err != nil {
		return value.Value{}, registry.Fresh, err
	}

	data, ok := clauseWith(ctx)
	if !ok {
		data, ok = ctx.Resolve(result.Base)
		if !ok {
			return value.Value{}, registry.Fresh, runtimectx.MissingRequiredField("with")
		}
	}

	fsys, ok := runtimectx.Service[fsx.FileSystem](ctx)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.MissingService("fsx.FileSystem")
	}

	format := codec.DetectFormat(path)
	for _, spec := range result.Specifiers {
		if spec == "string" || spec == "as string" {
			format = codec.FormatRaw
		}
	}

	encoded, err := codec.Encode(format, data, readCodecOptions(ctx))
	if err != nil {
		return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "write: encode "+path)
	}
	if err := fsys.WriteFile(path, encoded, 0o644); err != nil {
		return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "write: "+path)
	}
	return value.String(path), registry.Fresh, nil
}
