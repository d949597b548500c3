package actions

import (
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/internal/fsx"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// CopyAction implements the file-family Copy contract (§4.D): copies a
// file's bytes to a destination path read from `to`.
type CopyAction struct{}

func (a *CopyAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *CopyAction) Verbs() []string      { return []string{"copy"} }
func (a *CopyAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From, ast.To}
}

func (a *CopyAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "copy", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	src, err := resolveFilePath(object, ctx)
	if err != nil {
		return value.Value{}, registry.Fresh, err
	}
	dst, err := destinationPath(result, ctx)
	if err != nil {
		return value.Value{}, registry.Fresh, err
	}

	fsys, ok := runtimectx.Service[fsx.FileSystem](ctx)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.MissingService("fsx.FileSystem")
	}

	if err := fsx.Copy(fsys, src, dst); err != nil {
		return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "copy: "+src+" -> "+dst)
	}
	return value.String(dst), registry.Fresh, nil
}

// destinationPath resolves Copy/Move's `to` target, first match wins:
// the `_to_` clause auxiliary, then result.Specifier(0) (the variable it
// names when bound, else the specifier itself as a literal path), then
// the variable named by result.Base, then result.Base as a literal path.
func destinationPath(result ast.ResultDescriptor, ctx *runtimectx.ExecutionContext) (string, error) {
	if t, ok := clauseTo(ctx); ok {
		if s, ok := t.AsString(); ok && s != "" {
			return s, nil
		}
	}
	if spec := result.Specifier(0); spec != "" {
		if v, ok := ctx.Resolve(spec); ok {
			if s, ok := v.AsString(); ok && s != "" {
				return s, nil
			}
		}
		return spec, nil
	}
	if v, ok := ctx.Resolve(result.Base); ok {
		if s, ok := v.AsString(); ok && s != "" {
			return s, nil
		}
	}
	if result.Base != "" {
		return result.Base, nil
	}
	return "", runtimectx.RuntimeError("copy/move requires a destination path")
}
