package actions

import (
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/internal/fsx"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// MoveAction implements the file-family Move contract (§4.D): renames a
// path to a destination read from `to`, the same resolution Copy uses.
type MoveAction struct{}

func (a *MoveAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *MoveAction) Verbs() []string      { return []string{"move", "rename"} }
func (a *MoveAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From, ast.To}
}

func (a *MoveAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "move", object.Preposition); err != nil {
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

	if err := fsys.Rename(src, dst); err != nil {
		return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "move: "+src+" -> "+dst)
	}
	return value.String(dst), registry.Fresh, nil
}
