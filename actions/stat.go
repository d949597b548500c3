package actions

import (
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/internal/fsx"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// StatAction implements the file-family Stat contract (§4.D): returns a
// dictionary of path metadata (size, isDir, modTime, mode).
type StatAction struct{}

func (a *StatAction) Role() ast.ActionRole { return ast.RoleRequest }
func (a *StatAction) Verbs() []string      { return []string{"stat"} }
func (a *StatAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From}
}

func (a *StatAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "stat", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	path, err := resolveFilePath(object, ctx)
	if err != nil {
		return value.Value{}, registry.Fresh, err
	}

	fsys, ok := runtimectx.Service[fsx.FileSystem](ctx)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.MissingService("fsx.FileSystem")
	}

	info, err := fsys.Stat(path)
	if err != nil {
		return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "stat: "+path)
	}

	return value.Map(map[string]value.Value{
		"name":    value.String(info.Name()),
		"size":    value.Int(info.Size()),
		"isDir":   value.Bool(info.IsDir()),
		"mode":    value.String(info.Mode().String()),
		"modTime": value.DateValue(info.ModTime()),
	}), registry.Fresh, nil
}
