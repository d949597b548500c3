package actions

import (
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/internal/fsx"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// ExistsAction implements the file-family Exists contract (§4.D): a
// boolean path-presence check, never erroring on absence.
type ExistsAction struct{}

func (a *ExistsAction) Role() ast.ActionRole { return ast.RoleRequest }
func (a *ExistsAction) Verbs() []string      { return []string{"exists"} }
func (a *ExistsAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From}
}

func (a *ExistsAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "exists", object.Preposition); err != nil {
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

	found, err := fsys.Exists(path)
	if err != nil {
		return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "exists: "+path)
	}
	return value.Bool(found), registry.Fresh, nil
}
