package actions

import (
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/internal/fsx"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// AppendAction implements the file-family Append contract (§4.D):
// appends a `with` body to an existing file's bytes, creating the file
// when absent.
type AppendAction struct{}

func (a *AppendAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *AppendAction) Verbs() []string      { return []string{"append"} }
func (a *AppendAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.To, ast.With}
}

func (a *AppendAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "append", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	path, err := resolveFilePath(object, ctx)
	if err != nil {
		return value.Value{}, registry.Fresh, err
	}

	var addition string
	if w, ok := clauseWith(ctx); ok {
		addition, _ = w.AsString()
	} else if l, ok := clauseLiteral(ctx); ok {
		addition, _ = l.AsString()
	} else {
		return value.Value{}, registry.Fresh, runtimectx.MissingRequiredField("with")
	}

	fsys, ok := runtimectx.Service[fsx.FileSystem](ctx)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.MissingService("fsx.FileSystem")
	}

	existing, err := fsys.ReadFile(path)
	if err != nil {
		existing = nil // append creates the file when it doesn't yet exist
	}
	out := append(existing, []byte(addition)...)
	if err := fsys.WriteFile(path, out, 0o644); err != nil {
		return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "append: "+path)
	}
	return value.String(path), registry.Fresh, nil
}
