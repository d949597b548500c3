package actions

import (
	"io/fs"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/internal/fsx"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// MakeAction implements the file-family Make contract (§4.D): creates a
// directory when the result names one ("directory"/"dir" specifier),
// else creates a file, writing a `with` body when one is bound.
type MakeAction struct{}

func (a *MakeAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *MakeAction) Verbs() []string      { return []string{"make"} }
func (a *MakeAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From, ast.With}
}

func (a *MakeAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "make", object.Preposition); err != nil {
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

	if isDirKind(result) {
		if err := fsys.MkdirAll(path, 0o755); err != nil {
			return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "make: "+path)
		}
		return value.String(path), registry.Fresh, nil
	}

	var data []byte
	if w, ok := clauseWith(ctx); ok {
		s, _ := w.AsString()
		data = []byte(s)
	}
	if err := fsys.WriteFile(path, data, fs.FileMode(0o644)); err != nil {
		return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "make: "+path)
	}
	return value.String(path), registry.Fresh, nil
}

func isDirKind(result ast.ResultDescriptor) bool {
	for _, s := range result.Specifiers {
		if s == "directory" || s == "dir" || s == "folder" {
			return true
		}
	}
	return false
}
