package actions

import (
	"os"
	"path/filepath"

	"github.com/gobwas/glob"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/internal/fsx"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// ListAction implements the file-family List contract (§4.D): lists the
// immediate entries of a directory, optionally filtered by a `with
// "*.glob"` pattern.
type ListAction struct{}

func (a *ListAction) Role() ast.ActionRole { return ast.RoleRequest }
func (a *ListAction) Verbs() []string      { return []string{"list"} }
func (a *ListAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From}
}

func (a *ListAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "list", object.Preposition); err != nil {
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

	var matcher glob.Glob
	if pattern := listPattern(ctx); pattern != "" {
		matcher, err = glob.Compile(pattern)
		if err != nil {
			return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "list: invalid pattern "+pattern)
		}
	}

	var out []value.Value
	err = fsys.Walk(path, func(p string, info os.FileInfo, werr error) error {
		if werr != nil {
			return werr
		}
		if p == path {
			return nil
		}
		name := filepath.Base(p)
		if matcher != nil && !matcher.Match(name) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		out = append(out, value.Map(map[string]value.Value{
			"name":  value.String(name),
			"path":  value.String(p),
			"isDir": value.Bool(info.IsDir()),
			"size":  value.Int(info.Size()),
		}))
		if info.IsDir() {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "list: "+path)
	}

	return value.List(out), registry.Fresh, nil
}

func listPattern(ctx *runtimectx.ExecutionContext) string {
	if w, ok := clauseWith(ctx); ok {
		if s, ok := w.AsString(); ok {
			return s
		}
	}
	if p, ok := clauseByPattern(ctx); ok {
		return p
	}
	return ""
}
