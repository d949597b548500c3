package actions

import (
	"strings"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/repository"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// RetrieveAction implements the source-read Retrieve contract (aliases
// fetch/load/find, §4.D): repository-backed lookups and the same
// list-access specifiers Extract uses, canonicalized on reverse
// indexing per §9's Open Question.
type RetrieveAction struct{}

func (a *RetrieveAction) Role() ast.ActionRole { return ast.RoleRequest }
func (a *RetrieveAction) Verbs() []string      { return []string{"retrieve", "fetch", "load", "find"} }
func (a *RetrieveAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From}
}

func (a *RetrieveAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "retrieve", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	if strings.HasSuffix(object.Base, "-repository") {
		store, ok := runtimectx.Service[*repository.Store](ctx)
		if !ok {
			return value.Value{}, registry.Fresh, runtimectx.MissingService("repository.Store")
		}
		var where *repository.WhereClause
		if field, ok := clauseWhereField(ctx); ok {
			op, _ := clauseWhereOp(ctx)
			val, _ := clauseWhereValue(ctx)
			where = &repository.WhereClause{Field: field, Op: op, Value: val}
		}
		entries := store.Retrieve(object.Base, ctx.BusinessActivity, where)

		if spec := result.Specifier(0); spec != "" {
			if v, ok := reverseIndex(entries, spec); ok {
				return v, registry.Fresh, nil
			}
			return value.List(entries), registry.Fresh, nil
		}

		if where != nil && len(entries) == 1 {
			return entries[0], registry.Fresh, nil
		}
		return value.List(entries), registry.Fresh, nil
	}

	node, ok := ctx.Resolve(object.Base)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.UndefinedRepository(object.Base)
	}
	if spec := result.Specifier(0); spec != "" {
		if xs, ok := node.AsList(); ok {
			if v, ok := reverseIndex(xs, spec); ok {
				return v, registry.Fresh, nil
			}
		}
	}
	return node, registry.Fresh, nil
}
