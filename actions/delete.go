package actions

import (
	"strconv"
	"strings"
	"time"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/events"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/repository"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// DeleteAction implements the own-family Delete contract (§4.D):
// removes a dictionary key, an array element by reverse index, or
// deletes from a repository given a required where-clause.
type DeleteAction struct{}

func (a *DeleteAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *DeleteAction) Verbs() []string      { return []string{"delete"} }
func (a *DeleteAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From}
}

func (a *DeleteAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "delete", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	if strings.HasSuffix(object.Base, "-repository") {
		return a.deleteFromRepository(result, object, ctx)
	}

	target, ok := ctx.Resolve(object.Base)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(object.Base)
	}

	key := result.Specifier(0)
	if key == "" {
		key = result.Base
	}

	if m, ok := target.AsDict(); ok {
		delete(m, key) // no-op on a missing key, §8 boundary behavior
		return value.Map(m), registry.Fresh, nil
	}
	if xs, ok := target.AsList(); ok {
		idx := reverseListIndex(len(xs), key)
		if idx < 0 || idx >= len(xs) {
			return target, registry.Fresh, nil
		}
		out := append(append([]value.Value{}, xs[:idx]...), xs[idx+1:]...)
		return value.List(out), registry.Fresh, nil
	}
	return target, registry.Fresh, nil
}

// reverseListIndex converts a list-access spec into a forward index:
// "first" is 0, "last" is n-1, and a bare integer N counts from the end
// (n-1-N), the same rule reverseIndex applies. Anything else yields -1.
func reverseListIndex(n int, spec string) int {
	switch spec {
	case "first":
		return 0
	case "last":
		return n - 1
	}
	i, err := strconv.Atoi(spec)
	if err != nil {
		return -1
	}
	return n - 1 - i
}

func (a *DeleteAction) deleteFromRepository(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	field, hasField := clauseWhereField(ctx)
	if !hasField {
		return value.Value{}, registry.Fresh, runtimectx.RuntimeError("delete from a repository requires a where clause")
	}
	op, _ := clauseWhereOp(ctx)
	val, _ := clauseWhereValue(ctx)

	store, ok := runtimectx.Service[*repository.Store](ctx)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.MissingService("repository.Store")
	}
	res := store.Delete(object.Base, ctx.BusinessActivity, &repository.WhereClause{Field: field, Op: op, Value: val})

	for _, removed := range res.Removed {
		id := entityIDOf(removed)
		rv := removed
		ctx.Emit(events.RepositoryChangedEvent{
			RepositoryName: object.Base,
			ChangeType:     events.Deleted,
			EntityID:       id,
			OldValue:       &rv,
			At:             time.Now(),
		})
	}
	ctx.Emit(events.DomainEvent{
		Type:    "data.deleted",
		Payload: map[string]value.Value{"repository": value.String(object.Base), "count": value.Int(int64(res.Count))},
		At:      time.Now(),
	})

	return value.List(res.Removed), registry.Fresh, nil
}

func entityIDOf(v value.Value) string {
	m, ok := v.AsDict()
	if !ok {
		return ""
	}
	s, _ := m["id"].AsString()
	return s
}
