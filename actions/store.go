package actions

import (
	"context"
	"time"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/events"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/repository"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// StoreAction implements the response-family Store contract (§4.D,
// §4.F): appends/replaces into a repository, auto-assigning an id for
// maps lacking one. It publishes through PublishAndTrack rather than
// Emit so a following Return observes "data.stored"/"data.updated"
// handlers as already having run (§5: "Store before Return"). Store
// rebinds result.Base to the stored (possibly id-assigned) value itself
// and reports Rebound: the canonical phrasing names the same variable
// already bound by the surrounding Given ("Store the <msg> into the
// <message-repository>"), so the executor must not attempt its own
// fresh bind of that name.
type StoreAction struct{}

func (a *StoreAction) Role() ast.ActionRole { return ast.RoleResponse }
func (a *StoreAction) Verbs() []string      { return []string{"store"} }
func (a *StoreAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.Into, ast.With}
}

func (a *StoreAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "store", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	data, ok := clauseWith(ctx)
	if !ok {
		data, ok = ctx.Resolve(result.Base)
		if !ok {
			return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(result.Base)
		}
	}

	store, ok := runtimectx.Service[*repository.Store](ctx)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.MissingService("repository.Store")
	}
	res := store.StoreWithChangeInfo(data, object.Base, ctx.BusinessActivity)

	changeType := events.Created
	var old *value.Value
	if res.IsUpdate {
		changeType = events.Updated
		ov := res.OldValue
		old = &ov
	}

	if bus := ctx.EventBus(); bus != nil {
		_ = bus.PublishAndTrack(context.Background(), events.RepositoryChangedEvent{
			RepositoryName: object.Base,
			ChangeType:     changeType,
			EntityID:       res.EntityID,
			NewValue:       &res.StoredValue,
			OldValue:       old,
			At:             time.Now(),
		})
	}

	if err := ctx.Bind(result.Base, res.StoredValue, true, result.Span); err != nil {
		return value.Value{}, registry.Rebound, err
	}
	return res.StoredValue, registry.Rebound, nil
}
