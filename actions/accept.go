package actions

import (
	"strings"
	"time"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/events"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// AcceptAction implements the own-family Accept contract (§4.D): a
// state-machine transition. It is one of the three actions permitted to
// rebind a binding (alongside Update and Merge, §5).
type AcceptAction struct{}

func (a *AcceptAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *AcceptAction) Verbs() []string      { return []string{"accept"} }
func (a *AcceptAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.On, ast.From, ast.To}
}

func (a *AcceptAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "accept", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	from, to, ok := parseAcceptSpec(result)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.InvalidInput(`accept requires a "from_to_<to>" transition token or two result specifiers (from, to)`)
	}
	target := object.Base

	entity, ok := ctx.Resolve(object.Base)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(object.Base)
	}
	field := object.Specifier(0)
	if field == "" {
		field = "status"
	}
	m, ok := entity.AsDict()
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.TypeMismatch("map", entity.Kind().String(), object.Base)
	}
	current, _ := m[field].AsString()
	if current != from {
		return value.Value{}, registry.Fresh, runtimectx.AcceptStateError(from, to, current, object.Base, field)
	}

	out := make(map[string]value.Value, len(m))
	for k, v := range m {
		out[k] = v
	}
	out[field] = value.String(to)
	next := value.Map(out)

	if err := ctx.Bind(target, next, true, result.Span); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	ctx.Emit(events.StateTransitionEvent{
		FieldName:  field,
		ObjectName: object.Base,
		FromState:  from,
		ToState:    to,
		EntityID:   entityIDOf(next),
		Entity:     next,
		At:         time.Now(),
	})

	return next, registry.Rebound, nil
}

// parseAcceptSpec reads the from/to transition off result. The target to
// rebind is always object.base, not part of result (§4.D: "rebinds the
// target object"). The transition itself is read, in priority order,
// from two result specifiers (`transition: draft, placed`) or from a
// single "from_to_to" token, whether that token is result.base alone
// (`<draft_to_placed>`) or its first specifier qualified by a base label
// (`<transition: draft_to_placed>`, §8 scenario 2).
func parseAcceptSpec(result ast.ResultDescriptor) (from, to string, ok bool) {
	if len(result.Specifiers) >= 2 {
		return result.Specifiers[0], result.Specifiers[1], true
	}
	token := result.Base
	if len(result.Specifiers) == 1 {
		token = result.Specifiers[0]
	}
	if idx := strings.Index(token, "_to_"); idx >= 0 {
		return token[:idx], token[idx+len("_to_"):], true
	}
	return "", "", false
}
