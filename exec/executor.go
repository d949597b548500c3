// Package exec implements FeatureSetExecutor (§4.E): the statement
// interpreter that drives a feature set's body through the registry,
// the per-statement clause binder and the response/termination rules.
// A flat instruction walk against a single mutable environment, bailing
// out early the moment a terminal result is produced.
package exec

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/events"
	"github.com/arolang/aro-sub008/internal/metrics"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
)

// Executor runs feature sets against a shared registry and event bus.
type Executor struct {
	Registry *registry.Registry
	Bus      *events.Bus
}

// New returns an Executor wired to reg and bus.
func New(reg *registry.Registry, bus *events.Bus) *Executor {
	return &Executor{Registry: reg, Bus: bus}
}

// RunFeatureSet executes fs from scratch, returning its captured
// Response, or a zero Response when the body never calls Return/Throw
// (§4.B, §4.E).
func (ex *Executor) RunFeatureSet(fs ast.FeatureSet, ctx *runtimectx.ExecutionContext) (runtimectx.Response, error) {
	resp, err := ex.run(fs.Body, ctx)
	if err != nil {
		return runtimectx.Response{}, err
	}
	if resp != nil {
		return *resp, nil
	}
	return runtimectx.Response{}, nil
}

// run walks stmts in order, macro-expanding Match/ForEach inline
// (§4.E: "Match and for-each statements are macro-expanded into
// sequences of ARO statements"), stopping the moment a response is
// captured anywhere in the walk.
func (ex *Executor) run(stmts []ast.Statement, ctx *runtimectx.ExecutionContext) (*runtimectx.Response, error) {
	for _, stmt := range stmts {
		switch {
		case stmt.ARO != nil:
			if err := ex.execStatement(*stmt.ARO, ctx); err != nil {
				return nil, err
			}

		case stmt.Publish != nil:
			aro := ast.AROStatement{
				Action: ast.Action{Verb: "publish", Role: ast.RoleExport, Span: stmt.Publish.Span},
				Result: stmt.Publish.Result,
				Object: stmt.Publish.Object,
				Span:   stmt.Publish.Span,
			}
			if err := ex.execStatement(aro, ctx); err != nil {
				return nil, err
			}

		case stmt.Match != nil:
			body, ok, err := ex.matchBranch(stmt.Match, ctx)
			if err != nil {
				return nil, err
			}
			if ok {
				resp, err := ex.run(body, ctx)
				if err != nil || resp != nil {
					return resp, err
				}
			}

		case stmt.ForEach != nil:
			resp, err := ex.runForEach(stmt.ForEach, ctx)
			if err != nil || resp != nil {
				return resp, err
			}
		}

		if resp, ok := ctx.ResponseCaptured(); ok {
			return &resp, nil
		}
	}
	return nil, nil
}

// matchBranch evaluates subj against each branch's predicate in order,
// returning the first branch whose predicate is truthy-equal to subj.
func (ex *Executor) matchBranch(m *ast.MatchStatement, ctx *runtimectx.ExecutionContext) ([]ast.AROStatement, bool, error) {
	subj, err := evalExpression(m.Subject, ctx)
	if err != nil {
		return nil, false, err
	}
	for _, branch := range m.Branches {
		pred, err := evalExpression(branch.Predicate, ctx)
		if err != nil {
			return nil, false, err
		}
		if subj.Equal(pred) {
			return wrapARO(branch.Body), true, nil
		}
	}
	return nil, false, nil
}

func wrapARO(body []ast.AROStatement) []ast.Statement {
	out := make([]ast.Statement, len(body))
	for i := range body {
		b := body[i]
		out[i] = ast.Statement{ARO: &b}
	}
	return out
}

// runForEach iterates the resolved source list, running body in a
// fresh child scope per iteration so ItemVariable's rebinding across
// iterations never trips the immutability invariant (§4.E, §5), and
// forwarding the first response any iteration captures.
func (ex *Executor) runForEach(fe *ast.ForEachLoop, ctx *runtimectx.ExecutionContext) (*runtimectx.Response, error) {
	src, err := evalExpression(fe.Source, ctx)
	if err != nil {
		return nil, err
	}
	items, ok := src.AsList()
	if !ok {
		return nil, runtimectx.TypeMismatch("list", src.Kind().String(), fe.ItemVariable)
	}

	for _, item := range items {
		child := ctx.Child(ctx.FeatureSetName, ctx.BusinessActivity)
		if err := child.Bind(fe.ItemVariable, item, false, fe.Span); err != nil {
			return nil, err
		}
		if _, err := ex.run(wrapARO(fe.Body), child); err != nil {
			return nil, err
		}
		if r, ok := child.ResponseCaptured(); ok {
			ctx.SetResponse(r)
			return &r, nil
		}
	}
	return nil, nil
}

// execStatement implements §4.E steps 1-4 for a single AROStatement:
// clear clause bindings, bind clauses, look up and invoke the action,
// then bind its result unless the implementation already rebound it.
func (ex *Executor) execStatement(stmt ast.AROStatement, ctx *runtimectx.ExecutionContext) error {
	ctx.ClearClauseBindings()

	metric, _ := runtimectx.Service[*metrics.Metrics](ctx)
	metric.RecordStatement()

	if err := bindClauses(stmt, ctx); err != nil {
		return err
	}

	impl, ok := ex.Registry.Lookup(stmt.Action.Verb)
	if !ok {
		msg := fmt.Sprintf("no action registered for verb %q", stmt.Action.Verb)
		if suggestion, has := ex.Registry.Suggest(stmt.Action.Verb); has {
			msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
		}
		return runtimectx.RuntimeError(msg)
	}

	if err := ex.Registry.ValidatePreposition(impl, stmt.Action.Verb, stmt.Object.Preposition); err != nil {
		return err
	}

	metric.RecordDispatch(stmt.Action.Verb)
	val, policy, err := impl.Execute(stmt.Result, stmt.Object, ctx)
	if err != nil {
		logStatementError(ctx.FeatureSetName, stmt, err)
		if ae, ok := err.(*runtimectx.ActionError); ok {
			metric.RecordError(ae.Kind().String())
		}
		return err
	}

	if policy == registry.Fresh {
		if err := ctx.Bind(stmt.Result.Base, val, false, stmt.Span); err != nil {
			return err
		}
	}
	return nil
}

// logStatementError is a small convenience for cmd/aro's activation
// wiring to report an ActionError with structured fields before
// propagating it.
func logStatementError(featureSet string, stmt ast.AROStatement, err error) {
	logrus.WithFields(logrus.Fields{
		"featureSet": featureSet,
		"verb":       stmt.Action.Verb,
		"span":       stmt.Span.String(),
	}).WithError(err).Error("statement execution failed")
}
