package actions

import (
	"math"

	dmp "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// ThenAction implements the test-family Then contract (§4.D): asserts
// result.Base equals the expected value, recording the outcome on a
// registered AssertionRecorder and failing with AssertionError
// otherwise. Reports Rebound regardless of outcome: result.Base already
// names the value under test, and the executor must not overwrite it
// with Then's own boolean return.
type ThenAction struct{}

func (a *ThenAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *ThenAction) Verbs() []string      { return []string{"then"} }
func (a *ThenAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.To, ast.Against}
}

func (a *ThenAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "then", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	actual, ok := ctx.Resolve(result.Base)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(result.Base)
	}
	expected, ok := resolveExpected(object, ctx)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(object.Base)
	}

	passed := testEqual(actual, expected)
	if rec, ok := runtimectx.Service[AssertionRecorder](ctx); ok {
		rec.RecordAssertion(result.Base, expected, actual, passed)
	}
	if !passed {
		return value.Value{}, registry.Rebound, runtimectx.AssertionError(
			assertionMessage(result.Base, object.Base, expected, actual), expected.String(), actual.String(), result.Base)
	}
	return value.Bool(true), registry.Rebound, nil
}

// assertionMessage appends a readable diff when both sides are strings,
// shared by Then and Assert.
func assertionMessage(resultName, objectName string, expected, actual value.Value) string {
	msg := "expected " + resultName + " to equal " + objectName
	es, eok := expected.AsString()
	as, aok := actual.AsString()
	if eok && aok {
		if d := diffSummary(es, as); d != "" {
			msg += "\n" + d
		}
	}
	return msg
}

func diffSummary(expected, actual string) string {
	if expected == actual {
		return ""
	}
	d := dmp.New()
	diffs := d.DiffMain(expected, actual, false)
	return d.DiffPrettyText(diffs)
}

// resolveExpected follows the test-family priority (§4.D): `_literal_`
// > `_expression_` > `resolve(object.base)` > the object's own literal
// value.
func resolveExpected(object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, bool) {
	if v, ok := clauseLiteral(ctx); ok {
		return v, true
	}
	if v, ok := clauseExpression(ctx); ok {
		return v, true
	}
	if v, ok := ctx.Resolve(object.Base); ok {
		return v, true
	}
	if object.LiteralValue != nil {
		return literalToValue(object.LiteralValue), true
	}
	return value.Value{}, false
}

// testEqual compares a and b with numeric cross-type tolerance
// |a-b| < 1e-4 for floats, falling back to a structural string
// comparison (§4.D: "Then and Assert compare ... with numeric
// cross-type tolerance ... and a structural string fallback").
func testEqual(a, b value.Value) bool {
	if af, aok := a.AsDouble(); aok {
		if bf, bok := b.AsDouble(); bok {
			return math.Abs(af-bf) < 1e-4
		}
	}
	return a.String() == b.String()
}
