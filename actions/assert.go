package actions

import (
	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// AssertAction implements the test-family Assert contract (§4.D):
// compares `result.base` to the expected value with the same priority
// and numeric tolerance as Then, recording the outcome on a registered
// AssertionRecorder and failing with AssertionError on mismatch.
// Reports Rebound like Then: result.Base names the value under test
// and must survive unchanged.
type AssertAction struct{}

func (a *AssertAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *AssertAction) Verbs() []string      { return []string{"assert"} }
func (a *AssertAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.On, ast.For}
}

func (a *AssertAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "assert", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	actual, ok := ctx.Resolve(result.Base)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(result.Base)
	}
	expected, ok := resolveExpected(object, ctx)
	if !ok {
		expected = value.Bool(true)
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
