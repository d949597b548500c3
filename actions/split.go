package actions

import (
	"regexp"
	"strings"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// SplitAction implements the own-family Split contract (§4.D): splits a
// string on a regex pattern carried on `by /pat/flags`, preserving a
// trailing empty tail when the source ends with a delimiter match.
type SplitAction struct{}

func (a *SplitAction) Role() ast.ActionRole { return ast.RoleOwn }
func (a *SplitAction) Verbs() []string      { return []string{"split"} }
func (a *SplitAction) ValidPrepositions() []ast.Preposition {
	return []ast.Preposition{ast.From, ast.By}
}

func (a *SplitAction) Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, registry.RebindPolicy, error) {
	if err := validatePreposition(a.ValidPrepositions(), "split", object.Preposition); err != nil {
		return value.Value{}, registry.Fresh, err
	}

	pattern, ok := clauseByPattern(ctx)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.MissingRequiredField("by")
	}
	flags := clauseByFlags(ctx)

	src, ok := ctx.Resolve(object.Base)
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.UndefinedVariable(object.Base)
	}
	s, ok := src.AsString()
	if !ok {
		return value.Value{}, registry.Fresh, runtimectx.TypeMismatch("string", src.Kind().String(), object.Base)
	}

	expr := pattern
	if flagPrefix := regexFlagPrefix(flags); flagPrefix != "" {
		expr = flagPrefix + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return value.Value{}, registry.Fresh, runtimectx.Wrap(err, "split: invalid pattern "+pattern)
	}

	parts := re.Split(s, -1)
	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = value.String(p)
	}
	return value.List(out), registry.Fresh, nil
}

// regexFlagPrefix converts the {i,s,m} flag set into Go regexp's inline
// `(?ism)` flag syntax.
func regexFlagPrefix(flags string) string {
	var allowed []rune
	for _, r := range flags {
		if strings.ContainsRune("ism", r) {
			allowed = append(allowed, r)
		}
	}
	if len(allowed) == 0 {
		return ""
	}
	return "(?" + string(allowed) + ")"
}
