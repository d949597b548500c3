// Package actions implements the canonical action bodies (§4.D,
// component D) that together constitute the language's executable
// surface: Extract, Compute, Create, Update, Compare, Transform,
// Validate, Filter, Map, Reduce, Sort, Merge, Delete, Accept, Split,
// Read, Write, Append, List, Stat, Exists, Make, Copy, Move, Retrieve,
// Receive, Request, Call, Execute, ParseHtml, Return, Throw, Send, Log,
// Store, Publish, Emit, Notify, Start, Stop, Listen, Connect, Close,
// Broadcast, Wait, Given, When, Then, Assert, Prompt, Select, Clear.
//
// Every implementation declares its own Role/Verbs/ValidPrepositions
// directly and begins Execute by calling validatePreposition, matching
// §4.D's "Every body begins by calling validatePreposition(object.
// preposition)".
package actions

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// validatePreposition enforces §4.D's "every body begins by calling
// validatePreposition(object.preposition)" contract, reusing the
// registry's own rule so there is exactly one place InvalidPreposition
// errors are constructed from.
func validatePreposition(preps []ast.Preposition, verb string, got ast.Preposition) error {
	for _, p := range preps {
		if p == got {
			return nil
		}
	}
	names := make([]string, len(preps))
	for i, p := range preps {
		names[i] = string(p)
	}
	return runtimectx.InvalidPreposition(verb, string(got), strings.Join(names, ", "))
}

// RegisterAll registers every canonical action implementation into reg,
// the single call site cmd/aro (and tests) use to populate a fresh
// registry (§4.C).
func RegisterAll(reg *registry.Registry) {
	for _, impl := range All() {
		reg.Register(impl)
	}
}

// All returns every canonical action implementation, used by RegisterAll
// and by cmd/aro's registry-snapshot diagnostic.
func All() []registry.Action {
	return []registry.Action{
		&ExtractAction{},
		&RetrieveAction{},
		&ReadAction{},
		&ReceiveAction{},
		&RequestAction{},
		&CallAction{},
		&ExecuteAction{},
		&ParseHtmlAction{},

		&ComputeAction{},
		&ValidateAction{},
		&CompareAction{},
		&TransformAction{},
		&CreateAction{},
		&UpdateAction{},
		&MergeAction{},
		&SortAction{},
		&FilterAction{},
		&MapAction{},
		&ReduceAction{},
		&SplitAction{},
		&DeleteAction{},
		&AcceptAction{},

		&ListAction{},
		&StatAction{},
		&ExistsAction{},
		&MakeAction{},
		&CopyAction{},
		&MoveAction{},
		&AppendAction{},

		&ReturnAction{},
		&ThrowAction{},
		&LogAction{},
		&SendAction{},
		&StoreAction{},
		&WriteAction{},
		&PublishAction{},
		&EmitAction{},
		&NotifyAction{},

		&StartAction{},
		&StopAction{},
		&ListenAction{},
		&ConnectAction{},
		&CloseAction{},
		&BroadcastAction{},
		&WaitAction{},

		&GivenAction{},
		&WhenAction{},
		&ThenAction{},
		&AssertAction{},

		&PromptAction{},
		&SelectAction{},
		&ClearAction{},
	}
}

// --- clause-binding readers -------------------------------------------------
//
// Every auxiliary `_..._` binding the executor writes before invoking an
// action (§3, §4.E) is read back through one of these helpers, so the
// reserved-name strings appear exactly once outside runtimectx.

func clauseLiteral(ctx *runtimectx.ExecutionContext) (value.Value, bool) {
	return ctx.Resolve("_literal_")
}

func clauseExpression(ctx *runtimectx.ExecutionContext) (value.Value, bool) {
	return ctx.Resolve("_expression_")
}

func clauseExpressionName(ctx *runtimectx.ExecutionContext) (string, bool) {
	v, ok := ctx.Resolve("_expression_name_")
	if !ok {
		return "", false
	}
	s, _ := v.AsString()
	return s, true
}

func clauseWith(ctx *runtimectx.ExecutionContext) (value.Value, bool) {
	return ctx.Resolve("_with_")
}

func clauseTo(ctx *runtimectx.ExecutionContext) (value.Value, bool) {
	return ctx.Resolve("_to_")
}

func clauseFrom(ctx *runtimectx.ExecutionContext) (value.Value, bool) {
	return ctx.Resolve("_from_")
}

func clauseWhereField(ctx *runtimectx.ExecutionContext) (string, bool) {
	v, ok := ctx.Resolve("_where_field_")
	if !ok {
		return "", false
	}
	s, _ := v.AsString()
	return s, true
}

func clauseWhereOp(ctx *runtimectx.ExecutionContext) (string, bool) {
	v, ok := ctx.Resolve("_where_op_")
	if !ok {
		return "", false
	}
	s, _ := v.AsString()
	return s, true
}

func clauseWhereValue(ctx *runtimectx.ExecutionContext) (value.Value, bool) {
	return ctx.Resolve("_where_value_")
}

func clauseByPattern(ctx *runtimectx.ExecutionContext) (string, bool) {
	v, ok := ctx.Resolve("_by_pattern_")
	if !ok {
		return "", false
	}
	s, _ := v.AsString()
	return s, true
}

func clauseByFlags(ctx *runtimectx.ExecutionContext) string {
	v, ok := ctx.Resolve("_by_flags_")
	if !ok {
		return ""
	}
	s, _ := v.AsString()
	return s
}

func clauseAggregationType(ctx *runtimectx.ExecutionContext) (string, bool) {
	v, ok := ctx.Resolve("_aggregation_type_")
	if !ok {
		return "", false
	}
	s, _ := v.AsString()
	return s, true
}

func clauseAggregationField(ctx *runtimectx.ExecutionContext) (string, bool) {
	v, ok := ctx.Resolve("_aggregation_field_")
	if !ok {
		return "", false
	}
	s, _ := v.AsString()
	return s, true
}

func clauseResultExpression(ctx *runtimectx.ExecutionContext) (value.Value, bool) {
	return ctx.Resolve("_result_expression_")
}

// clauseVerb reads the invoked verb synonym (e.g. "configure" vs
// "update"), a binding the executor writes alongside the other `_..._`
// auxiliaries so an implementation backing several synonyms can branch
// on which one was actually written (§4.D Update: "creating an empty
// map for configure"). It is not part of §3's enumerated clause list
// but qualifies for the same always-rebindable, cleared-per-statement
// treatment under isClauseName's generic "_..._" rule.
func clauseVerb(ctx *runtimectx.ExecutionContext) string {
	v, ok := ctx.Resolve("_verb_")
	if !ok {
		return ""
	}
	s, _ := v.AsString()
	return s
}

// --- list/path helpers ------------------------------------------------------

// reservedTypeNames are the type-name tokens Map/Extract-family
// specifiers must skip rather than treat as a field name (§4.D Map).
var reservedTypeNames = map[string]bool{
	"List": true, "Array": true, "Set": true, "Integer": true, "Int": true,
	"Float": true, "Double": true, "Number": true, "String": true,
	"Boolean": true, "Bool": true, "Object": true, "Dictionary": true, "Map": true,
}

// reverseIndex resolves a list-access specifier against xs using the
// canonical reverse-indexing semantics §9's Open Question pins:
// "first"/"last", a bare non-negative integer N meaning N-from-end
// (values[len-1-N]), an inclusive range "a-b", or a comma-separated pick
// list "a,b,c". ok is false when spec doesn't match any of these shapes.
func reverseIndex(xs []value.Value, spec string) (value.Value, bool) {
	n := len(xs)
	switch spec {
	case "first":
		if n == 0 {
			return value.Value{}, false
		}
		return xs[0], true
	case "last":
		if n == 0 {
			return value.Value{}, false
		}
		return xs[n-1], true
	}
	if i, err := strconv.Atoi(spec); err == nil {
		idx := n - 1 - i
		if idx < 0 || idx >= n {
			return value.Value{}, false
		}
		return xs[idx], true
	}
	if lo, hi, ok := parseRange(spec); ok {
		if lo < 0 || hi >= n || lo > hi {
			return value.Value{}, false
		}
		return value.List(xs[lo : hi+1]), true
	}
	if picks, ok := parsePick(spec); ok {
		out := make([]value.Value, 0, len(picks))
		for _, i := range picks {
			if i >= 0 && i < n {
				out = append(out, xs[i])
			}
		}
		return value.List(out), true
	}
	return value.Value{}, false
}

func parseRange(spec string) (int, int, bool) {
	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lo, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	hi, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

func parsePick(spec string) ([]int, bool) {
	if !strings.Contains(spec, ",") {
		return nil, false
	}
	parts := strings.Split(spec, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		i, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, false
		}
		out = append(out, i)
	}
	return out, true
}

// isPascalCase reports whether s looks like a PascalCase schema-name
// qualifier (Extract's result-specifier schema validation, §4.D) rather
// than a list-access or date-property token.
func isPascalCase(s string) bool {
	if s == "" || !('A' <= s[0] && s[0] <= 'Z') {
		return false
	}
	for _, r := range s {
		if !(r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')) {
			return false
		}
	}
	return true
}

var dateOffsetPattern = regexp.MustCompile(`^([+-]?\d+)([dhmsyM])$`)

// resolveOperationName applies the uniform priority §9's last Open
// Question calls for: an explicit result specifier naming the op, else
// result.Base when it is itself a known op name. Used by
// Compute/Validate/Transform/Sort and any action that consults
// specifiers for a sub-operation.
func resolveOperationName(result ast.ResultDescriptor, known map[string]bool) (string, int) {
	for i, s := range result.Specifiers {
		if known[s] {
			return s, i
		}
		if dateOffsetPattern.MatchString(s) {
			return s, i
		}
	}
	if known[result.Base] {
		return result.Base, -1
	}
	return "", -1
}

// firstNonEmpty returns the first non-empty string among xs.
func firstNonEmpty(xs ...string) string {
	for _, x := range xs {
		if x != "" {
			return x
		}
	}
	return ""
}
