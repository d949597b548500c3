package runtimectx

import (
	"strings"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/value"
)

// Binding is a single context entry (§3). Reserved underscore-named
// clause bindings are always Mutable; everything else is write-once
// unless the writer passes allowRebind.
type Binding struct {
	Name      string
	Value     value.Value
	Mutable   bool
	DefinedAt ast.Span
}

// reservedClauseNames are the auxiliary bindings the executor's clause
// binder writes before every action invocation (§3, §4.E). They are
// always rebindable and cleared at each statement boundary.
var reservedClauseNames = map[string]bool{
	"_literal_":            true,
	"_expression_":         true,
	"_with_":               true,
	"_to_":                 true,
	"_from_":               true,
	"_where_field_":        true,
	"_where_value_":        true,
	"_where_op_":           true,
	"_by_pattern_":         true,
	"_by_flags_":           true,
	"_aggregation_type_":   true,
	"_aggregation_field_":  true,
	"_result_expression_":  true,
	"_expression_name_":    true,
	"_object_":             true,
}

// IsReservedClauseName reports whether name is one of the reserved
// underscore-bracketed auxiliary bindings (§3).
func IsReservedClauseName(name string) bool {
	return reservedClauseNames[name]
}

// isClauseName additionally recognizes the "_..._ " shape generically,
// so a future clause not enumerated by name still gets reserved-binding
// treatment rather than tripping ImmutabilityViolation.
func isClauseName(name string) bool {
	return reservedClauseNames[name] || (strings.HasPrefix(name, "_") && strings.HasSuffix(name, "_") && len(name) > 1)
}
