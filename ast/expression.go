package ast

// Expression is the tagged union of value-source shapes a clause
// (`with`, `to`, `from`, `by`) can carry. The concrete parser (out of
// scope, §1) is responsible for classifying raw clause text into one of
// these variants; the executor's clause binder (exec.bindClauses) only
// ever switches on Kind.
type Expression struct {
	Kind ExpressionKind

	// Literal is set when Kind == ExprLiteral.
	Literal *Literal

	// VariableRef is set when Kind == ExprVariableRef: a dotted path like
	// "order.status" or a bare name like "a".
	VariableRef string

	// Binary is set when Kind == ExprBinary, e.g. <a+b>.
	Binary *BinaryExpr

	// List/Map are set for composite literal expressions.
	List []Expression
	Map  map[string]Expression

	// Pattern/Flags are set when Kind == ExprRegex (the `by /pat/flags`
	// clause shape).
	Pattern string
	Flags   string

	// Aggregation is set when Kind == ExprAggregate, e.g. `sum(<amt>)`.
	Aggregation *AggregateExpr

	// Raw carries the clause's original text for variants the clause
	// binder passes through without further parsing (e.g. the `_with_`
	// generic config clause).
	Raw string
}

// ExpressionKind discriminates Expression's variant.
type ExpressionKind int

const (
	ExprNone ExpressionKind = iota
	ExprLiteral
	ExprVariableRef
	ExprBinary
	ExprList
	ExprMap
	ExprRegex
	ExprAggregate
	ExprRaw
)

// BinaryExpr is a two-operand arithmetic/reference expression such as
// `<a+b>` consumed by Compute's `identity`/arithmetic dispatch.
type BinaryExpr struct {
	Op    string // "+", "-", "*", "/"
	Left  string
	Right string
}

// AggregateExpr is the `with aggregate(field)` clause shape consumed by
// Reduce, e.g. `sum(<amt>)`.
type AggregateExpr struct {
	Type  string // count, sum, avg, min, max, first, last
	Field string
}

// ContainsVariableRef reports whether the expression references any
// variable. exec's clause binder does not call it; it routes a value
// source by the expression's Kind.
func (e Expression) ContainsVariableRef() bool {
	switch e.Kind {
	case ExprVariableRef, ExprBinary, ExprAggregate:
		return true
	case ExprList:
		for _, item := range e.List {
			if item.ContainsVariableRef() {
				return true
			}
		}
		return false
	case ExprMap:
		for _, item := range e.Map {
			if item.ContainsVariableRef() {
				return true
			}
		}
		return false
	default:
		return false
	}
}
