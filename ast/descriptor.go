package ast

import "fmt"

// Article is the optional English article carried by a descriptor phrase
// ("a", "an", "the"). It has no semantic effect on execution; it is kept
// only so formatting/LSP tooling can round-trip source text faithfully.
type Article string

const (
	ArticleNone Article = ""
	ArticleA    Article = "a"
	ArticleAn   Article = "an"
	ArticleThe  Article = "the"
)

// Literal is a parsed literal value attached to an ObjectDescriptor
// (`<x: "literal">` phrases). The parser produces these already typed;
// the core never re-lexes them.
type Literal struct {
	String  *string
	Integer *int64
	Float   *float64
	Boolean *bool
}

// ResultDescriptor names the destination variable of a statement and any
// qualifiers on it (§3). Invariant: Base is non-empty, and every non-empty
// entry of Specifiers is itself non-empty — enforced by NewResultDescriptor.
type ResultDescriptor struct {
	Base           string
	Specifiers     []string
	Article        Article
	TypeAnnotation string
	Span           Span
}

// NewResultDescriptor validates the invariants from §3 before returning a
// descriptor: Base must be non-empty and no specifier may be an empty
// string.
func NewResultDescriptor(base string, specifiers []string, article Article, typeAnnotation string, span Span) (ResultDescriptor, error) {
	if base == "" {
		return ResultDescriptor{}, fmt.Errorf("ast: result descriptor requires a non-empty base name")
	}
	for i, s := range specifiers {
		if s == "" {
			return ResultDescriptor{}, fmt.Errorf("ast: result descriptor specifier %d is empty", i)
		}
	}
	return ResultDescriptor{
		Base:           base,
		Specifiers:     specifiers,
		Article:        article,
		TypeAnnotation: typeAnnotation,
		Span:           span,
	}, nil
}

// Specifier returns the i-th specifier, or "" when out of range. Callers
// that need to distinguish "absent" from "empty string" should index
// Specifiers directly; in practice NewResultDescriptor already guarantees
// specifiers are never empty strings, so "" reliably means absent.
func (r ResultDescriptor) Specifier(i int) string {
	if i < 0 || i >= len(r.Specifiers) {
		return ""
	}
	return r.Specifiers[i]
}

// FullName renders "base: s1: s2" the way Throw's reason string and Log's
// fallback message expect.
func (r ResultDescriptor) FullName() string {
	out := r.Base
	for _, s := range r.Specifiers {
		out += ": " + s
	}
	return out
}

// ObjectDescriptor names the source of a statement's value (§3). It
// carries the required Preposition connecting it to the verb, and an
// optional inline Literal when the object phrase is itself a literal
// (`<"value">`) rather than a variable reference.
type ObjectDescriptor struct {
	Base         string
	Specifiers   []string
	Article      Article
	Preposition  Preposition
	LiteralValue *Literal
	Span         Span
}

// NewObjectDescriptor validates the same non-empty invariants as
// NewResultDescriptor, plus requires a valid Preposition.
func NewObjectDescriptor(base string, specifiers []string, article Article, prep Preposition, lit *Literal, span Span) (ObjectDescriptor, error) {
	if base == "" {
		return ObjectDescriptor{}, fmt.Errorf("ast: object descriptor requires a non-empty base name")
	}
	if !prep.Valid() {
		return ObjectDescriptor{}, fmt.Errorf("ast: object descriptor has invalid preposition %q", prep)
	}
	for i, s := range specifiers {
		if s == "" {
			return ObjectDescriptor{}, fmt.Errorf("ast: object descriptor specifier %d is empty", i)
		}
	}
	return ObjectDescriptor{
		Base:        base,
		Specifiers:  specifiers,
		Article:     article,
		Preposition: prep,
		LiteralValue: lit,
		Span:        span,
	}, nil
}

func (o ObjectDescriptor) Specifier(i int) string {
	if i < 0 || i >= len(o.Specifiers) {
		return ""
	}
	return o.Specifiers[i]
}

func (o ObjectDescriptor) FullName() string {
	out := o.Base
	for _, s := range o.Specifiers {
		out += ": " + s
	}
	return out
}
