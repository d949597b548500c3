// Package ast defines the data model the executor consumes: descriptors,
// statements and prepositions. It is a pure data layer — no behavior lives
// here beyond constructor validation, keeping term construction free of
// evaluation logic.
package ast

import "fmt"

// Span records a position range in the original feature-set source. The
// core never parses source text itself (§1 scope); Span values arrive
// already populated from the parser and are carried through for
// diagnostics only.
type Span struct {
	File string
	Row  int
	Col  int
}

// String renders the span as "file:row:col", omitting the file segment
// when unset.
func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.Row, s.Col)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Row, s.Col)
}
