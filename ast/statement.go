package ast

// Action is the verb-bearing head of a statement: the surface text
// `<Verb>` plus the role the parser assigned it (§3). Role is carried
// here purely as provenance; the registry re-derives dispatch from the
// verb string alone (§4.C).
type Action struct {
	Verb string
	Role ActionRole
	Span Span
}

// WhereClause is the `where field op value` query modifier attached to a
// statement (Filter, Retrieve, Delete).
type WhereClause struct {
	Field string
	Op    string
	Value Expression
	Span  Span
}

// QueryModifiers groups the optional modifiers a statement may carry
// beyond its primary result/object pair.
type QueryModifiers struct {
	WhereClause *WhereClause
}

// AROStatement is a single parsed sentence: `<Verb> the <result> prep the
// <object> [with …] [where …]` (§3, GLOSSARY). ValueSource carries
// whichever of `with`/`to`/`from`/`by` clause the statement bears; the
// executor's clause binder (exec.bindClauses) is responsible for routing
// it into the correct `_..._` auxiliary binding.
type AROStatement struct {
	Action         Action
	Result         ResultDescriptor
	Object         ObjectDescriptor
	ValueSource    *Expression
	QueryModifiers QueryModifiers
	Span           Span
}

// PublishStatement is the dedicated surface form for the `Publish`
// action's "bind externally under a different name" semantics; the
// executor treats it identically to an AROStatement with verb "publish"
// (exec.Executor.run builds that AROStatement from it).
type PublishStatement struct {
	Result ResultDescriptor
	Object ObjectDescriptor
	Span   Span
}

// MatchBranch is one arm of a MatchStatement.
type MatchBranch struct {
	Predicate Expression
	Body      []AROStatement
}

// MatchStatement is macro-expanded by the executor into a sequence of
// guarded statement blocks (§4.E: "Match and for-each statements are
// macro-expanded into sequences of ARO statements").
type MatchStatement struct {
	Subject  Expression
	Branches []MatchBranch
	Span     Span
}

// ForEachLoop is macro-expanded into one statement block per iteration,
// with ItemVariable bound fresh in each iteration's child scope.
type ForEachLoop struct {
	ItemVariable string
	Source       Expression
	Body         []AROStatement
	Span         Span
}

// Statement is the union the executor actually walks: a FeatureSet's Body
// is a flat, ordered list of these. The parser (out of scope) is
// responsible for producing this shape; the executor's run loop handles
// MatchStatement and ForEachLoop itself, running the chosen branch or
// each iteration's body as plain AROStatements (§4.E).
type Statement struct {
	ARO       *AROStatement
	Publish   *PublishStatement
	Match     *MatchStatement
	ForEach   *ForEachLoop
}

// FeatureSet is a named, ordered sequence of statements with a business
// activity tag (GLOSSARY). BusinessActivity is consulted by the event bus
// to route DomainEvent subscribers to feature sets named
// "<event> Handler" (§4.F).
type FeatureSet struct {
	Name             string
	BusinessActivity string
	Body             []Statement
}
