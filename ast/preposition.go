package ast

// Preposition is the closed set of prepositions an ObjectDescriptor may
// carry (§3). Every action declares the subset it accepts via
// registry.Action.ValidPrepositions; anything outside that set is a typed
// InvalidPreposition error, never a silent fallback.
type Preposition string

const (
	From    Preposition = "from"
	To      Preposition = "to"
	With    Preposition = "with"
	For     Preposition = "for"
	Into    Preposition = "into"
	On      Preposition = "on"
	Via     Preposition = "via"
	Against Preposition = "against"
	At      Preposition = "at"
	Where   Preposition = "where"
	By      Preposition = "by"
)

// Valid reports whether p is one of the closed enum members. Values
// arriving from outside the parser (e.g. deserialized from JSON) must be
// checked with this before use.
func (p Preposition) Valid() bool {
	switch p {
	case From, To, With, For, Into, On, Via, Against, At, Where, By:
		return true
	}
	return false
}

// ActionRole classifies the effect category of an action (§3). It is
// informational — used by LSP-style tooling and by diagnostics — and is
// never a dispatch key; two actions with different roles can register the
// same verb.
type ActionRole string

const (
	RoleRequest  ActionRole = "request"
	RoleOwn      ActionRole = "own"
	RoleResponse ActionRole = "response"
	RoleExport   ActionRole = "export"
	RoleServer   ActionRole = "server"
)
