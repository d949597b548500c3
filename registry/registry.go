// Package registry implements the action registry (§3 component C):
// routes verbs — with synonyms — to implementations, and validates
// preposition compatibility before dispatch. A name->Action-implementation
// map carrying role and preposition metadata alongside the callable.
package registry

import (
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/sirupsen/logrus"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"
)

// RebindPolicy tells the executor whether an action already bound its
// result itself (Rebound) or expects the executor to bind the returned
// value (Fresh). This replaces identity-comparison guessing with an
// explicit result, per §9's "Opaque return values marking already
// bound" redesign note.
type RebindPolicy int

const (
	Fresh RebindPolicy = iota
	Rebound
)

// Action is the contract every implementation satisfies (§4.D, §6).
type Action interface {
	Role() ast.ActionRole
	Verbs() []string
	ValidPrepositions() []ast.Preposition
	Execute(result ast.ResultDescriptor, object ast.ObjectDescriptor, ctx *runtimectx.ExecutionContext) (value.Value, RebindPolicy, error)
}

// Registry is the process-wide verb->implementation table (§4.C, §5).
// Registration happens once at process start; Lookup is safe for
// concurrent, lock-free-ish (RWMutex-guarded) reads thereafter.
type Registry struct {
	mu     sync.RWMutex
	byVerb map[string]Action
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byVerb: make(map[string]Action)}
}

// Register adds impl under every verb in impl.Verbs() (case-folded to
// lowercase since Lookup is case-insensitive, §4.C). If a verb is
// already registered, the later registration wins and a warning is
// logged — tests pin the resulting ordering by controlling registration
// order.
func (r *Registry) Register(impl Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, verb := range impl.Verbs() {
		v := strings.ToLower(verb)
		if _, exists := r.byVerb[v]; exists {
			logrus.WithField("verb", v).Warn("registry: verb already registered, later registration wins")
		}
		r.byVerb[v] = impl
	}
}

// Lookup resolves verb to its implementation, case-insensitively
// (§4.C).
func (r *Registry) Lookup(verb string) (Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	impl, ok := r.byVerb[strings.ToLower(verb)]
	return impl, ok
}

// Suggest returns the registered verb with the smallest Levenshtein
// distance to verb, for "did you mean …" diagnostics on a failed
// Lookup.
func (r *Registry) Suggest(verb string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.byVerb) == 0 {
		return "", false
	}
	verbs := make([]string, 0, len(r.byVerb))
	for v := range r.byVerb {
		verbs = append(verbs, v)
	}
	sort.Strings(verbs) // deterministic tie-break
	best := verbs[0]
	bestDist := levenshtein.ComputeDistance(strings.ToLower(verb), best)
	for _, v := range verbs[1:] {
		d := levenshtein.ComputeDistance(strings.ToLower(verb), v)
		if d < bestDist {
			bestDist = d
			best = v
		}
	}
	return best, true
}

// ValidatePreposition returns InvalidPreposition when prep is outside
// impl.ValidPrepositions() (§4.C, §8 invariant).
func (r *Registry) ValidatePreposition(impl Action, verb string, prep ast.Preposition) error {
	for _, p := range impl.ValidPrepositions() {
		if p == prep {
			return nil
		}
	}
	names := make([]string, len(impl.ValidPrepositions()))
	for i, p := range impl.ValidPrepositions() {
		names[i] = string(p)
	}
	return runtimectx.InvalidPreposition(verb, string(prep), strings.Join(names, ", "))
}

// Verbs returns every registered verb, sorted, for diagnostics (cmd/aro
// actions, DESIGN.md's "RegistrySnapshot" supplement).
func (r *Registry) Verbs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byVerb))
	for v := range r.byVerb {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Snapshot describes one registered action for introspection.
type Snapshot struct {
	Verb               string
	Role               ast.ActionRole
	ValidPrepositions  []ast.Preposition
}

// RegistrySnapshot lists every registered verb with its role and valid
// prepositions, backing cmd/aro's "actions" command.
func (r *Registry) RegistrySnapshot() []Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Snapshot, 0, len(r.byVerb))
	for verb, impl := range r.byVerb {
		out = append(out, Snapshot{Verb: verb, Role: impl.Role(), ValidPrepositions: impl.ValidPrepositions()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Verb < out[j].Verb })
	return out
}
