// Package repository implements the in-memory, multi-tenant key/value/list
// storage backing any object name ending in "-repository" (§3, §4.F): a
// single process-wide store behind a narrow interface, with writes
// serialized per partition and reads lock-mostly, keyed by flat
// (businessActivity, repositoryName) -> []Value partitions.
package repository

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/arolang/aro-sub008/value"
)

// key partitions storage: one slice per (businessActivity, repositoryName)
// pair.
type key struct {
	biz  string
	repo string
}

// StoreResult reports what Store (§4.D) needs to know about a write:
// whether an existing entry with the same "id" field was replaced, and
// what its prior value was, so the caller can emit the correct
// RepositoryChangedEvent changeType.
type StoreResult struct {
	StoredValue value.Value
	EntityID    string
	IsUpdate    bool
	OldValue    value.Value
	HasOld      bool
}

// DeleteResult reports the entries removed by a Delete (§4.D, §4.F).
type DeleteResult struct {
	Removed []value.Value
	Count   int
}

// partition holds one repository's entries plus its own mutex, so
// writes to unrelated repositories never contend (§5: "cross-repo
// operations run in parallel").
type partition struct {
	mu      sync.Mutex
	entries []value.Value
}

// Store is the process-wide repository storage handle. The zero value
// is not ready for use; construct with New.
type Store struct {
	mu         sync.RWMutex
	partitions map[key]*partition
}

// New returns an empty repository store.
func New() *Store {
	return &Store{partitions: make(map[key]*partition)}
}

// IsRepositoryName reports whether name addresses a repository by the
// "-repository" suffix convention (§6).
func IsRepositoryName(name string) bool {
	return strings.HasSuffix(name, "-repository")
}

func (s *Store) partitionFor(biz, repo string) *partition {
	k := key{biz: biz, repo: repo}
	s.mu.RLock()
	p, ok := s.partitions[k]
	s.mu.RUnlock()
	if ok {
		return p
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok = s.partitions[k]; ok {
		return p
	}
	p = &partition{}
	s.partitions[k] = p
	return p
}

// entityID extracts the "id" field from a map-shaped value, returning
// "" when absent or when v is not a map.
func entityID(v value.Value) (string, bool) {
	m, ok := v.AsDict()
	if !ok {
		return "", false
	}
	idv, ok := m["id"]
	if !ok {
		return "", false
	}
	s, ok := idv.AsString()
	return s, ok
}

// withAutoID returns v unchanged unless it is a map lacking an "id"
// field, in which case it returns a copy with a freshly generated id
// (§4.F: "appends, with auto-id injection for maps lacking one"). This
// uses google/uuid rather than the bespoke hex(millis)+hex(rand32)
// scheme Create uses for its own result id, which is reserved for
// Create's own fallback and not for repository auto-ids.
func withAutoID(v value.Value) value.Value {
	m, ok := v.AsDict()
	if !ok {
		return v
	}
	if _, has := m["id"]; has {
		return v
	}
	m["id"] = value.String(uuid.NewString())
	return value.Map(m)
}

// StoreWithChangeInfo appends v to (repo, biz), auto-assigning an id
// when v is a map without one, and replacing any existing entry sharing
// that id in place (§4.F).
func (s *Store) StoreWithChangeInfo(v value.Value, repo, biz string) StoreResult {
	p := s.partitionFor(biz, repo)
	p.mu.Lock()
	defer p.mu.Unlock()

	v = withAutoID(v)
	id, hasID := entityID(v)

	if hasID {
		for i, existing := range p.entries {
			if existingID, ok := entityID(existing); ok && existingID == id {
				old := existing
				p.entries[i] = v
				return StoreResult{StoredValue: v, EntityID: id, IsUpdate: true, OldValue: old, HasOld: true}
			}
		}
	}

	p.entries = append(p.entries, v)
	return StoreResult{StoredValue: v, EntityID: id, IsUpdate: false}
}

// WhereClause is the equality predicate Retrieve/Delete apply against
// map-shaped entries (§3: "A where-clause query returns the sublist
// whose dictionary entries match field op value").
type WhereClause struct {
	Field string
	Op    string
	Value value.Value
}

func matches(entry value.Value, w *WhereClause) bool {
	if w == nil {
		return true
	}
	m, ok := entry.AsDict()
	if !ok {
		return false
	}
	fv, ok := m[w.Field]
	if !ok {
		return false
	}
	return compareOp(fv, w.Op, w.Value)
}

// compareOp is intentionally small: equality and inequality, plus the
// numeric orderings >, >=, < and <=; the richer operator set (contains,
// starts-with, regex, …) belongs to the Filter action, not storage.
func compareOp(a value.Value, op string, b value.Value) bool {
	switch op {
	case "", "=", "==", "is", "equals":
		return a.Equal(b)
	case "!=", "is-not":
		return !a.Equal(b)
	default:
		if eq, ok := value.EqualAsDouble(a, b); ok {
			switch op {
			case ">":
				af, _ := a.AsDouble()
				bf, _ := b.AsDouble()
				return af > bf
			case ">=":
				af, _ := a.AsDouble()
				bf, _ := b.AsDouble()
				return af >= bf
			case "<":
				af, _ := a.AsDouble()
				bf, _ := b.AsDouble()
				return af < bf
			case "<=":
				af, _ := a.AsDouble()
				bf, _ := b.AsDouble()
				return af <= bf
			}
			return eq
		}
		return false
	}
}

// Retrieve returns the full entry list for (repo, biz), or the filtered
// sublist when where is non-nil. An empty or missing repository yields
// an empty, non-error slice (§8 boundary behavior).
func (s *Store) Retrieve(repo, biz string, where *WhereClause) []value.Value {
	p := s.partitionFor(biz, repo)
	p.mu.Lock()
	defer p.mu.Unlock()

	if where == nil {
		out := make([]value.Value, len(p.entries))
		copy(out, p.entries)
		return out
	}
	var out []value.Value
	for _, e := range p.entries {
		if matches(e, where) {
			out = append(out, e)
		}
	}
	return out
}

// Delete removes every entry matching where, requiring a non-nil
// predicate — Retrieve's "Delete on a repository without a where-clause
// is RuntimeError" (§4.D) is enforced by the caller (actions.Delete),
// not here, since storage itself has no opinion on that policy.
func (s *Store) Delete(repo, biz string, where *WhereClause) DeleteResult {
	p := s.partitionFor(biz, repo)
	p.mu.Lock()
	defer p.mu.Unlock()

	kept := p.entries[:0:0]
	var removed []value.Value
	for _, e := range p.entries {
		if matches(e, where) {
			removed = append(removed, e)
		} else {
			kept = append(kept, e)
		}
	}
	p.entries = kept
	return DeleteResult{Removed: removed, Count: len(removed)}
}

// Reset clears every partition. Repositories live for the lifetime of
// the process "unless reset" (§3); production wiring never calls this,
// it exists for test isolation between feature-set activations.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partitions = make(map[key]*partition)
}
