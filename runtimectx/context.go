// Package runtimectx implements ExecutionContext (§3 Binding/Response,
// §4.B): the per-activation variable store, clause bindings, service
// registry, event emission, response capture and immutability policy
// every action body executes against.
package runtimectx

import (
	"sync"

	"github.com/arolang/aro-sub008/ast"
	"github.com/arolang/aro-sub008/events"
	"github.com/arolang/aro-sub008/value"
)

// OutputContext selects the Log action's output format (§4.D).
type OutputContext int

const (
	OutputMachine OutputContext = iota
	OutputHuman
	OutputDeveloper
)

// SchemaRegistry validates a value against a registered PascalCase
// schema name, backing Extract's schema-name result specifier (§4.D).
type SchemaRegistry interface {
	Validate(schemaName string, v value.Value) error
	Has(schemaName string) bool
}

// ExecutionContext owns one feature-set activation's variable bindings
// and collaborators (§4.B). A context is never shared for writes across
// activations; reading bindings concurrently from the owning activation
// is safe, per §5.
type ExecutionContext struct {
	mu       sync.RWMutex
	bindings map[string]*Binding

	services *serviceRegistry

	eventBus *events.Bus

	responseMu   sync.Mutex
	response     *Response
	hasResponse  bool

	waitMu    sync.Mutex
	waiting   bool

	OutputContextKind OutputContext
	IsCompiled        bool
	BusinessActivity  string
	FeatureSetName    string
	SchemaRegistryRef SchemaRegistry
}

// New returns a fresh ExecutionContext for one feature-set activation.
func New(featureSetName, businessActivity string, bus *events.Bus) *ExecutionContext {
	return &ExecutionContext{
		bindings:         make(map[string]*Binding),
		services:         newServiceRegistry(),
		eventBus:         bus,
		FeatureSetName:   featureSetName,
		BusinessActivity: businessActivity,
	}
}

// Child returns a fresh ExecutionContext seeded with a copy of the
// current bindings, used by ForEach iteration scoping (§4.E); When
// seeds its child from Bindings instead.
func (c *ExecutionContext) Child(featureSetName, businessActivity string) *ExecutionContext {
	child := New(featureSetName, businessActivity, c.eventBus)
	child.services = c.services
	child.OutputContextKind = c.OutputContextKind
	child.IsCompiled = c.IsCompiled
	child.SchemaRegistryRef = c.SchemaRegistryRef

	c.mu.RLock()
	defer c.mu.RUnlock()
	for name, b := range c.bindings {
		if isClauseName(name) {
			continue
		}
		cp := *b
		child.bindings[name] = &cp
	}
	return child
}

// Bind writes name = v. A second write to an already-bound, non-reserved
// name fails with ImmutabilityViolation unless allowRebind is true
// (§3, §4.B, §8 invariant).
func (c *ExecutionContext) Bind(name string, v value.Value, allowRebind bool, at ast.Span) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	reserved := isClauseName(name)
	if existing, ok := c.bindings[name]; ok && !reserved && !allowRebind && !existing.Mutable {
		return ImmutabilityViolation(name)
	}
	c.bindings[name] = &Binding{Name: name, Value: v, Mutable: reserved, DefinedAt: at}
	return nil
}

// Resolve returns the current binding for name, or (zero, false) when
// unbound. It does not resolve dotted paths — callers needing "x.y.z"
// compose Resolve with their own path walk (§4.B), which is exactly
// what actions.Extract does.
func (c *ExecutionContext) Resolve(name string) (value.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bindings[name]
	if !ok {
		return value.Value{}, false
	}
	return b.Value, true
}

// ResolveTyped is kept distinct from Resolve per §4.B to emphasize that
// callers should reason about the TypedValue variant they get back; the
// implementation is identical.
func (c *ExecutionContext) ResolveTyped(name string) (value.Value, bool) {
	return c.Resolve(name)
}

// Bindings snapshots every non-clause binding currently held, the
// collaborator a TestExecutionContext uses to fork a child context
// "seeded with current bindings" for the When action (§4.D test
// family).
func (c *ExecutionContext) Bindings() map[string]value.Value {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]value.Value, len(c.bindings))
	for name, b := range c.bindings {
		if isClauseName(name) {
			continue
		}
		out[name] = b.Value
	}
	return out
}

// ClearClauseBindings removes every reserved underscore-named binding,
// called by the executor at each statement boundary (§3, §4.E).
func (c *ExecutionContext) ClearClauseBindings() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name := range c.bindings {
		if isClauseName(name) {
			delete(c.bindings, name)
		}
	}
}

// EventBus returns the context's event bus handle, or nil when none was
// configured. Callers needing synchronous ordering must use
// PublishAndTrack through it directly rather than Emit (§4.B).
func (c *ExecutionContext) EventBus() *events.Bus { return c.eventBus }

// Emit is the fire-and-forget publish helper (§4.B).
func (c *ExecutionContext) Emit(ev events.Event) {
	if c.eventBus == nil {
		return
	}
	c.eventBus.Publish(ev)
}

// SetResponse records the terminal response. The first call wins;
// subsequent calls are ignored (§3, §4.B).
func (c *ExecutionContext) SetResponse(r Response) {
	c.responseMu.Lock()
	defer c.responseMu.Unlock()
	if c.hasResponse {
		return
	}
	c.response = &r
	c.hasResponse = true
}

// ResponseCaptured reports whether SetResponse has been called, and the
// captured Response when it has.
func (c *ExecutionContext) ResponseCaptured() (Response, bool) {
	c.responseMu.Lock()
	defer c.responseMu.Unlock()
	if !c.hasResponse {
		return Response{}, false
	}
	return *c.response, true
}

// EnterWaitState marks the context blocked, used by the Wait action to
// coordinate with an external shutdown coordinator (§4.B, §4.D).
func (c *ExecutionContext) EnterWaitState() {
	c.waitMu.Lock()
	defer c.waitMu.Unlock()
	c.waiting = true
}

func (c *ExecutionContext) Waiting() bool {
	c.waitMu.Lock()
	defer c.waitMu.Unlock()
	return c.waiting
}
