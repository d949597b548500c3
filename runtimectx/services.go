package runtimectx

import (
	"reflect"
	"sync"
)

// serviceRegistry is the type-keyed service registry backing
// ExecutionContext.Register/Service (§3, §4.B, §6). Service keys are Go
// interface types supplied by the embedding application — a file
// system, an HTTP client, a messaging bus, a logging sink, a terminal,
// repository storage, a schema registry, an OpenAPI spec, a date
// service. The registry itself is agnostic to what those interfaces
// look like; actions.* defines them.
type serviceRegistry struct {
	mu       sync.RWMutex
	services map[reflect.Type]any
}

func newServiceRegistry() *serviceRegistry {
	return &serviceRegistry{services: make(map[reflect.Type]any)}
}

// RegisterService stores svc keyed by its own concrete type. Use
// Register[S] to register it under an interface type instead.
func (r *serviceRegistry) RegisterService(svc any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[reflect.TypeOf(svc)] = svc
}

// registerAs is used by the generic Register[S] helper below to key the
// registry entry by the interface type S rather than svc's concrete
// type, which is what Service[S] looks up by.
func (r *serviceRegistry) registerAs(key reflect.Type, svc any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[key] = svc
}

func (r *serviceRegistry) lookup(key reflect.Type) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.services[key]
	return v, ok
}

// Register stores svc under the interface type S (e.g.
// Register[FileSystemService](ctx, aferoFS)), matching §4.B's
// "register(service)". Call via the package-level Register function;
// methods cannot carry their own type parameters in Go.
func Register[S any](ctx *ExecutionContext, svc S) {
	var zero S
	key := reflect.TypeOf(&zero).Elem()
	ctx.services.registerAs(key, svc)
}

// Service looks up the service registered under interface type S,
// matching §4.B's "service<S>() -> S?".
func Service[S any](ctx *ExecutionContext) (S, bool) {
	var zero S
	key := reflect.TypeOf(&zero).Elem()
	v, ok := ctx.services.lookup(key)
	if !ok {
		var empty S
		return empty, false
	}
	svc, ok := v.(S)
	return svc, ok
}
