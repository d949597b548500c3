package events

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Handler processes a single event. Returning an error from a Handler
// never fails the publishing activation (§7: "Domain event handlers
// that fail do NOT fail their triggering activation") — PublishAndTrack
// only guarantees handlers have *run* before it returns, their errors
// are reported through ErrorSink.
type Handler func(ctx context.Context, ev Event) error

// ErrorSink receives handler errors captured off the bus. Tests can
// substitute a sink that records calls; cmd/aro passes nil, so its
// handler errors are dropped (see New).
type ErrorSink func(ev Event, handlerID int64, err error)

type subscription struct {
	id      int64
	handler Handler
}

// Bus is the process-wide event bus (§4.F). Subscribers are plain
// functions rather than feature sets; exec.Executor is responsible for
// discovering feature sets named "<event> Handler" and registering them
// here as Handler closures, so this package stays independent of the
// executor (no import cycle) and reusable as a plain pub/sub primitive
// the way the nugget-thane events.Bus in the example pack is.
type Bus struct {
	mu         sync.RWMutex
	byType     map[string][]subscription
	byDomain   map[string][]subscription
	nextID     int64
	errorSink  ErrorSink
}

// New returns a ready-to-use Bus. errorSink may be nil, in which case
// handler errors are silently dropped (still matching the "does not
// fail the activation" rule, just without observability).
func New(errorSink ErrorSink) *Bus {
	return &Bus{
		byType:    make(map[string][]subscription),
		byDomain:  make(map[string][]subscription),
		errorSink: errorSink,
	}
}

// Subscription identifies a registered handler for Unsubscribe.
type Subscription struct {
	kind   string // "type" or "domain"
	key    string
	id     int64
}

// Subscribe registers h for every event whose EventType() == eventType.
func (b *Bus) Subscribe(eventType string, h Handler) Subscription {
	id := atomic.AddInt64(&b.nextID, 1)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byType[eventType] = append(b.byType[eventType], subscription{id: id, handler: h})
	return Subscription{kind: "type", key: eventType, id: id}
}

// SubscribeDomain registers h for DomainEvent instances whose
// DomainEventType() == domainType — the wildcard slot §4.F describes for
// business-activity-matched feature-set handlers.
func (b *Bus) SubscribeDomain(domainType string, h Handler) Subscription {
	id := atomic.AddInt64(&b.nextID, 1)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byDomain[domainType] = append(b.byDomain[domainType], subscription{id: id, handler: h})
	return Subscription{kind: "domain", key: domainType, id: id}
}

// Unsubscribe removes a previously registered subscription. Safe to call
// twice; the second call is a no-op.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var table map[string][]subscription
	if sub.kind == "domain" {
		table = b.byDomain
	} else {
		table = b.byType
	}
	subs := table[sub.key]
	for i, s := range subs {
		if s.id == sub.id {
			table[sub.key] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// matched returns the handler snapshot for ev taken under the bus's
// read lock: only subscribers registered at publish time are notified.
func (b *Bus) matched(ev Event) []subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := append([]subscription{}, b.byType[ev.EventType()]...)
	if de, ok := ev.(DomainEvent); ok {
		out = append(out, b.byDomain[de.DomainEventType()]...)
	}
	return out
}

// Publish is fire-and-forget: handlers run on their own goroutines and
// Publish returns immediately, carrying no ordering guarantee with
// subsequent statements (§5).
func (b *Bus) Publish(ev Event) {
	for _, s := range b.matched(ev) {
		go b.invoke(context.Background(), s, ev)
	}
}

// PublishAndTrack runs every matched handler concurrently and blocks
// until all of them have returned, giving Store/Emit a happens-before
// ordering with subsequent statements before a terminal Return (§5).
// Handler errors are routed to the ErrorSink, never returned to the
// caller — see Handler's doc comment.
func (b *Bus) PublishAndTrack(ctx context.Context, ev Event) error {
	subs := b.matched(ev)
	if len(subs) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range subs {
		s := s
		g.Go(func() error {
			b.invoke(gctx, s, ev)
			return nil
		})
	}
	return g.Wait()
}

func (b *Bus) invoke(ctx context.Context, s subscription, ev Event) {
	if err := s.handler(ctx, ev); err != nil && b.errorSink != nil {
		b.errorSink(ev, s.id, err)
	}
}
