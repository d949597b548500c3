// Package events implements the typed pub/sub bus (§3 Events, §4.F).
// Subscribers are plain functions, not feature sets — the executor
// package is the one that discovers feature sets whose business
// activity reads "<event> Handler" and wires them to the bus as
// subscriber functions, keeping this package independent of exec (no
// import cycle, and the bus stays reusable outside the ARO runtime).
package events

import (
	"time"

	"github.com/arolang/aro-sub008/value"
)

// Event is the common interface every event variant implements (§3).
type Event interface {
	EventType() string
	Timestamp() time.Time
}

// DomainEvent is emitted by the Emit action (§4.D). DomainEventType is
// the business name subscribers match against; the bus additionally
// exposes a wildcard slot keyed by "<type> Handler" business activity
// for feature-set subscribers (§4.F).
type DomainEvent struct {
	Type    string
	Payload map[string]value.Value
	At      time.Time
}

func (e DomainEvent) EventType() string       { return "domain" }
func (e DomainEvent) Timestamp() time.Time    { return e.At }
func (e DomainEvent) DomainEventType() string { return e.Type }

// RepositoryChangeKind enumerates the §3 change types.
type RepositoryChangeKind string

const (
	Created RepositoryChangeKind = "created"
	Updated RepositoryChangeKind = "updated"
	Deleted RepositoryChangeKind = "deleted"
)

// RepositoryChangedEvent is emitted by Store and Delete (§4.D, §6).
type RepositoryChangedEvent struct {
	RepositoryName string
	ChangeType     RepositoryChangeKind
	EntityID       string
	NewValue       *value.Value
	OldValue       *value.Value
	At             time.Time
}

func (e RepositoryChangedEvent) EventType() string    { return "repository_changed" }
func (e RepositoryChangedEvent) Timestamp() time.Time { return e.At }

// StateTransitionEvent is emitted by Accept (§4.D).
type StateTransitionEvent struct {
	FieldName  string
	ObjectName string
	FromState  string
	ToState    string
	EntityID   string
	Entity     value.Value
	At         time.Time
}

func (e StateTransitionEvent) EventType() string    { return "state_transition" }
func (e StateTransitionEvent) Timestamp() time.Time { return e.At }

// VariablePublishedEvent is emitted by Publish (§4.D).
type VariablePublishedEvent struct {
	Name  string
	Value value.Value
	At    time.Time
}

func (e VariablePublishedEvent) EventType() string    { return "variable_published" }
func (e VariablePublishedEvent) Timestamp() time.Time { return e.At }

// MessageSentEvent is emitted by Send when no socket/messaging service
// handled the delivery directly (§4.D).
type MessageSentEvent struct {
	Destination string
	Data        value.Value
	At          time.Time
}

func (e MessageSentEvent) EventType() string    { return "message_sent" }
func (e MessageSentEvent) Timestamp() time.Time { return e.At }

// NotificationSentEvent is emitted by Notify absent a registered
// notification service (§4.D).
type NotificationSentEvent struct {
	Channel string
	Message value.Value
	At      time.Time
}

func (e NotificationSentEvent) EventType() string    { return "notification_sent" }
func (e NotificationSentEvent) Timestamp() time.Time { return e.At }

// BroadcastRequestedEvent is emitted by Broadcast absent a registered
// server/connection set (§4.D).
type BroadcastRequestedEvent struct {
	Message value.Value
	At      time.Time
}

func (e BroadcastRequestedEvent) EventType() string    { return "broadcast_requested" }
func (e BroadcastRequestedEvent) Timestamp() time.Time { return e.At }
