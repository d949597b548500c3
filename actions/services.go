package actions

import (
	"context"
	"time"

	"github.com/arolang/aro-sub008/value"
)

// ParameterStorage is the launch-parameter lookup contract §6 names as
// one of the two CLI-integration points the core relies on:
// ParameterStorage.get(name) / getAll().
type ParameterStorage interface {
	Get(name string) (value.Value, bool)
	GetAll() map[string]value.Value
}

// HTTPClient backs the Request action's outbound HTTP calls.
type HTTPClient interface {
	Do(method, url string, headers map[string]string, body []byte, timeout time.Duration) (status int, respHeaders map[string]string, respBody []byte, err error)
}

// ShellExecutor backs the Execute action's host-shell invocations.
type ShellExecutor interface {
	Run(command string, args []string, workingDirectory string, env map[string]string, timeout time.Duration, captureStderr bool) (ExecResult, error)
}

// ExecResult is the structured result Execute always returns even on a
// non-zero exit (§4.D: "wrap shell non-zero exits in the structured
// result rather than failing").
type ExecResult struct {
	Error    bool
	Message  string
	Output   string
	ExitCode int
	Command  string
}

// SocketServer backs Send's first-choice destination (by connection id)
// and Broadcast/Connect/Close/Listen/Start's socket-server branch.
type SocketServer interface {
	Send(connectionID string, data []byte) error
	Broadcast(data []byte) error
	Close(connectionID string) error
	Connect(host string, port int) (connectionID string, err error)
	Listen(port int) error
	Stop() error
}

// MessagingService backs Send/Publish's messaging-bus fallback.
type MessagingService interface {
	Publish(destination string, data value.Value) error
}

// LoggingService preempts Log's direct stdout/stderr writes when
// registered (§4.D Log: "A registered logging service preempts direct
// writes").
type LoggingService interface {
	Write(target string, level string, source string, message string) error
}

// NotificationService backs Notify when registered, else Notify emits
// NotificationSentEvent.
type NotificationService interface {
	Notify(channel string, message value.Value) error
}

// HTTPServerControl backs Start/Stop's "http-server" branch.
type HTTPServerControl interface {
	Start(port int) error
	Stop() error
}

// OpenAPISpecService supplies the port Start falls back to when no
// explicit port is given (§4.D Start).
type OpenAPISpecService interface {
	Port() (int, bool)
}

// DateService backs date-family Compute/Extract operations that need a
// "current time" notion pluggable for tests.
type DateService interface {
	Now() time.Time
}

// TestExecutionContext is the collaborator the When action requires
// (§4.D test family): it looks up a named feature set, forks a child
// context seeded with current bindings, executes it, and returns the
// terminal response's primary datum.
type TestExecutionContext interface {
	RunFeatureSet(name string, seed map[string]value.Value) (value.Value, error)
}

// AssertionRecorder records Then/Assert outcomes on the enclosing test
// context (§4.D test family, §7: "Assertion errors propagate to the
// enclosing test runner").
type AssertionRecorder interface {
	RecordAssertion(variable string, expected, actual value.Value, passed bool)
}

// ShutdownCoordinator is the singleton Wait/Keepalive/Block blocks on
// until SIGINT/SIGTERM fires (§4.D server family, §5).
type ShutdownCoordinator interface {
	InstallOnce()
	Wait()
}

// FileMonitorService backs Start/Stop's "file-monitor" branch, registered
// in cmd/aro by internal/filemon.Registry.
type FileMonitorService interface {
	Watch(path string) error
	Unwatch(path string) error
}

// RateLimiter throttles Request's outbound calls when registered; absent
// by default, so a feature set only pays for it when the host process
// wires one in.
type RateLimiter interface {
	Wait(ctx context.Context) error
}
