package runtimectx

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind enumerates the §7 error taxonomy: a closed set callers can
// switch on instead of matching error strings.
type ErrorKind int

const (
	KindUndefinedVariable ErrorKind = iota
	KindPropertyNotFound
	KindTypeMismatch
	KindInvalidPreposition
	KindInvalidInput
	KindMissingRequiredField
	KindMissingService
	KindUndefinedRepository
	KindImmutabilityViolation
	KindAcceptState
	KindThrown
	KindAssertion
	KindRuntime
)

func (k ErrorKind) String() string {
	switch k {
	case KindUndefinedVariable:
		return "UndefinedVariable"
	case KindPropertyNotFound:
		return "PropertyNotFound"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindInvalidPreposition:
		return "InvalidPreposition"
	case KindInvalidInput:
		return "InvalidInput"
	case KindMissingRequiredField:
		return "MissingRequiredField"
	case KindMissingService:
		return "MissingService"
	case KindUndefinedRepository:
		return "UndefinedRepository"
	case KindImmutabilityViolation:
		return "ImmutabilityViolation"
	case KindAcceptState:
		return "AcceptStateError"
	case KindThrown:
		return "Thrown"
	case KindAssertion:
		return "AssertionError"
	case KindRuntime:
		return "RuntimeError"
	default:
		return "UnknownError"
	}
}

// ActionError is the error type every action body and the executor
// exchange. It carries an optional cause (set by Wrap through
// github.com/pkg/errors.WithMessage) that Unwrap exposes, so errors.Is
// and errors.As reach whatever low-level error (a file-system error, an
// HTTP error) actually triggered it. ActionError has no Cause method, so
// pkg/errors' Cause stops at the ActionError itself.
type ActionError struct {
	kind    ErrorKind
	message string
	cause   error

	// Fields used by specific kinds for structured consumers (tests,
	// LSP-style diagnostics); left zero for kinds that don't need them.
	Name     string
	Expected string
	Actual   string
	Variable string
	Context  string
}

func (e *ActionError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.message)
}

func (e *ActionError) Unwrap() error { return e.cause }

func (e *ActionError) Kind() ErrorKind { return e.kind }

func newErr(kind ErrorKind, msg string) *ActionError {
	return &ActionError{kind: kind, message: msg}
}

func UndefinedVariable(name string) *ActionError {
	e := newErr(KindUndefinedVariable, fmt.Sprintf("undefined variable %q", name))
	e.Name = name
	return e
}

func PropertyNotFound(property, on string) *ActionError {
	e := newErr(KindPropertyNotFound, fmt.Sprintf("property %q not found on %q", property, on))
	e.Name = property
	e.Context = on
	return e
}

func TypeMismatch(expected, actual, variable string) *ActionError {
	e := newErr(KindTypeMismatch, fmt.Sprintf("expected %s, got %s", expected, actual))
	e.Expected = expected
	e.Actual = actual
	e.Variable = variable
	return e
}

func InvalidPreposition(action, received, expected string) *ActionError {
	return newErr(KindInvalidPreposition, fmt.Sprintf("%s does not accept preposition %q (expected one of: %s)", action, received, expected))
}

func InvalidInput(message string) *ActionError {
	return newErr(KindInvalidInput, message)
}

func MissingRequiredField(name string) *ActionError {
	e := newErr(KindMissingRequiredField, fmt.Sprintf("missing required field %q", name))
	e.Name = name
	return e
}

func MissingService(name string) *ActionError {
	e := newErr(KindMissingService, fmt.Sprintf("no service registered for %q", name))
	e.Name = name
	return e
}

func UndefinedRepository(name string) *ActionError {
	e := newErr(KindUndefinedRepository, fmt.Sprintf("%q is not a repository and not a bound variable", name))
	e.Name = name
	return e
}

func ImmutabilityViolation(name string) *ActionError {
	e := newErr(KindImmutabilityViolation, fmt.Sprintf("%q is already bound; pass allowRebind to overwrite", name))
	e.Name = name
	return e
}

// AcceptStateError renders a fixed message shape: `Cannot accept state
// from->to on obj: field. Current state is "actual".`
func AcceptStateError(from, to, actual, obj, field string) *ActionError {
	e := newErr(KindAcceptState, fmt.Sprintf("Cannot accept state %s->%s on %s: %s. Current state is %q.", from, to, obj, field, actual))
	e.Expected = from
	e.Context = to
	e.Actual = actual
	return e
}

func Thrown(typ, reason, context string) *ActionError {
	e := newErr(KindThrown, fmt.Sprintf("%s: %s", typ, reason))
	e.Name = typ
	e.Context = context
	e.Actual = reason
	return e
}

func AssertionError(message, expected, actual, variable string) *ActionError {
	e := newErr(KindAssertion, message)
	e.Expected = expected
	e.Actual = actual
	e.Variable = variable
	return e
}

func RuntimeError(message string) *ActionError {
	return newErr(KindRuntime, message)
}

// Wrap annotates err with a RuntimeError-kind ActionError carrying it as
// cause, preserving the original error for errors.Unwrap()/errors.As()
// callers while still surfacing a taxonomy Kind to the executor.
func Wrap(err error, message string) *ActionError {
	ae := newErr(KindRuntime, message)
	ae.cause = errors.WithMessage(err, message)
	return ae
}

// Is reports whether err is an *ActionError of the given kind,
// unwrapping through any wrapping layers.
func Is(err error, kind ErrorKind) bool {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.kind == kind
	}
	return false
}
