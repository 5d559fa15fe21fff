// Package errors provides the structured error taxonomy for the LoTaR engine.
package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind names one of the taxonomy buckets from the error handling design.
// These are kinds, not Go types: every LoTaR error is a *Error carrying one
// of these kinds, never a distinct struct per failure mode.
type Kind string

const (
	KindIoFailure            Kind = "IoFailure"
	KindSerializationFailure Kind = "SerializationFailure"
	KindNotFound             Kind = "NotFound"
	KindInvalidIdentifier    Kind = "InvalidIdentifier"
	KindValidationFailure    Kind = "ValidationFailure"
	KindIndexFailure         Kind = "IndexFailure"
)

// ExitCode is the process exit code a CLI surface should use for a Kind.
func (k Kind) ExitCode() int {
	switch k {
	case KindValidationFailure, KindInvalidIdentifier:
		return 1
	case KindIoFailure, KindIndexFailure:
		return 2
	case KindNotFound:
		return 4
	default:
		return 1
	}
}

// HTTPStatus is the status code an HTTP surface sitting behind the core
// would use for a Kind. The HTTP server itself is out of scope; this exists
// so that surface has somewhere to look.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return 404
	case KindValidationFailure, KindInvalidIdentifier:
		return 400
	case KindIoFailure, KindIndexFailure, KindSerializationFailure:
		return 500
	default:
		return 500
	}
}

// Error is the structured error type returned by every LoTaR package.
type Error struct {
	Kind  Kind   `json:"kind"`
	What  string `json:"what"`
	Why   string `json:"why,omitempty"`
	Fix   string `json:"fix,omitempty"`
	Cause error  `json:"-"`
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString(": ")
		b.WriteString(e.Why)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// UserMessage renders the error for interactive surfaces.
func (e *Error) UserMessage() string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString("\nWhy: ")
		b.WriteString(e.Why)
	}
	if e.Fix != "" {
		b.WriteString("\nFix: ")
		b.WriteString(e.Fix)
	}
	return b.String()
}

// MarshalJSON flattens Cause into a plain message string for renderers.
func (e *Error) MarshalJSON() ([]byte, error) {
	type alias Error
	aux := struct {
		*alias
		CauseMsg string `json:"cause,omitempty"`
	}{alias: (*alias)(e)}
	if e.Cause != nil {
		aux.CauseMsg = e.Cause.Error()
	}
	return json.Marshal(aux)
}

// Is reports whether target is a *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// WithCause returns a copy of e with Cause set.
func (e *Error) WithCause(err error) *Error {
	return &Error{Kind: e.Kind, What: e.What, Why: e.Why, Fix: e.Fix, Cause: err}
}

// --- constructors, one per taxonomy bucket plus the common call sites ---

// IO wraps a filesystem failure. A permission-denied cause gets an
// appended hint per §7.
func IO(what string, cause error) *Error {
	e := &Error{Kind: KindIoFailure, What: what, Cause: cause}
	if cause != nil && strings.Contains(strings.ToLower(cause.Error()), "permission denied") {
		e.Why = "the process does not have permission to access this path"
		e.Fix = "check file ownership and permissions on the tasks root"
	}
	return e
}

// Serialization wraps a YAML encode/decode failure; path is always carried.
func Serialization(path string, cause error) *Error {
	return &Error{
		Kind:  KindSerializationFailure,
		What:  fmt.Sprintf("failed to parse %s", path),
		Cause: cause,
	}
}

// NotFound reports a missing task, project, or sprint. kind names what was
// being looked up (task/project/sprint); id is the identifier requested.
func NotFound(kind, id string) *Error {
	return &Error{
		Kind: KindNotFound,
		What: fmt.Sprintf("%s %s not found", kind, id),
		Why:  fmt.Sprintf("no %s with identifier %q exists", kind, id),
	}
}

// InvalidIdentifier reports a malformed task ID or project prefix.
func InvalidIdentifier(what, reason string) *Error {
	return &Error{
		Kind: KindInvalidIdentifier,
		What: what,
		Why:  reason,
	}
}

// Validation reports an enum, regex, membership, or collision failure.
func Validation(what, why string) *Error {
	return &Error{Kind: KindValidationFailure, What: what, Why: why}
}

// Index reports an index load/save/rebuild error; always recoverable via
// rebuild_index.
func Index(what string, cause error) *Error {
	return &Error{
		Kind:  KindIndexFailure,
		What:  what,
		Fix:   "run rebuild_index to repair the cache from the filesystem",
		Cause: cause,
	}
}

// As reports whether err (or anything it wraps) is a *Error, writing it
// into *target like errors.As.
func As(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
