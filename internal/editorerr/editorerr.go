// ABOUTME: Typed errors for the three-tier classification in the error handling design
// ABOUTME: Recoverable errors are returned to the caller; ignorable ones are logged via elog and dropped

package editorerr

import (
	"errors"
	"fmt"

	"github.com/fresheditor/fresh/internal/elog"
)

// Severity is one of the three tiers a core error condition falls into.
type Severity int

const (
	// Recoverable errors are reported to the user and the editor keeps running.
	Recoverable Severity = iota
	// Ignorable errors are logged and otherwise dropped.
	Ignorable
	// Fatal errors abort the editor thread.
	Fatal
)

// String returns the tier name.
func (s Severity) String() string {
	switch s {
	case Recoverable:
		return "recoverable"
	case Ignorable:
		return "ignorable"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Kind identifies a specific recoverable or ignorable condition named in
// the error handling design.
type Kind string

const (
	KindFileNotFound          Kind = "file_not_found"
	KindPermissionDenied      Kind = "permission_denied"
	KindWriteFailed           Kind = "write_failed"
	KindUnknownCommand        Kind = "unknown_command"
	KindUnconfirmedClose      Kind = "unconfirmed_close"
	KindRatioClamped          Kind = "ratio_clamped"
	KindHookTimeout           Kind = "hook_timeout"
	KindMalformedHookJSON     Kind = "malformed_hook_json"
	KindOutOfRangeCursor      Kind = "out_of_range_cursor"
	KindInvalidOverlayRange   Kind = "invalid_overlay_range"
	KindTreeIndexInconsistent Kind = "tree_index_inconsistent"
)

// Error is the typed error returned by core methods that can fail. It
// carries the severity tier so a caller can decide whether to surface it
// as a status-bar message (Recoverable), log it (Ignorable), or abort
// (Fatal), without string-matching the message.
type Error struct {
	Severity Severity
	Kind     Kind
	Message  string
	Cause    error
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// New constructs an Error with no wrapped cause.
func New(severity Severity, kind Kind, message string) *Error {
	return &Error{Severity: severity, Kind: kind, Message: message}
}

// Wrap constructs an Error that wraps cause, carrying cause's text onward
// in Error().
func Wrap(severity Severity, kind Kind, message string, cause error) *Error {
	return &Error{Severity: severity, Kind: kind, Message: message, Cause: cause}
}

// IsRecoverable reports whether err (or any error in its chain) is an
// *Error with Recoverable severity.
func IsRecoverable(err error) bool { return hasSeverity(err, Recoverable) }

// IsIgnorable reports whether err (or any error in its chain) is an
// *Error with Ignorable severity.
func IsIgnorable(err error) bool { return hasSeverity(err, Ignorable) }

// IsFatal reports whether err (or any error in its chain) is an *Error
// with Fatal severity.
func IsFatal(err error) bool { return hasSeverity(err, Fatal) }

func hasSeverity(err error, severity Severity) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Severity == severity
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, and
// whether one was found.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

// LogIgnorable logs any non-nil err via elog.Warn, whatever its tier, and
// is a no-op for nil. Callers at a
// collaborator boundary (hook invocation, cross-thread message) use this
// to fulfil the "log and continue" contract without special-casing the
// check themselves.
func LogIgnorable(err error) {
	if err == nil {
		return
	}
	var e *Error
	if errors.As(err, &e) && e.Severity == Ignorable {
		elog.Warn("%s", e.Error())
		return
	}
	elog.Warn("%s", err.Error())
}
