package editorerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("permission denied")
	err := Wrap(Recoverable, KindPermissionDenied, "opening file", cause)

	if got, want := err.Error(), "opening file: permission denied"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestIsRecoverableMatchesWrappedError(t *testing.T) {
	err := New(Recoverable, KindFileNotFound, "no such file")
	wrapped := fmt.Errorf("loading buffer: %w", err)

	if !IsRecoverable(wrapped) {
		t.Fatal("expected IsRecoverable to see through fmt.Errorf wrapping")
	}
	if IsIgnorable(wrapped) || IsFatal(wrapped) {
		t.Fatal("expected only IsRecoverable to match")
	}
}

func TestIsIgnorableMatchesIgnorableTier(t *testing.T) {
	err := New(Ignorable, KindHookTimeout, "hook did not respond")
	if !IsIgnorable(err) {
		t.Fatal("expected IsIgnorable to match")
	}
	if IsRecoverable(err) {
		t.Fatal("did not expect IsRecoverable to match an ignorable error")
	}
}

func TestIsFatalMatchesFatalTier(t *testing.T) {
	err := New(Fatal, KindTreeIndexInconsistent, "piece tree and line index disagree")
	if !IsFatal(err) {
		t.Fatal("expected IsFatal to match")
	}
}

func TestKindOfReturnsKind(t *testing.T) {
	err := New(Recoverable, KindRatioClamped, "ratio out of range")
	kind, ok := KindOf(err)
	if !ok || kind != KindRatioClamped {
		t.Fatalf("KindOf() = (%q, %v), want (%q, true)", kind, ok, KindRatioClamped)
	}
}

func TestKindOfFalseForPlainError(t *testing.T) {
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Fatal("expected KindOf to report false for a non-editorerr error")
	}
}

func TestSeverityString(t *testing.T) {
	cases := map[Severity]string{
		Recoverable: "recoverable",
		Ignorable:   "ignorable",
		Fatal:       "fatal",
	}
	for sev, want := range cases {
		if got := sev.String(); got != want {
			t.Errorf("Severity(%d).String() = %q, want %q", sev, got, want)
		}
	}
}

func TestLogIgnorableIsNoOpForNil(t *testing.T) {
	LogIgnorable(nil) // must not panic
}
