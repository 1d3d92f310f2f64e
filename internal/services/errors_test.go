package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/huangang/taskhub/backend/internal/store"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := newError(KindForbidden, "only the project owner can do this")

	if !errors.Is(err, ErrForbidden) {
		t.Error("error should match ErrForbidden")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("error should not match ErrNotFound")
	}
	if !errors.Is(fmt.Errorf("wrapped: %w", err), ErrForbidden) {
		t.Error("wrapped error should still match its kind")
	}
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(fmt.Errorf("ctx: %w", ErrInvalidCredentials))
	if !ok || kind != KindInvalidCredentials {
		t.Errorf("KindOf() = %v, %v", kind, ok)
	}
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("plain errors have no kind")
	}
}

func TestErrorKind_String(t *testing.T) {
	tests := map[ErrorKind]string{
		KindUnauthorized:       "Unauthorized",
		KindForbidden:          "Forbidden",
		KindNotFound:           "NotFound",
		KindInvalidCredentials: "InvalidCredentials",
		KindInvalidInput:       "InvalidInput",
		ErrorKind(99):          "Unknown",
	}
	for kind, expected := range tests {
		if kind.String() != expected {
			t.Errorf("%d.String() = %q, expected %q", kind, kind.String(), expected)
		}
	}
}

func TestNotFound(t *testing.T) {
	err := notFound(store.ErrNotFound, "task not found")
	if !errors.Is(err, ErrNotFound) || err.Error() != "task not found" {
		t.Errorf("notFound(ErrNotFound) = %v", err)
	}

	other := errors.New("disk full")
	if notFound(other, "x") != other {
		t.Error("other errors should pass through")
	}
	if notFound(nil, "x") != nil {
		t.Error("nil should stay nil")
	}
}
