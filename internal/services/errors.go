package services

import (
	"errors"

	"github.com/huangang/taskhub/backend/internal/store"
)

type ErrorKind int

const (
	KindUnauthorized ErrorKind = iota + 1
	KindForbidden
	KindNotFound
	KindInvalidCredentials
	KindInvalidInput
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "Unauthorized"
	case KindForbidden:
		return "Forbidden"
	case KindNotFound:
		return "NotFound"
	case KindInvalidCredentials:
		return "InvalidCredentials"
	case KindInvalidInput:
		return "InvalidInput"
	}
	return "Unknown"
}

// Error is a business-rule failure. Two errors match under errors.Is when
// their kinds are equal, so callers compare against the sentinels below.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrUnauthorized       = &Error{Kind: KindUnauthorized, Message: "authentication required"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "permission denied"}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "invalid credentials"}
	ErrInvalidInput       = &Error{Kind: KindInvalidInput, Message: "invalid input"}
)

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// KindOf returns the kind of err, or false for errors outside the taxonomy.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// notFound turns store.ErrNotFound into a NotFound error carrying msg.
func notFound(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return newError(KindNotFound, msg)
	}
	return err
}
