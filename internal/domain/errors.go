package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for lookups. The conversation and message variants
// both match ErrNotFound under errors.Is.
var (
	ErrNotFound             = errors.New("not found")
	ErrConversationNotFound = fmt.Errorf("conversation %w", ErrNotFound)
	ErrMessageNotFound      = fmt.Errorf("message %w", ErrNotFound)
	ErrNoCurrentUser        = errors.New("current user not initialized")
	ErrSelfConversation     = errors.New("direct conversation requires another participant")
)

// StorageError wraps a failure of the underlying key-value primitive.
type StorageError struct {
	Op  string // "get", "set", "remove", "keys"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// DecodeError reports stored bytes that could not be parsed into the
// expected shape.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
