// Package store implements the local-first conversation and messaging
// store on top of the key-value primitive. Every mutation is a
// read-entire-collection, modify, write-entire-collection cycle: the
// primitive offers no partial updates and no cross-key atomicity, so the
// per-key lock table serializes those cycles to keep overlapping
// operations from silently dropping each other's writes.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/soyeahso/pocketchat/internal/domain"
	"github.com/soyeahso/pocketchat/internal/kv"
	"github.com/soyeahso/pocketchat/internal/logging"
)

// Key layout. Everything is a JSON value under a chat: prefixed key.
const (
	keyConversations = "chat:conversations"
	keyContacts      = "chat:contacts"
	keyCurrentUser   = "chat:currentUser"
	msgKeyPrefix     = "chat:messages:"
	draftKeyPrefix   = "chat:draft:"
)

func messagesKey(conversationID string) string { return msgKeyPrefix + conversationID }
func draftKey(conversationID string) string    { return draftKeyPrefix + conversationID }

// Store owns the conversation, message, draft and contact collections.
type Store struct {
	kv    kv.Store
	log   *logging.Logger
	locks keyLocks

	// now is swapped out in tests that need deterministic timestamps.
	now func() time.Time
}

// New creates a store over the given key-value backend.
func New(kvs kv.Store, log *logging.Logger) *Store {
	return &Store{kv: kvs, log: log.Sub("store"), now: time.Now}
}

// SetCurrentUser persists the local actor. It must be called once at
// bootstrap, before any operation that acts on the user's behalf.
func (s *Store) SetCurrentUser(ctx context.Context, user domain.CurrentUser) error {
	return save(ctx, s, keyCurrentUser, user)
}

// CurrentUser returns the persisted local actor, or ErrNoCurrentUser if
// the store was never bootstrapped.
func (s *Store) CurrentUser(ctx context.Context) (domain.CurrentUser, error) {
	var user domain.CurrentUser

	data, err := s.kv.Get(ctx, keyCurrentUser)
	if errors.Is(err, kv.ErrNotFound) {
		return user, domain.ErrNoCurrentUser
	}
	if err != nil {
		s.log.Error().Err(err).Str("key", keyCurrentUser).Msg("read failed")
		return user, &domain.StorageError{Op: "get", Key: keyCurrentUser, Err: err}
	}
	if err := json.Unmarshal(data, &user); err != nil {
		return user, &domain.DecodeError{Key: keyCurrentUser, Err: err}
	}
	return user, nil
}

// load reads and decodes the JSON value under key. An absent key decodes
// to the zero value, which for the collection types is an empty slice.
func load[T any](ctx context.Context, s *Store, key string) (T, error) {
	var v T

	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return v, nil
	}
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("read failed")
		return v, &domain.StorageError{Op: "get", Key: key, Err: err}
	}

	if err := json.Unmarshal(data, &v); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("stored value is not parsable")
		return v, &domain.DecodeError{Key: key, Err: err}
	}
	return v, nil
}

// save encodes v and writes it under key. Serialization happens before
// the old value is touched, so an encoding failure never truncates
// previously stored state.
func save[T any](ctx context.Context, s *Store, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	if err := s.kv.Set(ctx, key, data); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("write failed")
		return &domain.StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}
