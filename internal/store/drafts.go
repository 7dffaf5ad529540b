package store

import (
	"context"
	"strings"

	"github.com/soyeahso/pocketchat/internal/domain"
)

// SaveDraft persists the composed-but-unsent text for a conversation.
// Text that is empty after trimming removes the key instead: "no draft"
// is the absence of the key, never an empty string on disk.
func (s *Store) SaveDraft(ctx context.Context, conversationID, text string) error {
	key := draftKey(conversationID)

	if strings.TrimSpace(text) == "" {
		return s.removeKey(ctx, key)
	}
	return save(ctx, s, key, text)
}

// Draft returns the pending draft text, or "" when there is none.
func (s *Store) Draft(ctx context.Context, conversationID string) (string, error) {
	return load[string](ctx, s, draftKey(conversationID))
}

// ClearDraft removes the conversation's draft. Also invoked by
// AppendMessage after a successful send.
func (s *Store) ClearDraft(ctx context.Context, conversationID string) error {
	return s.removeKey(ctx, draftKey(conversationID))
}

func (s *Store) removeKey(ctx context.Context, key string) error {
	if err := s.kv.Remove(ctx, key); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("remove failed")
		return &domain.StorageError{Op: "remove", Key: key, Err: err}
	}
	return nil
}
