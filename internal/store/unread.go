package store

import (
	"context"

	"github.com/soyeahso/pocketchat/internal/domain"
)

// MarkRead resets the conversation's unread counter to zero. Idempotent:
// a counter already at zero triggers no write at all.
func (s *Store) MarkRead(ctx context.Context, conversationID string) error {
	defer s.locks.acquire(keyConversations).Unlock()

	convs, err := load[[]domain.Conversation](ctx, s, keyConversations)
	if err != nil {
		return err
	}
	for i := range convs {
		if convs[i].ID != conversationID {
			continue
		}
		if convs[i].UnreadCount == 0 {
			return nil
		}
		convs[i].UnreadCount = 0
		return save(ctx, s, keyConversations, convs)
	}
	return domain.ErrConversationNotFound
}

// IncrementUnread adds one to the conversation's unread counter. Whether
// the conversation is currently open on screen is the caller's call, not
// the store's.
func (s *Store) IncrementUnread(ctx context.Context, conversationID string) error {
	defer s.locks.acquire(keyConversations).Unlock()

	convs, err := load[[]domain.Conversation](ctx, s, keyConversations)
	if err != nil {
		return err
	}
	for i := range convs {
		if convs[i].ID != conversationID {
			continue
		}
		convs[i].UnreadCount++
		return save(ctx, s, keyConversations, convs)
	}
	return domain.ErrConversationNotFound
}

// TotalUnread sums unread counters over conversations that are neither
// archived nor muted.
func (s *Store) TotalUnread(ctx context.Context) (int, error) {
	return s.unreadSum(ctx, func(domain.Conversation) bool { return true })
}

// DirectUnread is TotalUnread restricted to direct conversations.
func (s *Store) DirectUnread(ctx context.Context) (int, error) {
	return s.unreadSum(ctx, func(c domain.Conversation) bool {
		return c.Type == domain.ConversationDirect
	})
}

// GroupUnread is TotalUnread restricted to group conversations.
func (s *Store) GroupUnread(ctx context.Context) (int, error) {
	return s.unreadSum(ctx, func(c domain.Conversation) bool {
		return c.Type == domain.ConversationGroup
	})
}

func (s *Store) unreadSum(ctx context.Context, include func(domain.Conversation) bool) (int, error) {
	convs, err := load[[]domain.Conversation](ctx, s, keyConversations)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, c := range convs {
		if c.IsArchived || c.IsMuted {
			continue
		}
		if include(c) {
			total += c.UnreadCount
		}
	}
	return total, nil
}
