package store

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/soyeahso/pocketchat/internal/domain"
)

const (
	// DefaultPageSize is the message page size when callers pass 0.
	DefaultPageSize = 50

	// searchLimit caps search results; plenty for a single device.
	searchLimit = 500
)

// AppendInput carries the optional parts of a message append.
type AppendInput struct {
	Type        domain.MessageType
	Content     string
	Attachments []domain.MediaAttachment
	ReplyToID   string
}

// Messages returns one page of a conversation's history in ascending
// createdAt order. The page is carved newest-first, offset 0 being the
// most recent page, then reversed for display. Paging is purely
// in-memory over the full loaded collection.
func (s *Store) Messages(ctx context.Context, conversationID string, limit, offset int) ([]domain.Message, error) {
	msgs, err := load[[]domain.Message](ctx, s, messagesKey(conversationID))
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	// Newest first; ids break timestamp ties since they sort by creation.
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID > msgs[j].ID
		}
		return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
	})

	if offset >= len(msgs) {
		return nil, nil
	}
	end := offset + limit
	if end > len(msgs) {
		end = len(msgs)
	}
	page := msgs[offset:end]

	out := make([]domain.Message, len(page))
	for i := range page {
		out[i] = page[len(page)-1-i]
	}
	return out, nil
}

// AppendMessage appends a message to the conversation, updates the
// parent conversation's cached lastMessage, and clears any pending
// draft. The message and conversation collections live under different
// keys with no cross-key atomicity: a crash between the two writes
// leaves the cached lastMessage stale until the next send.
func (s *Store) AppendMessage(ctx context.Context, conversationID string, sender domain.Participant, in AppendInput) (domain.Message, error) {
	if _, err := s.Conversation(ctx, conversationID); err != nil {
		// Never create an orphaned message collection.
		return domain.Message{}, err
	}

	msgType := in.Type
	if msgType == "" {
		msgType = domain.MessageText
	}

	mkey := messagesKey(conversationID)
	mu := s.locks.acquire(mkey)

	msgs, err := load[[]domain.Message](ctx, s, mkey)
	if err != nil {
		mu.Unlock()
		return domain.Message{}, err
	}

	now := s.now()
	msg := domain.Message{
		ID:             domain.NewID(),
		ConversationID: conversationID,
		SenderID:       sender.ID,
		SenderName:     sender.Name,
		SenderAvatar:   sender.Avatar,
		Type:           msgType,
		Content:        in.Content,
		Attachments:    in.Attachments,
		Status:         domain.StatusSent,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if in.ReplyToID != "" {
		target := findMessage(msgs, in.ReplyToID)
		if target == nil {
			mu.Unlock()
			return domain.Message{}, domain.ErrMessageNotFound
		}
		msg.ReplyTo = &domain.ReplyRef{
			MessageID:  target.ID,
			Content:    truncate(target.Content, previewLimit),
			SenderName: target.SenderName,
		}
	}

	msgs = append(msgs, msg)
	if err := save(ctx, s, mkey, msgs); err != nil {
		mu.Unlock()
		return domain.Message{}, err
	}
	mu.Unlock()

	if err := s.cacheLastMessage(ctx, conversationID, &msg); err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			// The conversation was deleted after the existence check
			// above. Its cascade ran before our write landed, so drop
			// the collection ourselves instead of stranding the key.
			if rmErr := s.kv.MultiRemove(ctx, []string{mkey, draftKey(conversationID)}); rmErr != nil {
				s.log.Error().Err(rmErr).Str("key", mkey).Msg("orphan cleanup failed")
			}
		}
		return domain.Message{}, err
	}
	if err := s.ClearDraft(ctx, conversationID); err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// SoftDeleteMessage marks the message deleted and blanks its content and
// attachments; the id and timestamps stay in place. When the deleted
// message is the conversation's cached lastMessage, the cache is
// refreshed so list previews show the deleted placeholder instead of the
// old content. Deleting an already deleted message is a no-op.
func (s *Store) SoftDeleteMessage(ctx context.Context, conversationID, messageID string) error {
	mkey := messagesKey(conversationID)
	mu := s.locks.acquire(mkey)

	msgs, err := load[[]domain.Message](ctx, s, mkey)
	if err != nil {
		mu.Unlock()
		return err
	}

	var deleted *domain.Message
	for i := range msgs {
		if msgs[i].ID != messageID {
			continue
		}
		if msgs[i].IsDeleted {
			mu.Unlock()
			return nil
		}
		msgs[i].IsDeleted = true
		msgs[i].Content = ""
		msgs[i].Attachments = nil
		msgs[i].UpdatedAt = s.now()
		deleted = &msgs[i]
		break
	}
	if deleted == nil {
		mu.Unlock()
		return domain.ErrMessageNotFound
	}

	if err := save(ctx, s, mkey, msgs); err != nil {
		mu.Unlock()
		return err
	}
	snapshot := *deleted
	mu.Unlock()

	return s.refreshLastMessageIf(ctx, conversationID, messageID, &snapshot)
}

// ClearMessages empties the conversation's history, clears the cached
// lastMessage and resets the unread counter. The conversation entry is
// updated first; a missing conversation fails before any message key
// is written, so clearing a ghost id never creates an empty collection.
func (s *Store) ClearMessages(ctx context.Context, conversationID string) error {
	mu := s.locks.acquire(keyConversations)
	convs, err := load[[]domain.Conversation](ctx, s, keyConversations)
	if err != nil {
		mu.Unlock()
		return err
	}
	found := false
	for i := range convs {
		if convs[i].ID != conversationID {
			continue
		}
		convs[i].LastMessage = nil
		convs[i].UnreadCount = 0
		convs[i].UpdatedAt = s.now()
		found = true
		break
	}
	if !found {
		mu.Unlock()
		return domain.ErrConversationNotFound
	}
	err = save(ctx, s, keyConversations, convs)
	mu.Unlock()
	if err != nil {
		return err
	}

	mkey := messagesKey(conversationID)
	defer s.locks.acquire(mkey).Unlock()
	return save(ctx, s, mkey, []domain.Message{})
}

// AddReaction records userID's reaction. Idempotent per (emoji, userID):
// the same user never appears twice under one emoji.
func (s *Store) AddReaction(ctx context.Context, conversationID, messageID, userID, emoji string) error {
	return s.mutateMessage(ctx, conversationID, messageID, func(m *domain.Message) {
		for _, id := range m.Reactions[emoji] {
			if id == userID {
				return
			}
		}
		if m.Reactions == nil {
			m.Reactions = make(map[string][]string)
		}
		m.Reactions[emoji] = append(m.Reactions[emoji], userID)
	})
}

// RemoveReaction drops userID's reaction; removing an emoji's last
// reactor deletes the emoji key entirely.
func (s *Store) RemoveReaction(ctx context.Context, conversationID, messageID, userID, emoji string) error {
	return s.mutateMessage(ctx, conversationID, messageID, func(m *domain.Message) {
		users := m.Reactions[emoji]
		kept := users[:0]
		for _, id := range users {
			if id != userID {
				kept = append(kept, id)
			}
		}
		if len(kept) == 0 {
			delete(m.Reactions, emoji)
		} else {
			m.Reactions[emoji] = kept
		}
		if len(m.Reactions) == 0 {
			m.Reactions = nil
		}
	})
}

// SearchMessages finds non-deleted messages whose content contains the
// query, case-insensitively, in ascending createdAt order.
func (s *Store) SearchMessages(ctx context.Context, conversationID, query string) ([]domain.Message, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	msgs, err := load[[]domain.Message](ctx, s, messagesKey(conversationID))
	if err != nil {
		return nil, err
	}

	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})

	var out []domain.Message
	for _, m := range msgs {
		if m.IsDeleted {
			continue
		}
		if strings.Contains(strings.ToLower(m.Content), q) {
			out = append(out, m)
			if len(out) == searchLimit {
				break
			}
		}
	}
	return out, nil
}

// mutateMessage applies fn to one message inside a locked
// read-modify-write cycle over the conversation's collection.
func (s *Store) mutateMessage(ctx context.Context, conversationID, messageID string, fn func(*domain.Message)) error {
	mkey := messagesKey(conversationID)
	defer s.locks.acquire(mkey).Unlock()

	msgs, err := load[[]domain.Message](ctx, s, mkey)
	if err != nil {
		return err
	}
	for i := range msgs {
		if msgs[i].ID == messageID {
			fn(&msgs[i])
			return save(ctx, s, mkey, msgs)
		}
	}
	return domain.ErrMessageNotFound
}

// cacheLastMessage sets the parent conversation's denormalized
// lastMessage and bumps its updatedAt. Reports ErrConversationNotFound
// when the conversation no longer exists so the caller can undo its
// half of the two-key write.
func (s *Store) cacheLastMessage(ctx context.Context, conversationID string, msg *domain.Message) error {
	defer s.locks.acquire(keyConversations).Unlock()

	convs, err := load[[]domain.Conversation](ctx, s, keyConversations)
	if err != nil {
		return err
	}
	for i := range convs {
		if convs[i].ID != conversationID {
			continue
		}
		convs[i].LastMessage = msg
		convs[i].UpdatedAt = s.now()
		return save(ctx, s, keyConversations, convs)
	}

	s.log.Warn().Str("conversation", conversationID).Msg("conversation vanished during append")
	return domain.ErrConversationNotFound
}

// refreshLastMessageIf replaces the cached lastMessage only when it
// still points at messageID.
func (s *Store) refreshLastMessageIf(ctx context.Context, conversationID, messageID string, msg *domain.Message) error {
	defer s.locks.acquire(keyConversations).Unlock()

	convs, err := load[[]domain.Conversation](ctx, s, keyConversations)
	if err != nil {
		return err
	}
	for i := range convs {
		if convs[i].ID != conversationID {
			continue
		}
		if convs[i].LastMessage == nil || convs[i].LastMessage.ID != messageID {
			return nil
		}
		convs[i].LastMessage = msg
		return save(ctx, s, keyConversations, convs)
	}
	return nil
}

func findMessage(msgs []domain.Message, id string) *domain.Message {
	for i := range msgs {
		if msgs[i].ID == id {
			return &msgs[i]
		}
	}
	return nil
}
