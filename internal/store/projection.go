package store

import (
	"context"
	"strings"

	"github.com/soyeahso/pocketchat/internal/domain"
)

// previewLimit caps list previews at one rendered line.
const previewLimit = 80

// ProjectAll builds display-ready rows for every non-archived
// conversation, in list order. Rows are recomputed on every call and
// never persisted.
func (s *Store) ProjectAll(ctx context.Context, currentUserID string) ([]domain.ConversationListItem, error) {
	convs, err := s.Conversations(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]domain.ConversationListItem, 0, len(convs))
	for _, c := range convs {
		if c.IsArchived {
			continue
		}
		items = append(items, projectItem(c, currentUserID))
	}
	return items, nil
}

// SearchConversations filters ProjectAll by display name and last
// message preview, case-insensitively. An empty query returns all rows.
func (s *Store) SearchConversations(ctx context.Context, query, currentUserID string) ([]domain.ConversationListItem, error) {
	items, err := s.ProjectAll(ctx, currentUserID)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items, nil
	}

	matched := items[:0]
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.DisplayName), q) ||
			strings.Contains(strings.ToLower(it.LastMessagePreview), q) {
			matched = append(matched, it)
		}
	}
	return matched, nil
}

func projectItem(c domain.Conversation, currentUserID string) domain.ConversationListItem {
	item := domain.ConversationListItem{
		ID:                 c.ID,
		Type:               c.Type,
		LastMessagePreview: Preview(c.LastMessage),
		LastMessageTime:    c.LastActivity(),
		UnreadCount:        c.UnreadCount,
		IsPinned:           c.IsPinned,
		IsMuted:            c.IsMuted,
	}

	if c.Type == domain.ConversationDirect {
		if other := c.Other(currentUserID); other != nil {
			item.DisplayName = other.Name
			item.DisplayAvatar = other.Avatar
			item.IsOnline = other.IsOnline
		}
		return item
	}

	item.DisplayName = c.Name
	item.DisplayAvatar = c.Avatar
	return item
}

// Preview renders a message as a one-line list preview. Media messages
// preview as fixed labels rather than their payload.
func Preview(m *domain.Message) string {
	if m == nil {
		return ""
	}
	if m.IsDeleted {
		return "Message deleted"
	}
	switch m.Type {
	case domain.MessageVoice:
		return "Voice message"
	case domain.MessageImage:
		return "Photo"
	case domain.MessageFile:
		if len(m.Attachments) > 0 && m.Attachments[0].FileName != "" {
			return m.Attachments[0].FileName
		}
		return "File"
	}
	return truncate(m.Content, previewLimit)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
