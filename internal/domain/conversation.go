// Package domain defines the entities of the local conversation store.
package domain

import "time"

// ConversationType classifies a conversation.
type ConversationType string

const (
	ConversationDirect ConversationType = "direct"
	ConversationGroup  ConversationType = "group"
)

// Valid reports whether t is a known conversation type.
func (t ConversationType) Valid() bool {
	return t == ConversationDirect || t == ConversationGroup
}

// Participant is a snapshot of a person addressable in a conversation.
// Conversations store snapshots, not live references: later profile edits
// must not rewrite historical conversation rows.
type Participant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	Role     string `json:"role"`
	IsOnline bool   `json:"isOnline,omitempty"`
}

// CurrentUser is the single local actor. It is persisted once at
// bootstrap; operations that act on behalf of the user take it as an
// explicit parameter instead of reading hidden global state.
type CurrentUser struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Role   string `json:"role"`
}

// Participant returns the current user as a participant snapshot.
func (u CurrentUser) Participant() Participant {
	return Participant{ID: u.ID, Name: u.Name, Avatar: u.Avatar, Role: u.Role}
}

// Conversation is a direct or group conversation with denormalized
// last-message and unread-count state for list rendering.
type Conversation struct {
	ID           string           `json:"id"`
	Type         ConversationType `json:"type"`
	Participants []Participant    `json:"participants"`
	Name         string           `json:"name,omitempty"`
	Avatar       string           `json:"avatar,omitempty"`
	Description  string           `json:"description,omitempty"`
	CreatedBy    string           `json:"createdBy"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
	LastMessage  *Message         `json:"lastMessage,omitempty"`
	UnreadCount  int              `json:"unreadCount"`
	IsPinned     bool             `json:"isPinned,omitempty"`
	IsMuted      bool             `json:"isMuted,omitempty"`
	IsArchived   bool             `json:"isArchived,omitempty"`
}

// HasParticipant reports whether the participant id is in the conversation.
func (c *Conversation) HasParticipant(id string) bool {
	for _, p := range c.Participants {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Other returns the participant that is not the current user. Only
// meaningful for direct conversations; returns nil if there is none or
// the caller id is empty.
func (c *Conversation) Other(currentUserID string) *Participant {
	if currentUserID == "" {
		return nil
	}
	for i := range c.Participants {
		if c.Participants[i].ID != currentUserID {
			return &c.Participants[i]
		}
	}
	return nil
}

// LastActivity is the recency used for list ordering: the last message's
// timestamp when one is cached, the conversation's updatedAt otherwise.
func (c *Conversation) LastActivity() time.Time {
	if c.LastMessage != nil {
		return c.LastMessage.CreatedAt
	}
	return c.UpdatedAt
}

// ConversationListItem is a display-ready projection of a conversation.
// It is recomputed on every list fetch and never persisted.
type ConversationListItem struct {
	ID                 string           `json:"id"`
	Type               ConversationType `json:"type"`
	DisplayName        string           `json:"displayName"`
	DisplayAvatar      string           `json:"displayAvatar,omitempty"`
	LastMessagePreview string           `json:"lastMessagePreview,omitempty"`
	LastMessageTime    time.Time        `json:"lastMessageTime"`
	UnreadCount        int              `json:"unreadCount"`
	IsOnline           bool             `json:"isOnline,omitempty"`
	IsPinned           bool             `json:"isPinned,omitempty"`
	IsMuted            bool             `json:"isMuted,omitempty"`
}
