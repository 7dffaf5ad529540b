package domain

import "time"

// MessageType classifies a message's payload.
type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
	MessageVoice MessageType = "voice"
	MessageFile  MessageType = "file"
)

// Valid reports whether t is a known message type.
func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageImage, MessageVoice, MessageFile:
		return true
	}
	return false
}

// MessageStatus tracks delivery progress. With no transport attached,
// "sent" is the terminal success status; the remaining values exist for
// a future networked backend.
type MessageStatus string

const (
	StatusSending   MessageStatus = "sending"
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
	StatusFailed    MessageStatus = "failed"
)

// Valid reports whether s is a known message status.
func (s MessageStatus) Valid() bool {
	switch s {
	case StatusSending, StatusSent, StatusDelivered, StatusRead, StatusFailed:
		return true
	}
	return false
}

// MediaAttachment is a file or media payload owned by exactly one message.
type MediaAttachment struct {
	ID       string      `json:"id"`
	Type     MessageType `json:"type"` // image, voice or file
	URI      string      `json:"uri"`
	MimeType string      `json:"mimeType"`
	Width    int         `json:"width,omitempty"`
	Height   int         `json:"height,omitempty"`
	Duration float64     `json:"duration,omitempty"` // seconds, voice only
	FileName string      `json:"fileName,omitempty"`
	FileSize int64       `json:"fileSize,omitempty"`
}

// ReplyRef is the denormalized preview of a replied-to message.
type ReplyRef struct {
	MessageID  string `json:"messageId"`
	Content    string `json:"content"`
	SenderName string `json:"senderName"`
}

// Message is a single entry in a conversation's history. Messages are
// append-only apart from soft deletion and reaction changes; the id
// never changes after creation.
type Message struct {
	ID             string              `json:"id"`
	ConversationID string              `json:"conversationId"`
	SenderID       string              `json:"senderId"`
	SenderName     string              `json:"senderName"`
	SenderAvatar   string              `json:"senderAvatar,omitempty"`
	Type           MessageType         `json:"type"`
	Content        string              `json:"content"`
	Attachments    []MediaAttachment   `json:"attachments,omitempty"`
	Status         MessageStatus       `json:"status"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
	ReplyTo        *ReplyRef           `json:"replyTo,omitempty"`
	Reactions      map[string][]string `json:"reactions,omitempty"` // emoji -> user ids
	IsDeleted      bool                `json:"isDeleted,omitempty"`
}
