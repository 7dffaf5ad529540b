package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyeahso/pocketchat/internal/domain"
	"github.com/soyeahso/pocketchat/internal/kv"
	"github.com/soyeahso/pocketchat/internal/logging"
)

// setHook wraps a backend and runs fn once, after the first successful
// Set of the chosen key. It lets a test splice another write into the
// middle of a multi-key operation.
type setHook struct {
	kv.Store
	key   string
	fn    func()
	fired bool
}

func (h *setHook) Set(ctx context.Context, key string, value []byte) error {
	if err := h.Store.Set(ctx, key, value); err != nil {
		return err
	}
	if !h.fired && key == h.key {
		h.fired = true
		h.fn()
	}
	return nil
}

// newConversation creates a direct conversation to append into.
func newConversation(t *testing.T, s *Store) domain.Conversation {
	t.Helper()
	conv, err := s.CreateDirect(context.Background(), testUser(), testContact("p1", "Amara"))
	require.NoError(t, err)
	return conv
}

func TestAppendMessage_Basics(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	conv := newConversation(t, s)

	msg, err := s.AppendMessage(ctx, conv.ID, testUser().Participant(), AppendInput{Content: "hello"})
	require.NoError(t, err)

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, conv.ID, msg.ConversationID)
	assert.Equal(t, "me", msg.SenderID)
	assert.Equal(t, domain.MessageText, msg.Type)
	assert.Equal(t, domain.StatusSent, msg.Status)
	assert.Equal(t, "hello", msg.Content)
}

func TestAppendMessage_UpdatesConversationCache(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	conv := newConversation(t, s)

	msg, err := s.AppendMessage(ctx, conv.ID, testUser().Participant(), AppendInput{Content: "hello"})
	require.NoError(t, err)

	got, err := s.Conversation(ctx, conv.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastMessage)
	assert.Equal(t, msg.ID, got.LastMessage.ID)
	assert.False(t, got.UpdatedAt.Before(conv.UpdatedAt))
}

func TestAppendMessage_ClearsDraft(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	conv := newConversation(t, s)

	require.NoError(t, s.SaveDraft(ctx, conv.ID, "typing..."))
	_, err := s.AppendMessage(ctx, conv.ID, testUser().Participant(), AppendInput{Content: "sent"})
	require.NoError(t, err)

	draft, err := s.Draft(ctx, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, draft)
}

func TestAppendMessage_UnknownConversation(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.AppendMessage(ctx, "nope", testUser().Participant(), AppendInput{Content: "hi"})
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)

	// No orphaned message collection was written.
	keys, err := s.kv.Keys(ctx, msgKeyPrefix)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestAppendMessage_ReplyRef(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	conv := newConversation(t, s)

	original, err := s.AppendMessage(ctx, conv.ID, testContact("p1", "Amara"), AppendInput{Content: "how are you?"})
	require.NoError(t, err)

	reply, err := s.AppendMessage(ctx, conv.ID, testUser().Participant(), AppendInput{
		Content:   "doing fine",
		ReplyToID: original.ID,
	})
	require.NoError(t, err)

	require.NotNil(t, reply.ReplyTo)
	assert.Equal(t, original.ID, reply.ReplyTo.MessageID)
	assert.Equal(t, "how are you?", reply.ReplyTo.Content)
	assert.Equal(t, "Amara", reply.ReplyTo.SenderName)
}

func TestAppendMessage_ReplyToMissingMessage(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	conv := newConversation(t, s)

	_, err := s.AppendMessage(ctx, conv.ID, testUser().Participant(), AppendInput{
		Content:   "reply",
		ReplyToID: "ghost",
	})
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)
}

func TestMessages_AscendingRegardlessOfStoredOrder(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	conv := newConversation(t, s)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	seedRaw(t, s, messagesKey(conv.ID), []domain.Message{
		{ID: "m3", CreatedAt: base.Add(3 * time.Minute)},
		{ID: "m1", CreatedAt: base.Add(1 * time.Minute)},
		{ID: "m2", CreatedAt: base.Add(2 * time.Minute)},
	})

	msgs, err := s.Messages(ctx, conv.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "m2", msgs[1].ID)
	assert.Equal(t, "m3", msgs[2].ID)
}

func TestMessages_Paging(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	conv := newConversation(t, s)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var seeded []domain.Message
	for i := 1; i <= 5; i++ {
		seeded = append(seeded, domain.Message{
			ID:        string(rune('a'+i-1)) + "-msg",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	seedRaw(t, s, messagesKey(conv.ID), seeded)

	// Offset 0 is the newest page.
	page, err := s.Messages(ctx, conv.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "d-msg", page[0].ID)
	assert.Equal(t, "e-msg", page[1].ID)

	page, err = s.Messages(ctx, conv.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "b-msg", page[0].ID)
	assert.Equal(t, "c-msg", page[1].ID)

	page, err = s.Messages(ctx, conv.ID, 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "a-msg", page[0].ID)

	page, err = s.Messages(ctx, conv.ID, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestSoftDelete_BlanksContentAndAttachments(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	conv := newConversation(t, s)

	msg, err := s.AppendMessage(ctx, conv.ID, testUser().Participant(), AppendInput{
		Type:    domain.MessageImage,
		Content: "look at this",
		Attachments: []domain.MediaAttachment{
			{ID: "a1", Type: domain.MessageImage, URI: "file://p.jpg", MimeType: "image/jpeg"},
		},
	})
	require.NoError(t, err)

	require.NoError(t, s.SoftDeleteMessage(ctx, conv.ID, msg.ID))

	msgs, err := s.Messages(ctx, conv.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].IsDeleted)
	assert.Empty(t, msgs[0].Content)
	assert.Empty(t, msgs[0].Attachments)
	assert.Equal(t, msg.ID, msgs[0].ID)
}

func TestSoftDelete_Idempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	conv := newConversation(t, s)

	msg, err := s.AppendMessage(ctx, conv.ID, testUser().Participant(), AppendInput{Content: "bye"})
	require.NoError(t, err)

	require.NoError(t, s.SoftDeleteMessage(ctx, conv.ID, msg.ID))
	first, err := s.Messages(ctx, conv.ID, 0, 0)
	require.NoError(t, err)

	require.NoError(t, s.SoftDeleteMessage(ctx, conv.ID, msg.ID))
	second, err := s.Messages(ctx, conv.ID, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSoftDelete_RefreshesLastMessageCache(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	conv := newConversation(t, s)

	msg, err := s.AppendMessage(ctx, conv.ID, testUser().Participant(), AppendInput{Content: "secret"})
	require.NoError(t, err)

	require.NoError(t, s.SoftDeleteMessage(ctx, conv.ID, msg.ID))

	got, err := s.Conversation(ctx, conv.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastMessage)
	assert.True(t, got.LastMessage.IsDeleted)
	assert.Empty(t, got.LastMessage.Content)
}

func TestSoftDelete_LeavesNewerCacheAlone(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	conv := newConversation(t, s)

	old, err := s.AppendMessage(ctx, conv.ID, testUser().Participant(), AppendInput{Content: "old"})
	require.NoError(t, err)
	newer, err := s.AppendMessage(ctx, conv.ID, testUser().Participant(), AppendInput{Content: "newer"})
	require.NoError(t, err)

	require.NoError(t, s.SoftDeleteMessage(ctx, conv.ID, old.ID))

	got, err := s.Conversation(ctx, conv.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastMessage)
	assert.Equal(t, newer.ID, got.LastMessage.ID)
	assert.Equal(t, "newer", got.LastMessage.Content)
}

func TestSoftDelete_MissingMessage(t *testing.T) {
	s := testStore(t)
	conv := newConversation(t, s)

	err := s.SoftDeleteMessage(context.Background(), conv.ID, "ghost")
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)
}

func TestClearMessages(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	conv := newConversation(t, s)

	_, err := s.AppendMessage(ctx, conv.ID, testUser().Participant(), AppendInput{Content: "one"})
	require.NoError(t, err)
	require.NoError(t, s.IncrementUnread(ctx, conv.ID))

	require.NoError(t, s.ClearMessages(ctx, conv.ID))

	msgs, err := s.Messages(ctx, conv.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	got, err := s.Conversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LastMessage)
	assert.Zero(t, got.UnreadCount)
}

func TestAppendMessage_ConversationDeletedMidAppend(t *testing.T) {
	ctx := context.Background()
	hook := &setHook{Store: kv.NewMemory()}
	s := New(hook, logging.New(nil, "silent"))

	conv, err := s.CreateDirect(ctx, testUser(), testContact("p1", "Amara"))
	require.NoError(t, err)

	// Empty the conversation collection the instant the message write
	// lands, as a concurrent delete (cascade included) would.
	hook.key = messagesKey(conv.ID)
	hook.fn = func() {
		require.NoError(t, hook.Store.Set(ctx, keyConversations, []byte("[]")))
	}

	_, err = s.AppendMessage(ctx, conv.ID, testUser().Participant(), AppendInput{Content: "hello?"})
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)

	// The collection written mid-flight must be cleaned up, not stranded.
	keys, err := s.kv.Keys(ctx, msgKeyPrefix)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestClearMessages_UnknownConversation(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	err := s.ClearMessages(ctx, "ghost-conversation")
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)

	// No empty collection may be written for an id that never existed.
	keys, err := s.kv.Keys(ctx, msgKeyPrefix)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestAddReaction_IdempotentPerUser(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	conv := newConversation(t, s)

	msg, err := s.AppendMessage(ctx, conv.ID, testUser().Participant(), AppendInput{Content: "news!"})
	require.NoError(t, err)

	require.NoError(t, s.AddReaction(ctx, conv.ID, msg.ID, "p1", "🎉"))
	require.NoError(t, s.AddReaction(ctx, conv.ID, msg.ID, "p1", "🎉"))
	require.NoError(t, s.AddReaction(ctx, conv.ID, msg.ID, "p2", "🎉"))

	msgs, err := s.Messages(ctx, conv.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"p1", "p2"}, msgs[0].Reactions["🎉"])
}

func TestRemoveReaction_LastReactorDeletesEmoji(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	conv := newConversation(t, s)

	msg, err := s.AppendMessage(ctx, conv.ID, testUser().Participant(), AppendInput{Content: "hm"})
	require.NoError(t, err)

	require.NoError(t, s.AddReaction(ctx, conv.ID, msg.ID, "p1", "👍"))
	require.NoError(t, s.AddReaction(ctx, conv.ID, msg.ID, "p2", "👍"))

	require.NoError(t, s.RemoveReaction(ctx, conv.ID, msg.ID, "p1", "👍"))
	msgs, err := s.Messages(ctx, conv.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, msgs[0].Reactions["👍"])

	require.NoError(t, s.RemoveReaction(ctx, conv.ID, msg.ID, "p2", "👍"))
	msgs, err = s.Messages(ctx, conv.ID, 0, 0)
	require.NoError(t, err)
	assert.Nil(t, msgs[0].Reactions)
}

func TestReaction_MissingMessage(t *testing.T) {
	s := testStore(t)
	conv := newConversation(t, s)

	err := s.AddReaction(context.Background(), conv.ID, "ghost", "p1", "👍")
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)
}

func TestSearchMessages(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	conv := newConversation(t, s)

	first, err := s.AppendMessage(ctx, conv.ID, testUser().Participant(), AppendInput{Content: "Clinic appointment on Monday"})
	require.NoError(t, err)
	_, err = s.AppendMessage(ctx, conv.ID, testUser().Participant(), AppendInput{Content: "Bring the lab results"})
	require.NoError(t, err)
	deleted, err := s.AppendMessage(ctx, conv.ID, testUser().Participant(), AppendInput{Content: "appointment cancelled"})
	require.NoError(t, err)
	require.NoError(t, s.SoftDeleteMessage(ctx, conv.ID, deleted.ID))

	found, err := s.SearchMessages(ctx, conv.ID, "APPOINTMENT")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, first.ID, found[0].ID)

	found, err = s.SearchMessages(ctx, conv.ID, "  ")
	require.NoError(t, err)
	assert.Empty(t, found)
}
