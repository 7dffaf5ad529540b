package store

import (
	"context"
	"sort"

	"github.com/soyeahso/pocketchat/internal/domain"
)

// Conversations returns every conversation, pinned ones first, the rest
// by most recent activity. Each call decodes a fresh copy from storage,
// so callers never alias stored state.
func (s *Store) Conversations(ctx context.Context) ([]domain.Conversation, error) {
	convs, err := load[[]domain.Conversation](ctx, s, keyConversations)
	if err != nil {
		return nil, err
	}
	sortConversations(convs)
	return convs, nil
}

// Conversation returns the conversation with the given id.
func (s *Store) Conversation(ctx context.Context, id string) (domain.Conversation, error) {
	convs, err := load[[]domain.Conversation](ctx, s, keyConversations)
	if err != nil {
		return domain.Conversation{}, err
	}
	for _, c := range convs {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Conversation{}, domain.ErrConversationNotFound
}

// SaveConversation upserts conv and refreshes its updatedAt. The entire
// collection is rewritten on every save.
func (s *Store) SaveConversation(ctx context.Context, conv domain.Conversation) (domain.Conversation, error) {
	defer s.locks.acquire(keyConversations).Unlock()
	return s.saveConversationLocked(ctx, conv)
}

func (s *Store) saveConversationLocked(ctx context.Context, conv domain.Conversation) (domain.Conversation, error) {
	convs, err := load[[]domain.Conversation](ctx, s, keyConversations)
	if err != nil {
		return domain.Conversation{}, err
	}

	conv.UpdatedAt = s.now()
	replaced := false
	for i := range convs {
		if convs[i].ID == conv.ID {
			convs[i] = conv
			replaced = true
			break
		}
	}
	if !replaced {
		convs = append(convs, conv)
	}

	if err := save(ctx, s, keyConversations, convs); err != nil {
		return domain.Conversation{}, err
	}
	return conv, nil
}

// CreateDirect returns the direct conversation between the current user
// and other, creating it when none exists. Creation is idempotent per
// unordered participant pair; finding an existing conversation is a pure
// lookup and does not touch its updatedAt.
func (s *Store) CreateDirect(ctx context.Context, user domain.CurrentUser, other domain.Participant) (domain.Conversation, error) {
	if other.ID == user.ID {
		return domain.Conversation{}, domain.ErrSelfConversation
	}

	defer s.locks.acquire(keyConversations).Unlock()

	convs, err := load[[]domain.Conversation](ctx, s, keyConversations)
	if err != nil {
		return domain.Conversation{}, err
	}

	for _, c := range convs {
		if c.Type == domain.ConversationDirect && c.HasParticipant(user.ID) && c.HasParticipant(other.ID) {
			return c, nil
		}
	}

	now := s.now()
	conv := domain.Conversation{
		ID:           domain.NewID(),
		Type:         domain.ConversationDirect,
		Participants: []domain.Participant{user.Participant(), other},
		CreatedBy:    user.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	convs = append(convs, conv)

	if err := save(ctx, s, keyConversations, convs); err != nil {
		return domain.Conversation{}, err
	}

	s.log.Debug().Str("conversation", conv.ID).Str("with", other.ID).Msg("direct conversation created")
	return conv, nil
}

// CreateGroup constructs a group conversation. The current user is
// always the first participant; duplicate ids in participants (including
// the user's own) are dropped.
func (s *Store) CreateGroup(ctx context.Context, user domain.CurrentUser, participants []domain.Participant, name, avatar, description string) (domain.Conversation, error) {
	members := []domain.Participant{user.Participant()}
	seen := map[string]bool{user.ID: true}
	for _, p := range participants {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		members = append(members, p)
	}

	now := s.now()
	conv := domain.Conversation{
		ID:           domain.NewID(),
		Type:         domain.ConversationGroup,
		Participants: members,
		Name:         name,
		Avatar:       avatar,
		Description:  description,
		CreatedBy:    user.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	defer s.locks.acquire(keyConversations).Unlock()

	convs, err := load[[]domain.Conversation](ctx, s, keyConversations)
	if err != nil {
		return domain.Conversation{}, err
	}
	convs = append(convs, conv)

	if err := save(ctx, s, keyConversations, convs); err != nil {
		return domain.Conversation{}, err
	}

	s.log.Debug().Str("conversation", conv.ID).Int("members", len(members)).Msg("group conversation created")
	return conv, nil
}

// DeleteConversation removes the conversation and cascades to its
// message collection and pending draft. The cascade is not atomic with
// the collection rewrite; the collection write happens first so a crash
// can only leave orphaned message keys, never a listed conversation
// without its history.
func (s *Store) DeleteConversation(ctx context.Context, id string) error {
	defer s.locks.acquire(keyConversations).Unlock()

	convs, err := load[[]domain.Conversation](ctx, s, keyConversations)
	if err != nil {
		return err
	}

	kept := convs[:0]
	found := false
	for _, c := range convs {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return domain.ErrConversationNotFound
	}

	if err := save(ctx, s, keyConversations, kept); err != nil {
		return err
	}

	if err := s.kv.MultiRemove(ctx, []string{messagesKey(id), draftKey(id)}); err != nil {
		s.log.Error().Err(err).Str("conversation", id).Msg("cascade delete failed")
		return &domain.StorageError{Op: "remove", Key: messagesKey(id), Err: err}
	}
	return nil
}

// SetPinned toggles the pinned flag.
func (s *Store) SetPinned(ctx context.Context, id string, pinned bool) error {
	return s.setFlag(ctx, id, func(c *domain.Conversation) { c.IsPinned = pinned })
}

// SetMuted toggles the muted flag.
func (s *Store) SetMuted(ctx context.Context, id string, muted bool) error {
	return s.setFlag(ctx, id, func(c *domain.Conversation) { c.IsMuted = muted })
}

// SetArchived toggles the archived flag.
func (s *Store) SetArchived(ctx context.Context, id string, archived bool) error {
	return s.setFlag(ctx, id, func(c *domain.Conversation) { c.IsArchived = archived })
}

// setFlag is a single-field get-mutate-save round trip. Callers needing
// several flag changes pay one round trip per flag.
func (s *Store) setFlag(ctx context.Context, id string, mutate func(*domain.Conversation)) error {
	defer s.locks.acquire(keyConversations).Unlock()

	convs, err := load[[]domain.Conversation](ctx, s, keyConversations)
	if err != nil {
		return err
	}
	for i := range convs {
		if convs[i].ID != id {
			continue
		}
		mutate(&convs[i])
		convs[i].UpdatedAt = s.now()
		return save(ctx, s, keyConversations, convs)
	}
	return domain.ErrConversationNotFound
}

// sortConversations orders pinned first, then by last activity descending.
func sortConversations(convs []domain.Conversation) {
	sort.SliceStable(convs, func(i, j int) bool {
		if convs[i].IsPinned != convs[j].IsPinned {
			return convs[i].IsPinned
		}
		return convs[i].LastActivity().After(convs[j].LastActivity())
	})
}
