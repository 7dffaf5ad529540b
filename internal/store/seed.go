package store

import (
	"context"

	"github.com/soyeahso/pocketchat/internal/domain"
)

// mockContacts is the bundled care-team directory used to seed a fresh
// install.
func mockContacts() []domain.Participant {
	return []domain.Participant{
		{ID: "c-amara", Name: "Dr. Amara Okafor", Role: "hematologist", IsOnline: true},
		{ID: "c-joy", Name: "Nurse Joy Mensah", Role: "nurse"},
		{ID: "c-zainab", Name: "Zainab Bello", Role: "peer-mentor", IsOnline: true},
		{ID: "c-kwame", Name: "Kwame Asante", Role: "member"},
		{ID: "c-fatima", Name: "Fatima Diallo", Role: "member"},
	}
}

// InitializeWithMockData bootstraps a fresh install: persists the
// current user, seeds the contact directory and creates two starter
// conversations with a little history. Running it against an already
// seeded store is a no-op (checked via a non-empty contact list), so the
// UI can call it on every launch.
func (s *Store) InitializeWithMockData(ctx context.Context, user domain.CurrentUser) error {
	if err := s.SetCurrentUser(ctx, user); err != nil {
		return err
	}

	existing, err := load[[]domain.Participant](ctx, s, keyContacts)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.log.Debug().Msg("store already seeded")
		return nil
	}

	contacts, err := s.Contacts(ctx) // seeds the directory
	if err != nil {
		return err
	}

	mentor := contacts[2]
	direct, err := s.CreateDirect(ctx, user, mentor)
	if err != nil {
		return err
	}
	if _, err := s.AppendMessage(ctx, direct.ID, mentor, AppendInput{
		Content: "Welcome! I'm your peer mentor. Reach out any time you need to talk.",
	}); err != nil {
		return err
	}
	if err := s.IncrementUnread(ctx, direct.ID); err != nil {
		return err
	}

	group, err := s.CreateGroup(ctx, user,
		[]domain.Participant{contacts[0], contacts[3], contacts[4]},
		"Warriors Support Circle", "",
		"A safe space to share experiences and tips.",
	)
	if err != nil {
		return err
	}
	if _, err := s.AppendMessage(ctx, group.ID, contacts[0], AppendInput{
		Content: "Hydration reminder for everyone this week: small sips, often.",
	}); err != nil {
		return err
	}
	if err := s.IncrementUnread(ctx, group.ID); err != nil {
		return err
	}

	s.log.Info().Msg("mock data initialized")
	return nil
}
