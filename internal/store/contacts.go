package store

import (
	"context"

	"github.com/soyeahso/pocketchat/internal/domain"
)

// Contacts returns the contact directory. On first access the directory
// is seeded from the bundled mock data; the lock guarantees seeding runs
// at most once even under concurrent first reads.
func (s *Store) Contacts(ctx context.Context) ([]domain.Participant, error) {
	defer s.locks.acquire(keyContacts).Unlock()

	contacts, err := load[[]domain.Participant](ctx, s, keyContacts)
	if err != nil {
		return nil, err
	}
	if len(contacts) > 0 {
		return contacts, nil
	}

	contacts = mockContacts()
	if err := save(ctx, s, keyContacts, contacts); err != nil {
		return nil, err
	}
	s.log.Info().Int("count", len(contacts)).Msg("contact directory seeded")
	return contacts, nil
}

// AddContact inserts or replaces a contact by id.
func (s *Store) AddContact(ctx context.Context, p domain.Participant) error {
	defer s.locks.acquire(keyContacts).Unlock()

	contacts, err := load[[]domain.Participant](ctx, s, keyContacts)
	if err != nil {
		return err
	}
	for i := range contacts {
		if contacts[i].ID == p.ID {
			contacts[i] = p
			return save(ctx, s, keyContacts, contacts)
		}
	}
	contacts = append(contacts, p)
	return save(ctx, s, keyContacts, contacts)
}

// RemoveContact removes a contact by id; an absent id is a no-op.
func (s *Store) RemoveContact(ctx context.Context, id string) error {
	defer s.locks.acquire(keyContacts).Unlock()

	contacts, err := load[[]domain.Participant](ctx, s, keyContacts)
	if err != nil {
		return err
	}

	kept := contacts[:0]
	for _, c := range contacts {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(contacts) {
		return nil
	}
	return save(ctx, s, keyContacts, kept)
}
