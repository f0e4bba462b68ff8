package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"eventhub/src-server/model"

	"github.com/uptrace/bun"
)

var ErrRegistrationNotFound = errors.New("registration not found")

// The "my registrations" list, persisted like the ledger as one JSON
// document. When the key is absent the list is seeded with the demo
// rows, matching the page's initial state.
type RegistrationStore struct {
	db bun.IDB
}

func NewRegistrationStore(db bun.IDB) *RegistrationStore {
	return &RegistrationStore{db: db}
}

func (s *RegistrationStore) List(ctx context.Context) ([]model.Registration, error) {
	raw, found, err := getItem(ctx, s.db, KEY_MY_REGISTRATIONS)
	if err != nil {
		return nil, fmt.Errorf("(*RegistrationStore).List: %w", err)
	}
	if !found {
		seed := model.MockRegistrations()
		if err := s.save(ctx, seed); err != nil {
			return nil, err
		}
		return seed, nil
	}

	registrations := make([]model.Registration, 0)
	if err := json.Unmarshal([]byte(raw), &registrations); err != nil {
		slog.Warn("stored registrations are malformed, treating as empty", "error", err)
		return []model.Registration{}, nil
	}
	return registrations, nil
}

func (s *RegistrationStore) Add(ctx context.Context, registration model.Registration) error {
	registrations, err := s.List(ctx)
	if err != nil {
		return err
	}
	registrations = append(registrations, registration)
	return s.save(ctx, registrations)
}

func (s *RegistrationStore) Get(ctx context.Context, id int64) (model.Registration, error) {
	registrations, err := s.List(ctx)
	if err != nil {
		return model.Registration{}, err
	}
	for _, registration := range registrations {
		if registration.ID == id {
			return registration, nil
		}
	}
	return model.Registration{}, ErrRegistrationNotFound
}

// A declined confirmation changes nothing.
func (s *RegistrationStore) Cancel(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return nil
	}

	registrations, err := s.List(ctx)
	if err != nil {
		return err
	}

	kept := make([]model.Registration, 0, len(registrations))
	for _, registration := range registrations {
		if registration.ID != id {
			kept = append(kept, registration)
		}
	}
	if len(kept) == len(registrations) {
		return ErrRegistrationNotFound
	}
	return s.save(ctx, kept)
}

func (s *RegistrationStore) Stats(ctx context.Context) (model.RegistrationStats, error) {
	registrations, err := s.List(ctx)
	if err != nil {
		return model.RegistrationStats{}, err
	}
	return model.SummarizeRegistrations(registrations), nil
}

func (s *RegistrationStore) save(ctx context.Context, registrations []model.Registration) error {
	raw, err := json.Marshal(registrations)
	if err != nil {
		return fmt.Errorf("(*RegistrationStore).save: %w", err)
	}
	if err := setItem(ctx, s.db, KEY_MY_REGISTRATIONS, string(raw)); err != nil {
		return fmt.Errorf("(*RegistrationStore).save: %w", err)
	}
	return nil
}
