package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"eventhub/src-server/model"

	"github.com/uptrace/bun"
)

type ProfileStore struct {
	db bun.IDB
}

func NewProfileStore(db bun.IDB) *ProfileStore {
	return &ProfileStore{db: db}
}

func (s *ProfileStore) Get(ctx context.Context) (model.Profile, error) {
	raw, found, err := getItem(ctx, s.db, KEY_USER_PROFILE)
	if err != nil {
		return model.Profile{}, fmt.Errorf("(*ProfileStore).Get: %w", err)
	}
	if !found {
		return model.Profile{}, nil
	}

	var profile model.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		slog.Warn("stored profile is malformed, treating as empty", "error", err)
		return model.Profile{}, nil
	}
	return profile, nil
}

func (s *ProfileStore) Set(ctx context.Context, profile model.Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("(*ProfileStore).Set: %w", err)
	}
	if err := setItem(ctx, s.db, KEY_USER_PROFILE, string(raw)); err != nil {
		return fmt.Errorf("(*ProfileStore).Set: %w", err)
	}
	return nil
}
