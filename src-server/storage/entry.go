package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

// The persisted state keeps the web client's local-storage layout:
// one table of key to JSON document entries.
const (
	KEY_CREATED_EVENTS   = "createdEvents"
	KEY_IS_LOGGED_IN     = "isLoggedIn"
	KEY_USER_NAME        = "userName"
	KEY_USER_PROFILE     = "userProfile"
	KEY_MY_REGISTRATIONS = "myRegistrations"
)

type LocalEntry struct {
	bun.BaseModel `bun:"table:local_entries"`

	Key   string `bun:"key,pk,notnull"` // required
	Value string `bun:"value,notnull"`  // required
}

func CreateSchema(db *bun.DB) error {
	if err := db.RunInTx(context.Background(), &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range []interface{}{
			(*LocalEntry)(nil),
		} {
			if _, err := tx.
				NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("CreateSchema: %w", err)
	}

	return nil
}

func getItem(ctx context.Context, db bun.IDB, key string) (string, bool, error) {
	exists, err := db.NewSelect().
		Model((*LocalEntry)(nil)).
		Where("key = ?", key).
		Exists(ctx)
	if err != nil {
		return "", false, fmt.Errorf("getItem: %w", err)
	}
	if !exists {
		return "", false, nil
	}

	entryModel := new(LocalEntry)
	if err := db.NewSelect().
		Model(entryModel).
		Where("key = ?", key).
		Scan(ctx); err != nil {
		return "", false, fmt.Errorf("getItem: %w", err)
	}
	return entryModel.Value, true, nil
}

func setItem(ctx context.Context, db bun.IDB, key string, value string) error {
	if _, err := db.NewInsert().
		Model(&LocalEntry{Key: key, Value: value}).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx); err != nil {
		return fmt.Errorf("setItem: %w", err)
	}
	return nil
}

func removeItem(ctx context.Context, db bun.IDB, key string) error {
	if _, err := db.NewDelete().
		Model((*LocalEntry)(nil)).
		Where("key = ?", key).
		Exec(ctx); err != nil {
		return fmt.Errorf("removeItem: %w", err)
	}
	return nil
}
