package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

// The simulated login. A flag and a display name, set on login or
// signup and cleared on logout. There is no token, no expiry and no
// server-side validation; this gates pages, it does not secure them.
type SessionStore struct {
	db bun.IDB
}

func NewSessionStore(db bun.IDB) *SessionStore {
	return &SessionStore{db: db}
}

// Presence check only. The display name is the local part of the
// login email.
func (s *SessionStore) Login(ctx context.Context, email string, password string) (string, error) {
	switch {
	case email == "":
		return "", fmt.Errorf("(*SessionStore).Login: email is blank")
	case password == "":
		return "", fmt.Errorf("(*SessionStore).Login: password is blank")
	}

	displayName := strings.SplitN(email, "@", 2)[0]
	if err := setItem(ctx, s.db, KEY_IS_LOGGED_IN, "true"); err != nil {
		return "", fmt.Errorf("(*SessionStore).Login: %w", err)
	}
	if err := setItem(ctx, s.db, KEY_USER_NAME, displayName); err != nil {
		return "", fmt.Errorf("(*SessionStore).Login: %w", err)
	}
	return displayName, nil
}

// The display name after signup is the first name.
func (s *SessionStore) Signup(ctx context.Context, firstName, lastName, email, password, confirmPassword string) (string, error) {
	switch {
	case firstName == "":
		return "", fmt.Errorf("(*SessionStore).Signup: first name is blank")
	case lastName == "":
		return "", fmt.Errorf("(*SessionStore).Signup: last name is blank")
	case email == "":
		return "", fmt.Errorf("(*SessionStore).Signup: email is blank")
	case password == "":
		return "", fmt.Errorf("(*SessionStore).Signup: password is blank")
	case password != confirmPassword:
		return "", fmt.Errorf("(*SessionStore).Signup: passwords don't match")
	}

	if err := setItem(ctx, s.db, KEY_IS_LOGGED_IN, "true"); err != nil {
		return "", fmt.Errorf("(*SessionStore).Signup: %w", err)
	}
	if err := setItem(ctx, s.db, KEY_USER_NAME, firstName); err != nil {
		return "", fmt.Errorf("(*SessionStore).Signup: %w", err)
	}
	return firstName, nil
}

func (s *SessionStore) Logout(ctx context.Context) error {
	if err := removeItem(ctx, s.db, KEY_IS_LOGGED_IN); err != nil {
		return fmt.Errorf("(*SessionStore).Logout: %w", err)
	}
	if err := removeItem(ctx, s.db, KEY_USER_NAME); err != nil {
		return fmt.Errorf("(*SessionStore).Logout: %w", err)
	}
	return nil
}

func (s *SessionStore) Current(ctx context.Context) (string, bool, error) {
	flag, found, err := getItem(ctx, s.db, KEY_IS_LOGGED_IN)
	if err != nil {
		return "", false, fmt.Errorf("(*SessionStore).Current: %w", err)
	}
	if !found || flag != "true" {
		return "", false, nil
	}

	displayName, _, err := getItem(ctx, s.db, KEY_USER_NAME)
	if err != nil {
		return "", false, fmt.Errorf("(*SessionStore).Current: %w", err)
	}
	return displayName, true, nil
}
