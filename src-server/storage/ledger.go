package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventhub/src-server/model"
	"eventhub/src-server/utils"

	"github.com/uptrace/bun"
)

var (
	ErrEventNotFound = errors.New("event not found in ledger")
	ErrAttendeeIndex = errors.New("attendee index out of range")
)

// The created-events ledger. Every mutation reads the whole document,
// mutates it in memory and writes the whole document back; there is
// no partial update and no concurrency control beyond the database
// write itself.
type LedgerStore struct {
	db      bun.IDB
	metrics *utils.Metric
}

func NewLedgerStore(db bun.IDB, metrics *utils.Metric) *LedgerStore {
	return &LedgerStore{db: db, metrics: metrics}
}

// An absent or malformed document yields an empty ledger rather than
// an error; malformed JSON is logged and treated as empty state.
func (s *LedgerStore) Load(ctx context.Context) ([]model.CreatedEvent, error) {
	startTimer := time.Now()
	raw, found, err := getItem(ctx, s.db, KEY_CREATED_EVENTS)
	if err != nil {
		return nil, fmt.Errorf("(*LedgerStore).Load: %w", err)
	}
	s.reportRead(startTimer)
	if !found {
		return []model.CreatedEvent{}, nil
	}

	ledger := make([]model.CreatedEvent, 0)
	if err := json.Unmarshal([]byte(raw), &ledger); err != nil {
		slog.Warn("stored ledger is malformed, treating as empty", "error", err)
		return []model.CreatedEvent{}, nil
	}
	return ledger, nil
}

func (s *LedgerStore) Save(ctx context.Context, ledger []model.CreatedEvent) error {
	raw, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("(*LedgerStore).Save: %w", err)
	}
	startTimer := time.Now()
	if err := setItem(ctx, s.db, KEY_CREATED_EVENTS, string(raw)); err != nil {
		return fmt.Errorf("(*LedgerStore).Save: %w", err)
	}
	s.reportWrite(startTimer)
	return nil
}

// Validates both form steps, applies the event-type side effects and
// appends the new event to the ledger. The id is derived from the
// current time in milliseconds and bumped until unique.
func (s *LedgerStore) CreateEvent(ctx context.Context, draft model.EventDraft) (model.CreatedEvent, error) {
	if err := draft.ValidateDetails(); err != nil {
		return model.CreatedEvent{}, err
	}
	if err := draft.ValidateAdditional(); err != nil {
		return model.CreatedEvent{}, err
	}
	draft.ApplyEventType()

	ledger, err := s.Load(ctx)
	if err != nil {
		return model.CreatedEvent{}, err
	}

	id := time.Now().UnixMilli()
	for ledgerContains(ledger, id) {
		id++
	}

	newEvent := draft.Build(id)
	ledger = append(ledger, newEvent)
	if err := s.Save(ctx, ledger); err != nil {
		return model.CreatedEvent{}, err
	}
	return newEvent, nil
}

// Flips the check-in flag in either direction and persists the whole
// ledger. Unknown ids and bad indices are explicit errors, not
// silent no-ops.
func (s *LedgerStore) ToggleCheckIn(ctx context.Context, eventID int64, attendeeIndex int) (model.CreatedEvent, error) {
	ledger, err := s.Load(ctx)
	if err != nil {
		return model.CreatedEvent{}, err
	}

	eventPos := ledgerIndexOf(ledger, eventID)
	if eventPos < 0 {
		return model.CreatedEvent{}, ErrEventNotFound
	}
	if attendeeIndex < 0 || attendeeIndex >= len(ledger[eventPos].Attendees) {
		return model.CreatedEvent{}, ErrAttendeeIndex
	}

	ledger[eventPos].Attendees[attendeeIndex].CheckedIn = !ledger[eventPos].Attendees[attendeeIndex].CheckedIn
	if err := s.Save(ctx, ledger); err != nil {
		return model.CreatedEvent{}, err
	}
	return ledger[eventPos], nil
}

// The browser confirm dialog becomes a caller-supplied confirmed
// flag. Only a confirmed pending attendee transitions to paid; paid
// and free are terminal and a declined confirmation changes nothing.
// The returned bool reports whether a transition happened.
func (s *LedgerStore) RecordPayment(ctx context.Context, eventID int64, attendeeIndex int, confirmed bool) (model.CreatedEvent, bool, error) {
	ledger, err := s.Load(ctx)
	if err != nil {
		return model.CreatedEvent{}, false, err
	}

	eventPos := ledgerIndexOf(ledger, eventID)
	if eventPos < 0 {
		return model.CreatedEvent{}, false, ErrEventNotFound
	}
	if attendeeIndex < 0 || attendeeIndex >= len(ledger[eventPos].Attendees) {
		return model.CreatedEvent{}, false, ErrAttendeeIndex
	}

	if !confirmed {
		return ledger[eventPos], false, nil
	}
	if !ledger[eventPos].Attendees[attendeeIndex].CompletePayment() {
		return ledger[eventPos], false, nil
	}

	if err := s.Save(ctx, ledger); err != nil {
		return model.CreatedEvent{}, false, err
	}
	return ledger[eventPos], true, nil
}

func (s *LedgerStore) Stats(ctx context.Context) (model.LedgerStats, error) {
	ledger, err := s.Load(ctx)
	if err != nil {
		return model.LedgerStats{}, err
	}
	return model.Summarize(ledger), nil
}

func ledgerIndexOf(ledger []model.CreatedEvent, eventID int64) int {
	for i := range ledger {
		if ledger[i].ID == eventID {
			return i
		}
	}
	return -1
}

func ledgerContains(ledger []model.CreatedEvent, eventID int64) bool {
	return ledgerIndexOf(ledger, eventID) >= 0
}

func (s *LedgerStore) reportRead(startTimer time.Time) {
	if s.metrics == nil {
		return
	}
	select {
	case s.metrics.StorageRead <- float64(time.Since(startTimer).Microseconds()):
	default:
	}
}

func (s *LedgerStore) reportWrite(startTimer time.Time) {
	if s.metrics == nil {
		return
	}
	select {
	case s.metrics.StorageWrite <- float64(time.Since(startTimer).Microseconds()):
	default:
	}
}
