package storage_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"eventhub/src-server/model"
	"eventhub/src-server/storage"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	bundb := bun.NewDB(db, sqlitedialect.New())
	if err := storage.CreateSchema(bundb); err != nil {
		t.Fatal(err)
	}
	return bundb
}

func TestLedgerLoad(t *testing.T) {
	bundb := newTestDB(t)
	store := storage.NewLedgerStore(bundb, nil)

	// case: absent key loads as empty ledger
	func() {
		ledger, err := store.Load(context.Background())
		if err != nil {
			t.Error(err)
		}
		if len(ledger) != 0 {
			t.Error("ledger should be empty", ledger)
		}
	}()

	// case: malformed stored JSON loads as empty ledger, not an error
	func() {
		if _, err := bundb.NewInsert().
			Model(&storage.LocalEntry{Key: "createdEvents", Value: "{not json"}).
			Exec(context.Background()); err != nil {
			t.Error(err)
		}
		ledger, err := store.Load(context.Background())
		if err != nil {
			t.Error(err)
		}
		if len(ledger) != 0 {
			t.Error("malformed ledger should load as empty", ledger)
		}
	}()

	// case: save then load round-trips
	func() {
		if err := store.Save(context.Background(), []model.CreatedEvent{
			{ID: 42, Title: "Launch Party", Attendees: []model.Attendee{}},
		}); err != nil {
			t.Error(err)
		}
		ledger, err := store.Load(context.Background())
		if err != nil {
			t.Error(err)
		}
		if len(ledger) != 1 || ledger[0].ID != 42 || ledger[0].Title != "Launch Party" {
			t.Error("ledger round-trip mismatch", ledger)
		}
	}()
}

func TestLedgerCreateEvent(t *testing.T) {
	bundb := newTestDB(t)
	store := storage.NewLedgerStore(bundb, nil)

	draft := model.EventDraft{
		EventName:     "Board Game Night",
		StartDate:     "2025-12-05",
		EndDate:       "2025-12-05",
		StartTime:     "19:00",
		EndTime:       "22:00",
		EventType:     model.EVENT_TYPE_PHYSICAL,
		Category:      "social",
		Location:      "Community Hall",
		Description:   "Bring your favorite game",
		PaymentMethod: "free",
	}

	newEvent, err := store.CreateEvent(context.Background(), draft)
	if err != nil {
		t.Fatal(err)
	}
	if newEvent.Paid {
		t.Error("free payment method should yield an unpaid event")
	}
	if len(newEvent.Attendees) != 0 {
		t.Error("new event should have no attendees", newEvent.Attendees)
	}
	if newEvent.Date != "2025-12-05 19:00" {
		t.Error("unexpected event date", newEvent.Date)
	}

	// a second event gets a distinct id even in the same millisecond
	draft.PaymentMethod = "stripe"
	secondEvent, err := store.CreateEvent(context.Background(), draft)
	if err != nil {
		t.Fatal(err)
	}
	if !secondEvent.Paid {
		t.Error("non-free payment method should yield a paid event")
	}
	if secondEvent.ID == newEvent.ID {
		t.Error("event ids must be unique within the ledger")
	}

	ledger, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(ledger) != 2 {
		t.Error("ledger should hold both events", ledger)
	}

	// case: missing required fields abort the creation
	func() {
		bad := draft
		bad.EventName = ""
		if _, err := store.CreateEvent(context.Background(), bad); err == nil {
			t.Error("blank event name should be rejected")
		}
	}()

	// case: physical events require a location
	func() {
		bad := draft
		bad.Location = ""
		if _, err := store.CreateEvent(context.Background(), bad); err == nil {
			t.Error("physical event without location should be rejected")
		}
	}()
}

func TestToggleCheckIn(t *testing.T) {
	bundb := newTestDB(t)
	store := storage.NewLedgerStore(bundb, nil)

	if err := store.Save(context.Background(), []model.CreatedEvent{
		{
			ID:    7,
			Title: "Paid Meetup",
			Paid:  true,
			Attendees: []model.Attendee{
				{Name: "Ada", Email: "ada@example.com", PaymentStatus: model.PAYMENT_STATUS_PENDING},
				{Name: "Grace", Email: "grace@example.com", PaymentStatus: model.PAYMENT_STATUS_PENDING},
			},
		},
	}); err != nil {
		t.Fatal(err)
	}

	// case: toggling twice restores the original value
	func() {
		updated, err := store.ToggleCheckIn(context.Background(), 7, 0)
		if err != nil {
			t.Fatal(err)
		}
		if !updated.Attendees[0].CheckedIn {
			t.Error("first toggle should check Ada in")
		}
		updated, err = store.ToggleCheckIn(context.Background(), 7, 0)
		if err != nil {
			t.Fatal(err)
		}
		if updated.Attendees[0].CheckedIn {
			t.Error("second toggle should undo the check-in")
		}
	}()

	// case: unknown event id is an explicit error
	func() {
		if _, err := store.ToggleCheckIn(context.Background(), 999, 0); !errors.Is(err, storage.ErrEventNotFound) {
			t.Error("expected ErrEventNotFound, got", err)
		}
	}()

	// case: out-of-range index is an explicit error
	func() {
		if _, err := store.ToggleCheckIn(context.Background(), 7, 2); !errors.Is(err, storage.ErrAttendeeIndex) {
			t.Error("expected ErrAttendeeIndex, got", err)
		}
		if _, err := store.ToggleCheckIn(context.Background(), 7, -1); !errors.Is(err, storage.ErrAttendeeIndex) {
			t.Error("expected ErrAttendeeIndex, got", err)
		}
	}()

	// the toggle persists across loads
	ledger, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ledger[0].Attendees[0].CheckedIn {
		t.Error("check-in state should have been persisted as false")
	}
}

func TestRecordPayment(t *testing.T) {
	bundb := newTestDB(t)
	store := storage.NewLedgerStore(bundb, nil)

	if err := store.Save(context.Background(), []model.CreatedEvent{
		{
			ID:    3,
			Title: "Workshop",
			Paid:  true,
			Attendees: []model.Attendee{
				{Name: "Linus", Email: "linus@example.com", PaymentStatus: model.PAYMENT_STATUS_PENDING},
			},
		},
		{
			ID:    4,
			Title: "Free Meetup",
			Attendees: []model.Attendee{
				{Name: "Ken", Email: "ken@example.com", PaymentStatus: model.PAYMENT_STATUS_FREE},
			},
		},
	}); err != nil {
		t.Fatal(err)
	}

	// case: declined confirmation changes nothing
	func() {
		updated, transitioned, err := store.RecordPayment(context.Background(), 3, 0, false)
		if err != nil {
			t.Fatal(err)
		}
		if transitioned {
			t.Error("declined confirmation should not transition")
		}
		if updated.Attendees[0].PaymentStatus != model.PAYMENT_STATUS_PENDING {
			t.Error("status should stay pending", updated.Attendees[0].PaymentStatus)
		}
	}()

	// case: confirmed pending transitions to paid
	func() {
		updated, transitioned, err := store.RecordPayment(context.Background(), 3, 0, true)
		if err != nil {
			t.Fatal(err)
		}
		if !transitioned {
			t.Error("confirmed pending payment should transition")
		}
		if updated.Attendees[0].PaymentStatus != model.PAYMENT_STATUS_PAID {
			t.Error("status should be paid", updated.Attendees[0].PaymentStatus)
		}
	}()

	// case: paid is terminal, calling again is a no-op
	func() {
		updated, transitioned, err := store.RecordPayment(context.Background(), 3, 0, true)
		if err != nil {
			t.Fatal(err)
		}
		if transitioned {
			t.Error("paid should be terminal")
		}
		if updated.Attendees[0].PaymentStatus != model.PAYMENT_STATUS_PAID {
			t.Error("status should remain paid", updated.Attendees[0].PaymentStatus)
		}
	}()

	// case: free is terminal too
	func() {
		updated, transitioned, err := store.RecordPayment(context.Background(), 4, 0, true)
		if err != nil {
			t.Fatal(err)
		}
		if transitioned {
			t.Error("free attendees never transition")
		}
		if updated.Attendees[0].PaymentStatus != model.PAYMENT_STATUS_FREE {
			t.Error("status should remain free", updated.Attendees[0].PaymentStatus)
		}
	}()
}
