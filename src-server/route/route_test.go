package route_test

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"eventhub/src-server/model"
	"eventhub/src-server/notify"
	"eventhub/src-server/route"
	"eventhub/src-server/storage"
	"eventhub/src-server/utils"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestServer(t *testing.T) (*http.ServeMux, *utils.AppState) {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	bundb := bun.NewDB(db, sqlitedialect.New())
	if err := storage.CreateSchema(bundb); err != nil {
		t.Fatal(err)
	}

	as := &utils.AppState{
		Config:      utils.NewConfig(),
		RawDB:       db,
		BunDB:       bundb,
		Notifier:    notify.New("", ""),
		MetricChans: utils.NewMetric(),
	}

	muxer := http.NewServeMux()
	route.Auth(muxer, as)
	route.Catalog(muxer, as)
	route.Ledger(muxer, as)
	route.Dashboard(muxer, as)
	route.Registration(muxer, as)
	route.Profile(muxer, as)
	return muxer, as
}

func TestSessionGate(t *testing.T) {
	muxer, _ := newTestServer(t)

	// case: gated pages bounce to /login without a session
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/registrations", nil))
		if w.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/login" {
			t.Fatalf("expected redirect to /login, got %q", loc)
		}
	}()

	// case: login opens the gate and the session endpoint reports it
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, httptest.NewRequest(
			http.MethodPost,
			"/auth/login",
			strings.NewReader(`{"email":"jane.doe@example.com","password":"hunter2"}`),
		))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		w = httptest.NewRecorder()
		muxer.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/session", nil))
		var session struct {
			IsLoggedIn bool   `json:"isLoggedIn"`
			UserName   string `json:"userName"`
		}
		if err := json.NewDecoder(w.Body).Decode(&session); err != nil {
			t.Fatal(err)
		}
		if !session.IsLoggedIn || session.UserName != "jane.doe" {
			t.Fatalf("unexpected session: %+v", session)
		}

		w = httptest.NewRecorder()
		muxer.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/registrations", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	}()

	// case: logout closes the gate again
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/auth", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		w = httptest.NewRecorder()
		muxer.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/registrations", nil))
		if w.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", w.Code)
		}
	}()
}

func TestLedgerFlow(t *testing.T) {
	muxer, _ := newTestServer(t)

	// case: the dashboard starts out empty
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil))
		var stats model.LedgerStats
		if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
			t.Fatal(err)
		}
		if stats.TotalRegistrations != 0 || stats.AttendanceRate != "0" {
			t.Fatalf("unexpected stats: %+v", stats)
		}
	}()

	// case: creating an event returns it with an autogenerated zoom link
	var created model.CreatedEvent
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, httptest.NewRequest(
			http.MethodPost,
			"/ledger/events",
			strings.NewReader(`{
				"eventName": "Go Meetup",
				"description": "Monthly meetup",
				"startDate": "2025-12-01",
				"endDate": "2025-12-01",
				"startTime": "18:00",
				"endTime": "20:00",
				"eventType": "virtual",
				"paymentMethod": "free"
			}`),
		))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
			t.Fatal(err)
		}
		if created.Title != "Go Meetup" || created.Paid {
			t.Fatalf("unexpected event: %+v", created)
		}
	}()

	// case: an incomplete draft is rejected
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, httptest.NewRequest(
			http.MethodPost,
			"/ledger/events",
			strings.NewReader(`{"eventName": "No details"}`),
		))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	}()

	// case: check-in on a missing attendee index is a 400
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, httptest.NewRequest(
			http.MethodPost,
			"/ledger/events/"+itoa(created.ID)+"/attendees/0/check-in",
			nil,
		))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
		}
	}()

	// case: an unknown event is a 404
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, httptest.NewRequest(
			http.MethodPost,
			"/ledger/events/987654321/attendees/0/check-in",
			nil,
		))
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	}()

	// case: the ledger listing carries the created event
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ledger/events", nil))
		var ledger []model.CreatedEvent
		if err := json.NewDecoder(w.Body).Decode(&ledger); err != nil {
			t.Fatal(err)
		}
		if len(ledger) != 1 || ledger[0].ID != created.ID {
			t.Fatalf("unexpected ledger: %+v", ledger)
		}
	}()

	// case: the CSV download is header-only for an attendee-less event
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, httptest.NewRequest(
			http.MethodGet,
			"/ledger/events/"+itoa(created.ID)+"/attendees.csv",
			nil,
		))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if got := w.Body.String(); got != "Name,Email,Checked In,Payment Status" {
			t.Fatalf("unexpected csv: %q", got)
		}
		if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
			t.Fatalf("unexpected content disposition: %q", cd)
		}
	}()
}

func TestCatalogRoutes(t *testing.T) {
	muxer, _ := newTestServer(t)

	// case: the full catalog
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/events", nil))
		var events []json.RawMessage
		if err := json.NewDecoder(w.Body).Decode(&events); err != nil {
			t.Fatal(err)
		}
		if len(events) != 12 {
			t.Fatalf("expected 12 events, got %d", len(events))
		}
	}()

	// case: unknown ids fall back to the first event
	func() {
		w := httptest.NewRecorder()
		muxer.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/events/9999", nil))
		var event struct {
			ID int `json:"id"`
		}
		if err := json.NewDecoder(w.Body).Decode(&event); err != nil {
			t.Fatal(err)
		}
		if event.ID != 1 {
			t.Fatalf("expected fallback to event 1, got %d", event.ID)
		}
	}()
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
