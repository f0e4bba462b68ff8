package route

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"eventhub/src-server/model"
	"eventhub/src-server/storage"
	"eventhub/src-server/utils"
)

func Ledger(muxer *http.ServeMux, as *utils.AppState) {
	store := storage.NewLedgerStore(as.BunDB, as.MetricChans)

	// all created events with their attendees
	muxer.HandleFunc("GET /ledger/events", func(w http.ResponseWriter, r *http.Request) {
		ledger, err := store.Load(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't load ledger"))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		respBodyJson, err := json.Marshal(ledger)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})

	// create a new event from the two-step form, the success response
	// is the created event
	muxer.HandleFunc("POST /ledger/events", func(w http.ResponseWriter, r *http.Request) {
		var draft model.EventDraft
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}
		if draft.EventType == "" {
			draft.EventType = model.EVENT_TYPE_PHYSICAL
		}

		newEvent, err := store.CreateEvent(r.Context(), draft)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please fill in all required fields"))
			return
		}

		respBodyJson, err := json.Marshal(newEvent)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})

	// flip an attendee's check-in flag
	muxer.HandleFunc("POST /ledger/events/{id}/attendees/{index}/check-in", func(w http.ResponseWriter, r *http.Request) {
		eventID, attendeeIndex, ok := parseAttendeePath(w, r)
		if !ok {
			return
		}

		updatedEvent, err := store.ToggleCheckIn(r.Context(), eventID, attendeeIndex)
		if !writeLedgerErr(w, err) {
			return
		}

		as.Notifier.Send("Check-in updated!", fmt.Sprintf("Attendee updated in %s", updatedEvent.Title))

		w.Header().Set("Content-Type", "application/json")
		respBodyJson, err := json.Marshal(updatedEvent)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})

	type PaymentReqBody struct {
		Confirmed bool `json:"confirmed"`
	}

	// simulate a payment: pending attendees move to paid when the
	// caller confirms, anything else is a no-op
	muxer.HandleFunc("POST /ledger/events/{id}/attendees/{index}/payment", func(w http.ResponseWriter, r *http.Request) {
		eventID, attendeeIndex, ok := parseAttendeePath(w, r)
		if !ok {
			return
		}

		var reqBody PaymentReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		updatedEvent, transitioned, err := store.RecordPayment(r.Context(), eventID, attendeeIndex, reqBody.Confirmed)
		if !writeLedgerErr(w, err) {
			return
		}

		if transitioned {
			attendee := updatedEvent.Attendees[attendeeIndex]
			as.Notifier.Send("Payment Completed", fmt.Sprintf("%s paid for %s", attendee.Name, updatedEvent.Title))
		}

		w.Header().Set("Content-Type", "application/json")
		respBodyJson, err := json.Marshal(updatedEvent)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})

	// attendee list as a downloadable CSV
	muxer.HandleFunc("GET /ledger/events/{id}/attendees.csv", func(w http.ResponseWriter, r *http.Request) {
		eventID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid event ID"))
			return
		}

		ledger, err := store.Load(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't load ledger"))
			return
		}

		for i := range ledger {
			if ledger[i].ID != eventID {
				continue
			}
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ledger[i].CSVFileName()))
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(ledger[i].AttendeesCSV()))
			return
		}

		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Event not found"))
	})
}

func Dashboard(muxer *http.ServeMux, as *utils.AppState) {
	store := storage.NewLedgerStore(as.BunDB, as.MetricChans)

	// totals derived from the ledger on every request
	muxer.HandleFunc("GET /dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.Stats(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't load ledger"))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		respBodyJson, err := json.Marshal(stats)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})
}

func parseAttendeePath(w http.ResponseWriter, r *http.Request) (int64, int, bool) {
	eventID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Invalid event ID"))
		return 0, 0, false
	}
	attendeeIndex, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Invalid attendee index"))
		return 0, 0, false
	}
	return eventID, attendeeIndex, true
}

// Maps store errors onto status codes; returns false when a response
// has already been written.
func writeLedgerErr(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, storage.ErrEventNotFound):
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Event not found"))
	case errors.Is(err, storage.ErrAttendeeIndex):
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Attendee index out of range"))
	default:
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Can't update ledger"))
	}
	return false
}
