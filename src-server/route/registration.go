package route

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"eventhub/src-server/catalog"
	"eventhub/src-server/model"
	"eventhub/src-server/storage"
	"eventhub/src-server/utils"

	qrcode "github.com/skip2/go-qrcode"
)

func Registration(muxer *http.ServeMux, as *utils.AppState) {
	store := storage.NewRegistrationStore(as.BunDB)

	type RegisterReqBody struct {
		FirstName       string `json:"firstName"`
		LastName        string `json:"lastName"`
		Email           string `json:"email"`
		Phone           string `json:"phone"`
		Company         string `json:"company"`
		SpecialRequests string `json:"specialRequests"`
		AgreeToTerms    bool   `json:"agreeToTerms"`
	}

	// register for a catalog event; this appends to the registrations
	// list only, it never touches the created-events ledger
	muxer.HandleFunc("POST /register/{id}", func(w http.ResponseWriter, r *http.Request) {
		eventID, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid event ID"))
			return
		}

		var reqBody RegisterReqBody
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		switch {
		case reqBody.FirstName == "", reqBody.LastName == "", reqBody.Email == "", !reqBody.AgreeToTerms:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please fill in all required fields and agree to terms"))
			return
		}

		event := catalog.Lookup(eventID)
		now := time.Now().In(as.Config.GetLocation())
		newRegistration := model.Registration{
			ID:             now.UnixMilli(),
			EventID:        event.ID,
			EventTitle:     event.Title,
			Date:           event.Date,
			Location:       event.Location,
			Type:           event.Type,
			Status:         model.REGISTRATION_STATUS_UPCOMING,
			Attendees:      event.Attendees,
			RegisteredDate: now.Format("Jan 2, 2006"),
			TicketNumber:   model.NewTicketNumber(now),
		}
		if err := store.Add(r.Context(), newRegistration); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't save registration"))
			return
		}

		respBodyJson, err := json.Marshal(newRegistration)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})

	// a QR code encoding the payment intent for the register page
	muxer.HandleFunc("GET /register/{id}/payment-qr.png", func(w http.ResponseWriter, r *http.Request) {
		eventID, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid event ID"))
			return
		}

		provider := r.URL.Query().Get("provider")
		switch provider {
		case "stripe":
			provider = "Stripe"
		case "paypal":
			provider = "PayPal"
		default:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Unknown payment provider"))
			return
		}

		event := catalog.Lookup(eventID)
		name := utils.CleanupString(r.URL.Query().Get("name"))
		png, err := qrcode.Encode(
			fmt.Sprintf("%s | %s | %s", provider, name, event.Title),
			qrcode.High, 200)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't generate QR code"))
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		w.Write(png)
	})

	// registrations listing, gated like the page it backs
	muxer.HandleFunc("GET /registrations", SessionGate(as, func(w http.ResponseWriter, r *http.Request) {
		registrations, err := store.List(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't load registrations"))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		respBodyJson, err := json.Marshal(registrations)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	}))

	muxer.HandleFunc("GET /registrations/stats", SessionGate(as, func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.Stats(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't load registrations"))
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
	}))

	type CancelReqBody struct {
		Confirmed bool `json:"confirmed"`
	}

	// cancel a registration, requires an explicit confirmation
	muxer.HandleFunc("DELETE /registrations/{id}", SessionGate(as, func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid registration ID"))
			return
		}

		var reqBody CancelReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		switch err := store.Cancel(r.Context(), id, reqBody.Confirmed); {
		case errors.Is(err, storage.ErrRegistrationNotFound):
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Registration not found"))
			return
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't cancel registration"))
			return
		}

		w.WriteHeader(http.StatusOK)
	}))

	// ticket QR for a registration
	muxer.HandleFunc("GET /registrations/{id}/qr.png", SessionGate(as, func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid registration ID"))
			return
		}

		registration, err := store.Get(r.Context(), id)
		switch {
		case errors.Is(err, storage.ErrRegistrationNotFound):
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Registration not found"))
			return
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't load registration"))
			return
		}

		png, err := qrcode.Encode(registration.TicketURL(), qrcode.High, 200)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't generate QR code"))
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		w.Write(png)
	}))
}
