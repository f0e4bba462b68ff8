package route

import (
	"encoding/json"
	"net/http"

	"eventhub/src-server/model"
	"eventhub/src-server/storage"
	"eventhub/src-server/utils"
)

func Profile(muxer *http.ServeMux, as *utils.AppState) {
	store := storage.NewProfileStore(as.BunDB)

	muxer.HandleFunc("GET /profile", SessionGate(as, func(w http.ResponseWriter, r *http.Request) {
		profile, err := store.Get(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't load profile"))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		respBodyJson, err := json.Marshal(profile)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	}))

	muxer.HandleFunc("PUT /profile", SessionGate(as, func(w http.ResponseWriter, r *http.Request) {
		var profile model.Profile
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		if err := store.Set(r.Context(), profile); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't save profile"))
			return
		}

		w.WriteHeader(http.StatusOK)
	}))
}
