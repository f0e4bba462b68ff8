package route

import (
	"encoding/json"
	"net/http"
	"strconv"

	"eventhub/src-server/catalog"
	"eventhub/src-server/utils"
)

func Catalog(muxer *http.ServeMux, as *utils.AppState) {
	// browse the fixed catalog, optionally filtered
	muxer.HandleFunc("GET /catalog/events", func(w http.ResponseWriter, r *http.Request) {
		events := catalog.Filter(
			r.URL.Query().Get("category"),
			r.URL.Query().Get("type"),
		)

		w.Header().Set("Content-Type", "application/json")
		respBodyJson, err := json.Marshal(events)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})

	// single catalog entry; unknown ids fall back to the first event
	muxer.HandleFunc("GET /catalog/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid event ID"))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		respBodyJson, err := json.Marshal(catalog.Lookup(id))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})
}
