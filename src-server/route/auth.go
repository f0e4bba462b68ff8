package route

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"eventhub/src-server/storage"
	"eventhub/src-server/utils"
)

func Auth(muxer *http.ServeMux, as *utils.AppState) {
	sessions := storage.NewSessionStore(as.BunDB)

	type LoginReqBody struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	type SessionRespBody struct {
		IsLoggedIn bool   `json:"isLoggedIn"`
		UserName   string `json:"userName"`
	}

	// mock login, presence check only
	muxer.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var reqBody LoginReqBody
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		displayName, err := sessions.Login(r.Context(), reqBody.Email, reqBody.Password)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please fill in all fields"))
			return
		}

		respBodyJson, err := json.Marshal(SessionRespBody{IsLoggedIn: true, UserName: displayName})
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})

	type SignupReqBody struct {
		FirstName       string `json:"firstName"`
		LastName        string `json:"lastName"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}

	// mock signup
	muxer.HandleFunc("POST /auth/signup", func(w http.ResponseWriter, r *http.Request) {
		var reqBody SignupReqBody
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}

		displayName, err := sessions.Signup(
			r.Context(),
			reqBody.FirstName,
			reqBody.LastName,
			reqBody.Email,
			reqBody.Password,
			reqBody.ConfirmPassword,
		)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Please fill in all fields and ensure passwords match"))
			return
		}

		respBodyJson, err := json.Marshal(SessionRespBody{IsLoggedIn: true, UserName: displayName})
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})

	// logout
	muxer.HandleFunc("DELETE /auth", func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.Logout(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't clear session"))
			slog.Error("can't clear session", "error", err)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// current session, read by the navigation chrome
	muxer.HandleFunc("GET /auth/session", func(w http.ResponseWriter, r *http.Request) {
		displayName, loggedIn, err := sessions.Current(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't read session"))
			slog.Error("can't read session", "error", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		respBodyJson, err := json.Marshal(SessionRespBody{IsLoggedIn: loggedIn, UserName: displayName})
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't marshal response body"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(respBodyJson)
	})
}
