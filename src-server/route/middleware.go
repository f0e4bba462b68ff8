package route

import (
	"context"
	"log/slog"
	"net/http"

	"eventhub/src-server/storage"
	"eventhub/src-server/utils"
)

type UserNameCtxKeyType string

const UserNameCtxKey UserNameCtxKeyType = "user-name"

// Soft session gate: without a stored session the client is sent to
// the login page. Trivially bypassable, this is presentation flow
// control, not authentication.
func SessionGate(as *utils.AppState, next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	sessions := storage.NewSessionStore(as.BunDB)
	return func(w http.ResponseWriter, r *http.Request) {
		displayName, loggedIn, err := sessions.Current(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't read session"))
			slog.Error("can't read session", "error", err)
			return
		}
		if !loggedIn {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), UserNameCtxKey, displayName)
		next(w, r.WithContext(ctx))
	}
}
