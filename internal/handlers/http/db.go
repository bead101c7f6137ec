package http

import (
	"net/http"

	"github.com/jmoiron/sqlx"
)

// NewDBPingHandler reports storage health. A nil db means the analyzer
// runs file-backed and there is nothing to ping.
func NewDBPingHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			w.WriteHeader(http.StatusOK)
			return
		}
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
