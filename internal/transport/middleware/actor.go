package middleware

import (
	"net/http"

	"github.com/finledger/ledger-engine/internal"
)

// Actor attaches the caller-supplied X-Actor header to the request context.
// Mutations pass it through to the audit trail; an absent header falls back
// to the system principal at write time.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actor := r.Header.Get("X-Actor"); actor != "" {
			r = r.WithContext(internal.ContextWithActor(r.Context(), actor))
		}
		next.ServeHTTP(w, r)
	})
}
