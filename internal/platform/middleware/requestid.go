package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Bahjat/page-palette/internal/platform/requestid"
)

// maxRequestIDLen bounds client-supplied IDs before they reach the logs.
const maxRequestIDLen = 128

// RequestID assigns each request an ID, reusing a sane incoming
// X-Request-ID and otherwise generating a UUID v4. The ID is echoed on the
// response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestid.Header)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}

		w.Header().Set(requestid.Header, id)
		next.ServeHTTP(w, r.WithContext(requestid.NewContext(r.Context(), id)))
	})
}
