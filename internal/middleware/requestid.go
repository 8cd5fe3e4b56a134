// AngelaMos | 2026
// requestid.go

package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type contextKey string

const RequestIDHeader = "X-Request-ID"

// RequestID assigns a request id (honoring an inbound X-Request-ID) and echoes
// it on the response.
func RequestID(next http.Handler) http.Handler {
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			w.Header().Set(RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	})
	return chimw.RequestID(echo)
}

func GetRequestID(r *http.Request) string {
	return chimw.GetReqID(r.Context())
}
