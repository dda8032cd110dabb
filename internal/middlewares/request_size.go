package middlewares

import (
	"net/http"
)

// DefaultMaxRequestSize is the body limit applied to every API route
const DefaultMaxRequestSize int64 = 10 << 20 // 10MB

// RequestSizeLimit rejects bodies declared larger than maxBytes and caps the rest while they are read
func RequestSizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				w.Write([]byte(`{"message":"request body too large"}`))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
