package middleware

import (
	"fmt"
	"net/http"
)

// DefaultMaxBodyBytes caps request bodies at 8 MB. Training datasets
// posted to /train are the sizing driver: a telemetry record is a few
// hundred bytes of JSON, so the default admits tens of thousands of
// records per request.
const DefaultMaxBodyBytes int64 = 8 << 20

// MaxBody limits request body size on methods that carry one.
// A request whose declared Content-Length already exceeds the limit is
// rejected up front with a JSON error; bodies of unknown length are
// capped by the reader while the handler decodes. maxBytes <= 0 selects
// DefaultMaxBodyBytes.
func MaxBody(maxBytes int64) Middleware {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
				if r.ContentLength > maxBytes {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusRequestEntityTooLarge)
					fmt.Fprintf(w, `{"error":"request body exceeds %d bytes"}`+"\n", maxBytes)
					return
				}
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
