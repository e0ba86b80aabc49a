package middleware

import "net/http"

const bodyTooLarge = `{"message":"request body too large","code":"request_too_large"}`

// NewMaxBodySizeHandler limits request bodies to limit bytes. A request that
// declares a larger Content-Length is answered 413 without reaching next.
// Otherwise the body is wrapped in http.MaxBytesReader, so a handler reading
// past the limit gets an *http.MaxBytesError.
func NewMaxBodySizeHandler(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_, _ = w.Write([]byte(bodyTooLarge + "\n"))
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
