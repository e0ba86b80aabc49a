package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

// messageResponse is the body of simple acknowledgements such as deletes.
type messageResponse struct {
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the status line is already written; nothing useful remains to do on failure.
	json.NewEncoder(w).Encode(v)
}

// errEmptyBody is returned by decodeJSON when the request has no body.
var errEmptyBody = errors.New("request body is required")

// errBodyTooLarge is returned by decodeJSON when the body exceeds the
// limit set by middleware.NewMaxBodySizeHandler.
var errBodyTooLarge = errors.New("request body too large")

// decodeJSON reads the request body into dst. Unknown fields are ignored so
// clients may send back whole records they previously received.
// The body is read in full first so a limit hit surfaces as errBodyTooLarge.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errEmptyBody
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errBodyTooLarge
		}
		return fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	return nil
}
