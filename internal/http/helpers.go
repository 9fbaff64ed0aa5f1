package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dominh-hy/TaxViet/internal/core"
)

// maxBodyBytes caps JSON request bodies. The largest legitimate payload
// is a computed result being saved, well under this.
const maxBodyBytes = 1 << 20

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// decodeJSON reads the request body into v, rejecting oversized bodies
// and trailing garbage.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body", core.ErrInvalidInput)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected trailing data", core.ErrInvalidInput)
	}
	return nil
}

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP status codes and a stable
// error envelope.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"
	message := "internal error"

	switch {
	case errors.Is(err, core.ErrDuplicateAccount):
		status, code = http.StatusConflict, "duplicate_account"
		message = err.Error()
	case errors.Is(err, core.ErrAccountNotFound):
		status, code = http.StatusNotFound, "account_not_found"
		message = err.Error()
	case errors.Is(err, core.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, "invalid_credentials"
		message = err.Error()
	case errors.Is(err, core.ErrNoSession):
		status, code = http.StatusUnauthorized, "no_session"
		message = err.Error()
	case errors.Is(err, core.ErrInvalidInput):
		status, code = http.StatusUnprocessableEntity, "invalid_input"
		message = err.Error()
	}

	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
