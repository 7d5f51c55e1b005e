package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/portfolio"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	if lw, ok := w.(*loggingResponseWriter); ok {
		lw.SetErrorMessage(message)
	}
	writeJSON(w, status, ErrorResponse{Error: message, RequestID: middleware.GetReqID(r.Context())})
}

// writeEngineError maps engine and ledger errors onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, portfolio.ErrUnknownSymbol), errors.Is(err, journal.ErrTradeNotFound):
		return http.StatusNotFound
	case errors.Is(err, portfolio.ErrInsufficientShares),
		errors.Is(err, portfolio.ErrInsufficientCash),
		errors.Is(err, portfolio.ErrInvalidQuantity),
		errors.Is(err, portfolio.ErrInvalidPrice),
		errors.Is(err, portfolio.ErrMissingSymbol),
		errors.Is(err, journal.ErrUnknownAction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
