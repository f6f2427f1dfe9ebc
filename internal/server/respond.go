package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fleetbooks/fleetbooks/internal/accounts"
	"github.com/fleetbooks/fleetbooks/internal/fleet"
	"github.com/fleetbooks/fleetbooks/internal/hr"
	"github.com/fleetbooks/fleetbooks/internal/inventory"
	"github.com/fleetbooks/fleetbooks/internal/journal"
	"github.com/fleetbooks/fleetbooks/internal/store"
)

// errBadRequest marks malformed input: bad JSON, dates or query values.
var errBadRequest = errors.New("bad request")

// errRejected marks well-formed input the books refuse.
var errRejected = errors.New("rejected")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func rejected(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errRejected, fmt.Sprintf(format, args...))
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusOf maps an error to its HTTP status.
func statusOf(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, accounts.ErrUnknownAccount):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest), errors.Is(err, store.ErrBadColumn):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.As(err, &verrs),
		errors.Is(err, errRejected),
		errors.Is(err, journal.ErrInvalidEntry),
		errors.Is(err, journal.ErrNotDraft),
		errors.Is(err, journal.ErrVoided),
		errors.Is(err, inventory.ErrNotOrdered),
		errors.Is(err, inventory.ErrInsufficientStock),
		errors.Is(err, inventory.ErrInvalidQuantity),
		errors.Is(err, hr.ErrNegativeNet),
		errors.Is(err, fleet.ErrNothingToPay):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", fields...)
		msg = "internal error"
	} else {
		s.logger.Info("request rejected", fields...)
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("decoding body: %v", err)
	}
	return nil
}

// decodeOptional is decodeJSON for requests whose body may be empty.
func decodeOptional(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return badRequest("decoding body: %v", err)
	}
	return nil
}

const dateLayout = "2006-01-02"

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, key string) (time.Time, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, badRequest("%s: want YYYY-MM-DD, got %q", key, v)
	}
	return t, nil
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, badRequest("%s: want a non-negative integer, got %q", key, v)
	}
	return n, nil
}
