package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"orders-ms/internal/model"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing useful left to tell the client.
		return
	}
}

// writeError translates err into an ErrorResponse. Non-domain errors become 500s.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	domainErr := model.AsDomainError(err)

	event := logger.Warn()
	if domainErr.Status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Str("code", domainErr.Code).
		Int("status", domainErr.Status).
		Str("path", r.URL.Path).
		Msg(domainErr.Message)

	writeJSON(w, domainErr.Status, model.ErrorResponse{
		Error:         domainErr.Code,
		Message:       domainErr.Message,
		CorrelationID: middleware.GetReqID(r.Context()),
	})
}

// decodeJSON reads a single JSON document from the request body into dst.
// Unknown fields are ignored.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return model.NewDomainError(http.StatusBadRequest, model.ErrCodeInvalidJSON, "request body is required")
		}
		return model.NewDomainError(http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body")
	}
	return nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, model.NewValidationError(name + " must be an integer")
	}
	return &v, nil
}
