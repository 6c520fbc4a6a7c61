package api

import (
	"errors"
	"net/http"

	apperrors "github.com/ppiankov/factcheck/internal/errors"
	"github.com/ppiankov/factcheck/internal/export"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Retryable bool   `json:"retryable"`
}

// codeSuperseded answers a session request whose response was discarded in favour of a newer one
const codeSuperseded = "SUPERSEDED"

func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, export.ErrUnsupportedFormat):
		return http.StatusUnprocessableEntity
	case apperrors.IsInvalidInput(err):
		return http.StatusBadRequest
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsConfiguration(err):
		return http.StatusServiceUnavailable
	case apperrors.IsNetwork(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := ErrorResponse{
		Error:     apperrors.Message(err),
		Code:      apperrors.Code(err),
		Retryable: apperrors.Retryable(err),
	}

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		body.Code = apperrors.CodeInvalidInput
		body.Error = "request body too large"
	}

	event := s.logger.Warn()
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		event = s.logger.Error()
	}
	event.Err(err).
		Str("path", r.URL.Path).
		Int("status", status).
		Str("code", body.Code).
		Msg("request failed")

	respondJSON(w, status, body)
}
