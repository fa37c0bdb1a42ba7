// Package respond provides utilities for sending HTTP responses in JSON format.
// Every failure leaves the service as a 500 with a "message" field; what the
// message reveals depends on the deployment mode.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"article-tagger/internal/domain/entity"
	"article-tagger/internal/handler/http/requestid"
)

// Mode controls how much error detail reaches clients.
type Mode int

const (
	// Production returns only the operation's failure message.
	Production Mode = iota
	// Development appends the sanitized error text.
	Development
)

// ParseMode maps APP_ENV onto a Mode. Only "development" enables detail.
func ParseMode(env string) Mode {
	if env == "development" {
		return Development
	}
	return Production
}

// InvalidRequestPrefix starts every message caused by a validation failure.
const InvalidRequestPrefix = "Invalid request"

// MessageBody is the envelope used for plain status messages.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Log the error but cannot send error response as headers already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Text writes a plain text response.
func Text(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

// Failure renders err as a 500 response.
//
// Validation errors are logged at WARN and answered with
// "Invalid request: <detail>"; the detail only describes client input.
// Any other error is logged at ERROR and answered with failMsg, plus the
// sanitized error text in Development mode.
func Failure(w http.ResponseWriter, r *http.Request, mode Mode, failMsg string, err error) {
	logger := slog.Default().With(
		slog.String("request_id", requestid.FromContext(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	var verr *entity.ValidationError
	if errors.As(err, &verr) {
		logger.Warn("request rejected", slog.String("field", verr.Field), slog.String("reason", verr.Message))
		markRejected(r.Context())
		JSON(w, http.StatusInternalServerError, MessageBody{Message: InvalidRequestPrefix + ": " + verr.Error()})
		return
	}

	logger.Error(failMsg, slog.String("error", SanitizeError(err)))
	msg := failMsg
	if mode == Development && err != nil {
		msg += " " + SanitizeError(err)
	}
	JSON(w, http.StatusInternalServerError, MessageBody{Message: msg})
}

// SafeError writes a generic message for code. Details of err are logged,
// never returned.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}
	if code >= 500 {
		slog.Default().Error("internal server error",
			slog.String("status", http.StatusText(code)),
			slog.Int("code", code),
			slog.String("error", SanitizeError(err)))
	}
	JSON(w, code, MessageBody{Message: http.StatusText(code)})
}
