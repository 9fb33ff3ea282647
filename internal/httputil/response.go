package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/pollenow/pollenow/internal/apperr"
	"github.com/pollenow/pollenow/internal/logging"
)

// internalErrorMessage is the only thing clients learn about internal failures.
const internalErrorMessage = "Internal server error"

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// SuccessResponse acknowledges an operation that returns no resource.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondMessage sends {message} with the given status code.
func RespondMessage(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, ErrorResponse{Message: message}, statusCode)
}

// RespondErrorWithCode sends {message, code} with the given status code.
func RespondErrorWithCode(w http.ResponseWriter, message string, code string, statusCode int) {
	RespondJSON(w, ErrorResponse{Message: message, Code: code}, statusCode)
}

// RespondAppError translates err into a status code and body. Internal errors
// are logged with full detail and replaced by a generic message.
func RespondAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperr.As(err)
	status := apperr.HTTPStatus(appErr.Kind)
	logger := logging.GetLoggerFromContext(r.Context())

	if appErr.Kind == apperr.KindInternal {
		logger.Error("internal error", "error", err.Error())
		RespondErrorWithCode(w, internalErrorMessage, CodeInternalError, status)
		return
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "kind", appErr.Kind.String(), "error", err.Error())
	} else {
		logger.Warn("request rejected", "kind", appErr.Kind.String(), "error", err.Error())
	}

	code := appErr.Code
	if code == "" {
		code = CodeForKind(appErr.Kind)
	}
	RespondErrorWithCode(w, appErr.Message, code, status)
}

// DecodeJSON decodes the request body into dst. An empty body leaves dst
// untouched so missing-field validation can report it.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.Validation("Invalid request body").WithCode(CodeInvalidRequestBody)
	}
	return nil
}
