package httputil

import "github.com/pollenow/pollenow/internal/apperr"

// Machine-readable error codes returned alongside messages.
const (
	CodeInvalidRequestBody   = "INVALID_REQUEST_BODY"
	CodeMissingFields        = "MISSING_FIELDS"
	CodeValidationFailed     = "VALIDATION_FAILED"
	CodeAlreadyExists        = "ALREADY_EXISTS"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeMissingAuth          = "MISSING_AUTH"
	CodeInvalidToken         = "INVALID_TOKEN"
	CodeTokenExpired         = "TOKEN_EXPIRED"
	CodeInvalidRefreshToken  = "INVALID_REFRESH_TOKEN"
	CodeInvalidResetToken    = "INVALID_RESET_TOKEN"
	CodeNotFound             = "NOT_FOUND"
	CodeTooManyRequests      = "TOO_MANY_REQUESTS"
	CodeUpstreamError        = "UPSTREAM_ERROR"
	CodeInternalError        = "INTERNAL_ERROR"
	CodeSaveLocationRequired = "SAVE_LOCATION_REQUIRED"
	CodeInvalidDaysParameter = "INVALID_DAYS"
)

// CodeForKind returns the default code for an error kind.
func CodeForKind(k apperr.Kind) string {
	switch k {
	case apperr.KindValidation:
		return CodeValidationFailed
	case apperr.KindAlreadyExists:
		return CodeAlreadyExists
	case apperr.KindInvalidCredentials:
		return CodeInvalidCredentials
	case apperr.KindMissingToken:
		return CodeMissingAuth
	case apperr.KindInvalidToken:
		return CodeInvalidToken
	case apperr.KindInvalidRefreshToken:
		return CodeInvalidRefreshToken
	case apperr.KindInvalidOrExpiredToken:
		return CodeInvalidResetToken
	case apperr.KindNotFound:
		return CodeNotFound
	case apperr.KindRateLimited:
		return CodeTooManyRequests
	case apperr.KindUpstream:
		return CodeUpstreamError
	case apperr.KindInternal:
		return CodeInternalError
	default:
		return CodeInternalError
	}
}
