package pollen

import (
	"net/http"
	"strconv"
	"time"

	"github.com/pollenow/pollenow/internal/apperr"
	"github.com/pollenow/pollenow/internal/auth"
	"github.com/pollenow/pollenow/internal/httputil"
	"github.com/pollenow/pollenow/internal/logging"
)

const defaultDays = MaxDays

// Handler serves pollen forecasts
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ForecastResponse wraps a successful forecast
type ForecastResponse struct {
	Success bool          `json:"success"`
	Data    *ForecastData `json:"data"`
}

// InvalidDaysResponse is returned for an out-of-range days parameter
type InvalidDaysResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Received string `json:"received,omitempty"`
}

// NoLocationResponse tells the client to save a location first
type NoLocationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Action  string `json:"action"`
	Hint    string `json:"hint"`
}

// FailureResponse is returned when the forecast cannot be produced
type FailureResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Forecast returns the pollen forecast for the caller's saved location
// @Summary      Pollen forecast
// @Description  Forecast for the saved location. days defaults to 5.
// @Tags         pollen
// @Produce      json
// @Security     BearerAuth
// @Param        days query int false "Number of days (1-5)"
// @Success      200 {object} ForecastResponse
// @Failure      400 {object} InvalidDaysResponse "Invalid days parameter"
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} NoLocationResponse "No saved location"
// @Failure      500 {object} FailureResponse "Forecast failed"
// @Router       /pollen/forecast [get]
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondAppError(w, r, apperr.InvalidToken("Unauthorized"))
		return
	}

	raw := r.URL.Query().Get("days")
	days, ok := parseDays(raw)
	if !ok {
		httputil.RespondJSON(w, InvalidDaysResponse{
			Success:  false,
			Message:  "Days parameter must be a number between 1 and 5",
			Received: raw,
		}, http.StatusBadRequest)
		return
	}

	data, err := h.service.Forecast(r.Context(), userID, days)
	if err != nil {
		appErr := apperr.As(err)
		switch appErr.Kind {
		case apperr.KindNotFound:
			logger.Warn("forecast requested without saved location")
			httputil.RespondJSON(w, NoLocationResponse{
				Success: false,
				Message: appErr.Message,
				Action:  httputil.CodeSaveLocationRequired,
				Hint:    "Use the location endpoints to save your location before getting pollen data.",
			}, http.StatusNotFound)
		case apperr.KindValidation:
			httputil.RespondJSON(w, InvalidDaysResponse{Success: false, Message: appErr.Message, Received: raw}, http.StatusBadRequest)
		default:
			message := appErr.Message
			if appErr.Kind == apperr.KindInternal {
				message = "Internal server error"
			}
			logger.Error("pollen forecast failed", "error", err.Error())
			httputil.RespondJSON(w, FailureResponse{
				Success:   false,
				Message:   "Failed to get pollen forecast: " + message,
				Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			}, http.StatusInternalServerError)
		}
		return
	}

	httputil.RespondJSON(w, ForecastResponse{Success: true, Data: data}, http.StatusOK)
}

// parseDays reads the days query value. Anything but an integer in 1..5 is
// rejected; an absent value means the default.
func parseDays(raw string) (int, bool) {
	if raw == "" {
		return defaultDays, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < MinDays || days > MaxDays {
		return 0, false
	}
	return days, true
}
