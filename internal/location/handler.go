package location

import (
	"net/http"

	"github.com/pollenow/pollenow/internal/apperr"
	"github.com/pollenow/pollenow/internal/auth"
	"github.com/pollenow/pollenow/internal/httputil"
	"github.com/pollenow/pollenow/internal/logging"
)

// Handler contains HTTP handlers for the saved location endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SaveRequest represents the save location request body
type SaveRequest struct {
	ZipCode     string       `json:"zipCode"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Get returns the caller's saved location
// @Summary      Get saved location
// @Tags         location
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} Location
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} httputil.ErrorResponse "Location not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /location [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondAppError(w, r, apperr.InvalidToken("Unauthorized"))
		return
	}

	loc, err := h.service.Get(r.Context(), userID)
	if err != nil {
		httputil.RespondAppError(w, r, err)
		return
	}

	httputil.RespondJSON(w, loc, http.StatusOK)
}

// Save creates or replaces the caller's saved location
// @Summary      Save location
// @Description  Saves a ZIP code. Coordinates are geocoded when omitted; a geocoding failure still saves the ZIP.
// @Tags         location
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SaveRequest true "Location"
// @Success      200 {object} Location
// @Failure      400 {object} httputil.ErrorResponse "Missing zipCode"
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /location [post]
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondAppError(w, r, apperr.InvalidToken("Unauthorized"))
		return
	}

	var req SaveRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondAppError(w, r, err)
		return
	}

	loc, err := h.service.Save(r.Context(), userID, req.ZipCode, req.Coordinates)
	if err != nil {
		httputil.RespondAppError(w, r, err)
		return
	}

	logging.GetLoggerFromContext(r.Context()).Info("location saved",
		"user_id", userID, "zip_code", loc.ZipCode, "has_coordinates", loc.HasCoordinates())

	httputil.RespondJSON(w, loc, http.StatusOK)
}

// Delete removes the caller's saved location
// @Summary      Delete location
// @Tags         location
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} httputil.SuccessResponse
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} httputil.ErrorResponse "Location not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /location [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondAppError(w, r, apperr.InvalidToken("Unauthorized"))
		return
	}

	if err := h.service.Delete(r.Context(), userID); err != nil {
		httputil.RespondAppError(w, r, err)
		return
	}

	httputil.RespondJSON(w, httputil.SuccessResponse{
		Success: true,
		Message: "Location deleted successfully",
	}, http.StatusOK)
}
