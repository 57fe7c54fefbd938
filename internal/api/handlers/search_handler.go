package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/triporia/travelsearch/backend/internal/application/services"
	"github.com/triporia/travelsearch/backend/internal/domain/entities"
	"github.com/triporia/travelsearch/backend/internal/infrastructure/observability"
	"github.com/triporia/travelsearch/backend/pkg/validation"
)

// SearchHandler handles the three aggregated search endpoints.
type SearchHandler struct {
	service *services.SearchService
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(service *services.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// SearchHotels handles POST /api/search-hotels
func (h *SearchHandler) SearchHotels(w http.ResponseWriter, r *http.Request) {
	var req entities.HotelSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if fields := validation.Struct(req); fields != nil {
		respondWithValidationErrors(w, fields)
		return
	}

	resp, err := h.service.SearchHotels(r.Context(), req)
	if err != nil {
		logger := observability.LoggerFromContext(r.Context())
		logger.Error().Err(err).Str("location", req.Location).Msg("hotel search failed")
		respondWithError(w, http.StatusInternalServerError, "search failed")
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// SearchFlights handles POST /api/search-flights
func (h *SearchHandler) SearchFlights(w http.ResponseWriter, r *http.Request) {
	var req entities.FlightSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if fields := validation.Struct(req); fields != nil {
		respondWithValidationErrors(w, fields)
		return
	}

	resp, err := h.service.SearchFlights(r.Context(), req)
	if err != nil {
		logger := observability.LoggerFromContext(r.Context())
		logger.Error().Err(err).Str("origin", req.Origin).Str("destination", req.Destination).Msg("flight search failed")
		respondWithError(w, http.StatusInternalServerError, "search failed")
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// SearchCars handles POST /api/car-rental
func (h *SearchHandler) SearchCars(w http.ResponseWriter, r *http.Request) {
	var req entities.CarSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if fields := validation.Struct(req); fields != nil {
		respondWithValidationErrors(w, fields)
		return
	}

	resp, err := h.service.SearchCars(r.Context(), req)
	if err != nil {
		logger := observability.LoggerFromContext(r.Context())
		logger.Error().Err(err).Str("pickup", req.PickupLocation).Msg("car rental search failed")
		respondWithError(w, http.StatusInternalServerError, "search failed")
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

func respondWithValidationErrors(w http.ResponseWriter, fields map[string]string) {
	respondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
		"success": false,
		"errors":  fields,
	})
}
