package handlers

import (
	"net/http"
	"strconv"

	"github.com/triporia/travelsearch/backend/internal/application/services"
	"github.com/triporia/travelsearch/backend/internal/infrastructure/observability"
)

// AnalyticsHandler exposes search analytics snapshots.
type AnalyticsHandler struct {
	service *services.SearchAnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(service *services.SearchAnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// GetZeroResultQueries handles GET /api/analytics/zero-result-queries
func (h *AnalyticsHandler) GetZeroResultQueries(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	events, err := h.service.GetZeroResultQueries(r.Context(), limit)
	if err != nil {
		logger := observability.LoggerFromContext(r.Context())
		logger.Error().Err(err).Msg("failed to load zero result queries")
		respondWithError(w, http.StatusInternalServerError, "failed to load analytics")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"queries": events,
		"count":   len(events),
	})
}
