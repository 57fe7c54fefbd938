package handlers

import (
	"net/http"

	"github.com/triporia/travelsearch/backend/internal/application/services"
)

// ProviderStatusHandler reports which providers are configured per domain,
// so the frontend and operators can see at a glance what inventory a search
// can draw from.
type ProviderStatusHandler struct {
	service *services.SearchService
}

// NewProviderStatusHandler creates a new provider status handler.
func NewProviderStatusHandler(service *services.SearchService) *ProviderStatusHandler {
	return &ProviderStatusHandler{service: service}
}

// GetProviders handles GET /api/providers
func (h *ProviderStatusHandler) GetProviders(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"providers": h.service.ProviderNames(),
	})
}
