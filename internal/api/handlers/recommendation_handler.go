package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/medmatch/internal/application/services"
)

// RecommendationHandler handles provider recommendation endpoints
type RecommendationHandler struct {
	recommendations *services.RecommendationService
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(recommendations *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations}
}

// Recommend handles POST /api/recommendations
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req services.RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		respondWithError(w, http.StatusBadRequest, "latitude and longitude must be valid coordinates")
		return
	}
	if req.Weights == (services.Weights{}) {
		req.Weights = services.DefaultWeights()
	}

	result, err := h.recommendations.Recommend(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("recommendation request failed")
		respondWithError(w, http.StatusInternalServerError, "failed to compute recommendations")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// Filters handles GET /api/filters
func (h *RecommendationHandler) Filters(w http.ResponseWriter, r *http.Request) {
	filters, err := h.recommendations.AvailableFilters(r.Context())
	if err != nil {
		respondWithError(w, http.StatusServiceUnavailable, "provider data is not available")
		return
	}

	respondWithJSON(w, http.StatusOK, filters)
}
