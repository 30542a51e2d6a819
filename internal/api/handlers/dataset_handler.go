package handlers

import (
	"net/http"

	"github.com/zatekoja/medmatch/internal/application/services"
	"github.com/zatekoja/medmatch/internal/domain/entities"
)

// DatasetHandler handles dataset status and cache administration endpoints
type DatasetHandler struct {
	datasets *services.DatasetService
	warmup   *services.WarmupService
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(datasets *services.DatasetService, warmup *services.WarmupService) *DatasetHandler {
	return &DatasetHandler{datasets: datasets, warmup: warmup}
}

// Status handles GET /api/datasets/status
func (h *DatasetHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.datasets.Status())
}

// Integrity handles GET /api/datasets/{name}/integrity
func (h *DatasetHandler) Integrity(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var target entities.Dataset
	for _, ds := range entities.AllDatasets() {
		if ds.String() == name {
			target = ds
			break
		}
	}
	if target == "" {
		respondWithError(w, http.StatusNotFound, "unknown dataset: "+name)
		return
	}

	respondWithJSON(w, http.StatusOK, h.datasets.ValidateIntegrity(r.Context(), target))
}

// RefreshCache handles POST /api/cache/refresh
func (h *DatasetHandler) RefreshCache(w http.ResponseWriter, r *http.Request) {
	h.datasets.InvalidateAll()
	loaded := h.datasets.Preload(r.Context())

	names := make([]string, 0, len(loaded))
	for _, ds := range loaded {
		names = append(names, ds.String())
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"refreshed": true,
		"preloaded": names,
	})
}

// WarmupStatus handles GET /api/warmup/status. The status message is
// consumed on read, a second call reports nothing pending.
func (h *DatasetHandler) WarmupStatus(w http.ResponseWriter, r *http.Request) {
	msg, ok := h.warmup.ConsumeStatus()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"pending": ok,
		"message": msg,
	})
}
