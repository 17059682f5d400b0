package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/battcast/backend/internal/contracts"
	"github.com/battcast/backend/pkg/logger"
)

// ForecastHandler serves the material price forecast table.
type ForecastHandler struct {
	forecastRepo contracts.ForecastRepository
	logger       *logger.Logger
}

// NewForecastHandler creates a new forecast handler
func NewForecastHandler(forecastRepo contracts.ForecastRepository, log *logger.Logger) *ForecastHandler {
	return &ForecastHandler{
		forecastRepo: forecastRepo,
		logger:       log,
	}
}

// GetMaterials returns all material price series
// GET /api/forecasts/materials
func (h *ForecastHandler) GetMaterials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	series, err := h.forecastRepo.GetMaterialSeries(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get material forecasts")
		respondError(w, http.StatusInternalServerError, "failed to get material forecasts")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(series),
		"materials": series,
	})
}

// GetMaterial returns one material price series
// GET /api/forecasts/materials/:material
func (h *ForecastHandler) GetMaterial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	material := contracts.CanonicalMaterial(mux.Vars(r)["material"])

	series, err := h.forecastRepo.GetMaterialSeries(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get material forecasts")
		respondError(w, http.StatusInternalServerError, "failed to get material forecasts")
		return
	}

	s, ok := series[material]
	if !ok {
		respondError(w, http.StatusNotFound, "unknown material: "+material)
		return
	}

	respondJSON(w, http.StatusOK, s)
}
