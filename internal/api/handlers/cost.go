package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/battcast/backend/internal/contracts"
	"github.com/battcast/backend/pkg/logger"
)

// CostHandler serves the baseline chemistry cost tables.
type CostHandler struct {
	forecastRepo contracts.ForecastRepository
	logger       *logger.Logger
}

// NewCostHandler creates a new cost handler
func NewCostHandler(forecastRepo contracts.ForecastRepository, log *logger.Logger) *CostHandler {
	return &CostHandler{
		forecastRepo: forecastRepo,
		logger:       log,
	}
}

// GetChemistries returns all chemistry cost series
// GET /api/costs/chemistries
func (h *CostHandler) GetChemistries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	series, err := h.forecastRepo.GetChemistryCosts(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get chemistry costs")
		respondError(w, http.StatusInternalServerError, "failed to get chemistry costs")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":       len(series),
		"chemistries": series,
	})
}

// GetChemistry returns one chemistry cost series
// GET /api/costs/chemistries/:chemistry
func (h *CostHandler) GetChemistry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	chemistry := contracts.CanonicalChemistry(mux.Vars(r)["chemistry"])

	series, err := h.forecastRepo.GetChemistryCosts(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get chemistry costs")
		respondError(w, http.StatusInternalServerError, "failed to get chemistry costs")
		return
	}

	s, ok := series[chemistry]
	if !ok {
		respondError(w, http.StatusNotFound, "unknown chemistry: "+chemistry)
		return
	}

	respondJSON(w, http.StatusOK, s)
}
