package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/battcast/backend/internal/contracts"
	"github.com/battcast/backend/internal/scenario"
	"github.com/battcast/backend/internal/sensitivity"
	"github.com/battcast/backend/pkg/config"
	"github.com/battcast/backend/pkg/logger"
)

// SensitivityHandler serves per-material tornado data for one chemistry.
type SensitivityHandler struct {
	forecastRepo  contracts.ForecastRepository
	intensityRepo contracts.IntensityRepository
	defaults      config.ScenarioDefaults
	logger        *logger.Logger
}

// NewSensitivityHandler creates a new sensitivity handler
func NewSensitivityHandler(
	forecastRepo contracts.ForecastRepository,
	intensityRepo contracts.IntensityRepository,
	defaults config.ScenarioDefaults,
	log *logger.Logger,
) *SensitivityHandler {
	return &SensitivityHandler{
		forecastRepo:  forecastRepo,
		intensityRepo: intensityRepo,
		defaults:      defaults,
		logger:        log,
	}
}

// sensitivityRequest is the optional POST body. When present, the tornado is
// evaluated under the given scenario's shocked prices and duties instead of
// the unshocked baseline. Pointer fields distinguish an omitted value from an
// explicit zero; omitted values fall back to config defaults.
type sensitivityRequest struct {
	Chemistry        string             `json:"chemistry"`
	Month            string             `json:"month"`
	ShockPct         map[string]float64 `json:"shock_pct"`
	ImportDuty       map[string]float64 `json:"import_duty"`
	RecyclePct       map[string]float64 `json:"recycle_pct"`
	GlobalRecyclePct *float64           `json:"global_recycle_pct"`
	PackOverheadPct  *float64           `json:"pack_overhead_pct"`
	USDToLocalFX     *float64           `json:"usd_to_local_fx"`
}

// Analyze computes material impacts for a chemistry at one month
// GET  /api/sensitivity?chemistry=nmc811&month=2026-05
// POST /api/sensitivity with a scenario body
func (h *SensitivityHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req sensitivityRequest
	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.Chemistry == "" {
		req.Chemistry = r.URL.Query().Get("chemistry")
	}
	if req.Month == "" {
		req.Month = r.URL.Query().Get("month")
	}

	chemistry := contracts.CanonicalChemistry(req.Chemistry)
	if chemistry == "" {
		respondError(w, http.StatusBadRequest, "chemistry is required")
		return
	}

	month := contracts.MonthStart(time.Now().UTC())
	if req.Month != "" {
		parsed, err := time.Parse("2006-01", req.Month)
		if err != nil {
			respondError(w, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}
		month = contracts.MonthStart(parsed)
	}

	records, err := h.intensityRepo.GetAll(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get intensity baseline")
		respondError(w, http.StatusInternalServerError, "failed to get intensity baseline")
		return
	}

	prices, err := h.forecastRepo.GetMaterialSeries(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get material forecasts")
		respondError(w, http.StatusInternalServerError, "failed to get material forecasts")
		return
	}

	params := contracts.ScenarioParameters{
		ShockPct:         req.ShockPct,
		ImportDuty:       req.ImportDuty,
		RecyclePct:       req.RecyclePct,
		GlobalRecyclePct: h.defaults.RecyclePct,
		PackOverheadPct:  h.defaults.PackOverheadPct,
		USDToLocalFX:     h.defaults.USDToLocalFX,
	}
	if req.GlobalRecyclePct != nil {
		params.GlobalRecyclePct = *req.GlobalRecyclePct
	}
	if req.PackOverheadPct != nil {
		params.PackOverheadPct = *req.PackOverheadPct
	}
	if req.USDToLocalFX != nil {
		params.USDToLocalFX = *req.USDToLocalFX
	}
	params = params.Canonicalize()

	// Duty is folded into the shocked prices, so it is not passed again to
	// the analyzer.
	results := sensitivity.Analyze(sensitivity.Input{
		Chemistry:       chemistry,
		Month:           month,
		Basket:          scenario.EffectiveIntensities(records, params),
		Prices:          scenario.ShockPrices(prices, params),
		PackOverheadPct: params.PackOverheadPct,
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"chemistry": chemistry,
		"month":     month.Format("2006-01"),
		"count":     len(results),
		"results":   results,
	})
}
