package handlers

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/battcast/backend/internal/contracts"
	"github.com/battcast/backend/internal/scenario"
	"github.com/battcast/backend/pkg/config"
	"github.com/battcast/backend/pkg/logger"
	"github.com/battcast/backend/pkg/redis"
)

const scenarioCacheTTL = 10 * time.Minute

// ScenarioHandler evaluates scenario requests against the stored baseline.
type ScenarioHandler struct {
	forecastRepo  contracts.ForecastRepository
	intensityRepo contracts.IntensityRepository
	engine        *scenario.Engine
	cache         *redis.Cache
	defaults      config.ScenarioDefaults
	logger        *logger.Logger
}

// NewScenarioHandler creates a new scenario handler
func NewScenarioHandler(
	forecastRepo contracts.ForecastRepository,
	intensityRepo contracts.IntensityRepository,
	engine *scenario.Engine,
	cache *redis.Cache,
	defaults config.ScenarioDefaults,
	log *logger.Logger,
) *ScenarioHandler {
	return &ScenarioHandler{
		forecastRepo:  forecastRepo,
		intensityRepo: intensityRepo,
		engine:        engine,
		cache:         cache,
		defaults:      defaults,
		logger:        log,
	}
}

// scenarioRequest is the POST body. Pointer fields distinguish an omitted
// value from an explicit zero; omitted values fall back to config defaults.
type scenarioRequest struct {
	Chemistries      []string           `json:"chemistries"`
	ShockPct         map[string]float64 `json:"shock_pct"`
	ImportDuty       map[string]float64 `json:"import_duty"`
	RecyclePct       map[string]float64 `json:"recycle_pct"`
	GlobalRecyclePct *float64           `json:"global_recycle_pct"`
	PackOverheadPct  *float64           `json:"pack_overhead_pct"`
	USDToLocalFX     *float64           `json:"usd_to_local_fx"`
}

type scenarioResponse struct {
	RunID       string          `json:"run_id"`
	Fingerprint string          `json:"fingerprint"`
	Result      scenario.Result `json:"result"`
}

// Run evaluates a scenario
// POST /api/scenario
func (h *ScenarioHandler) Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req scenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
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

	intensities, err := h.intensityRepo.GetAll(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get intensity baseline")
		respondError(w, http.StatusInternalServerError, "failed to get intensity baseline")
		return
	}

	chemistries := req.Chemistries
	if len(chemistries) == 0 {
		chemistries = allChemistries(intensities)
	}
	for i, c := range chemistries {
		chemistries[i] = contracts.CanonicalChemistry(c)
	}
	sort.Strings(chemistries)

	// Scenario evaluation is pure, so the parameter fingerprint plus the
	// chemistry selection fully determines the result.
	cacheKey := "scenario:" + params.Fingerprint() + ":" + strings.Join(chemistries, "+")

	var result scenario.Result
	err = h.cache.GetOrSet(ctx, cacheKey, &result, scenarioCacheTTL, func() (interface{}, error) {
		base, err := h.forecastRepo.GetMaterialSeries(ctx)
		if err != nil {
			return nil, err
		}
		return h.engine.Apply(base, intensities, chemistries, params), nil
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to evaluate scenario")
		respondError(w, http.StatusInternalServerError, "failed to evaluate scenario")
		return
	}

	respondJSON(w, http.StatusOK, scenarioResponse{
		RunID:       uuid.NewString(),
		Fingerprint: params.Fingerprint(),
		Result:      result,
	})
}

func allChemistries(records []contracts.IntensityRecord) []string {
	seen := make(map[string]bool)
	var out []string
	for _, rec := range records {
		c := contracts.CanonicalChemistry(rec.Chemistry)
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
