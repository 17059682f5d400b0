// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/battcast/backend/internal/forecast"
	"github.com/battcast/backend/internal/store"
	"github.com/battcast/backend/pkg/config"
	"github.com/battcast/backend/pkg/logger"
)

// RebuildJob re-runs the forecast rebuild on a cron schedule so the stored
// tables track newly imported price rows without manual intervention.
type RebuildJob struct {
	pool     *pgxpool.Pool
	config   *config.Config
	schedule string
	logger   *logger.Logger
}

// NewRebuildJob creates a new rebuild job
func NewRebuildJob(pool *pgxpool.Pool, cfg *config.Config, log *logger.Logger) *RebuildJob {
	return &RebuildJob{
		pool:     pool,
		config:   cfg,
		schedule: cfg.RebuildSchedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *RebuildJob) Name() string {
	return "forecast_rebuild"
}

// Schedule returns the cron schedule from config
func (j *RebuildJob) Schedule() string {
	return j.schedule
}

// Run executes one rebuild
func (j *RebuildJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled forecast rebuild")

	builder := forecast.NewBuilder(
		j.config.Forecast.RollingMonths,
		j.config.Forecast.ForecastMonths,
		time.Now().UTC(),
		j.logger.Zerolog(),
	)

	rebuilder := forecast.NewRebuilder(
		store.NewPriceRepository(j.pool),
		store.NewIntensityRepository(j.pool),
		store.NewForecastRepository(j.pool),
		builder,
		forecast.RebuildDefaults{
			RecyclePct:      j.config.Scenario.RecyclePct,
			PackOverheadPct: j.config.Scenario.PackOverheadPct,
			USDToLocalFX:    j.config.Scenario.USDToLocalFX,
		},
		j.logger.Zerolog(),
	)

	return rebuilder.Run(ctx)
}
