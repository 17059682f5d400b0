package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/battcast/backend/internal/api"
	"github.com/battcast/backend/internal/api/handlers"
	"github.com/battcast/backend/internal/scenario"
	"github.com/battcast/backend/internal/scheduler"
	"github.com/battcast/backend/internal/scheduler/jobs"
	"github.com/battcast/backend/internal/store"
	"github.com/battcast/backend/pkg/config"
	"github.com/battcast/backend/pkg/database"
	"github.com/battcast/backend/pkg/logger"
	"github.com/battcast/backend/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                            - Health check
  GET  /api/forecasts/materials           - All material price series
  GET  /api/forecasts/materials/:material - One material price series
  GET  /api/costs/chemistries             - All chemistry cost series
  GET  /api/costs/chemistries/:chemistry  - One chemistry cost series
  POST /api/scenario                      - Evaluate a scenario
  GET  /api/sensitivity                   - Per-material sensitivity

When REBUILD_SCHEDULE is set, a cron job re-runs the forecast rebuild on
that schedule.

Example:
  go run ./cmd/battcast api
  go run ./cmd/battcast api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from config)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	forecastRepo := store.NewForecastRepository(db.Pool)
	intensityRepo := store.NewIntensityRepository(db.Pool)

	engine := scenario.NewEngine(log.Zerolog())
	cache := redis.NewCache(redisClient, "battcast")

	forecastHandler := handlers.NewForecastHandler(forecastRepo, log)
	costHandler := handlers.NewCostHandler(forecastRepo, log)
	scenarioHandler := handlers.NewScenarioHandler(forecastRepo, intensityRepo, engine, cache, cfg.Scenario, log)
	sensitivityHandler := handlers.NewSensitivityHandler(forecastRepo, intensityRepo, cfg.Scenario, log)

	router := api.NewRouter(forecastHandler, costHandler, scenarioHandler, sensitivityHandler, log)
	server := api.New(cfg, log, router)

	var sched *scheduler.Scheduler
	if cfg.RebuildSchedule != "" {
		sched = scheduler.New(log)
		if err := sched.AddJob(jobs.NewRebuildJob(db.Pool, cfg, log)); err != nil {
			return fmt.Errorf("schedule rebuild job: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
