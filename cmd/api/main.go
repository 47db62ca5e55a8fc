package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/fixflowhq/fixflow-backend/api/routes"
	"github.com/fixflowhq/fixflow-backend/internal/auth"
	"github.com/fixflowhq/fixflow-backend/internal/jobs"
	"github.com/fixflowhq/fixflow-backend/internal/shops"
	"github.com/fixflowhq/fixflow-backend/internal/stats"
	"github.com/fixflowhq/fixflow-backend/internal/warranties"
	"github.com/fixflowhq/fixflow-backend/internal/workers"
	"github.com/fixflowhq/fixflow-backend/pkg/auth/session"
	"github.com/fixflowhq/fixflow-backend/pkg/config"
	"github.com/fixflowhq/fixflow-backend/pkg/db"
	"github.com/fixflowhq/fixflow-backend/pkg/logger"
	"github.com/fixflowhq/fixflow-backend/pkg/metrics"
	"github.com/fixflowhq/fixflow-backend/pkg/migrate"
	"github.com/fixflowhq/fixflow-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	shopRepo := shops.NewRepository(dbClient.DB())
	jobRepo := jobs.NewRepository(dbClient.DB())
	warrantyRepo := warranties.NewRepository(dbClient.DB())
	statsRepo := stats.NewRepository(dbClient.DB())
	workerRepo := workers.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		ShopRepo:           shopRepo,
		SessionManager:     sessionManager,
		JWTConfig:          cfg.JWT,
		PasswordConfig:     cfg.Password,
		SubscriptionConfig: cfg.Subscription,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	shopService, err := shops.NewService(shopRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create shop service", err)
		os.Exit(1)
	}

	jobService, err := jobs.NewService(jobRepo, shopRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create job service", err)
		os.Exit(1)
	}

	warrantyService, err := warranties.NewService(warrantyRepo, shopRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create warranty service", err)
		os.Exit(1)
	}

	statsService, err := stats.NewService(statsRepo, shopRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
		os.Exit(1)
	}

	workerService, err := workers.NewService(workerRepo, jobRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			httpMetrics,
			registry,
			authService,
			shopService,
			jobService,
			warrantyService,
			statsService,
			workerService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
