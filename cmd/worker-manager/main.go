// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"aucta-logistics/internal/common/camunda"
	"aucta-logistics/internal/common/config"
	"aucta-logistics/internal/common/database"
	"aucta-logistics/internal/common/logger"
	"aucta-logistics/internal/common/observability"
	"aucta-logistics/internal/hubstore"
	"aucta-logistics/internal/planner"
	"aucta-logistics/internal/pricing"

	calculateroute "aucta-logistics/internal/workers/logistics/calculate-route"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load failed: " + err.Error())
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	requestTimeout := time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	// --- Camunda/Zeebe gateway ---
	camundaClient, err := camunda.NewClientWithConfig(&camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      10 * time.Second,
		RequestTimeout:         requestTimeout,
		RetryConfig:            camunda.DefaultRetryConfig,
	})
	if err != nil {
		zapLog.Fatal("zeebe client failed", zap.Error(err))
	}
	defer camundaClient.Close()
	zapLog.Info("Zeebe client connected", zap.String("gateway", cfg.Camunda.BrokerAddress))

	// --- Pricing cache store: Redis when enabled, otherwise in-process ---
	var store pricing.Store = pricing.NewMemoryStore()
	if cfg.Database.Redis.Enabled {
		redisClient, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			zapLog.Fatal("redis init failed", zap.Error(err))
		}
		if err := redisClient.Ping(ctx); err != nil {
			zapLog.Fatal("redis ping failed", zap.Error(err))
		}
		defer redisClient.Close()
		store = pricing.NewRedisStore(redisClient.GetClient())
		zapLog.Info("Redis pricing cache connected", zap.String("address", cfg.Database.Redis.Address))
	} else {
		zapLog.Info("Redis disabled, using in-process pricing cache")
	}

	cache := pricing.NewCache(store, pricing.NewSessionStore(), cfg.Pricing, log)
	engine := planner.NewEngine(cfg, cache, log)

	// --- Hub snapshot source: optional; pricebook defaults cover gaps ---
	var hubs calculateroute.SnapshotLoader
	if cfg.Database.Postgres.Host != "" {
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			zapLog.Fatal("postgres init failed", zap.Error(err))
		}
		if err := pg.Ping(ctx); err != nil {
			zapLog.Fatal("postgres ping failed", zap.Error(err))
		}
		defer pg.Close()
		hubs = hubstore.NewRepository(pg.GetDB(), log)
		zapLog.Info("Hub snapshot database connected", zap.String("host", cfg.Database.Postgres.Host))
	} else {
		zapLog.Info("No hub database configured, using pricebook defaults only")
	}

	// --- Register workers ---
	routeHandler, err := calculateroute.NewHandler(calculateroute.HandlerOptions{
		AppConfig: cfg,
		Camunda:   camundaClient,
		Logger:    log,
		Dependencies: calculateroute.ServiceDependencies{
			Engine: engine,
			Hubs:   hubs,
			Logger: log,
		},
	})
	if err != nil {
		zapLog.Fatal("failed to create calculate-route handler", zap.Error(err))
	}
	if err := routeHandler.Register(); err != nil {
		zapLog.Fatal("failed to register calculate-route worker", zap.Error(err))
	}
	defer routeHandler.Close()

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := camundaClient.Healthy(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	routeHandler.Close()
	zapLog.Info("Worker manager stopped gracefully")
}
