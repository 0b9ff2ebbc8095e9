// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclient "checklist-audit-workers/internal/common/aws"
	"checklist-audit-workers/internal/common/camunda"
	"checklist-audit-workers/internal/common/config"
	"checklist-audit-workers/internal/common/database"
	"checklist-audit-workers/internal/common/logger"
	"checklist-audit-workers/internal/common/observability"
	"checklist-audit-workers/internal/common/validation"
	"checklist-audit-workers/pkg/registry"

	bfr "checklist-audit-workers/internal/workers/audit/build-food-safety-report"
	bsg "checklist-audit-workers/internal/workers/audit/build-store-grid"
	sci "checklist-audit-workers/internal/workers/audit/score-checklist-integrity"
	sia "checklist-audit-workers/internal/workers/notification/send-integrity-alert"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// handlerTimeout prefers the workers section, then the registry entry.
func handlerTimeout(cfg *config.Config, reg *registry.ActivityRegistry, taskType string, fallback time.Duration) time.Duration {
	if w, ok := cfg.Workers[taskType]; ok && w.Timeout > 0 {
		return config.GetDuration(w.Timeout)
	}
	if activity, ok := reg.Find(taskType); ok {
		return activity.TimeoutDuration(fallback)
	}
	return fallback
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Activity registry and input schemas ---
	reg, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	if err := reg.Validate(); err != nil {
		zapLog.Fatal("activity registry is invalid", zap.Error(err))
	}
	validator, err := validation.NewValidator(reg)
	if err != nil {
		zapLog.Fatal("input schema compilation failed", zap.Error(err))
	}

	engine, err := cfg.Engine()
	if err != nil {
		zapLog.Fatal("integrity engine configuration failed", zap.Error(err))
	}
	zapLog.Info("Integrity engine ready",
		zap.String("timezone", engine.Location().String()),
		zap.Int("maxDepth", engine.MaxDepth()),
	)

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(camunda.ClientConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init Redis audit cache (optional) ---
	var redisClient *database.RedisClient
	var auditCache sci.Cache
	if cfg.Database.Redis.Enabled() {
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Warn("redis unavailable, audits will not be cached", zap.Error(err))
			if redisClient != nil {
				_ = redisClient.Close()
				redisClient = nil
			}
		} else {
			auditCache = database.NewJSONCache(redisClient.Client)
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- Init AWS clients for reviewer alerts ---
	alertDeps := sia.Dependencies{Validator: validator, Observability: obs, Logger: log}
	if cfg.Alerts.Enabled {
		awsCfg, err := awsclient.LoadConfig(ctx, cfg.Alerts.Region)
		if err != nil {
			zapLog.Fatal("AWS config load failed", zap.Error(err))
		}
		alertDeps.SES = awsclient.NewSESClient(awsCfg)
		alertDeps.SNS = awsclient.NewSNSClient(awsCfg)
		zapLog.Info("AWS alert clients initialized", zap.String("region", cfg.Alerts.Region))
	}

	// --- Register workers ---
	var workers []*camunda.CamundaWorker
	register := func(taskType string, validate func() error, handle func() *camunda.CamundaWorker) {
		if !config.IsWorkerEnabled(cfg, taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		if err := validate(); err != nil {
			zapLog.Fatal("invalid worker configuration", zap.String("taskType", taskType), zap.Error(err))
		}
		workers = append(workers, handle())
	}
	zeebe := camundaClient.GetClient()

	scoreCfg := sci.DefaultConfig()
	scoreCfg.Timeout = handlerTimeout(cfg, reg, sci.TaskType, scoreCfg.Timeout)
	scoreCfg.CacheTTL = cfg.Audit.CacheTTL()
	register(sci.TaskType, scoreCfg.Validate, func() *camunda.CamundaWorker {
		handler := sci.NewHandler(scoreCfg, sci.Dependencies{
			Engine:        engine,
			Cache:         auditCache,
			Validator:     validator,
			Observability: obs,
			Logger:        log,
		})
		return camunda.NewWorker(zeebe, sci.TaskType, config.GetWorkerConfig(cfg, sci.TaskType), handler.Handle, log)
	})

	gridCfg := bsg.DefaultConfig()
	gridCfg.Timeout = handlerTimeout(cfg, reg, bsg.TaskType, gridCfg.Timeout)
	register(bsg.TaskType, gridCfg.Validate, func() *camunda.CamundaWorker {
		handler := bsg.NewHandler(gridCfg, bsg.Dependencies{
			Engine:        engine,
			Validator:     validator,
			Observability: obs,
			Logger:        log,
		})
		return camunda.NewWorker(zeebe, bsg.TaskType, config.GetWorkerConfig(cfg, bsg.TaskType), handler.Handle, log)
	})

	reportCfg := bfr.DefaultConfig()
	reportCfg.Timeout = handlerTimeout(cfg, reg, bfr.TaskType, reportCfg.Timeout)
	register(bfr.TaskType, reportCfg.Validate, func() *camunda.CamundaWorker {
		handler := bfr.NewHandler(reportCfg, bfr.Dependencies{
			Engine:        engine,
			Validator:     validator,
			Observability: obs,
			Logger:        log,
		})
		return camunda.NewWorker(zeebe, bfr.TaskType, config.GetWorkerConfig(cfg, bfr.TaskType), handler.Handle, log)
	})

	alertCfg := sia.ConfigFrom(cfg.Alerts)
	alertCfg.Timeout = handlerTimeout(cfg, reg, sia.TaskType, alertCfg.Timeout)
	register(sia.TaskType, alertCfg.Validate, func() *camunda.CamundaWorker {
		handler := sia.NewHandler(alertCfg, alertDeps)
		return camunda.NewWorker(zeebe, sia.TaskType, config.GetWorkerConfig(cfg, sia.TaskType), handler.Handle, log)
	})

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := camundaClient.HealthCheck(checkCtx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "zeebe": err.Error()})
			return
		}
		if redisClient != nil {
			if err := redisClient.Ping(checkCtx); err != nil {
				writeStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "redis": err.Error()})
				return
			}
		}
		writeStatus(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			zapLog.Error("Error closing Redis client", zap.Error(err))
		}
	}
	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped")
}

func writeStatus(w http.ResponseWriter, code int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
