// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"wind-workers/internal/common/aws"
	"wind-workers/internal/common/camunda"
	"wind-workers/internal/common/config"
	"wind-workers/internal/common/database"
	"wind-workers/internal/common/logger"
	"wind-workers/internal/common/observability"
	"wind-workers/internal/windfarm/engine"

	// Assistant
	aq "wind-workers/internal/workers/assistant/answer-question"

	// District catalog
	cd "wind-workers/internal/workers/catalog/compare-districts"
	ld "wind-workers/internal/workers/catalog/lookup-district"

	// Feedback
	sf "wind-workers/internal/workers/feedback/send-feedback"

	// Projection
	cp "wind-workers/internal/workers/projection/calculate-projection"
	cfc "wind-workers/internal/workers/projection/capacity-factor-curve"
	ew "wind-workers/internal/workers/projection/export-workbook"
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
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// cacheConnectTimeout bounds the single Redis ping made at startup.
const cacheConnectTimeout = 3 * time.Second

// connectProjectionCache dials Redis once and pings it within timeout.
func connectProjectionCache(ctx context.Context, cfg config.RedisConfig, timeout time.Duration) (*database.RedisClient, error) {
	redis, err := database.NewRedis(cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := redis.Ping(pingCtx); err != nil {
		_ = redis.Close()
		return nil, err
	}
	return redis, nil
}

func workerTimeout(cfg *config.Config, taskType string) time.Duration {
	return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
		SampleRatio:    cfg.Observability.SampleRatio,
	})
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	defer obs.Shutdown()
	zapLog.Info("observability initialized", zap.Bool("tracing", obs.TracingEnabled()))

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClient(cfg.Camunda)
		if err != nil {
			return err
		}
		if err := zeebe.HealthCheck(ctx); err != nil {
			_ = zeebe.Close()
			return err
		}
		return nil
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Deploy process definitions ---
	if dir := cfg.Camunda.DeployDir; dir != "" {
		deployed, err := zeebe.DeployDir(ctx, dir)
		if err != nil {
			zapLog.Warn("bpmn deployment failed", zap.String("dir", dir), zap.Error(err))
		}
		zapLog.Info("bpmn resources deployed", zap.Strings("files", deployed))
	}

	// --- Init Redis projection cache (optional) ---
	var projectionCache cp.ProjectionCache
	if cfg.Redis.Enabled() {
		redis, err := connectProjectionCache(ctx, cfg.Redis, cacheConnectTimeout)
		if err != nil {
			zapLog.Warn("redis unavailable, projections will not be cached", zap.Error(err))
		} else {
			defer redis.Close()
			projectionCache = redis
			zapLog.Info("Redis connected successfully", zap.Duration("ttl", redis.TTL()))
		}
	}

	// --- Init AWS delivery channels ---
	var sesClient *aws.SESClient
	if cfg.Integrations.AWS.SES.Enabled {
		sesClient, err = aws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
	}

	var snsClient sf.SNSService
	if cfg.Integrations.AWS.SNS.Enabled {
		c, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		snsClient = c
	}

	group := camunda.NewWorkerGroup(zeebe.GetClient(), log).WithRecorder(obs.JobRecorder)

	// --- 1. District catalog ---
	group.Start(ld.TaskType, config.GetWorkerConfig(cfg, ld.TaskType),
		ld.NewHandler(&ld.Config{Timeout: workerTimeout(cfg, ld.TaskType)}, log))

	group.Start(cd.TaskType, config.GetWorkerConfig(cfg, cd.TaskType),
		cd.NewHandler(&cd.Config{Timeout: workerTimeout(cfg, cd.TaskType)}, log))

	// --- 2. Projection ---
	projection, err := cp.NewHandler(cp.HandlerOptions{
		AppConfig: cfg,
		Logger:    log,
		Cache:     projectionCache,
		Telemetry: obs,
	})
	if err != nil {
		zapLog.Fatal("failed to create calculate-projection handler", zap.Error(err))
	}
	group.Start(cp.TaskType, config.GetWorkerConfig(cfg, cp.TaskType), projection)

	curveCfg := cfc.LoadConfig()
	curveCfg.Timeout = workerTimeout(cfg, cfc.TaskType)
	curveCfg.Formula = engine.Formula(cfg.Engine.Formula)
	group.Start(cfc.TaskType, config.GetWorkerConfig(cfg, cfc.TaskType), cfc.NewHandler(curveCfg, log))

	exportCfg := ew.LoadConfig()
	exportCfg.Timeout = workerTimeout(cfg, ew.TaskType)
	group.Start(ew.TaskType, config.GetWorkerConfig(cfg, ew.TaskType), ew.NewHandler(exportCfg, log))

	// --- 3. Feedback ---
	if sesClient != nil {
		feedback, err := sf.NewHandler(sf.HandlerOptions{
			AppConfig: cfg,
			Logger:    log,
			SES:       sesClient,
			SNS:       snsClient,
		})
		if err != nil {
			zapLog.Fatal("failed to create send-feedback handler", zap.Error(err))
		}
		group.Start(sf.TaskType, config.GetWorkerConfig(cfg, sf.TaskType), feedback)
	} else {
		zapLog.Info("SES disabled, send-feedback worker not started")
	}

	// --- 4. Assistant ---
	assistantCfg := aq.ConfigFrom(cfg)
	if err := assistantCfg.Validate(); err != nil {
		zapLog.Info("assistant not configured, answer-question worker not started", zap.Error(err))
	} else {
		group.Start(aq.TaskType, config.GetWorkerConfig(cfg, aq.TaskType), aq.NewHandler(assistantCfg, log))
	}

	zapLog.Info("Workers registered", zap.Strings("taskTypes", group.TaskTypes()))

	// --- Health & Metrics Server ---
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
		if err := zeebe.HealthCheck(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "not ready",
				"error":  err.Error(),
				"time":   time.Now().Format(time.RFC3339),
			})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "ready",
			"workers": group.TaskTypes(),
			"time":    time.Now().Format(time.RFC3339),
		})
	})
	http.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.App.HTTPPort)}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", server.Addr))
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

	group.Close()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}

	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
