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

	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"bodyfit-workers/internal/bodymodel"
	"bodyfit-workers/internal/bodymodel/pose"
	"bodyfit-workers/internal/common/aws"
	"bodyfit-workers/internal/common/camunda"
	"bodyfit-workers/internal/common/config"
	"bodyfit-workers/internal/common/database"
	httpclient "bodyfit-workers/internal/common/http"
	"bodyfit-workers/internal/common/logger"
	"bodyfit-workers/internal/common/observability"
	"bodyfit-workers/internal/repository"

	cbm "bodyfit-workers/internal/workers/body/create-body-model"
	dbm "bodyfit-workers/internal/workers/body/delete-body-model"
	ebm "bodyfit-workers/internal/workers/body/export-body-mesh"
	gbm "bodyfit-workers/internal/workers/body/get-body-model"
	lbm "bodyfit-workers/internal/workers/body/list-body-models"
	ubm "bodyfit-workers/internal/workers/body/update-body-measurements"
	atg "bodyfit-workers/internal/workers/tryon/add-tryon-garment"
	cts "bodyfit-workers/internal/workers/tryon/create-tryon-session"
	gts "bodyfit-workers/internal/workers/tryon/get-tryon-session"
	par "bodyfit-workers/internal/workers/tryon/prepare-ar-data"
	utp "bodyfit-workers/internal/workers/tryon/update-tryon-pose"
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

// workerEntry is one handler ready to be opened on the broker.
type workerEntry struct {
	taskType string
	enabled  bool
	opts     camunda.WorkerOptions
	handler  camunda.JobHandler
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})

	zapLog.Info("Starting worker manager...", zap.String("environment", cfg.App.Environment))

	obs := observability.New(cfg.Observability.ServiceName, log)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	topology, err := zeebe.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		return zeebe.GetClient().NewTopologyCommand().Send(ctx)
	}, "topology")
	if err != nil {
		zapLog.Fatal("zeebe topology failed", zap.Error(err))
	}
	if t, ok := topology.(*pb.TopologyResponse); ok {
		zapLog.Info("Zeebe client connected successfully",
			zap.Int("brokers", len(t.GetBrokers())),
			zap.Int32("partitions", t.GetPartitionsCount()),
			zap.String("gatewayVersion", t.GetGatewayVersion()),
		)
	}

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()

	if err := pg.Migrate(ctx, repository.Schema...); err != nil {
		zapLog.Fatal("schema migration failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected and migrated")

	// --- Elasticsearch ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Redis ---
	redis, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis client init failed", zap.Error(err))
	}
	err = retryWithBackoff(func() error {
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Pose model ---
	var poseOpts []pose.Option
	if cfg.PoseService.Serialize {
		poseOpts = append(poseOpts, pose.WithSerialization())
	}
	poseModel := pose.NewModel(
		pose.NewHTTPEstimator(cfg.PoseService.BaseURL, httpclient.NewClient(config.GetDuration(cfg.PoseService.Timeout))),
		poseOpts...,
	)
	builder, err := bodymodel.NewBuilder(poseModel, log)
	if err != nil {
		zapLog.Fatal("body model builder init failed", zap.Error(err))
	}

	// --- Notifications ---
	var publisher cbm.EventPublisher
	if cfg.Notifications.SNS.Enabled {
		snsPublisher, err := aws.NewSNSPublisher(ctx, cfg.Notifications.SNS.Region, cfg.Notifications.SNS.TopicARN)
		if err != nil {
			zapLog.Fatal("sns publisher init failed", zap.Error(err))
		}
		publisher = snsPublisher
	}

	// --- Repositories ---
	bodyModels := repository.NewBodyModels(pg.DB, redis.Client, time.Duration(cfg.Cache.BodyModelTTL)*time.Second, log)
	sessions := repository.NewSessions(pg.DB)
	garments := repository.NewGarmentCatalog(esClient.Client, cfg.Garments.Index, log)
	if err := garments.EnsureIndex(ctx); err != nil {
		zapLog.Fatal("garment index setup failed", zap.Error(err))
	}

	// --- Workers ---
	var entries []workerEntry

	createHandler, err := cbm.NewHandler(cbm.HandlerOptions{
		AppConfig: cfg,
		Builder:   builder,
		Store:     bodyModels,
		Publisher: publisher,
		Logger:    log,
	})
	if err != nil {
		zapLog.Fatal("failed to create create-body-model handler", zap.Error(err))
	}
	entries = append(entries, workerEntry{cbm.TaskType, createHandler.IsEnabled(),
		camunda.WorkerOptions{MaxJobsActive: createHandler.GetConfig().MaxJobsActive, Timeout: createHandler.GetConfig().Timeout}, createHandler})

	updateHandler, err := ubm.NewHandler(ubm.HandlerOptions{AppConfig: cfg, Store: bodyModels, Logger: log})
	if err != nil {
		zapLog.Fatal("failed to create update-body-measurements handler", zap.Error(err))
	}
	entries = append(entries, workerEntry{ubm.TaskType, updateHandler.IsEnabled(),
		camunda.WorkerOptions{MaxJobsActive: updateHandler.GetConfig().MaxJobsActive, Timeout: updateHandler.GetConfig().Timeout}, updateHandler})

	exportHandler, err := ebm.NewHandler(ebm.HandlerOptions{AppConfig: cfg, Store: bodyModels, Logger: log})
	if err != nil {
		zapLog.Fatal("failed to create export-body-mesh handler", zap.Error(err))
	}
	entries = append(entries, workerEntry{ebm.TaskType, exportHandler.IsEnabled(),
		camunda.WorkerOptions{MaxJobsActive: exportHandler.GetConfig().MaxJobsActive, Timeout: exportHandler.GetConfig().Timeout}, exportHandler})

	getHandler, err := gbm.NewHandler(gbm.HandlerOptions{AppConfig: cfg, Store: bodyModels, Logger: log})
	if err != nil {
		zapLog.Fatal("failed to create get-body-model handler", zap.Error(err))
	}
	entries = append(entries, workerEntry{gbm.TaskType, getHandler.IsEnabled(),
		camunda.WorkerOptions{MaxJobsActive: getHandler.GetConfig().MaxJobsActive, Timeout: getHandler.GetConfig().Timeout}, getHandler})

	listHandler, err := lbm.NewHandler(lbm.HandlerOptions{AppConfig: cfg, Lister: bodyModels, Logger: log})
	if err != nil {
		zapLog.Fatal("failed to create list-body-models handler", zap.Error(err))
	}
	entries = append(entries, workerEntry{lbm.TaskType, listHandler.IsEnabled(),
		camunda.WorkerOptions{MaxJobsActive: listHandler.GetConfig().MaxJobsActive, Timeout: listHandler.GetConfig().Timeout}, listHandler})

	deleteHandler, err := dbm.NewHandler(dbm.HandlerOptions{AppConfig: cfg, Store: bodyModels, Logger: log})
	if err != nil {
		zapLog.Fatal("failed to create delete-body-model handler", zap.Error(err))
	}
	entries = append(entries, workerEntry{dbm.TaskType, deleteHandler.IsEnabled(),
		camunda.WorkerOptions{MaxJobsActive: deleteHandler.GetConfig().MaxJobsActive, Timeout: deleteHandler.GetConfig().Timeout}, deleteHandler})

	sessionHandler, err := cts.NewHandler(cts.HandlerOptions{
		AppConfig:  cfg,
		BodyModels: bodyModels,
		Sessions:   sessions,
		Garments:   garments,
		Logger:     log,
	})
	if err != nil {
		zapLog.Fatal("failed to create create-tryon-session handler", zap.Error(err))
	}
	entries = append(entries, workerEntry{cts.TaskType, sessionHandler.IsEnabled(),
		camunda.WorkerOptions{MaxJobsActive: sessionHandler.GetConfig().MaxJobsActive, Timeout: sessionHandler.GetConfig().Timeout}, sessionHandler})

	garmentHandler, err := atg.NewHandler(atg.HandlerOptions{
		AppConfig:  cfg,
		BodyModels: bodyModels,
		Sessions:   sessions,
		Garments:   garments,
		Logger:     log,
	})
	if err != nil {
		zapLog.Fatal("failed to create add-tryon-garment handler", zap.Error(err))
	}
	entries = append(entries, workerEntry{atg.TaskType, garmentHandler.IsEnabled(),
		camunda.WorkerOptions{MaxJobsActive: garmentHandler.GetConfig().MaxJobsActive, Timeout: garmentHandler.GetConfig().Timeout}, garmentHandler})

	poseHandler, err := utp.NewHandler(utp.HandlerOptions{
		AppConfig:  cfg,
		BodyModels: bodyModels,
		Sessions:   sessions,
		Garments:   garments,
		Logger:     log,
	})
	if err != nil {
		zapLog.Fatal("failed to create update-tryon-pose handler", zap.Error(err))
	}
	entries = append(entries, workerEntry{utp.TaskType, poseHandler.IsEnabled(),
		camunda.WorkerOptions{MaxJobsActive: poseHandler.GetConfig().MaxJobsActive, Timeout: poseHandler.GetConfig().Timeout}, poseHandler})

	arHandler, err := par.NewHandler(par.HandlerOptions{AppConfig: cfg, Sessions: sessions, Logger: log})
	if err != nil {
		zapLog.Fatal("failed to create prepare-ar-data handler", zap.Error(err))
	}
	entries = append(entries, workerEntry{par.TaskType, arHandler.IsEnabled(),
		camunda.WorkerOptions{MaxJobsActive: arHandler.GetConfig().MaxJobsActive, Timeout: arHandler.GetConfig().Timeout}, arHandler})

	getSessionHandler, err := gts.NewHandler(gts.HandlerOptions{AppConfig: cfg, Sessions: sessions, Logger: log})
	if err != nil {
		zapLog.Fatal("failed to create get-tryon-session handler", zap.Error(err))
	}
	entries = append(entries, workerEntry{gts.TaskType, getSessionHandler.IsEnabled(),
		camunda.WorkerOptions{MaxJobsActive: getSessionHandler.GetConfig().MaxJobsActive, Timeout: getSessionHandler.GetConfig().Timeout}, getSessionHandler})

	registry := camunda.NewRegistry(zeebe.GetClient(), log)
	for _, w := range entries {
		if !w.enabled {
			zapLog.Info("worker disabled", zap.String("taskType", w.taskType))
			continue
		}
		registry.Register(w.taskType, w.opts, camunda.Instrument(w.taskType, w.handler, obs))
	}
	zapLog.Info("Workers registered", zap.Strings("taskTypes", registry.TaskTypes()))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true
		for name, check := range map[string]func(context.Context) error{
			"zeebe":         zeebe.HealthCheck,
			"postgres":      pg.Ping,
			"redis":         redis.Ping,
			"elasticsearch": esClient.Ping,
		} {
			if err := check(checkCtx); err != nil {
				checks[name] = err.Error()
				ready = false
				continue
			}
			checks[name] = "ok"
		}

		status := http.StatusOK
		checks["status"] = "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			checks["status"] = "not_ready"
		}
		writeStatus(w, status, checks)
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
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

	registry.Close()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := builder.Close(); err != nil {
		zapLog.Error("Error releasing builder pose model reference", zap.Error(err))
	}
	if err := poseModel.Release(); err != nil {
		zapLog.Error("Error releasing pose model", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
