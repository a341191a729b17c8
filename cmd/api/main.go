package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"resume-intake/internal/api"
	"resume-intake/internal/config"
	"resume-intake/internal/domain"
	"resume-intake/internal/intake"
	"resume-intake/internal/logger"
	appTemporal "resume-intake/internal/temporal"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		log.Fatalf("creating a logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	var (
		sessions api.SessionService
		ready    api.ReadinessFunc
	)

	switch cfg.IntakeBackend {
	case config.BackendTemporal:
		temporalClient, err := client.Dial(client.Options{
			HostPort:  cfg.TemporalAddress,
			Namespace: cfg.TemporalNamespace,
		})
		if err != nil {
			lg.Fatal("connect temporal", zap.Error(err))
		}
		defer temporalClient.Close()

		sessions = appTemporal.NewIntakeClient(temporalClient, cfg.TemporalTaskQueue, cfg.WorkflowIDPrefix, cfg.CompletionDelay)
		ready = func(ctx context.Context) error {
			_, err := temporalClient.CheckHealth(ctx, &client.CheckHealthRequest{})
			return err
		}
	default:
		sessions = intake.NewRegistry(cfg.MaxSessions, intake.Options{
			CompletionDelay: cfg.CompletionDelay,
			Logger:          lg,
			OnComplete:      notifyOnComplete(appTemporal.LogNotifier{Logger: lg}, lg),
		})
	}

	h := api.NewHandler(sessions, ready, lg)
	router := api.NewRouter(h)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		lg.Info("api listening", zap.String("port", cfg.HTTPPort), zap.String("backend", cfg.IntakeBackend))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal("http server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func notifyOnComplete(notifier appTemporal.CompletionNotifier, lg *zap.Logger) intake.CompletionFunc {
	return func(sessionID string, file domain.CandidateFile) {
		if err := notifier.UploadCompleted(context.Background(), sessionID, file); err != nil {
			lg.Warn("upload completion notification failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	}
}
