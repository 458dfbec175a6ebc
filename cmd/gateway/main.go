package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voiceplan/gateway/internal/pipeline"
	"github.com/voiceplan/gateway/internal/planstore"
	"github.com/voiceplan/gateway/internal/ws"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg := loadConfig()

	var llm pipeline.ChatClient
	var generator *pipeline.ItineraryGenerator
	var estimator *pipeline.BudgetEstimator
	if cfg.aiAPIKey != "" {
		client, err := pipeline.NewOpenAIChatClient(cfg.aiAPIKey, cfg.aiBaseURL, cfg.aiModel)
		if err != nil {
			slog.Error("llm client", "error", err)
			os.Exit(1)
		}
		llm = client
		generator = pipeline.NewItineraryGenerator(llm, cfg.aiModel)
		estimator = pipeline.NewBudgetEstimator(llm, cfg.aiModel)
		slog.Info("llm enabled", "model", cfg.aiModel, "base_url", cfg.aiBaseURL)
	} else {
		slog.Warn("OPENAI_API_KEY not set, AI endpoints disabled")
	}

	var pipe *pipeline.Pipeline
	if cfg.asrAppID != "" && cfg.asrAPISecret != "" && llm != nil {
		asr, err := pipeline.NewASRClient(pipeline.ASRConfig{
			BaseURL:      cfg.asrBaseURL,
			AppID:        cfg.asrAppID,
			APISecret:    cfg.asrAPISecret,
			PoolSize:     cfg.asrPoolSize,
			PollInterval: cfg.asrPollInterval,
			MaxAttempts:  cfg.asrMaxAttempts,
			CallTimeout:  cfg.asrCallTimeout,
		})
		if err != nil {
			slog.Error("asr client", "error", err)
			os.Exit(1)
		}
		pipe = pipeline.NewPipeline(asr, pipeline.NewDraftExtractor(llm, cfg.aiModel))
		slog.Info("speech-to-text enabled", "provider", cfg.asrBaseURL)
	} else {
		slog.Warn("XF_APPID/XF_API_SECRET not set, speech-to-text disabled")
	}

	var store *planstore.Store
	if cfg.databaseURL != "" {
		var err error
		store, err = planstore.Open(cfg.databaseURL)
		if err != nil {
			slog.Error("plan store", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		slog.Info("plan storage enabled")
	} else {
		slog.Warn("DATABASE_URL not set, plan storage disabled")
	}

	var wsHandler http.Handler
	if pipe != nil {
		wsHandler = ws.NewHandler(ws.HandlerConfig{
			Pipeline:      pipe,
			MaxConcurrent: cfg.maxConcurrentDictations,
		})
	}

	d := deps{
		cfg:       cfg,
		pipeline:  pipe,
		generator: generator,
		estimator: estimator,
		wsHandler: wsHandler,
	}
	// Assign only a live store: a nil *planstore.Store in the interface field
	// would defeat the handlers' nil checks.
	if store != nil {
		d.store = store
	}

	mux := http.NewServeMux()
	registerRoutes(mux, d)

	addr := ":" + cfg.port
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	slog.Info("gateway starting", "addr", addr)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("gateway stopped")
}
