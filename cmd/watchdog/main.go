package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"watchdog/internal/auth"
	"watchdog/internal/backend"
	"watchdog/internal/cache"
	"watchdog/internal/cli"
	apphttp "watchdog/internal/http"
	applog "watchdog/internal/log"
	"watchdog/internal/summarize"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateStore(context.Background(), backendConfig)
	if err != nil {
		logger.Error("Failed to initialize ledger store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	identity := auth.NewClient(cfg.FirebaseAPIKey)
	sessions := auth.NewSessions(auth.DefaultSessionTTL)

	sessions.Subscribe(func(u *auth.User) {
		if u != nil {
			logger.Info("Admin session started", "uid", u.UID)
			return
		}
		logger.Info("Admin session ended")
	})

	var summarizer apphttp.Summarizer
	cacheManager := cache.NewManager()
	if cfg.GeminiAPIKey != "" {
		gen, err := summarize.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("Failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		sum := summarize.New(gen)
		if cleaner, ok := sum.SummaryCache().(cache.Cleaner); ok {
			cacheManager.Register(cleaner)
		}
		summarizer = sum
		logger.Info("Summarization enabled", "model", cfg.GeminiModel)
	} else {
		logger.Info("Summarization disabled - no GEMINI_API_KEY provided")
	}
	cacheManager.StartCleanup(10 * time.Minute)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:       ":" + cfg.Port,
		Store:      result.Store,
		Sessions:   sessions,
		Identity:   identity,
		Summarizer: summarizer,
		Logger:     logger.WithComponent(applog.ComponentHTTP),
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cacheManager.Stop()
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Store cleanup error", "error", err)
			}
		}
	})

	logger.Info("Starting watchdog server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
