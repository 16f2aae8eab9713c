package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"studybuddy/config"
	"studybuddy/db"
	"studybuddy/handlers"
	"studybuddy/logging"
	"studybuddy/services/chat"
	"studybuddy/services/events"
	"studybuddy/services/quiz"
	"studybuddy/services/textgen"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}

	pflag.StringVar(&cfg.Port, "port", cfg.Port, "port to listen on")
	pflag.StringVar(&cfg.DatabaseURL, "db-url", cfg.DatabaseURL, "Postgres connection URL (empty uses the in-memory store)")
	pflag.StringVar(&cfg.LLMProvider, "provider", cfg.LLMProvider, "text generation provider: openai, anthropic or gemini")
	pflag.Parse()
	cfg.LLMProvider = strings.ToLower(cfg.LLMProvider)

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database", "err", err)
		os.Exit(1)
	}
	defer closeStore()

	gen, err := textgen.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize text generation", "provider", cfg.LLMProvider, "err", err)
		os.Exit(1)
	}

	emitter := events.NewSlogEmitter(logger)
	quizService := quiz.NewService(store, gen, emitter)
	orchestrator := chat.NewOrchestrator(store, quizService, gen, emitter)

	router := handlers.NewRouter(
		handlers.NewChatHandler(orchestrator),
		handlers.NewQuizHandler(quizService),
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting", "port", cfg.Port, "provider", cfg.LLMProvider)

	if err := listenAndServe(ctx, srv, logger); err != nil {
		logger.Error("Server failed", "err", err)
		os.Exit(1)
	}

	logger.Info("Server stopped")
}

func listenAndServe(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	return serve(ctx, srv, ln, logger)
}

// serve blocks until ctx is done and every in-flight request has drained, or
// until the server fails.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, logger *slog.Logger) error {
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shut down server", "err", err)
		}
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	// Serve returns as soon as Shutdown starts; wait for in-flight requests.
	<-shutdownDone
	return nil
}
