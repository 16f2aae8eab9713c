// Command chat talks to the assistant from a terminal, one message per line.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"studybuddy/config"
	"studybuddy/db"
	"studybuddy/logging"
	"studybuddy/services/chat"
	"studybuddy/services/events"
	"studybuddy/services/quiz"
	"studybuddy/services/textgen"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	userID := pflag.String("user", "cli", "user id to chat as")
	pflag.StringVar(&cfg.DatabaseURL, "db-url", cfg.DatabaseURL, "Postgres connection URL (empty uses the in-memory store)")
	pflag.StringVar(&cfg.LLMProvider, "provider", cfg.LLMProvider, "text generation provider: openai, anthropic or gemini")
	pflag.Parse()
	cfg.LLMProvider = strings.ToLower(cfg.LLMProvider)

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()

	store, closeStore, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer closeStore()

	gen, err := textgen.New(ctx, cfg)
	if err != nil {
		return err
	}

	emitter := events.NewSlogEmitter(logger)
	orchestrator := chat.NewOrchestrator(store, quiz.NewService(store, gen, emitter), gen, emitter)

	fmt.Println(chat.HelpMessage)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}

		reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
		reply, err := orchestrator.Chat(reqCtx, scanner.Text(), *userID)
		cancel()

		fmt.Println(reply)
		if err != nil {
			logger.Error("Chat failed", "err", err)
		}
	}

	return scanner.Err()
}
