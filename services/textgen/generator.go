// Package textgen turns a prompt into text using one of the supported
// hosted models.
package textgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"studybuddy/config"
)

var ErrEmptyResponse = errors.New("model returned an empty response")

type Options struct {
	MaxOutputTokens int
	Temperature     float64
}

type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Func adapts a plain function to Generator.
type Func func(ctx context.Context, prompt string, opts Options) (string, error)

func (f Func) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	return f(ctx, prompt, opts)
}

// New builds the generator for the configured provider.
func New(ctx context.Context, cfg *config.Config) (Generator, error) {
	var (
		gen Generator
		err error
	)

	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		gen, err = NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.LLMModel)
	case config.ProviderAnthropic:
		gen = NewAnthropicGenerator(cfg.AnthropicAPIKey, cfg.LLMModel)
	case config.ProviderGemini:
		gen, err = NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.LLMProvider)
	}
	if err != nil {
		return nil, err
	}

	return WithLogging(gen, cfg.LLMProvider, slog.Default()), nil
}

type loggingGenerator struct {
	next     Generator
	provider string
	logger   *slog.Logger
}

// WithLogging logs each call with its duration and outcome.
func WithLogging(next Generator, provider string, logger *slog.Logger) Generator {
	return &loggingGenerator{next: next, provider: provider, logger: logger}
}

func (g *loggingGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	start := time.Now()
	g.logger.DebugContext(ctx, "Starting text generation",
		"provider", g.provider, "prompt_chars", len(prompt), "max_tokens", opts.MaxOutputTokens)

	text, err := g.next.Generate(ctx, prompt, opts)
	if err != nil {
		g.logger.WarnContext(ctx, "Failed to generate text",
			"provider", g.provider, "duration", time.Since(start), "err", err)
		return "", err
	}

	g.logger.DebugContext(ctx, "Successfully generated text",
		"provider", g.provider, "duration", time.Since(start), "chars", len(text))
	return text, nil
}

func nonEmpty(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
