package textgen

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const defaultOpenAIModel = "gpt-4o-mini"

// LangchainGenerator drives any langchaingo model.
type LangchainGenerator struct {
	llm llms.Model
}

func NewLangchainGenerator(llm llms.Model) *LangchainGenerator {
	return &LangchainGenerator{llm: llm}
}

func NewOpenAIGenerator(apiKey, model string) (*LangchainGenerator, error) {
	if model == "" {
		model = defaultOpenAIModel
	}

	llm, err := openai.New(
		openai.WithModel(model),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	return NewLangchainGenerator(llm), nil
}

func (g *LangchainGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	callOpts := []llms.CallOption{llms.WithTemperature(opts.Temperature)}
	if opts.MaxOutputTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxOutputTokens))
	}

	resp, err := g.llm.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return nonEmpty(resp.Choices[0].Content)
}
