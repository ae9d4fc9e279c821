// Package llm abstracts the text-generation backends the assistant can
// run on. Two real providers: Google Gemini through the official GenAI
// SDK, and any OpenAI-compatible chat completion endpoint.
package llm

import (
	"context"
	"fmt"
)

// Options tunes one generation call.
type Options struct {
	Model       string
	JSONMode    bool
	Temperature float64
	MaxTokens   int
}

// Provider is the interface all backends implement.
type Provider interface {
	Generate(ctx context.Context, prompt, systemPrompt string, opts Options) (string, error)
}

// New builds a provider by name. Supported: "gemini", "openai",
// "deepseek". The OpenAI-compatible providers differ only in base URL
// and key variable.
func New(name, model string) (Provider, error) {
	switch name {
	case "gemini", "":
		return &GeminiProvider{Model: model}, nil
	case "openai":
		return &OpenAICompatProvider{
			BaseURL: "https://api.openai.com/v1",
			Model:   model,
			KeyEnv:  "OPENAI_API_KEY",
		}, nil
	case "deepseek":
		return &OpenAICompatProvider{
			BaseURL: "https://api.deepseek.com",
			Model:   model,
			KeyEnv:  "DEEPSEEK_API_KEY",
		}, nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", name)
}
