package llm

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// GeminiProvider calls the Gemini API through the official GenAI SDK.
type GeminiProvider struct {
	Model string // e.g. "gemini-2.0-flash"
}

var _ Provider = (*GeminiProvider)(nil)

func (p *GeminiProvider) Generate(ctx context.Context, prompt, systemPrompt string, opts Options) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	model := p.Model
	if opts.Model != "" {
		model = opts.Model
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create GenAI client: %w", err)
	}

	temp := float32(opts.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temp),
	}
	if opts.JSONMode {
		config.ResponseMIMEType = "application/json"
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{
				{Text: systemPrompt},
			},
		}
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	return result.Text(), nil
}
