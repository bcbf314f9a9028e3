package generativeAI

import (
	"context"
	"fmt"
	"os"
	"time"

	"google.golang.org/genai"
)

// AIClient wraps the Gemini API behind the small completion surface the
// planner and the enrichment service need.
type AIClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewAIClient(ctx context.Context, model string, timeout time.Duration) (*AIClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AIClient{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// Complete sends a single prompt and returns the free-text completion.
// The call is bounded by the configured timeout; an expired context is
// reported as an error like any other upstream failure.
func (ai *AIClient) Complete(ctx context.Context, systemContext, prompt string, maxOutputTokens int32, temperature float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ai.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](temperature),
		MaxOutputTokens: maxOutputTokens,
	}
	if systemContext != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemContext}},
		}
	}

	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return result.Text(), nil
}
