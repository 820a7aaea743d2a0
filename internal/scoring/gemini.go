package scoring

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClassifier grades evidence through the Gemini API with a JSON
// response contract.
type GeminiClassifier struct {
	client *genai.Client
	model  string
}

// NewGeminiClassifier creates a classifier from the given configuration.
func NewGeminiClassifier(ctx context.Context, cfg *Config) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiClassifier{
		client: client,
		model:  cfg.Model,
	}, nil
}

// Classify submits the instruction and prompt to the model and returns
// the raw response text.
func (g *GeminiClassifier) Classify(ctx context.Context, instruction, prompt string) (string, error) {
	temperature := float32(0.3)

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       &temperature,
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	return result.Text(), nil
}
