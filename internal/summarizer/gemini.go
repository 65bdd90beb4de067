package summarizer

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiBackend generates summaries with the Gemini API
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiBackend creates a GeminiBackend
func NewGeminiBackend(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiBackend{
		client: client,
		model:  model,
	}, nil
}

// generateConfig maps Params onto a Gemini generation config.
// Without sampling, decoding is greedy: temperature 0 and top-k 1.
func generateConfig(params Params) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: buildInstruction(params)}},
		},
		MaxOutputTokens: int32(params.MaxLength),
		Seed:            genai.Ptr[int32](decodingSeed),
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr[int32](0),
		},
	}
	if params.DoSample {
		config.Temperature = genai.Ptr[float32](1)
	} else {
		config.Temperature = genai.Ptr[float32](0)
		config.TopK = genai.Ptr[float32](1)
	}
	return config
}

// Summarize implements Backend
func (g *GeminiBackend) Summarize(ctx context.Context, text string, params Params) ([]Result, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: text}},
		},
	}, generateConfig(params))
	if err != nil {
		return nil, err
	}
	return candidateResults(resp), nil
}

// candidateResults turns each candidate into one result record
func candidateResults(resp *genai.GenerateContentResponse) []Result {
	if resp == nil {
		return nil
	}

	results := make([]Result, 0, len(resp.Candidates))
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range candidate.Content.Parts {
			if part != nil && part.Text != "" && !part.Thought {
				sb.WriteString(part.Text)
			}
		}
		if sb.Len() > 0 {
			results = append(results, Result{SummaryText: sb.String()})
		}
	}
	return results
}

// Available implements Backend by looking the model up
func (g *GeminiBackend) Available(ctx context.Context) (bool, error) {
	if _, err := g.client.Models.Get(ctx, g.model, nil); err != nil {
		return false, err
	}
	return true, nil
}

// Name implements Backend
func (g *GeminiBackend) Name() string {
	return "gemini"
}
