package summarizer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// OpenAIBackend generates summaries with an OpenAI-compatible chat completions API
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend creates an OpenAIBackend. baseURL defaults to the OpenAI API.
func NewOpenAIBackend(apiKey, baseURL, model string) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIBackend{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Summarize implements Backend. Each choice becomes one result record.
func (o *OpenAIBackend) Summarize(ctx context.Context, text string, params Params) ([]Result, error) {
	seed := decodingSeed
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildInstruction(params)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens: params.MaxLength,
		Seed:      &seed,
	}
	// A zero temperature is dropped by omitempty and the API default of 1 applies
	if params.DoSample {
		req.Temperature = 1
	} else {
		req.Temperature = math.SmallestNonzeroFloat32
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		if choice.Message.Content != "" {
			results = append(results, Result{SummaryText: choice.Message.Content})
		}
	}
	return results, nil
}

// Available implements Backend by retrieving the model
func (o *OpenAIBackend) Available(ctx context.Context) (bool, error) {
	if _, err := o.client.GetModel(ctx, o.model); err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Name implements Backend
func (o *OpenAIBackend) Name() string {
	return "openai"
}
