package summarizer

import (
	"context"
	"strings"

	ollama "github.com/ollama/ollama/api"
)

// OllamaClient is the subset of the Ollama API used by OllamaBackend
type OllamaClient interface {
	Chat(ctx context.Context, req *ollama.ChatRequest, fn ollama.ChatResponseFunc) error
	List(ctx context.Context) (*ollama.ListResponse, error)
}

// OllamaBackend generates summaries with a local Ollama server
type OllamaBackend struct {
	client OllamaClient
	model  string
}

// NewOllamaBackend creates a backend from OLLAMA_HOST
func NewOllamaBackend(model string) (*OllamaBackend, error) {
	client, err := ollama.ClientFromEnvironment()
	if err != nil {
		return nil, err
	}
	return NewOllamaBackendFromClient(client, model), nil
}

// NewOllamaBackendFromClient creates a backend from an existing client
func NewOllamaBackendFromClient(client OllamaClient, model string) *OllamaBackend {
	return &OllamaBackend{client: client, model: model}
}

// chatOptions maps Params onto Ollama model options
func chatOptions(params Params) map[string]any {
	options := map[string]any{
		"num_predict": params.MaxLength,
		"seed":        decodingSeed,
	}
	if !params.DoSample {
		options["temperature"] = 0
		options["top_k"] = 1
	}
	return options
}

// Summarize implements Backend
func (o *OllamaBackend) Summarize(ctx context.Context, text string, params Params) ([]Result, error) {
	stream := false
	req := &ollama.ChatRequest{
		Model: o.model,
		Messages: []ollama.Message{
			{Role: "system", Content: buildInstruction(params)},
			{Role: "user", Content: text},
		},
		Options: chatOptions(params),
		Stream:  &stream,
	}

	var sb strings.Builder
	err := o.client.Chat(ctx, req, func(resp ollama.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if sb.Len() == 0 {
		return nil, nil
	}
	return []Result{{SummaryText: sb.String()}}, nil
}

// Available implements Backend by checking the local model list
func (o *OllamaBackend) Available(ctx context.Context) (bool, error) {
	resp, err := o.client.List(ctx)
	if err != nil {
		return false, err
	}
	for _, model := range resp.Models {
		if model.Name == o.model || model.Name == o.model+":latest" {
			return true, nil
		}
	}
	return false, nil
}

// Name implements Backend
func (o *OllamaBackend) Name() string {
	return "ollama"
}
