package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// warmupText is summarized once by Available to force the hosted model to load
const warmupText = "The service starts by loading the summarization model. " +
	"Requests are answered once the model has been loaded into memory."

// HuggingFaceBackend calls the Hugging Face Inference API summarization task
type HuggingFaceBackend struct {
	baseURL string
	model   string
	token   string
	client  *http.Client
}

// NewHuggingFaceBackend creates a backend for baseURL/model.
// token may be empty for self-hosted inference servers.
func NewHuggingFaceBackend(baseURL, model, token string) *HuggingFaceBackend {
	return &HuggingFaceBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		token:   token,
		client:  &http.Client{},
	}
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfParameters struct {
	MaxLength int  `json:"max_length,omitempty"`
	MinLength int  `json:"min_length,omitempty"`
	DoSample  bool `json:"do_sample"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
	UseCache     bool `json:"use_cache"`
}

type hfErrorBody struct {
	Error json.RawMessage `json:"error"`
}

// HuggingFaceError is an error reported by the inference API.
// Error returns the API's message unchanged.
type HuggingFaceError struct {
	StatusCode int
	Message    string
}

func (e *HuggingFaceError) Error() string {
	return e.Message
}

// Summarize implements Backend
func (h *HuggingFaceBackend) Summarize(ctx context.Context, text string, params Params) ([]Result, error) {
	bodyBytes, err := json.Marshal(hfRequest{
		Inputs: text,
		Parameters: hfParameters{
			MaxLength: params.MaxLength,
			MinLength: params.MinLength,
			DoSample:  params.DoSample,
		},
		Options: hfOptions{WaitForModel: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/"+h.model, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseHFError(resp.StatusCode, respBody)
	}

	var results []Result
	if err := json.Unmarshal(respBody, &results); err != nil {
		if apiErr := parseHFError(resp.StatusCode, respBody); apiErr.Message != "" {
			return nil, apiErr
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return results, nil
}

// parseHFError extracts {"error": "..."} or {"error": ["...", ...]} from a response body
func parseHFError(statusCode int, body []byte) *HuggingFaceError {
	apiErr := &HuggingFaceError{StatusCode: statusCode}

	var payload hfErrorBody
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Error) > 0 {
		var msg string
		if err := json.Unmarshal(payload.Error, &msg); err == nil {
			apiErr.Message = msg
			return apiErr
		}
		var msgs []string
		if err := json.Unmarshal(payload.Error, &msgs); err == nil {
			apiErr.Message = strings.Join(msgs, "; ")
			return apiErr
		}
	}

	if statusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(statusCode)
		}
		apiErr.Message = fmt.Sprintf("inference API returned status %d: %s", statusCode, msg)
	}
	return apiErr
}

// Available implements Backend by running a short warm-up request, which waits for the model to load
func (h *HuggingFaceBackend) Available(ctx context.Context) (bool, error) {
	results, err := h.Summarize(ctx, warmupText, Params{MaxLength: 20, MinLength: 5})
	if err != nil {
		return false, err
	}
	return len(results) > 0, nil
}

// Name implements Backend
func (h *HuggingFaceBackend) Name() string {
	return "huggingface"
}
