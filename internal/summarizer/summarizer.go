package summarizer

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"summarizer-service/backend/internal/config"
	"summarizer-service/backend/internal/log"
	"summarizer-service/backend/internal/summarizer/validation"
)

// Params are the generation bounds passed to a backend
type Params struct {
	MaxLength int
	MinLength int
	DoSample  bool
}

// DefaultParams are the fixed bounds used for every request
var DefaultParams = Params{
	MaxLength: 130,
	MinLength: 30,
	DoSample:  false,
}

// Result is one record returned by a backend
type Result struct {
	SummaryText string `json:"summary_text"`
}

// Backend abstracts the model host that produces summaries
type Backend interface {
	// Summarize runs the model over text and returns its result records
	Summarize(ctx context.Context, text string, params Params) ([]Result, error)
	// Available reports whether the configured model can serve requests
	Available(ctx context.Context) (bool, error)
	// Name returns the backend name for logs and metrics
	Name() string
}

// Engine owns a loaded backend and the fixed generation parameters
type Engine struct {
	backend Backend
	model   string
	params  Params
	loaded  atomic.Bool
	checks  *validation.Pipeline
}

// NewEngine wraps an existing backend
func NewEngine(backend Backend, model string) *Engine {
	return &Engine{
		backend: backend,
		model:   model,
		params:  DefaultParams,
	}
}

// New builds the backend selected in cfg
func New(ctx context.Context, cfg *config.Config) (*Engine, error) {
	model := cfg.ModelName()

	var (
		backend Backend
		err     error
	)
	switch cfg.Backend {
	case "huggingface":
		backend = NewHuggingFaceBackend(cfg.HFBaseURL, model, cfg.HFToken)
	case "gemini":
		backend, err = NewGeminiBackend(ctx, cfg.GeminiAPIKey, model)
	case "ollama":
		backend, err = NewOllamaBackend(model)
	case "openai":
		backend, err = NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, model)
	case "lead":
		backend = NewLeadBackend()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s backend: %w", cfg.Backend, err)
	}

	engine := NewEngine(backend, model)
	switch cfg.Backend {
	case "gemini", "ollama", "openai":
		engine.WithChecks(validation.Default(leadFallback(engine.params)))
	}
	return engine, nil
}

// WithChecks validates every summary with p before it is returned
func (e *Engine) WithChecks(p *validation.Pipeline) *Engine {
	e.checks = p
	return e
}

// leadFallback replaces a rejected summary with the leading sentences of the source
func leadFallback(params Params) validation.Fallback {
	lead := NewLeadBackend()
	return func(ctx context.Context, source string) (string, error) {
		results, err := lead.Summarize(ctx, source, params)
		if err != nil {
			return "", err
		}
		return results[0].SummaryText, nil
	}
}

// Load blocks until the backend reports the model available
func (e *Engine) Load(ctx context.Context) error {
	start := time.Now()
	log.Info().Str("backend", e.backend.Name()).Str("model", e.model).Msg("loading summarization model")

	ok, err := e.backend.Available(ctx)
	if err != nil {
		return fmt.Errorf("failed to load model %s: %w", e.model, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s on %s", ErrModelUnavailable, e.model, e.backend.Name())
	}

	e.loaded.Store(true)
	log.Info().
		Str("backend", e.backend.Name()).
		Str("model", e.model).
		Dur("took", time.Since(start)).
		Msg("summarization model loaded")
	return nil
}

// Loaded reports whether Load has completed successfully
func (e *Engine) Loaded() bool {
	return e.loaded.Load()
}

// BackendName returns the name of the underlying backend
func (e *Engine) BackendName() string {
	return e.backend.Name()
}

// Model returns the model identifier
func (e *Engine) Model() string {
	return e.model
}

// Params returns the generation bounds
func (e *Engine) Params() Params {
	return e.params
}

// Summarize returns the first record's summary text.
// Backend errors are returned unwrapped so their message reaches the caller as is.
// Records are served verbatim unless output checks are installed.
func (e *Engine) Summarize(ctx context.Context, text string) (string, error) {
	results, err := e.backend.Summarize(ctx, text, e.params)
	if err != nil {
		return "", err
	}
	if len(results) == 0 || strings.TrimSpace(results[0].SummaryText) == "" {
		return "", ErrNoResult
	}

	summary := results[0].SummaryText
	if e.checks != nil {
		if summary, err = e.check(ctx, text, summary); err != nil {
			return "", err
		}
	}
	return truncateWords(summary, e.params.MaxLength), nil
}

// check cleans chat model output and runs it through the validators
func (e *Engine) check(ctx context.Context, text, summary string) (string, error) {
	summary = cleanSummary(summary)
	if summary == "" {
		return "", ErrNoResult
	}
	checked, err := e.checks.Validate(ctx, validation.Input{Source: text, Summary: summary})
	if err != nil {
		return "", err
	}
	if summary = cleanSummary(checked); summary == "" {
		return "", ErrNoResult
	}
	return summary, nil
}

// labelRegex matches leading labels chat models tend to prepend
var labelRegex = regexp.MustCompile(`(?i)^\s*(summary|tl;?dr)\s*:\s*`)

// cleanSummary strips labels and collapses whitespace
func cleanSummary(text string) string {
	text = labelRegex.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// truncateWords keeps at most maxWords words
func truncateWords(text string, maxWords int) string {
	words := strings.Fields(text)
	if maxWords <= 0 || len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ")
}
