package validation

import (
	"context"

	"summarizer-service/backend/internal/log"
)

// Fallback produces a replacement summary from the source text
type Fallback func(ctx context.Context, source string) (string, error)

// Pipeline runs validators in order. A repaired summary is handed to the
// validators that follow; a rejected one ends the run.
type Pipeline struct {
	validators []Validator
	fallback   Fallback
}

// NewPipeline creates a pipeline. A nil fallback leaves rejected summaries untouched.
func NewPipeline(validators []Validator, fallback Fallback) *Pipeline {
	return &Pipeline{
		validators: validators,
		fallback:   fallback,
	}
}

// Default returns the checks applied to chat model output
func Default(fallback Fallback) *Pipeline {
	return NewPipeline([]Validator{
		NewInstructionEchoValidator(),
		NewRefusalValidator(),
	}, fallback)
}

// Validate returns the summary to serve
func (p *Pipeline) Validate(ctx context.Context, input Input) (string, error) {
	for _, v := range p.validators {
		verdict := v.Validate(ctx, input)
		if verdict.Passed {
			continue
		}

		log.Warn().
			Str("validator", v.Name()).
			Str("reason", verdict.Reason).
			Str("summary", preview(input.Summary, 100)).
			Msg("summary failed validation")

		if verdict.Repaired != "" {
			input.Summary = verdict.Repaired
			continue
		}
		if verdict.Replace && p.fallback != nil {
			return p.fallback(ctx, input.Source)
		}
		return input.Summary, nil
	}
	return input.Summary, nil
}
