package validation

import (
	"context"
	"strings"
)

// refusalPrefixes are openings chat models use when declining a request
var refusalPrefixes = []string{
	"i'm sorry",
	"i am sorry",
	"sorry, i",
	"i cannot",
	"i can't",
	"i can not",
	"i'm unable",
	"i am unable",
	"as an ai",
}

// RefusalValidator catches summaries that are refusals rather than summaries
type RefusalValidator struct{}

// NewRefusalValidator creates a RefusalValidator
func NewRefusalValidator() *RefusalValidator {
	return &RefusalValidator{}
}

// Name implements Validator
func (v *RefusalValidator) Name() string {
	return "RefusalValidator"
}

// Validate implements Validator
func (v *RefusalValidator) Validate(ctx context.Context, input Input) Verdict {
	summary := strings.ToLower(strings.TrimSpace(input.Summary))
	summary = strings.ReplaceAll(summary, "’", "'")
	source := strings.ToLower(input.Source)

	for _, prefix := range refusalPrefixes {
		if strings.HasPrefix(summary, prefix) && !strings.Contains(source, prefix) {
			return Reject("summary is a refusal")
		}
	}
	return Pass()
}
