package validation

import (
	"context"
	"regexp"
	"strings"
)

// InstructionEchoValidator catches summaries that repeat the system instruction
// instead of summarizing the text
type InstructionEchoValidator struct {
	patterns []*regexp.Regexp
	prefix   *regexp.Regexp
}

// NewInstructionEchoValidator creates an InstructionEchoValidator
func NewInstructionEchoValidator() *InstructionEchoValidator {
	return &InstructionEchoValidator{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)you are a summari[sz]ation model`),
			regexp.MustCompile(`(?i)reply with the summary only`),
			regexp.MustCompile(`(?i)summarize the text sent by the user`),
			regexp.MustCompile(`(?i)\bin \d+ to \d+ words\b`),
		},
		prefix: regexp.MustCompile(`(?i)^\s*(here is|here's) (a|the|your) (short |brief |concise )?summary[^:]*:\s*`),
	}
}

// Name implements Validator
func (v *InstructionEchoValidator) Name() string {
	return "InstructionEchoValidator"
}

// Validate implements Validator. A chatty preamble is stripped; an echoed instruction
// that does not also appear in the source fails.
func (v *InstructionEchoValidator) Validate(ctx context.Context, input Input) Verdict {
	source := strings.ToLower(input.Source)
	for _, pattern := range v.patterns {
		match := pattern.FindString(input.Summary)
		if match != "" && !strings.Contains(source, strings.ToLower(match)) {
			return Reject("summary echoes the instruction: " + preview(match, 50))
		}
	}

	if loc := v.prefix.FindStringIndex(input.Summary); loc != nil {
		corrected := strings.TrimSpace(input.Summary[loc[1]:])
		if corrected == "" {
			return Reject("summary is only a preamble")
		}
		return Repair("summary starts with a preamble", corrected)
	}
	return Pass()
}
