package validation

import "context"

// Input pairs a generated summary with the article it was generated from.
// Validators compare the two so that phrases quoted from the article are not flagged.
type Input struct {
	Source  string
	Summary string
}

// Verdict is what a single validator decides about a summary
type Verdict struct {
	Passed   bool
	Reason   string
	Repaired string // summary with the offending part removed; validation continues on it
	Replace  bool   // summary is unusable and the article must be summarized another way
}

// Pass accepts the summary
func Pass() Verdict {
	return Verdict{Passed: true}
}

// Reject marks the summary for replacement by the fallback
func Reject(reason string) Verdict {
	return Verdict{Reason: reason, Replace: true}
}

// Repair accepts a trimmed version of the summary
func Repair(reason, repaired string) Verdict {
	return Verdict{Reason: reason, Repaired: repaired}
}

// Validator inspects one property of a summary
type Validator interface {
	Name() string
	Validate(ctx context.Context, input Input) Verdict
}

// preview shortens s to maxRunes for log fields
func preview(s string, maxRunes int) string {
	if runes := []rune(s); len(runes) > maxRunes {
		return string(runes[:maxRunes]) + "..."
	}
	return s
}
