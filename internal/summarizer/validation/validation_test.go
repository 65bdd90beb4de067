package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leadFallback(calls *int) Fallback {
	return func(ctx context.Context, source string) (string, error) {
		*calls++
		return "fallback: " + source, nil
	}
}

func TestPipelinePassesValidSummary(t *testing.T) {
	calls := 0
	p := Default(leadFallback(&calls))

	got, err := p.Validate(context.Background(), Input{
		Source:  "The council approved the budget after a long debate.",
		Summary: "The council approved the budget.",
	})
	require.NoError(t, err)
	assert.Equal(t, "The council approved the budget.", got)
	assert.Zero(t, calls)
}

func TestPipelineInstructionEchoUsesFallback(t *testing.T) {
	calls := 0
	p := Default(leadFallback(&calls))

	got, err := p.Validate(context.Background(), Input{
		Source:  "Rain is expected tomorrow.",
		Summary: "You are a summarization model. Rain is expected.",
	})
	require.NoError(t, err)
	assert.Equal(t, "fallback: Rain is expected tomorrow.", got)
	assert.Equal(t, 1, calls)
}

func TestInstructionEchoAllowedWhenInSource(t *testing.T) {
	v := NewInstructionEchoValidator()

	result := v.Validate(context.Background(), Input{
		Source:  "The brief asked staff to write in 50 to 80 words.",
		Summary: "Staff must write in 50 to 80 words.",
	})
	assert.True(t, result.Passed)
}

func TestInstructionEchoStripsPreamble(t *testing.T) {
	v := NewInstructionEchoValidator()

	result := v.Validate(context.Background(), Input{
		Source:  "The bridge reopens on Monday.",
		Summary: "Here is a short summary of the text: The bridge reopens Monday.",
	})
	assert.False(t, result.Passed)
	assert.Equal(t, "The bridge reopens Monday.", result.Repaired)

	result = v.Validate(context.Background(), Input{
		Source:  "The bridge reopens on Monday.",
		Summary: "Here is the summary:",
	})
	assert.True(t, result.Replace)
}

func TestRefusalValidator(t *testing.T) {
	v := NewRefusalValidator()

	result := v.Validate(context.Background(), Input{
		Source:  "Quarterly revenue rose four percent.",
		Summary: "I’m sorry, but I can't help with that.",
	})
	assert.False(t, result.Passed)
	assert.True(t, result.Replace)

	result = v.Validate(context.Background(), Input{
		Source:  "\"I'm sorry\" was all the minister said.",
		Summary: "I'm sorry was all the minister said.",
	})
	assert.True(t, result.Passed)
}

func TestPipelineFallbackError(t *testing.T) {
	boom := errors.New("fallback failed")
	p := NewPipeline([]Validator{NewRefusalValidator()}, func(ctx context.Context, source string) (string, error) {
		return "", boom
	})

	_, err := p.Validate(context.Background(), Input{Source: "text", Summary: "I cannot do that."})
	assert.ErrorIs(t, err, boom)
}

func TestPipelineWithoutFallbackKeepsSummary(t *testing.T) {
	p := NewPipeline([]Validator{NewRefusalValidator()}, nil)

	got, err := p.Validate(context.Background(), Input{Source: "text", Summary: "I cannot do that."})
	require.NoError(t, err)
	assert.Equal(t, "I cannot do that.", got)
}

func TestPipelineRepairedSummaryIsStillChecked(t *testing.T) {
	calls := 0
	p := Default(leadFallback(&calls))

	got, err := p.Validate(context.Background(), Input{
		Source:  "Rain is expected tomorrow.",
		Summary: "Here is a summary: I'm sorry, but I cannot summarize this.",
	})
	require.NoError(t, err)
	assert.Equal(t, "fallback: Rain is expected tomorrow.", got)
	assert.Equal(t, 1, calls)
}

func TestPipelineRepairedSummaryServedWhenClean(t *testing.T) {
	calls := 0
	p := Default(leadFallback(&calls))

	got, err := p.Validate(context.Background(), Input{
		Source:  "Rain is expected tomorrow.",
		Summary: "Here's the summary: Rain tomorrow.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Rain tomorrow.", got)
	assert.Zero(t, calls)
}
