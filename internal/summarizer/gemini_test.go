package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGenerateConfigIsGreedyWithoutSampling(t *testing.T) {
	config := generateConfig(DefaultParams)

	assert.Equal(t, int32(130), config.MaxOutputTokens)
	require.NotNil(t, config.Temperature)
	assert.Equal(t, float32(0), *config.Temperature)
	require.NotNil(t, config.TopK)
	assert.Equal(t, float32(1), *config.TopK)
	require.NotNil(t, config.Seed)
	assert.Equal(t, int32(decodingSeed), *config.Seed)
	require.NotNil(t, config.SystemInstruction)
	assert.Contains(t, config.SystemInstruction.Parts[0].Text, "30 to 130 words")
}

func TestGenerateConfigWithSampling(t *testing.T) {
	config := generateConfig(Params{MaxLength: 60, MinLength: 10, DoSample: true})

	assert.Equal(t, float32(1), *config.Temperature)
	assert.Nil(t, config.TopK)
}

func TestCandidateResults(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{
				{Text: "thinking...", Thought: true},
				{Text: "The council "},
				{Text: "approved it."},
			}}},
			{Content: nil},
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "Another take."}}}},
		},
	}

	assert.Equal(t, []Result{
		{SummaryText: "The council approved it."},
		{SummaryText: "Another take."},
	}, candidateResults(resp))
	assert.Nil(t, candidateResults(nil))
	assert.Empty(t, candidateResults(&genai.GenerateContentResponse{}))
}
