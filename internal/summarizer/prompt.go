package summarizer

import "fmt"

// decodingSeed pins sampling for backends that accept a seed
const decodingSeed = 42

// buildInstruction creates the system instruction for chat-style backends.
// Token bounds are expressed as words, which chat models follow more reliably.
func buildInstruction(params Params) string {
	return fmt.Sprintf(
		"You are a summarization model. Summarize the text sent by the user in %d to %d words. "+
			"Keep the most salient facts, write in the language of the text, "+
			"and reply with the summary only, without a title or preamble.",
		params.MinLength, params.MaxLength)
}
