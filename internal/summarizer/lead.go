package summarizer

import (
	"context"
	"errors"
	"strings"
	"unicode"
)

// errNoWords is returned when the input has nothing to extract
var errNoWords = errors.New("text contains no words to summarize")

// LeadBackend builds an extractive summary from the leading sentences of the text.
// It needs no model host and is always available.
type LeadBackend struct{}

// NewLeadBackend creates a LeadBackend
func NewLeadBackend() *LeadBackend {
	return &LeadBackend{}
}

// Summarize takes whole leading sentences until MinLength words are collected,
// then caps the result at MaxLength words
func (l *LeadBackend) Summarize(ctx context.Context, text string, params Params) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil, errNoWords
	}

	var words []string
	for _, sentence := range sentences {
		words = append(words, strings.Fields(sentence)...)
		if len(words) >= params.MinLength {
			break
		}
	}
	if params.MaxLength > 0 && len(words) > params.MaxLength {
		words = words[:params.MaxLength]
	}

	return []Result{{SummaryText: strings.Join(words, " ")}}, nil
}

// Available implements Backend
func (l *LeadBackend) Available(ctx context.Context) (bool, error) {
	return true, nil
}

// Name implements Backend
func (l *LeadBackend) Name() string {
	return "lead"
}

// sentenceEnds are the terminal punctuation marks, English first then CJK
var sentenceEnds = map[rune]bool{
	'.': true, '!': true, '?': true,
	'。': true, '！': true, '？': true,
}

// splitSentences splits text after terminal punctuation followed by whitespace or end of text.
// CJK marks end a sentence without trailing whitespace.
func splitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0

	flush := func(end int) {
		sentence := strings.TrimSpace(string(runes[start:end]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = end
	}

	for i, r := range runes {
		if !sentenceEnds[r] {
			continue
		}
		next := i + 1
		if next == len(runes) || unicode.IsSpace(runes[next]) || r > unicode.MaxASCII {
			flush(next)
		}
	}
	flush(len(runes))
	return sentences
}
