// Package prosenlp backs the NLP port with the prose tokenizer: noun phrases
// derived from noun tag runs.
package prosenlp

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// Backend implements domain.NLPBackend on prose.
type Backend struct{}

// New returns a prose-backed NLP backend.
func New() *Backend { return &Backend{} }

// NounPhrases groups consecutive noun-tagged tokens (with adjective lead-ins)
// into phrases.
func (b *Backend) NounPhrases(text string) ([]string, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, fmt.Errorf("op=nlp.nounphrases: %w", err)
	}
	var phrases []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			phrases = append(phrases, strings.Join(current, " "))
			current = nil
		}
	}
	for _, t := range doc.Tokens() {
		switch {
		case strings.HasPrefix(t.Tag, "NN"):
			current = append(current, t.Text)
		case strings.HasPrefix(t.Tag, "JJ") && len(current) == 0:
			current = append(current, t.Text)
		default:
			flush()
		}
	}
	flush()
	return phrases, nil
}
