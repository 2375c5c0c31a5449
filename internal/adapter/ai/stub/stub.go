// Package stub provides deterministic AI backends for development and tests.
package stub

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"
	"strings"

	"github.com/fairyhunter13/resume-relevance/internal/domain"
)

const dim = 64

// Client implements the embedding and LLM ports with deterministic output.
type Client struct{}

var (
	_ domain.EmbeddingBackend = (*Client)(nil)
	_ domain.LLMBackend       = (*Client)(nil)
)

// New returns a stub client.
func New() *Client { return &Client{} }

// Embed derives a unit vector from the token set of each text, so texts
// sharing words get high cosine similarity.
func (c *Client) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, dim)
		for _, w := range strings.Fields(strings.ToLower(t)) {
			h := sha256.Sum256([]byte(w))
			v[int(h[0])%dim] += 1
		}
		out[i] = normalize(v)
	}
	return out, nil
}

// Generate returns a canned response derived from the prompt.
func (c *Client) Generate(_ context.Context, prompt string, _ int, _ float64) (string, error) {
	h := sha256.Sum256([]byte(prompt))
	return fmt.Sprintf("Stub assessment (%x): the templated evaluation below stands on its own.", h[:4]), nil
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		v[0] = 1
		return v
	}
	inv := float32(1.0 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
	return v
}
