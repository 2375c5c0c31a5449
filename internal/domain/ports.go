package domain

import (
	"context"
	"time"
)

// DocumentParser turns raw document bytes into plain text. Implementations
// exist per format; the extractor picks the strategy by MIME type.
type DocumentParser interface {
	Parse(data []byte) (string, error)
}

// NLPBackend is an optional capability: noun-phrase extraction. Absent
// backends are modeled by a nil interface; callers skip the strategy.
type NLPBackend interface {
	NounPhrases(text string) ([]string, error)
}

// EmbeddingBackend is an optional capability: text embeddings with a fixed
// dimension per backend. Each call produces fresh output vectors.
type EmbeddingBackend interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// LLMBackend is an optional capability used only by feedback enrichment.
type LLMBackend interface {
	Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

// EvaluationRepository persists evaluation records.
type EvaluationRepository interface {
	Create(ctx context.Context, rec EvaluationRecord) (string, error)
	Get(ctx context.Context, id string) (EvaluationRecord, error)
	List(ctx context.Context, limit, offset int) ([]EvaluationRecord, error)
}

// ResultCache short-circuits repeat evaluations of identical inputs.
type ResultCache interface {
	Get(ctx context.Context, key string) (EvaluationRecord, bool, error)
	Set(ctx context.Context, key string, rec EvaluationRecord, ttl time.Duration) error
}
