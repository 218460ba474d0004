package similarity

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/reloophq/waste-exchange/api/internal/embedding"
)

// Result carries a hybrid similarity score together with whether the
// semantic path degraded to lexical-only. The degradation is recoverable
// and intentional: a missing or failing embedding provider must never
// fail a comparison.
type Result struct {
	Score    float64
	Degraded bool
}

// Lexical returns the normalized edit-distance similarity of two strings
// in [0,1]. Inputs are lowercased and trimmed; empty input on either side
// scores 0.
func Lexical(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	score, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return clamp01(float64(score))
}

// Matcher computes semantic and hybrid text similarity using a shared
// embedding provider.
type Matcher struct {
	provider *embedding.Provider
	logger   *slog.Logger
}

// NewMatcher wires a matcher to the given embedding provider.
func NewMatcher(provider *embedding.Provider) *Matcher {
	return &Matcher{
		provider: provider,
		logger:   slog.Default().With("component", "similarity"),
	}
}

// Semantic returns the cosine similarity of the two texts' embeddings,
// clamped to [0,1]. Blank text has a zero embedding and scores 0 against
// anything.
func (m *Matcher) Semantic(ctx context.Context, a, b string) (float64, error) {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0, nil
	}

	emb, err := m.provider.Embedder()
	if err != nil {
		return 0, err
	}

	vectors, err := emb.EmbedTexts(ctx, []string{a, b})
	if err != nil {
		return 0, err
	}
	if len(vectors) < 2 {
		return 0, nil
	}

	return Cosine(vectors[0], vectors[1]), nil
}

// Hybrid blends semantic and lexical similarity. The lexical score is
// always computed; when useSemantic is set and the semantic path succeeds
// the result is max(lexical, semanticWeight*semantic + fuzzyWeight*lexical),
// so the hybrid score is never worse than lexical alone. A semantic
// failure degrades to lexical-only and is flagged on the Result.
func (m *Matcher) Hybrid(ctx context.Context, a, b string, useSemantic bool, semanticWeight, fuzzyWeight float64) Result {
	lexical := Lexical(a, b)

	if !useSemantic {
		return Result{Score: lexical}
	}

	semantic, err := m.Semantic(ctx, a, b)
	if err != nil {
		m.logger.Warn("semantic similarity unavailable, using lexical only", "err", err)
		return Result{Score: lexical, Degraded: true}
	}

	combined := semanticWeight*semantic + fuzzyWeight*lexical
	return Result{Score: math.Max(lexical, clamp01(combined))}
}

// Cosine computes the cosine similarity of two vectors, floored at 0
// (negative cosine carries no meaning for text matching here). A zero-norm
// vector on either side scores 0.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return clamp01(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
