package backend

import (
	"context"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/talentlens/resume-cli/internal/model"
	"github.com/talentlens/resume-cli/pkg/gemini"
)

// Jaccard is the LOW-tier similarity backend: token-set overlap. Cheap and
// dependency-free, but scores are not comparable to embedding cosine scores.
type Jaccard struct{}

func (Jaccard) Name() string                  { return "jaccard" }
func (Jaccard) Tier() model.Tier              { return model.TierLow }
func (Jaccard) Probe(_ context.Context) error { return nil }

func (Jaccard) Compare(_ context.Context, a, b string) (float64, error) {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0, nil
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0, nil
	}
	return float64(intersection) / float64(union), nil
}

func tokenSet(text string) map[string]bool {
	out := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,;:!?()[]{}\"'")
		if len(tok) > 1 {
			out[tok] = true
		}
	}
	return out
}

// Embedding is the HIGH-tier similarity backend: cosine similarity over
// dense embeddings.
type Embedding struct {
	embedder gemini.Embedder
}

// NewEmbedding creates the embedding similarity backend. A nil embedder
// fails the probe.
func NewEmbedding(embedder gemini.Embedder) *Embedding {
	return &Embedding{embedder: embedder}
}

func (e *Embedding) Name() string     { return "embedding" }
func (e *Embedding) Tier() model.Tier { return model.TierHigh }

func (e *Embedding) Probe(ctx context.Context) error {
	if e.embedder == nil {
		return eris.New("backend: embedding similarity not configured")
	}
	_, err := e.embedder.Embed(ctx, []string{"probe"})
	return err
}

func (e *Embedding) Compare(ctx context.Context, a, b string) (float64, error) {
	vecs, err := e.embedder.Embed(ctx, []string{a, b})
	if err != nil {
		return 0, eris.Wrap(err, "backend: embedding compare")
	}
	if len(vecs) != 2 {
		return 0, eris.Errorf("backend: expected 2 vectors, got %d", len(vecs))
	}
	return cosine(vecs[0], vecs[1]), nil
}

// cosine computes cosine similarity clamped to [0,1]; mismatched or zero
// vectors score 0.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
