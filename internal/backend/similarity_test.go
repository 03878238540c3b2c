package backend

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentlens/resume-cli/internal/model"
)

type fakeEmbedder struct {
	vectors  [][]float32
	embedErr error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	out := make([][]float32, 0, len(texts))
	for i := range texts {
		out = append(out, f.vectors[i%len(f.vectors)])
	}
	return out, nil
}

func TestEmbedding_Compare(t *testing.T) {
	e := NewEmbedding(&fakeEmbedder{vectors: [][]float32{
		{1, 0, 0},
		{0, 1, 0},
	}})

	score, err := e.Compare(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score, "orthogonal vectors")
	assert.Equal(t, model.TierHigh, e.Tier())
}

func TestEmbedding_CompareIdentical(t *testing.T) {
	e := NewEmbedding(&fakeEmbedder{vectors: [][]float32{
		{0.5, 0.5, 0.7},
		{0.5, 0.5, 0.7},
	}})

	score, err := e.Compare(context.Background(), "same", "same")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestEmbedding_CompareError(t *testing.T) {
	e := NewEmbedding(&fakeEmbedder{embedErr: eris.New("quota exceeded")})

	_, err := e.Compare(context.Background(), "a", "b")
	assert.Error(t, err)
}

func TestEmbedding_ProbeNilEmbedder(t *testing.T) {
	e := NewEmbedding(nil)
	assert.Error(t, e.Probe(context.Background()))
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite clamped", []float32{1, 0}, []float32{-1, 0}, 0.0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0.0},
		{"length mismatch", []float32{1}, []float32{1, 2}, 0.0},
		{"empty", nil, nil, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cosine(tt.a, tt.b), 1e-9)
		})
	}
}
