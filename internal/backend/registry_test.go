package backend

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentlens/resume-cli/internal/model"
)

// fakeExtractor implements Extractor with scripted probe behavior.
type fakeExtractor struct {
	name     string
	tier     model.Tier
	probeErr error
	hang     bool
}

func (f *fakeExtractor) Name() string     { return f.name }
func (f *fakeExtractor) Tier() model.Tier { return f.tier }
func (f *fakeExtractor) Probe(ctx context.Context) error {
	if f.hang {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.probeErr
}
func (f *fakeExtractor) Extract(_ context.Context, _ string) (*model.Extraction, error) {
	return &model.Extraction{Tier: f.tier, Sections: map[string]bool{}}, nil
}

type fakeSimilarity struct {
	name     string
	tier     model.Tier
	probeErr error
}

func (f *fakeSimilarity) Name() string                  { return f.name }
func (f *fakeSimilarity) Tier() model.Tier              { return f.tier }
func (f *fakeSimilarity) Probe(_ context.Context) error { return f.probeErr }
func (f *fakeSimilarity) Compare(_ context.Context, _, _ string) (float64, error) {
	return 0.5, nil
}

func TestRegistry_ProbeOrdersChainsHighToLow(t *testing.T) {
	reg := NewRegistry(time.Second, []Extractor{
		&fakeExtractor{name: "low", tier: model.TierLow},
		&fakeExtractor{name: "high", tier: model.TierHigh},
		&fakeExtractor{name: "medium", tier: model.TierMedium},
	}, []Similarity{
		&fakeSimilarity{name: "jaccard", tier: model.TierLow},
		&fakeSimilarity{name: "embedding", tier: model.TierHigh},
	})
	reg.Probe(context.Background())

	chain := reg.ExtractorChain()
	require.Len(t, chain, 3)
	assert.Equal(t, "high", chain[0].Name())
	assert.Equal(t, "medium", chain[1].Name())
	assert.Equal(t, "low", chain[2].Name())

	simChain := reg.SimilarityChain()
	require.Len(t, simChain, 2)
	assert.Equal(t, "embedding", simChain[0].Name())
}

func TestRegistry_ProbeFailureExcludesBackend(t *testing.T) {
	reg := NewRegistry(time.Second, []Extractor{
		&fakeExtractor{name: "high", tier: model.TierHigh, probeErr: eris.New("model not loaded")},
		&fakeExtractor{name: "low", tier: model.TierLow},
	}, nil)
	reg.Probe(context.Background())

	chain := reg.ExtractorChain()
	require.Len(t, chain, 1)
	assert.Equal(t, "low", chain[0].Name())

	var highDesc Descriptor
	for _, d := range reg.Descriptors() {
		if d.Name == "high" {
			highDesc = d
		}
	}
	assert.False(t, highDesc.Available)
	assert.Contains(t, highDesc.ProbeErr, "model not loaded")
}

func TestRegistry_HangingProbeIsTimeoutBounded(t *testing.T) {
	reg := NewRegistry(50*time.Millisecond, []Extractor{
		&fakeExtractor{name: "hanging", tier: model.TierHigh, hang: true},
		&fakeExtractor{name: "low", tier: model.TierLow},
	}, nil)

	start := time.Now()
	reg.Probe(context.Background())
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 2*time.Second, "one hanging probe must not stall initialization")

	chain := reg.ExtractorChain()
	require.Len(t, chain, 1)
	assert.Equal(t, "low", chain[0].Name())
}

func TestRegistry_EmptySimilarityChain(t *testing.T) {
	reg := NewRegistry(time.Second, []Extractor{
		&fakeExtractor{name: "low", tier: model.TierLow},
	}, []Similarity{
		&fakeSimilarity{name: "embedding", tier: model.TierHigh, probeErr: eris.New("no key")},
	})
	reg.Probe(context.Background())

	assert.Empty(t, reg.SimilarityChain())
	assert.NotEmpty(t, reg.ExtractorChain())
}

func TestRegistry_RefreshSwapsSnapshot(t *testing.T) {
	high := &fakeExtractor{name: "high", tier: model.TierHigh, probeErr: eris.New("down")}
	reg := NewRegistry(time.Second, []Extractor{
		high,
		&fakeExtractor{name: "low", tier: model.TierLow},
	}, nil)
	reg.Probe(context.Background())
	require.Len(t, reg.ExtractorChain(), 1)

	// Backend recovers; a refresh must atomically publish the new set.
	high.probeErr = nil
	reg.Refresh(context.Background())
	assert.Len(t, reg.ExtractorChain(), 2)
}

func TestRegistry_DescriptorsReturnsCopy(t *testing.T) {
	reg := NewRegistry(time.Second, []Extractor{
		&fakeExtractor{name: "low", tier: model.TierLow},
	}, nil)
	reg.Probe(context.Background())

	descs := reg.Descriptors()
	require.Len(t, descs, 1)
	descs[0].Name = "mutated"

	assert.Equal(t, "low", reg.Descriptors()[0].Name)
}

func TestRegistry_UnprobedChainsAreNil(t *testing.T) {
	reg := NewRegistry(time.Second, nil, nil)
	assert.Nil(t, reg.ExtractorChain())
	assert.Nil(t, reg.SimilarityChain())
	assert.Nil(t, reg.Descriptors())
}
