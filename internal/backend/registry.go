package backend

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Registry holds the probed backend set. The set is immutable once built;
// Refresh swaps the whole snapshot atomically so readers never observe a
// half-updated registry.
type Registry struct {
	extractors   []Extractor
	similarities []Similarity
	probeTimeout time.Duration

	snapshot atomic.Pointer[registrySnapshot]
}

type registrySnapshot struct {
	descriptors []Descriptor
	extractors  []Extractor  // available, sorted high→low
	similar     []Similarity // available, sorted high→low
}

// NewRegistry creates an unprobed registry over the given backends. Call
// Probe before using the chains.
func NewRegistry(probeTimeout time.Duration, extractors []Extractor, similarities []Similarity) *Registry {
	if probeTimeout <= 0 {
		probeTimeout = 5 * time.Second
	}
	return &Registry{
		extractors:   extractors,
		similarities: similarities,
		probeTimeout: probeTimeout,
	}
}

// Probe checks every backend concurrently, each under its own timeout so one
// hanging dependency cannot stall registry initialization. Probe failures are
// recorded, never propagated.
func (r *Registry) Probe(ctx context.Context) {
	snap := &registrySnapshot{}
	extractorOK := make([]bool, len(r.extractors))
	similarOK := make([]bool, len(r.similarities))
	extractorErrs := make([]error, len(r.extractors))
	similarErrs := make([]error, len(r.similarities))

	g, gCtx := errgroup.WithContext(ctx)
	for i, e := range r.extractors {
		g.Go(func() error {
			extractorErrs[i] = r.probeOne(gCtx, e.Name(), e.Probe)
			extractorOK[i] = extractorErrs[i] == nil
			return nil
		})
	}
	for i, s := range r.similarities {
		g.Go(func() error {
			similarErrs[i] = r.probeOne(gCtx, s.Name(), s.Probe)
			similarOK[i] = similarErrs[i] == nil
			return nil
		})
	}
	_ = g.Wait()

	for i, e := range r.extractors {
		d := Descriptor{Name: e.Name(), Kind: KindExtraction, Tier: e.Tier(), Available: extractorOK[i]}
		if extractorErrs[i] != nil {
			d.ProbeErr = extractorErrs[i].Error()
		}
		snap.descriptors = append(snap.descriptors, d)
		if extractorOK[i] {
			snap.extractors = append(snap.extractors, e)
		}
	}
	for i, s := range r.similarities {
		d := Descriptor{Name: s.Name(), Kind: KindSimilarity, Tier: s.Tier(), Available: similarOK[i]}
		if similarErrs[i] != nil {
			d.ProbeErr = similarErrs[i].Error()
		}
		snap.descriptors = append(snap.descriptors, d)
		if similarOK[i] {
			snap.similar = append(snap.similar, s)
		}
	}

	sort.SliceStable(snap.extractors, func(i, j int) bool {
		return snap.extractors[i].Tier() > snap.extractors[j].Tier()
	})
	sort.SliceStable(snap.similar, func(i, j int) bool {
		return snap.similar[i].Tier() > snap.similar[j].Tier()
	})
	sort.SliceStable(snap.descriptors, func(i, j int) bool {
		if snap.descriptors[i].Kind != snap.descriptors[j].Kind {
			return snap.descriptors[i].Kind < snap.descriptors[j].Kind
		}
		return snap.descriptors[i].Tier > snap.descriptors[j].Tier
	})

	r.snapshot.Store(snap)

	zap.L().Info("backend: registry probed",
		zap.Int("extractors_available", len(snap.extractors)),
		zap.Int("similarity_available", len(snap.similar)),
		zap.Duration("probe_timeout", r.probeTimeout),
	)
}

func (r *Registry) probeOne(ctx context.Context, name string, probe func(context.Context) error) error {
	probeCtx, cancel := context.WithTimeout(ctx, r.probeTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- probe(probeCtx) }()

	var err error
	select {
	case err = <-done:
	case <-probeCtx.Done():
		err = probeCtx.Err()
	}
	if err != nil {
		zap.L().Warn("backend: probe failed",
			zap.String("backend", name),
			zap.Error(err),
		)
	}
	return err
}

// Refresh re-probes every backend and swaps the snapshot.
func (r *Registry) Refresh(ctx context.Context) {
	r.Probe(ctx)
}

// Descriptors returns the probed state of every backend, extraction first,
// each kind sorted high→low.
func (r *Registry) Descriptors() []Descriptor {
	snap := r.snapshot.Load()
	if snap == nil {
		return nil
	}
	out := make([]Descriptor, len(snap.descriptors))
	copy(out, snap.descriptors)
	return out
}

// ExtractorChain returns the available extraction backends sorted high→low.
// The lexical backend probes unconditionally, so the chain is never empty
// once Probe has run.
func (r *Registry) ExtractorChain() []Extractor {
	snap := r.snapshot.Load()
	if snap == nil {
		return nil
	}
	return snap.extractors
}

// SimilarityChain returns the available similarity backends sorted high→low.
// May be empty when no similarity backend probed successfully.
func (r *Registry) SimilarityChain() []Similarity {
	snap := r.snapshot.Load()
	if snap == nil {
		return nil
	}
	return snap.similar
}
