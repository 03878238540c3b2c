package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/talentlens/resume-cli/internal/analyzer"
	"github.com/talentlens/resume-cli/internal/backend"
	"github.com/talentlens/resume-cli/internal/resultcache"
	"github.com/talentlens/resume-cli/internal/store"
	"github.com/talentlens/resume-cli/internal/taxonomy"
	"github.com/talentlens/resume-cli/pkg/claude"
	"github.com/talentlens/resume-cli/pkg/gemini"
)

// analyzerEnv holds the initialized registry, cache, store, and analyzer
// shared by the analyze/match/serve commands.
type analyzerEnv struct {
	Store    store.Store
	Registry *backend.Registry
	Analyzer *analyzer.Analyzer
	Taxonomy *taxonomy.Taxonomy
}

// Close releases resources held by the environment.
func (ae *analyzerEnv) Close() {
	if ae.Store != nil {
		_ = ae.Store.Close()
	}
}

// initAnalyzer loads the taxonomy, wires up every configured backend, probes
// the registry, and builds the Analyzer. Callers should defer env.Close().
func initAnalyzer(ctx context.Context) (*analyzerEnv, error) {
	tax, err := taxonomy.Load(cfg.Taxonomy.Path)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	extractors := []backend.Extractor{
		backend.NewLexical(tax),
		backend.NewStatistical(tax, cfg.Backends.StatisticalEnabled),
	}
	similarities := []backend.Similarity{
		backend.Jaccard{},
	}

	if cfg.Claude.Key != "" {
		claudeClient := claude.NewClient(cfg.Claude.Key, cfg.Claude.Model, cfg.Claude.RequestsPerMinute)
		extractors = append(extractors, backend.NewContextual(claudeClient, tax))
	} else {
		zap.L().Debug("RESUME_CLAUDE_KEY not set, contextual extraction disabled")
	}

	if cfg.Gemini.Key != "" {
		embedder, err := gemini.NewClient(ctx, cfg.Gemini.Key, cfg.Gemini.Model, cfg.Gemini.RequestsPerMinute)
		if err != nil {
			zap.L().Warn("gemini client init failed, embedding similarity disabled", zap.Error(err))
		} else {
			similarities = append(similarities, backend.NewEmbedding(embedder))
		}
	} else {
		zap.L().Debug("RESUME_GEMINI_KEY not set, embedding similarity disabled")
	}

	registry := backend.NewRegistry(
		time.Duration(cfg.Backends.ProbeTimeoutSecs)*time.Second,
		extractors, similarities,
	)
	registry.Probe(ctx)

	cache := resultcache.New(cfg.Cache.MaxEntries, time.Duration(cfg.Cache.TTLMinutes)*time.Minute)

	an := analyzer.New(analyzer.Params{
		Registry:       registry,
		Cache:          cache,
		Taxonomy:       tax,
		Store:          st,
		Weights:        cfg.Scoring.Weights,
		ExtractTimeout: time.Duration(cfg.Backends.ExtractTimeoutSecs) * time.Second,
		CrossCheck:     cfg.Backends.CrossCheck,
	})

	return &analyzerEnv{
		Store:    st,
		Registry: registry,
		Analyzer: an,
		Taxonomy: tax,
	}, nil
}
