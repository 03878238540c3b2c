// Package analyzer orchestrates the resume analysis pipeline: fingerprint,
// cache lookup, tiered backend extraction with fallback, canonical merge,
// quality scoring, and job matching.
package analyzer

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/talentlens/resume-cli/internal/backend"
	"github.com/talentlens/resume-cli/internal/config"
	"github.com/talentlens/resume-cli/internal/model"
	"github.com/talentlens/resume-cli/internal/resultcache"
	"github.com/talentlens/resume-cli/internal/taxonomy"
)

// RunStore persists completed analysis runs. Persistence is best effort; a
// store failure never fails the analysis.
type RunStore interface {
	SaveRun(ctx context.Context, run *model.Run) error
}

// Analyzer runs the analysis pipeline. Safe for concurrent use.
type Analyzer struct {
	registry *backend.Registry
	cache    *resultcache.Cache
	tax      *taxonomy.Taxonomy
	store    RunStore
	weights  config.ScoreWeights

	extractTimeout time.Duration
	crossCheck     bool
	now            func() time.Time
}

// Params configures an Analyzer. Store and Now are optional.
type Params struct {
	Registry       *backend.Registry
	Cache          *resultcache.Cache
	Taxonomy       *taxonomy.Taxonomy
	Store          RunStore
	Weights        config.ScoreWeights
	ExtractTimeout time.Duration
	CrossCheck     bool
	Now            func() time.Time
}

// New creates an Analyzer from params.
func New(p Params) *Analyzer {
	if p.ExtractTimeout <= 0 {
		p.ExtractTimeout = 30 * time.Second
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &Analyzer{
		registry:       p.Registry,
		cache:          p.Cache,
		tax:            p.Taxonomy,
		store:          p.Store,
		weights:        p.Weights,
		extractTimeout: p.ExtractTimeout,
		crossCheck:     p.CrossCheck,
		now:            p.Now,
	}
}

// Analyze produces the canonical result for a resume text targeting a career
// field. An empty field is inferred from the extracted skills. Identical
// normalized text, field, and taxonomy version hit the cache; concurrent
// callers on the same key share one computation.
func (a *Analyzer) Analyze(ctx context.Context, text, field string) (*model.AnalysisResult, error) {
	if err := validateInput(text); err != nil {
		return nil, err
	}

	field = strings.ToLower(strings.TrimSpace(field))
	if field != "" {
		if _, err := a.tax.Lookup(field); err != nil {
			return nil, err
		}
	}

	fp := model.FingerprintText(text, a.tax.Version)
	key := cacheKey(fp, field)

	return a.cache.GetOrCompute(ctx, key, func(ctx context.Context) (*model.AnalysisResult, error) {
		return a.compute(ctx, text, field, fp)
	})
}

// compute runs the uncached pipeline: extraction chain, merge, field
// inference, scoring, career projection, best-effort persistence.
func (a *Analyzer) compute(ctx context.Context, text, field string, fp model.Fingerprint) (*model.AnalysisResult, error) {
	merged, err := a.extract(ctx, text)
	if err != nil {
		return nil, err
	}

	if field == "" {
		field = a.inferField(merged.Skills)
	}
	fieldDef, err := a.tax.Lookup(field)
	if err != nil {
		return nil, err
	}

	score, subScores := computeQualityScore(merged, text, fieldDef, a.weights)

	result := &model.AnalysisResult{
		Skills:       merged.Skills,
		Level:        merged.Level,
		Sections:     merged.Sections,
		QualityScore: score,
		SubScores:    subScores,
		Field:        field,
		Salary:       a.salaryProjection(field, fieldDef, merged.Level),
		CareerPaths:  fieldDef.CareerPaths,
		BackendTier:  merged.Tier,
		ComputedAt:   a.now().UTC(),
	}

	a.persist(ctx, fp, result)
	return result, nil
}

// extract walks the extractor chain high to low, returning the first
// successful output, optionally cross-checked against the lexical tier. Each
// attempt runs under its own timeout; failures fall through to the next tier.
func (a *Analyzer) extract(ctx context.Context, text string) (model.Extraction, error) {
	chain := a.registry.ExtractorChain()
	if len(chain) == 0 {
		return model.Extraction{}, eris.Wrap(ErrNoBackendAvailable, "extraction")
	}

	var (
		primary  *model.Extraction
		lastErr  error
		fallback backend.Extractor
	)
	for _, e := range chain {
		if e.Tier() == model.TierLow {
			fallback = e
		}
	}

	for _, e := range chain {
		ex, err := a.runExtractor(ctx, e, text)
		if err != nil {
			if !isRecoverable(err) {
				return model.Extraction{}, err
			}
			lastErr = err
			zap.L().Warn("analyzer: extractor failed, falling back",
				zap.String("backend", e.Name()),
				zap.Stringer("tier", e.Tier()),
				zap.Error(err),
			)
			continue
		}
		primary = ex
		break
	}
	if primary == nil {
		return model.Extraction{}, eris.Wrap(coalesceErr(lastErr, ErrBackendUnavailable), "analyzer: all extractors failed")
	}

	if a.crossCheck && primary.Tier > model.TierLow && fallback != nil {
		if check, err := a.runExtractor(ctx, fallback, text); err == nil {
			return mergeExtractions([]model.Extraction{*primary, *check}), nil
		}
	}
	return mergeExtractions([]model.Extraction{*primary}), nil
}

// runExtractor executes one backend under the per-call timeout, mapping a
// deadline hit to ErrExtractionTimeout.
func (a *Analyzer) runExtractor(ctx context.Context, e backend.Extractor, text string) (*model.Extraction, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.extractTimeout)
	defer cancel()

	ex, err := e.Extract(callCtx, text)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return nil, eris.Wrapf(ErrExtractionTimeout, "backend %s", e.Name())
		}
		return nil, eris.Wrapf(ErrBackendUnavailable, "backend %s: %v", e.Name(), err)
	}
	return ex, nil
}

// inferField maps extracted skills to the dominant career field via the
// taxonomy's category counts.
func (a *Analyzer) inferField(skills []model.ExtractedSkill) string {
	counts := make(map[string]int)
	for _, s := range skills {
		if cat := a.tax.CategoryOf(s.Name); cat != "" {
			counts[cat]++
		}
	}
	if field := taxonomy.FieldForCategories(counts); field != "" {
		return field
	}
	return "software_development"
}

func (a *Analyzer) persist(ctx context.Context, fp model.Fingerprint, result *model.AnalysisResult) {
	if a.store == nil {
		return
	}
	run := &model.Run{
		ID:           uuid.NewString(),
		Fingerprint:  fp,
		Field:        result.Field,
		BackendTier:  result.BackendTier,
		QualityScore: result.QualityScore,
		Result:       result,
		CreatedAt:    result.ComputedAt,
	}
	if err := a.store.SaveRun(ctx, run); err != nil {
		zap.L().Warn("analyzer: persist run failed",
			zap.String("run_id", run.ID),
			zap.Error(err),
		)
	}
}

// Backends reports the probed state of every registered backend.
func (a *Analyzer) Backends() []backend.Descriptor {
	return a.registry.Descriptors()
}

// CacheStats exposes result cache counters.
func (a *Analyzer) CacheStats() resultcache.Stats {
	return a.cache.Stats()
}

// validateInput rejects empty or non-text input outright.
func validateInput(text string) error {
	if strings.TrimSpace(text) == "" {
		return eris.Wrap(ErrMalformedInput, "empty text")
	}
	if !utf8.ValidString(text) {
		return eris.Wrap(ErrMalformedInput, "not valid UTF-8")
	}
	return nil
}

// cacheKey scopes the fingerprint by target field, so the same document
// analyzed against two fields caches independently.
func cacheKey(fp model.Fingerprint, field string) model.Fingerprint {
	if field == "" {
		return fp
	}
	return fp + model.Fingerprint(":"+field)
}

func coalesceErr(err, fallback error) error {
	if err != nil {
		return err
	}
	return fallback
}
