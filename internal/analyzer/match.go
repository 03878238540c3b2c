package analyzer

import (
	"context"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/talentlens/resume-cli/internal/model"
)

// Match compares an analyzed resume against a job description. The job text
// runs through the same extraction chain to find required skills; the gap
// list orders missing skills by mention frequency in the job text, ties
// broken by first occurrence. Similarity comes from the best available
// similarity backend and is tagged with the producing tier.
func (a *Analyzer) Match(ctx context.Context, resume *model.AnalysisResult, jobText string) (*model.JobMatchResult, error) {
	if resume == nil {
		return nil, eris.Wrap(ErrMalformedInput, "nil resume result")
	}
	if err := validateInput(jobText); err != nil {
		return nil, err
	}

	jobEx, err := a.extract(ctx, jobText)
	if err != nil {
		return nil, eris.Wrap(err, "analyzer: extract job requirements")
	}

	matched, missing := skillGap(resume, jobEx.Skills, jobText)

	similarity, tier, err := a.similarity(ctx, resume, jobText)
	if err != nil {
		return nil, err
	}

	return &model.JobMatchResult{
		Similarity:     similarity,
		SimilarityTier: tier,
		Label:          model.LabelForSimilarity(similarity),
		MatchedSkills:  matched,
		MissingSkills:  missing,
	}, nil
}

// similarity walks the similarity chain high to low. Unlike extraction there
// is no guaranteed tier, so an empty chain surfaces ErrNoBackendAvailable.
func (a *Analyzer) similarity(ctx context.Context, resume *model.AnalysisResult, jobText string) (float64, model.Tier, error) {
	chain := a.registry.SimilarityChain()
	if len(chain) == 0 {
		return 0, model.TierLow, eris.Wrap(ErrNoBackendAvailable, "similarity")
	}

	profile := strings.Join(resume.SkillNames(), " ")
	var lastErr error
	for _, s := range chain {
		callCtx, cancel := context.WithTimeout(ctx, a.extractTimeout)
		score, err := s.Compare(callCtx, profile, jobText)
		cancel()
		if err != nil {
			lastErr = err
			zap.L().Warn("analyzer: similarity backend failed, falling back",
				zap.String("backend", s.Name()),
				zap.Stringer("tier", s.Tier()),
				zap.Error(err),
			)
			continue
		}
		return score, s.Tier(), nil
	}
	return 0, model.TierLow, eris.Wrap(coalesceErr(lastErr, ErrNoBackendAvailable), "analyzer: all similarity backends failed")
}

// skillGap splits the job's required skills into matched and missing against
// the resume's skill set. Missing skills sort by descending mention count in
// the job text, then by first occurrence.
func skillGap(resume *model.AnalysisResult, required []model.ExtractedSkill, jobText string) (matched, missing []string) {
	lower := strings.ToLower(jobText)

	type gap struct {
		name  string
		count int
		first int
	}
	var gaps []gap

	for _, skill := range required {
		if resume.HasSkill(skill.Name) {
			matched = append(matched, skill.Name)
			continue
		}
		term := strings.ToLower(skill.Name)
		gaps = append(gaps, gap{
			name:  skill.Name,
			count: wordCount(lower, term),
			first: wordIndex(lower, term),
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].count != gaps[j].count {
			return gaps[i].count > gaps[j].count
		}
		return gaps[i].first < gaps[j].first
	})

	sort.Strings(matched)
	for _, g := range gaps {
		missing = append(missing, g.name)
	}
	return matched, missing
}

// wordCount counts word-boundary occurrences of term in lower.
func wordCount(lower, term string) int {
	if term == "" {
		return 0
	}
	count := 0
	idx := 0
	for {
		i := strings.Index(lower[idx:], term)
		if i < 0 {
			return count
		}
		start := idx + i
		end := start + len(term)
		if (start == 0 || !isWordChar(lower[start-1])) && (end == len(lower) || !isWordChar(lower[end])) {
			count++
		}
		idx = start + 1
	}
}

// wordIndex returns the first word-boundary occurrence of term in lower, or
// the text length when absent.
func wordIndex(lower, term string) int {
	if term == "" {
		return len(lower)
	}
	idx := 0
	for {
		i := strings.Index(lower[idx:], term)
		if i < 0 {
			return len(lower)
		}
		start := idx + i
		end := start + len(term)
		if (start == 0 || !isWordChar(lower[start-1])) && (end == len(lower) || !isWordChar(lower[end])) {
			return start
		}
		idx = start + 1
	}
}
