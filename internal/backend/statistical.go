package backend

import (
	"context"
	"math"
	"strings"

	"github.com/talentlens/resume-cli/internal/model"
	"github.com/talentlens/resume-cli/internal/taxonomy"
)

// Statistical is the MEDIUM-tier extractor. It matches the same vocabulary as
// the lexical backend but weighs term frequency and document position into a
// heuristic confidence, not a learned probability.
type Statistical struct {
	vocab   []string
	enabled bool
}

// NewStatistical creates the statistical extractor. Disabled instances fail
// their probe, which forces chain fallback; tests and degraded deployments
// use this to pin the pipeline at LOW tier.
func NewStatistical(t *taxonomy.Taxonomy, enabled bool) *Statistical {
	return &Statistical{vocab: t.AllSkills(), enabled: enabled}
}

func (s *Statistical) Name() string     { return "statistical" }
func (s *Statistical) Tier() model.Tier { return model.TierMedium }

func (s *Statistical) Probe(_ context.Context) error {
	if !s.enabled {
		return errDisabled
	}
	return nil
}

// Extract scores each vocabulary hit by occurrence count and first-mention
// position. Repeated mentions and early placement (summary, skills header)
// push confidence up; everything stays within [0.5, 0.95].
func (s *Statistical) Extract(_ context.Context, text string) (*model.Extraction, error) {
	lower := strings.ToLower(text)

	var skills []model.ExtractedSkill
	for _, term := range s.vocab {
		lowerTerm := strings.ToLower(term)
		count := countTerm(lower, lowerTerm)
		if count == 0 {
			continue
		}

		// Frequency component: log-damped so a keyword-stuffed resume
		// cannot saturate confidence.
		freq := math.Log1p(float64(count)) / math.Log1p(5)
		if freq > 1 {
			freq = 1
		}

		// Position component: earlier first mention scores higher.
		first := strings.Index(lower, lowerTerm)
		position := 1 - float64(first)/float64(len(lower)+1)

		confidence := 0.5 + 0.45*(0.7*freq+0.3*position)
		if confidence > 0.95 {
			confidence = 0.95
		}

		skills = append(skills, model.ExtractedSkill{
			Name:       term,
			Confidence: confidence,
			SourceTier: model.TierMedium,
		})
	}
	model.SortSkills(skills)

	return &model.Extraction{
		Skills:   skills,
		Level:    DetectExperienceLevel(text),
		Sections: DetectSections(text),
		Tier:     model.TierMedium,
	}, nil
}
