package backend

import (
	"context"
	"strings"

	"github.com/talentlens/resume-cli/internal/model"
	"github.com/talentlens/resume-cli/internal/taxonomy"
)

// lexicalConfidence is the fixed, deliberately conservative confidence for
// keyword matches: a plain string hit carries less trust than a contextual or
// statistical one.
const lexicalConfidence = 0.5

// Lexical is the guaranteed LOW-tier extractor: exact vocabulary keyword
// matching with no external dependency. Its probe never fails, which is what
// makes NoBackendAvailable impossible for extraction.
type Lexical struct {
	vocab []string
}

// NewLexical creates the lexical extractor over the taxonomy vocabulary.
func NewLexical(t *taxonomy.Taxonomy) *Lexical {
	return &Lexical{vocab: t.AllSkills()}
}

func (l *Lexical) Name() string     { return "lexical" }
func (l *Lexical) Tier() model.Tier { return model.TierLow }

// Probe always succeeds; the vocabulary ships with the binary.
func (l *Lexical) Probe(_ context.Context) error { return nil }

// Extract matches vocabulary terms on word boundaries, case-insensitively.
func (l *Lexical) Extract(_ context.Context, text string) (*model.Extraction, error) {
	lower := strings.ToLower(text)

	var skills []model.ExtractedSkill
	for _, term := range l.vocab {
		if containsTerm(lower, strings.ToLower(term)) {
			skills = append(skills, model.ExtractedSkill{
				Name:       term,
				Confidence: lexicalConfidence,
				SourceTier: model.TierLow,
			})
		}
	}
	model.SortSkills(skills)

	return &model.Extraction{
		Skills:   skills,
		Level:    DetectExperienceLevel(text),
		Sections: DetectSections(text),
		Tier:     model.TierLow,
	}, nil
}
