package backend

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/talentlens/resume-cli/internal/model"
	"github.com/talentlens/resume-cli/internal/taxonomy"
	"github.com/talentlens/resume-cli/pkg/claude"
)

// Contextual is the HIGH-tier extractor: a language model resolves skill
// mentions in context (so "Java" the island does not count) and assigns
// confidence from model probability.
type Contextual struct {
	client claude.Client
	vocab  []string
	tax    *taxonomy.Taxonomy
}

// NewContextual creates the contextual extractor. A nil client fails the
// probe, marking the tier unavailable.
func NewContextual(client claude.Client, t *taxonomy.Taxonomy) *Contextual {
	return &Contextual{client: client, vocab: t.AllSkills(), tax: t}
}

func (c *Contextual) Name() string     { return "contextual" }
func (c *Contextual) Tier() model.Tier { return model.TierHigh }

func (c *Contextual) Probe(ctx context.Context) error {
	if c.client == nil {
		return eris.New("backend: contextual extractor not configured")
	}
	return c.client.Ping(ctx)
}

func (c *Contextual) Extract(ctx context.Context, text string) (*model.Extraction, error) {
	resp, err := c.client.ExtractSkills(ctx, claude.ExtractRequest{
		Text:       text,
		Vocabulary: c.vocab,
	})
	if err != nil {
		return nil, eris.Wrap(err, "backend: contextual extract")
	}

	canonical := make(map[string]string, len(c.vocab))
	for _, v := range c.vocab {
		canonical[strings.ToLower(v)] = v
	}

	var skills []model.ExtractedSkill
	seen := make(map[string]bool)
	for _, m := range resp.Skills {
		name, ok := canonical[strings.ToLower(m.Name)]
		if !ok {
			// Out-of-vocabulary mention; keep the model's spelling.
			name = m.Name
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		skills = append(skills, model.ExtractedSkill{
			Name:       name,
			Confidence: m.Confidence,
			SourceTier: model.TierHigh,
		})
	}
	model.SortSkills(skills)

	level := model.ParseExperienceLevel(resp.Level)
	if resp.Level == "" {
		level = DetectExperienceLevel(text)
	}

	return &model.Extraction{
		Skills:   skills,
		Level:    level,
		Sections: DetectSections(text),
		Tier:     model.TierHigh,
	}, nil
}
