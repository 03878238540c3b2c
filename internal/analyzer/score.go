package analyzer

import (
	"math"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/talentlens/resume-cli/internal/config"
	"github.com/talentlens/resume-cli/internal/model"
	"github.com/talentlens/resume-cli/internal/taxonomy"
)

const (
	// impactCap bounds the impact-language count so a wall of action verbs
	// cannot inflate the score without limit.
	impactCap = 6

	antiPatternPenalty = 0.5
)

var (
	quantifiablePattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?%|\$\s?\d[\d,]*|\b\d[\d,]*\+?\s*(?:users|customers|clients|requests|transactions|records|downloads|people|engineers|teams)\b)`)
	emailPattern        = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern        = regexp.MustCompile(`(?:\+?\d[\d\s().-]{7,}\d)`)
	yearPattern         = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

var actionVerbs = []string{
	"led", "developed", "built", "designed", "managed", "launched",
	"improved", "increased", "reduced", "optimized", "delivered",
	"implemented", "achieved", "automated", "migrated", "scaled",
}

// computeQualityScore combines four quality dimensions into a single 0-100
// score using configurable weights. The anti-pattern dimension is a penalty
// and subtracts from the weighted sum. Zero positive weight falls back to
// skill coverage only.
func computeQualityScore(ex model.Extraction, text string, field taxonomy.Field, weights config.ScoreWeights) (float64, map[string]float64) {
	structure := scoreStructure(ex.Sections, field)
	coverage := scoreSkillCoverage(ex.Skills, field)
	impact := scoreImpact(text)
	penalty := scoreAntiPatterns(text)

	subScores := map[string]float64{
		"structure":      structure,
		"skill_coverage": coverage,
		"impact":         impact,
		"anti_pattern":   penalty,
	}

	positiveWeight := weights.Structure + weights.SkillCoverage + weights.Impact
	if positiveWeight == 0 {
		zap.L().Warn("score: all positive quality weights are zero, falling back to coverage-only")
		return clampScore(coverage * 100), subScores
	}

	raw := (weights.Structure*structure + weights.SkillCoverage*coverage + weights.Impact*impact) / positiveWeight
	raw -= weights.AntiPattern * penalty

	return clampScore(raw * 100), subScores
}

// scoreStructure is the fraction of the field's expected sections detected.
func scoreStructure(sections map[string]bool, field taxonomy.Field) float64 {
	if len(field.Sections) == 0 {
		return 0.0
	}
	present := 0
	for _, name := range field.Sections {
		if sections[name] {
			present++
		}
	}
	return float64(present) / float64(len(field.Sections))
}

// scoreSkillCoverage is the confidence-weighted fraction of the field's
// required skills found in the extraction.
func scoreSkillCoverage(skills []model.ExtractedSkill, field taxonomy.Field) float64 {
	if len(field.RequiredSkills) == 0 {
		return 0.0
	}

	byName := make(map[string]float64, len(skills))
	for _, s := range skills {
		byName[strings.ToLower(s.Name)] = s.Confidence
	}

	total := 0.0
	for _, required := range field.RequiredSkills {
		if conf, ok := byName[strings.ToLower(required)]; ok {
			total += conf
		}
	}
	return total / float64(len(field.RequiredSkills))
}

// scoreImpact counts action verbs and quantified outcomes, capped so the
// dimension saturates rather than growing with document length.
func scoreImpact(text string) float64 {
	lower := strings.ToLower(text)

	count := len(quantifiablePattern.FindAllString(text, impactCap))
	for _, verb := range actionVerbs {
		if count >= impactCap {
			break
		}
		if containsWord(lower, verb) {
			count++
		}
	}
	if count > impactCap {
		count = impactCap
	}
	return float64(count) / float64(impactCap)
}

// scoreAntiPatterns returns a penalty in [0,1]: missing contact info and
// missing dates each contribute half.
func scoreAntiPatterns(text string) float64 {
	penalty := 0.0
	if !emailPattern.MatchString(text) && !phonePattern.MatchString(text) {
		penalty += antiPatternPenalty
	}
	if !yearPattern.MatchString(text) {
		penalty += antiPatternPenalty
	}
	return math.Min(penalty, 1.0)
}

func containsWord(lower, word string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		startOK := start == 0 || !isWordChar(lower[start-1])
		endOK := end == len(lower) || !isWordChar(lower[end])
		if startOK && endOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
