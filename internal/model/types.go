package model

import (
	"sort"
	"time"
)

// Tier ranks backend capability for fallback ordering. Higher is better.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

// String returns the lowercase tier name used in logs and JSON.
func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	default:
		return "low"
	}
}

// ParseTier converts a tier name back to a Tier. Unknown names map to TierLow.
func ParseTier(s string) Tier {
	switch s {
	case "high":
		return TierHigh
	case "medium":
		return TierMedium
	default:
		return TierLow
	}
}

// MarshalText implements encoding.TextMarshaler so Tier serializes by name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(b []byte) error {
	*t = ParseTier(string(b))
	return nil
}

// ExperienceLevel is the seniority band detected from a resume. Levels are
// ordered so that a "more conservative" tie-break can pick the lower one.
type ExperienceLevel int

const (
	LevelFresher ExperienceLevel = iota
	LevelJunior
	LevelMid
	LevelSenior
	LevelExpert
)

// String returns the lowercase level name.
func (l ExperienceLevel) String() string {
	switch l {
	case LevelExpert:
		return "expert"
	case LevelSenior:
		return "senior"
	case LevelMid:
		return "mid"
	case LevelJunior:
		return "junior"
	default:
		return "fresher"
	}
}

// ParseExperienceLevel converts a level name back to an ExperienceLevel.
// Unknown names map to LevelFresher.
func ParseExperienceLevel(s string) ExperienceLevel {
	switch s {
	case "expert":
		return LevelExpert
	case "senior":
		return LevelSenior
	case "mid":
		return LevelMid
	case "junior":
		return LevelJunior
	default:
		return LevelFresher
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l ExperienceLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *ExperienceLevel) UnmarshalText(b []byte) error {
	*l = ParseExperienceLevel(string(b))
	return nil
}

// ExtractedSkill is a single skill mention found by a backend.
type ExtractedSkill struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	SourceTier Tier    `json:"source_tier"`
}

// Extraction is the raw output of one extraction backend before merging.
type Extraction struct {
	Skills   []ExtractedSkill `json:"skills"`
	Level    ExperienceLevel  `json:"level"`
	Sections map[string]bool  `json:"sections"`
	Tier     Tier             `json:"tier"`
}

// SalaryProjection benchmarks annual compensation for a career field at the
// detected experience level. Bands maps band name ("entry", "mid", "senior",
// "expert") to annual USD.
type SalaryProjection struct {
	Field     string          `json:"field"`
	Level     ExperienceLevel `json:"level"`
	Band      string          `json:"band"`
	Projected int             `json:"projected_salary"`
	Bands     map[string]int  `json:"salary_bands"`
}

// AnalysisResult is the canonical, backend-agnostic analysis record. It is
// created once per fingerprint and never mutated; a different backend tier or
// taxonomy version produces a distinct result under a distinct cache key.
type AnalysisResult struct {
	Skills       []ExtractedSkill   `json:"skills"`
	Level        ExperienceLevel    `json:"experience_level"`
	Sections     map[string]bool    `json:"section_completeness"`
	QualityScore float64            `json:"quality_score"`
	SubScores    map[string]float64 `json:"sub_scores"`
	Field        string             `json:"field"`
	Salary       *SalaryProjection  `json:"salary_projection,omitempty"`
	CareerPaths  []string           `json:"career_paths,omitempty"`
	BackendTier  Tier               `json:"backend_tier_used"`
	ComputedAt   time.Time          `json:"computed_at"`
}

// SkillNames returns the result's skill names in their stored (sorted) order.
func (r *AnalysisResult) SkillNames() []string {
	names := make([]string, len(r.Skills))
	for i, s := range r.Skills {
		names[i] = s.Name
	}
	return names
}

// HasSkill reports whether the result contains the named skill
// (case-insensitive match is the caller's job; names are stored canonical).
func (r *AnalysisResult) HasSkill(name string) bool {
	for _, s := range r.Skills {
		if s.Name == name {
			return true
		}
	}
	return false
}

// SortSkills orders skills by descending confidence, ties by name, so equal
// inputs always serialize identically.
func SortSkills(skills []ExtractedSkill) {
	sort.Slice(skills, func(i, j int) bool {
		if skills[i].Confidence != skills[j].Confidence {
			return skills[i].Confidence > skills[j].Confidence
		}
		return skills[i].Name < skills[j].Name
	})
}

// MatchLabel categorizes a similarity score for display.
type MatchLabel string

const (
	MatchExcellent MatchLabel = "excellent"
	MatchGood      MatchLabel = "good"
	MatchFair      MatchLabel = "fair"
	MatchPoor      MatchLabel = "poor"
)

// LabelForSimilarity buckets a similarity score into a MatchLabel.
func LabelForSimilarity(score float64) MatchLabel {
	switch {
	case score >= 0.8:
		return MatchExcellent
	case score >= 0.6:
		return MatchGood
	case score >= 0.4:
		return MatchFair
	default:
		return MatchPoor
	}
}

// JobMatchResult is the outcome of matching a resume against a job
// description. SimilarityTier records which backend produced the similarity
// score; callers must not compare scores across tiers.
type JobMatchResult struct {
	Similarity     float64    `json:"similarity"`
	SimilarityTier Tier       `json:"similarity_tier"`
	Label          MatchLabel `json:"match_level"`
	MissingSkills  []string   `json:"missing_skills"`
	MatchedSkills  []string   `json:"matched_skills"`
}
