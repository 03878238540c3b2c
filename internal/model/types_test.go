package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTier_Ordering(t *testing.T) {
	assert.True(t, TierHigh > TierMedium)
	assert.True(t, TierMedium > TierLow)
}

func TestTier_RoundTrip(t *testing.T) {
	for _, tier := range []Tier{TierLow, TierMedium, TierHigh} {
		assert.Equal(t, tier, ParseTier(tier.String()))
	}
	assert.Equal(t, TierLow, ParseTier("bogus"))
}

func TestTier_JSON(t *testing.T) {
	data, err := json.Marshal(TierHigh)
	require.NoError(t, err)
	assert.Equal(t, `"high"`, string(data))

	var tier Tier
	require.NoError(t, json.Unmarshal([]byte(`"medium"`), &tier))
	assert.Equal(t, TierMedium, tier)
}

func TestExperienceLevel_Ordering(t *testing.T) {
	assert.True(t, LevelFresher < LevelJunior)
	assert.True(t, LevelJunior < LevelMid)
	assert.True(t, LevelMid < LevelSenior)
	assert.True(t, LevelSenior < LevelExpert)
}

func TestExperienceLevel_RoundTrip(t *testing.T) {
	for _, level := range []ExperienceLevel{LevelFresher, LevelJunior, LevelMid, LevelSenior, LevelExpert} {
		assert.Equal(t, level, ParseExperienceLevel(level.String()))
	}
}

func TestSortSkills_Deterministic(t *testing.T) {
	skills := []ExtractedSkill{
		{Name: "Go", Confidence: 0.5},
		{Name: "Python", Confidence: 0.9},
		{Name: "Django", Confidence: 0.5},
	}
	SortSkills(skills)

	assert.Equal(t, "Python", skills[0].Name)
	assert.Equal(t, "Django", skills[1].Name)
	assert.Equal(t, "Go", skills[2].Name)
}

func TestLabelForSimilarity(t *testing.T) {
	assert.Equal(t, MatchExcellent, LabelForSimilarity(0.85))
	assert.Equal(t, MatchExcellent, LabelForSimilarity(0.8))
	assert.Equal(t, MatchGood, LabelForSimilarity(0.6))
	assert.Equal(t, MatchFair, LabelForSimilarity(0.4))
	assert.Equal(t, MatchPoor, LabelForSimilarity(0.39))
}

func TestAnalysisResult_HasSkill(t *testing.T) {
	r := &AnalysisResult{Skills: []ExtractedSkill{{Name: "Python", Confidence: 0.5}}}
	assert.True(t, r.HasSkill("Python"))
	assert.False(t, r.HasSkill("Go"))
	assert.Equal(t, []string{"Python"}, r.SkillNames())
}
