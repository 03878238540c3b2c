package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentlens/resume-cli/internal/config"
	"github.com/talentlens/resume-cli/internal/model"
	"github.com/talentlens/resume-cli/internal/taxonomy"
)

func testWeights() config.ScoreWeights {
	return config.ScoreWeights{
		Structure:     0.30,
		SkillCoverage: 0.35,
		Impact:        0.20,
		AntiPattern:   0.15,
	}
}

func testField(t *testing.T) taxonomy.Field {
	t.Helper()
	f, err := taxonomy.Default().Lookup("software_development")
	require.NoError(t, err)
	return f
}

const strongResume = `
john@example.com | +1 555 123 4567
Summary: Senior backend engineer, 2018-2025.
Led a team of 8. Reduced latency 40%. Delivered services for 2000000 users.
Skills: Python, Java, JavaScript, Go, SQL, Docker, Git
Experience: built and scaled APIs.
Education: BSc Computer Science.
Projects: open source tooling.
`

func TestComputeQualityScore_Range(t *testing.T) {
	ex := model.Extraction{
		Skills: []model.ExtractedSkill{
			{Name: "Python", Confidence: 0.9},
			{Name: "Go", Confidence: 0.9},
			{Name: "SQL", Confidence: 0.9},
		},
		Sections: map[string]bool{
			"contact": true, "summary": true, "experience": true,
			"education": true, "skills": true, "projects": true,
		},
	}

	score, subScores := computeQualityScore(ex, strongResume, testField(t), testWeights())

	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
	assert.Greater(t, score, 30.0, "a strong resume should score well")

	assert.InDelta(t, 1.0, subScores["structure"], 1e-9)
	assert.Greater(t, subScores["skill_coverage"], 0.0)
	assert.Greater(t, subScores["impact"], 0.0)
	assert.Zero(t, subScores["anti_pattern"])
}

func TestComputeQualityScore_Deterministic(t *testing.T) {
	ex := model.Extraction{
		Skills:   []model.ExtractedSkill{{Name: "Python", Confidence: 0.5}},
		Sections: map[string]bool{"skills": true},
	}

	a, subA := computeQualityScore(ex, strongResume, testField(t), testWeights())
	b, subB := computeQualityScore(ex, strongResume, testField(t), testWeights())
	assert.Equal(t, a, b)
	assert.Equal(t, subA, subB)
}

func TestComputeQualityScore_AntiPatternPenalty(t *testing.T) {
	ex := model.Extraction{
		Skills:   []model.ExtractedSkill{{Name: "Python", Confidence: 0.5}},
		Sections: map[string]bool{"skills": true},
	}

	// No contact info, no dates.
	bare := "python developer"
	withInfo := "python developer, john@example.com, 2020"

	bareScore, bareSubs := computeQualityScore(ex, bare, testField(t), testWeights())
	infoScore, infoSubs := computeQualityScore(ex, withInfo, testField(t), testWeights())

	assert.Equal(t, 1.0, bareSubs["anti_pattern"])
	assert.Zero(t, infoSubs["anti_pattern"])
	assert.Less(t, bareScore, infoScore)
}

func TestComputeQualityScore_ClampsAtZero(t *testing.T) {
	ex := model.Extraction{Sections: map[string]bool{}}
	weights := config.ScoreWeights{Structure: 0.01, AntiPattern: 10}

	score, _ := computeQualityScore(ex, "nothing here", testField(t), weights)
	assert.Equal(t, 0.0, score)
}

func TestComputeQualityScore_ZeroWeightsFallsBackToCoverage(t *testing.T) {
	ex := model.Extraction{
		Skills: []model.ExtractedSkill{
			{Name: "Python", Confidence: 1.0},
			{Name: "Java", Confidence: 1.0},
			{Name: "JavaScript", Confidence: 1.0},
			{Name: "Go", Confidence: 1.0},
			{Name: "SQL", Confidence: 1.0},
			{Name: "Docker", Confidence: 1.0},
			{Name: "Git", Confidence: 1.0},
		},
		Sections: map[string]bool{},
	}

	score, _ := computeQualityScore(ex, "text", testField(t), config.ScoreWeights{})
	assert.InDelta(t, 100.0, score, 1e-9)
}

func TestScoreImpact_Capped(t *testing.T) {
	stuffed := "led developed built designed managed launched improved increased reduced optimized delivered implemented"
	assert.Equal(t, 1.0, scoreImpact(stuffed))
}

func TestScoreStructure_Fractional(t *testing.T) {
	field := taxonomy.Field{Sections: []string{"contact", "skills", "experience", "education"}}
	got := scoreStructure(map[string]bool{"contact": true, "skills": true}, field)
	assert.InDelta(t, 0.5, got, 1e-9)
}
