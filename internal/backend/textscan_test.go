package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talentlens/resume-cli/internal/model"
)

func TestDetectExperienceLevel_Years(t *testing.T) {
	tests := []struct {
		text string
		want model.ExperienceLevel
	}{
		{"1 year of experience", model.LevelJunior},
		{"2 years experience", model.LevelJunior},
		{"3 yrs of exp", model.LevelMid},
		{"5 years of experience with Python", model.LevelSenior},
		{"8 years experience", model.LevelSenior},
		{"12+ years of experience", model.LevelExpert},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectExperienceLevel(tt.text), tt.text)
	}
}

func TestDetectExperienceLevel_YearsWinOverKeywords(t *testing.T) {
	// Explicit year counts override seniority keywords.
	got := DetectExperienceLevel("Senior engineer with 2 years of experience")
	assert.Equal(t, model.LevelJunior, got)
}

func TestDetectExperienceLevel_Keywords(t *testing.T) {
	assert.Equal(t, model.LevelSenior, DetectExperienceLevel("Senior software engineer"))
	assert.Equal(t, model.LevelExpert, DetectExperienceLevel("Principal architect"))
	assert.Equal(t, model.LevelJunior, DetectExperienceLevel("Junior developer"))
	assert.Equal(t, model.LevelFresher, DetectExperienceLevel("Recent graduate seeking first role"))
	assert.Equal(t, model.LevelFresher, DetectExperienceLevel("hello world"))
}

func TestDetectSections(t *testing.T) {
	text := `
John Doe
email: john@example.com
Summary: backend developer
Work History at Acme
Education: BSc, State University
Skills: Go, SQL
`
	sections := DetectSections(text)
	assert.True(t, sections["contact"])
	assert.True(t, sections["summary"])
	assert.True(t, sections["experience"])
	assert.True(t, sections["education"])
	assert.True(t, sections["skills"])
	assert.False(t, sections["projects"])
}

func TestContainsTerm_WordBoundaries(t *testing.T) {
	assert.True(t, containsTerm("built services in go and python", "go"))
	assert.False(t, containsTerm("google golang cargo", "go"))
	assert.True(t, containsTerm("fluent in c++ and c#", "c++"))
	assert.True(t, containsTerm("react native apps", "react native"))
}

func TestCountTerm(t *testing.T) {
	assert.Equal(t, 2, countTerm("python then more python", "python"))
	assert.Equal(t, 0, countTerm("pythonic", "python"))
}
