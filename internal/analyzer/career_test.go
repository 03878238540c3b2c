package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentlens/resume-cli/internal/model"
	"github.com/talentlens/resume-cli/internal/taxonomy"
)

func TestAnalyze_SalaryProjectionAndCareerPaths(t *testing.T) {
	env := newTestEnv(t, nil, nil, false)

	text := "7 years of experience building Machine Learning models with Pandas and NumPy"
	result, err := env.analyzer.Analyze(context.Background(), text, "data_science")
	require.NoError(t, err)

	require.NotNil(t, result.Salary)
	assert.Equal(t, "data_science", result.Salary.Field)
	assert.Equal(t, model.LevelSenior, result.Salary.Level)
	assert.Equal(t, "senior", result.Salary.Band)
	assert.Equal(t, 130000, result.Salary.Projected)
	assert.Equal(t, 70000, result.Salary.Bands["entry"])

	require.Len(t, result.CareerPaths, 3)
	assert.Contains(t, result.CareerPaths[0], "Data Analyst")
}

func TestAnalyze_SalaryFallbackBands(t *testing.T) {
	env := newTestEnv(t, nil, nil, false)

	// software_development carries no salary table; web_development's bands
	// stand in, while the projection still names the target field.
	result, err := env.analyzer.Analyze(context.Background(), seniorResume, "software_development")
	require.NoError(t, err)

	require.NotNil(t, result.Salary)
	assert.Equal(t, "software_development", result.Salary.Field)
	assert.Equal(t, "senior", result.Salary.Band)
	assert.Equal(t, 115000, result.Salary.Projected)
	assert.Empty(t, result.CareerPaths)
}

func TestSalaryProjection_NoBandsAnywhere(t *testing.T) {
	tax := &taxonomy.Taxonomy{
		Version: "custom-1",
		Fields: map[string]taxonomy.Field{
			"embedded_systems": {RequiredSkills: []string{"C++"}},
		},
		Vocabulary: taxonomy.Default().Vocabulary,
	}
	a := New(Params{Taxonomy: tax})

	def, err := tax.Lookup("embedded_systems")
	require.NoError(t, err)
	assert.Nil(t, a.salaryProjection("embedded_systems", def, model.LevelMid))
}

func TestSalaryBand(t *testing.T) {
	cases := []struct {
		level model.ExperienceLevel
		band  string
	}{
		{model.LevelFresher, "entry"},
		{model.LevelJunior, "entry"},
		{model.LevelMid, "mid"},
		{model.LevelSenior, "senior"},
		{model.LevelExpert, "expert"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.band, salaryBand(tc.level), tc.level.String())
	}
}
