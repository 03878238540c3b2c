package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentlens/resume-cli/internal/backend"
	"github.com/talentlens/resume-cli/internal/model"
)

func analyzedResume(t *testing.T, env *testEnv, text string) *model.AnalysisResult {
	t.Helper()
	result, err := env.analyzer.Analyze(context.Background(), text, "software_development")
	require.NoError(t, err)
	return result
}

func TestMatch_SkillGap(t *testing.T) {
	env := newTestEnv(t, nil, []backend.Similarity{backend.Jaccard{}}, false)
	resume := analyzedResume(t, env, "3 years of experience with Python and Flask")

	jobText := "Looking for Python engineers. Kubernetes required; Kubernetes experience " +
		"with production clusters a must. Go is a plus."
	result, err := env.analyzer.Match(context.Background(), resume, jobText)
	require.NoError(t, err)

	assert.Equal(t, []string{"Python"}, result.MatchedSkills)
	// Kubernetes appears twice in the posting, Go once.
	assert.Equal(t, []string{"Kubernetes", "Go"}, result.MissingSkills)
	assert.Greater(t, result.Similarity, 0.0)
	assert.Equal(t, model.TierLow, result.SimilarityTier)
}

func TestMatch_TieBrokenByFirstOccurrence(t *testing.T) {
	env := newTestEnv(t, nil, []backend.Similarity{backend.Jaccard{}}, false)
	resume := analyzedResume(t, env, "Java developer, 2 years of experience")

	result, err := env.analyzer.Match(context.Background(), resume,
		"Must know Terraform and Docker. Java nice to have.")
	require.NoError(t, err)

	assert.Equal(t, []string{"Java"}, result.MatchedSkills)
	assert.Equal(t, []string{"Terraform", "Docker"}, result.MissingSkills)
}

func TestMatch_NoSimilarityBackend(t *testing.T) {
	env := newTestEnv(t, nil, nil, false)
	resume := analyzedResume(t, env, "Python developer, 4 years of experience")

	_, err := env.analyzer.Match(context.Background(), resume, "Python role")
	assert.True(t, errors.Is(err, ErrNoBackendAvailable))
}

func TestMatch_SimilarityTierTagged(t *testing.T) {
	high := &scriptedSimilarity{name: "embedding", tier: model.TierHigh, score: 0.9}
	env := newTestEnv(t, nil, []backend.Similarity{high, backend.Jaccard{}}, false)
	resume := analyzedResume(t, env, "Python developer, 4 years of experience")

	result, err := env.analyzer.Match(context.Background(), resume, "Python role")
	require.NoError(t, err)

	assert.Equal(t, 0.9, result.Similarity)
	assert.Equal(t, model.TierHigh, result.SimilarityTier)
	assert.Equal(t, model.MatchExcellent, result.Label)
}

func TestMatch_SimilarityFallsBack(t *testing.T) {
	broken := &scriptedSimilarity{
		name:       "embedding",
		tier:       model.TierHigh,
		compareErr: eris.New("quota exhausted"),
	}
	env := newTestEnv(t, nil, []backend.Similarity{broken, backend.Jaccard{}}, false)
	resume := analyzedResume(t, env, "Python developer, 4 years of experience")

	result, err := env.analyzer.Match(context.Background(), resume, "Python engineer wanted")
	require.NoError(t, err)
	assert.Equal(t, model.TierLow, result.SimilarityTier)
}

func TestMatch_InvalidInputs(t *testing.T) {
	env := newTestEnv(t, nil, []backend.Similarity{backend.Jaccard{}}, false)
	resume := analyzedResume(t, env, "Python developer, 4 years of experience")

	_, err := env.analyzer.Match(context.Background(), nil, "Python role")
	assert.True(t, errors.Is(err, ErrMalformedInput))

	_, err = env.analyzer.Match(context.Background(), resume, "   ")
	assert.True(t, errors.Is(err, ErrMalformedInput))
}

func TestMatch_LabelBucketsFromJaccard(t *testing.T) {
	env := newTestEnv(t, nil, []backend.Similarity{backend.Jaccard{}}, false)
	resume := analyzedResume(t, env, "Python developer, 4 years of experience")

	// Resume profile is just "Python"; identical job text scores 1.0.
	result, err := env.analyzer.Match(context.Background(), resume, "Python")
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Similarity)
	assert.Equal(t, model.MatchExcellent, result.Label)
}
