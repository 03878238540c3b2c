package backend

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentlens/resume-cli/internal/model"
	"github.com/talentlens/resume-cli/internal/taxonomy"
	"github.com/talentlens/resume-cli/pkg/claude"
)

type fakeClaude struct {
	resp    *claude.ExtractResponse
	err     error
	pingErr error
}

func (f *fakeClaude) ExtractSkills(_ context.Context, _ claude.ExtractRequest) (*claude.ExtractResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeClaude) Ping(_ context.Context) error { return f.pingErr }

func TestContextual_Extract(t *testing.T) {
	client := &fakeClaude{resp: &claude.ExtractResponse{
		Skills: []claude.SkillMention{
			{Name: "python", Confidence: 0.93},
			{Name: "PostgreSQL", Confidence: 0.81},
			{Name: "python", Confidence: 0.5}, // duplicate, first mention wins
		},
		Level: "senior",
	}}
	c := NewContextual(client, taxonomy.Default())

	ex, err := c.Extract(context.Background(), "worked with python and postgres")
	require.NoError(t, err)

	require.Len(t, ex.Skills, 2)
	// Vocabulary spelling is canonical regardless of model casing; skills sort
	// by descending confidence.
	assert.Equal(t, "Python", ex.Skills[0].Name)
	assert.Equal(t, 0.93, ex.Skills[0].Confidence)
	assert.Equal(t, "PostgreSQL", ex.Skills[1].Name)
	assert.Equal(t, model.TierHigh, ex.Skills[0].SourceTier)
	assert.Equal(t, model.LevelSenior, ex.Level)
	assert.Equal(t, model.TierHigh, ex.Tier)
}

func TestContextual_ExtractFallsBackToTextLevel(t *testing.T) {
	client := &fakeClaude{resp: &claude.ExtractResponse{
		Skills: []claude.SkillMention{{Name: "Go", Confidence: 0.9}},
	}}
	c := NewContextual(client, taxonomy.Default())

	ex, err := c.Extract(context.Background(), "10 years of experience building services")
	require.NoError(t, err)
	assert.Equal(t, model.LevelExpert, ex.Level)
}

func TestContextual_ExtractError(t *testing.T) {
	c := NewContextual(&fakeClaude{err: eris.New("api down")}, taxonomy.Default())

	_, err := c.Extract(context.Background(), "text")
	assert.Error(t, err)
}

func TestContextual_Probe(t *testing.T) {
	assert.Error(t, NewContextual(nil, taxonomy.Default()).Probe(context.Background()))
	assert.NoError(t, NewContextual(&fakeClaude{}, taxonomy.Default()).Probe(context.Background()))
	assert.Error(t, NewContextual(&fakeClaude{pingErr: eris.New("bad key")}, taxonomy.Default()).Probe(context.Background()))
}
