// Package claude wraps the Anthropic SDK behind a small interface the
// extraction backend and tests can stand in for.
package claude

import (
	"context"
	"encoding/json"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the Anthropic operations used by the pipeline.
type Client interface {
	// ExtractSkills resolves skill mentions in context and returns them with
	// model-derived confidences in [0,1].
	ExtractSkills(ctx context.Context, req ExtractRequest) (*ExtractResponse, error)
	// Ping performs a minimal request to verify the key and model work.
	Ping(ctx context.Context) error
}

// ExtractRequest carries the text and the vocabulary to resolve against.
type ExtractRequest struct {
	Text       string
	Vocabulary []string
}

// SkillMention is one contextually confirmed skill.
type SkillMention struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// ExtractResponse is the parsed model output.
type ExtractResponse struct {
	Skills []SkillMention `json:"skills"`
	Level  string         `json:"experience_level"`
}

const extractSystemPrompt = `You label resume text. Given a skill vocabulary, return only skills the text
demonstrates actual use of, disambiguating by context (e.g. "Java" the
language vs the island). Respond with JSON only:
{"skills":[{"name":"...","confidence":0.0}],"experience_level":"fresher|junior|mid|senior|expert"}
Use vocabulary spelling for names. Confidence is your probability the skill is
genuinely held.`

// sdkClient implements Client using the official anthropic-sdk-go.
type sdkClient struct {
	client  sdk.Client
	model   string
	limiter *rate.Limiter
}

// NewClient creates an Anthropic-backed client. requestsPerMinute bounds the
// call rate client-side; zero disables limiting.
func NewClient(apiKey, model string, requestsPerMinute int) Client {
	var limiter *rate.Limiter
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), 1)
	}
	return &sdkClient{
		client:  sdk.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		limiter: limiter,
	}
}

func (c *sdkClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *sdkClient) ExtractSkills(ctx context.Context, req ExtractRequest) (*ExtractResponse, error) {
	if err := c.wait(ctx); err != nil {
		return nil, eris.Wrap(err, "claude: rate limit wait")
	}

	prompt := "Vocabulary: " + strings.Join(req.Vocabulary, ", ") + "\n\nResume:\n" + req.Text

	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: 1024,
		System: []sdk.TextBlockParam{
			{Text: extractSystemPrompt},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "claude: extract skills")
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	parsed, err := parseExtractResponse(text)
	if err != nil {
		return nil, err
	}
	return parsed, nil
}

func (c *sdkClient) Ping(ctx context.Context) error {
	if err := c.wait(ctx); err != nil {
		return eris.Wrap(err, "claude: rate limit wait")
	}
	_, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: 1,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock("ok")),
		},
	})
	if err != nil {
		return eris.Wrap(err, "claude: ping")
	}
	return nil
}

// parseExtractResponse pulls the JSON object out of the model reply,
// tolerating surrounding prose or code fences.
func parseExtractResponse(text string) (*ExtractResponse, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, eris.Errorf("claude: no JSON object in response: %.80s", text)
	}

	var resp ExtractResponse
	if err := json.Unmarshal([]byte(text[start:end+1]), &resp); err != nil {
		return nil, eris.Wrap(err, "claude: parse response")
	}
	for i := range resp.Skills {
		if resp.Skills[i].Confidence < 0 {
			resp.Skills[i].Confidence = 0
		}
		if resp.Skills[i].Confidence > 1 {
			resp.Skills[i].Confidence = 1
		}
	}
	return &resp, nil
}
