package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/rasuta1125/banasukoAI/internal/config"
	"github.com/rasuta1125/banasukoAI/internal/metrics"
)

// System prompts the scoring pipeline pins per call kind.
const (
	scoringPersona    = "あなたは広告のプロです。"
	compliancePersona = "あなたは広告表現の専門家です。"
)

// Client wraps the chat-completions API for the three vision/text call kinds
// the service makes. Token ceilings and temperatures are fixed per kind, not
// per request.
type Client struct {
	client *openai.Client
	model  openai.ChatModel
	cfg    config.AIConfig
}

func NewClient(cfg config.AIConfig) *Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{
		client: openai.NewClient(opts...),
		model:  openai.ChatModel(cfg.Model),
		cfg:    cfg,
	}
}

// DataURL inlines image bytes for a vision message part.
func DataURL(contentType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
}

// ScoreImage runs a single-image vision evaluation and returns the raw model
// text for downstream parsing.
func (c *Client) ScoreImage(ctx context.Context, prompt, imageURL string) (string, error) {
	return c.complete(ctx, "score", openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(scoringPersona),
			openai.UserMessageParts(
				openai.TextPart(prompt),
				openai.ImagePart(imageURL),
			),
		}),
		Model:     openai.F(c.model),
		MaxTokens: openai.F(int64(c.cfg.ScoreMaxTokens)),
	})
}

// ReviewText runs the text-only compliance review at low temperature.
func (c *Client) ReviewText(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, "compliance", openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(compliancePersona),
			openai.UserMessage(prompt),
		}),
		Model:       openai.F(c.model),
		MaxTokens:   openai.F(int64(c.cfg.ComplianceMaxTokens)),
		Temperature: openai.F(0.3),
	})
}

// CompareResults runs the A/B comparison. The prompt already carries both
// patterns' staged evaluations, so no image is attached.
func (c *Client) CompareResults(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, "compare", openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(scoringPersona),
			openai.UserMessage(prompt),
		}),
		Model:       openai.F(c.model),
		MaxTokens:   openai.F(int64(c.cfg.CompareMaxTokens)),
		Temperature: openai.F(0.5),
	})
}

// GenerateText runs a plain text completion with a caller-chosen persona,
// used by ad-copy generation.
func (c *Client) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	return c.complete(ctx, "copygen", openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		}),
		Model:       openai.F(c.model),
		MaxTokens:   openai.F(int64(c.cfg.CompareMaxTokens)),
		Temperature: openai.F(0.7),
	})
}

func (c *Client) complete(ctx context.Context, kind string, params openai.ChatCompletionNewParams) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	metrics.AICallDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("chat completion (%s): %w", kind, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion (%s): empty response", kind)
	}
	return resp.Choices[0].Message.Content, nil
}
