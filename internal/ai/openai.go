package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/ashureev/moodchat/internal/domain"
)

var errEmptyReply = errors.New("model returned empty reply")

// OpenAIConfig holds configuration for the OpenAI-backed client.
type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	ReplyMaxTokens int64
}

// OpenAIClient implements Client against the OpenAI Responses API using
// strict JSON-schema structured outputs for every call with a typed payload.
type OpenAIClient struct {
	client *openai.Client
	cfg    OpenAIConfig
	logger *slog.Logger
}

// NewOpenAIClient creates a collaborator client. The API key is required;
// model defaults are applied by config loading, not here.
func NewOpenAIClient(cfg OpenAIConfig, logger *slog.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("openai: model is required")
	}
	if cfg.ReplyMaxTokens <= 0 {
		cfg.ReplyMaxTokens = 800
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	return &OpenAIClient{
		client: &client,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// sentimentPayload is the structured-output shape for classification. It
// mirrors domain.SentimentResult with enum constraints for the model.
type sentimentPayload struct {
	Sentiment        string  `json:"sentiment" jsonschema:"enum=positive,enum=negative,enum=neutral"`
	Emotion          string  `json:"emotion"`
	EmotionIntensity string  `json:"emotion_intensity" jsonschema:"enum=low,enum=medium,enum=high"`
	Confidence       float64 `json:"confidence"`
	Reasoning        string  `json:"reasoning"`
}

var (
	sentimentSchema = buildSchema[sentimentPayload]()
	trendSchema     = buildSchema[TrendAnalysis]()
	keywordSchema   = buildSchema[KeywordSet]()
	summarySchema   = buildSchema[ConversationSummary]()
)

// ClassifySentiment classifies one user message.
func (c *OpenAIClient) ClassifySentiment(ctx context.Context, text string) (domain.SentimentResult, error) {
	var payload sentimentPayload
	err := c.structuredCall(ctx, structuredRequest{
		name:         "SentimentResult",
		instructions: classifyInstructions,
		input:        text,
		schema:       sentimentSchema,
		maxTokens:    500,
	}, &payload)
	if err != nil {
		return domain.SentimentResult{}, err
	}
	result := domain.SentimentResult{
		Sentiment:        payload.Sentiment,
		Emotion:          payload.Emotion,
		EmotionIntensity: payload.EmotionIntensity,
		Confidence:       payload.Confidence,
		Reasoning:        strings.TrimSpace(payload.Reasoning),
	}
	return result.Normalize(), nil
}

// GenerateReply produces the assistant reply for the current turn. The
// bounded history already ends with the new user message.
func (c *OpenAIClient) GenerateReply(ctx context.Context, req ReplyRequest) (string, error) {
	instructions := fmt.Sprintf("%s\n\nCurrent user mood: %s\n%s",
		replyInstructions, req.CurrentMood, req.SentimentContext)

	items := make([]responses.ResponseInputItemUnionParam, 0, len(req.History)+1)
	for _, entry := range req.History {
		items = append(items, responses.ResponseInputItemParamOfMessage(entry.Content, inputRole(entry.Role)))
	}
	if len(items) == 0 {
		items = append(items, responses.ResponseInputItemParamOfMessage(req.UserMessage, responses.EasyInputMessageRoleUser))
	}

	params := responses.ResponseNewParams{
		Model:           c.cfg.Model,
		MaxOutputTokens: openai.Int(c.cfg.ReplyMaxTokens),
		Instructions:    openai.String(instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: items,
		},
	}

	resp, err := c.callWithRetry(ctx, params)
	if err != nil {
		return "", err
	}
	reply := strings.TrimSpace(resp.OutputText())
	if reply == "" {
		return "", errEmptyReply
	}
	return reply, nil
}

// AnalyzeTrend analyzes sentiment trends over the session.
func (c *OpenAIClient) AnalyzeTrend(ctx context.Context, history []domain.SentimentResult) (TrendAnalysis, error) {
	input, err := json.Marshal(history)
	if err != nil {
		return TrendAnalysis{}, fmt.Errorf("marshal sentiment history: %w", err)
	}
	var out TrendAnalysis
	err = c.structuredCall(ctx, structuredRequest{
		name:         "TrendAnalysis",
		instructions: trendInstructions,
		input:        string(input),
		schema:       trendSchema,
		maxTokens:    1200,
	}, &out)
	if err != nil {
		return TrendAnalysis{}, err
	}
	return out.Normalize(), nil
}

// ExtractKeywords extracts keywords and themes from the conversation.
func (c *OpenAIClient) ExtractKeywords(ctx context.Context, conversation []domain.ContextEntry) (KeywordSet, error) {
	input, err := json.Marshal(conversation)
	if err != nil {
		return KeywordSet{}, fmt.Errorf("marshal conversation: %w", err)
	}
	var out KeywordSet
	err = c.structuredCall(ctx, structuredRequest{
		name:         "KeywordSet",
		instructions: keywordInstructions,
		input:        string(input),
		schema:       keywordSchema,
		maxTokens:    800,
	}, &out)
	if err != nil {
		return KeywordSet{}, err
	}
	return out.Normalize(), nil
}

// Summarize produces a conversation summary with tone and mood journey.
func (c *OpenAIClient) Summarize(ctx context.Context, conversation []domain.ContextEntry) (ConversationSummary, error) {
	input, err := json.Marshal(conversation)
	if err != nil {
		return ConversationSummary{}, fmt.Errorf("marshal conversation: %w", err)
	}
	var out ConversationSummary
	err = c.structuredCall(ctx, structuredRequest{
		name:         "ConversationSummary",
		instructions: summaryInstructions,
		input:        string(input),
		schema:       summarySchema,
		maxTokens:    1200,
	}, &out)
	if err != nil {
		return ConversationSummary{}, err
	}
	return out.Normalize(), nil
}

// RenderMoodGraph renders an ASCII mood visualization.
func (c *OpenAIClient) RenderMoodGraph(ctx context.Context, history []domain.SentimentResult) (string, error) {
	return c.renderText(ctx, moodGraphInstructions, history)
}

// RenderEmotionProfile renders a textual emotion profile.
func (c *OpenAIClient) RenderEmotionProfile(ctx context.Context, history []domain.SentimentResult) (string, error) {
	return c.renderText(ctx, emotionProfileInstructions, history)
}

func (c *OpenAIClient) renderText(ctx context.Context, instructions string, history []domain.SentimentResult) (string, error) {
	input, err := json.Marshal(history)
	if err != nil {
		return "", fmt.Errorf("marshal sentiment history: %w", err)
	}

	params := responses.ResponseNewParams{
		Model:           c.cfg.Model,
		MaxOutputTokens: openai.Int(800),
		Instructions:    openai.String(instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(string(input), responses.EasyInputMessageRoleUser),
			},
		},
	}

	resp, err := c.callWithRetry(ctx, params)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.OutputText())
	if text == "" {
		return "", errEmptyReply
	}
	return text, nil
}

type structuredRequest struct {
	name         string
	instructions string
	input        string
	schema       map[string]any
	maxTokens    int64
}

func (c *OpenAIClient) structuredCall(ctx context.Context, req structuredRequest, out any) error {
	params := responses.ResponseNewParams{
		Model:           c.cfg.Model,
		MaxOutputTokens: openai.Int(req.maxTokens),
		Instructions:    openai.String(req.instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(req.input, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:   req.name,
					Schema: req.schema,
					Strict: openai.Bool(true),
					Type:   "json_schema",
				},
			},
		},
	}

	resp, err := c.callWithRetry(ctx, params)
	if err != nil {
		return err
	}
	if err := decodePayload(resp.OutputText(), out); err != nil {
		return fmt.Errorf("decode %s payload: %w", req.name, err)
	}
	return nil
}

// callWithRetry retries transient API failures with short backoff. Waits are
// kept interactive-scale since calls sit on the chat turn path.
func (c *OpenAIClient) callWithRetry(ctx context.Context, params responses.ResponseNewParams) (*responses.Response, error) {
	const maxAttempts = 3
	backoff := []time.Duration{500 * time.Millisecond, 2 * time.Second}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := c.client.Responses.New(ctx, params)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == maxAttempts-1 {
			return nil, err
		}
		c.logger.Warn("transient model API failure, retrying",
			"attempt", attempt+1,
			"error", err,
		)
		select {
		case <-time.After(backoff[attempt]):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("model API failed after %d attempts: %w", maxAttempts, lastErr)
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "429") ||
		strings.Contains(s, "rate limit") ||
		strings.Contains(s, "too many requests") ||
		strings.Contains(s, "500") ||
		strings.Contains(s, "502") ||
		strings.Contains(s, "503") ||
		strings.Contains(s, "server_error")
}

func inputRole(role string) responses.EasyInputMessageRole {
	switch role {
	case string(domain.RoleAssistant):
		return responses.EasyInputMessageRoleAssistant
	case string(domain.RoleSystem):
		return responses.EasyInputMessageRoleSystem
	default:
		return responses.EasyInputMessageRoleUser
	}
}
