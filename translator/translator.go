package translator

import (
	"context"
	"errors"
	"fmt"
	"github.com/digimidich/fmp-query-ai/config"
	"github.com/digimidich/fmp-query-ai/logging"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"math"
	"time"
)

const (
	maxCompletionTokens = 120
	// zeroTemperature is sent instead of 0, which go-openai drops as an empty field.
	zeroTemperature = math.SmallestNonzeroFloat32
	// DefaultTemperature is used by Complete when the caller leaves Temperature unset.
	DefaultTemperature = 0.7
)

var (
	// ErrNoAPIKey means translation is not configured on this server.
	ErrNoAPIKey = errors.New("OPENAI_API_KEY not set")
	// ErrUnreachable wraps failures calling the language-model API.
	ErrUnreachable = errors.New("language model unreachable")
)

// Translator turns free-text pet searches into constraint strings with a chat-completion model.
type Translator struct {
	client *openai.Client
	model  string
	log    *logrus.Logger
}

// New builds a Translator, or returns ErrNoAPIKey when the key is absent.
func New(cfg config.OpenAIConfig) (*Translator, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultModel
	}
	return &Translator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		log:    logging.GetLogger(),
	}, nil
}

// Translate asks the model for a constraint string. A reply that cannot be parsed
// is not an error: it yields a Result with OK false. Only a failed API call errors.
func (t *Translator) Translate(ctx context.Context, query string) (Result, error) {
	t.log.Infof("⇢ OpenAI translate | model=%s | query='%s'", t.model, logging.Truncate(query, logging.QueryLogLimit))
	start := time.Now()

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		Temperature: zeroTemperature,
		MaxTokens:   maxCompletionTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		t.log.Errorf("✖ OpenAI call failed after %s: %v", time.Since(start), err)
		return Result{}, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	if len(resp.Choices) == 0 {
		t.log.Warn("OpenAI reply had no choices, using empty constraint")
		return Result{}, nil
	}

	content := resp.Choices[0].Message.Content
	res := ParseConstraint(content)
	if !res.OK {
		t.log.Warnf("OpenAI reply was not a valid constraint object, using empty constraint: %q", logging.Truncate(content, logging.QueryLogLimit))
		return res, nil
	}
	t.log.Infof("← OpenAI constraint | %s | '%s'", time.Since(start), res.Constraint)
	return res, nil
}

// CompletionRequest is a free-form prompt for Complete.
type CompletionRequest struct {
	Prompt string
	System string
	// Model defaults to the configured model.
	Model string
	// Temperature defaults to DefaultTemperature; pass 0 for deterministic output.
	Temperature *float32
	// MaxTokens of 0 leaves the limit to the API.
	MaxTokens int
}

// Complete sends a prompt as-is and returns the model's text reply.
func (t *Translator) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = t.model
	}
	temperature := float32(DefaultTemperature)
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	if temperature == 0 {
		temperature = zeroTemperature
	}

	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	t.log.Infof("→ OpenAI request | model=%s temp=%.2f max_out=%d | prompt='%s' system=%t",
		model, temperature, req.MaxTokens, logging.Truncate(req.Prompt, logging.QueryLogLimit), req.System != "")
	start := time.Now()

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		t.log.Errorf("✖ OpenAI call failed after %s: %v", time.Since(start), err)
		return "", fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	text := resp.Choices[0].Message.Content
	t.log.Infof("← OpenAI response | %s | %d chars", time.Since(start), len(text))
	return text, nil
}
