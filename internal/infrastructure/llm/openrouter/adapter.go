package openrouter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pagekit/internal/application/port/output"
	"pagekit/internal/domain/entity"

	"github.com/sashabaranov/go-openai"
)

var _ output.JudgePort = (*VisualJudge)(nil)

var ErrNoVerdict = errors.New("model returned no verdict")

const judgePrompt = `You are a UI test oracle. You receive a screenshot of a web page and an expectation about it.
Decide whether the screenshot satisfies the expectation.

Respond with JSON only:
{
  "pass": true/false,
  "confidence": 0.0-1.0,
  "issues": ["issue1"],
  "reason": "short explanation"
}

Be strict: only pass when the expectation is clearly visible on the page.`

type VisualJudge struct {
	client *openai.Client
	model  string
	logger output.LoggerPort
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Logger  output.LoggerPort
	// HTTPClient overrides the transport; tests point it at a stub server.
	HTTPClient *http.Client
}

func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: "https://openrouter.ai/api/v1",
	}
}

type loggingTransport struct {
	base   http.RoundTripper
	logger output.LoggerPort
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.logger.Debug("HTTP Request",
		"method", req.Method,
		"url", req.URL.String(),
		"bytes", req.ContentLength,
	)

	resp, err := t.base.RoundTrip(req)

	if resp != nil {
		t.logger.Debug("HTTP Response",
			"status", resp.Status,
			"statusCode", resp.StatusCode,
		)
	}

	return resp, err
}

func NewVisualJudge(cfg Config) *VisualJudge {
	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.Logger != nil {
		base := httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		httpClient = &http.Client{
			Transport: &loggingTransport{base: base, logger: cfg.Logger},
			Timeout:   httpClient.Timeout,
		}
	}
	config.HTTPClient = httpClient

	return &VisualJudge{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

func (j *VisualJudge) Judge(ctx context.Context, check entity.VisualCheck) (*entity.Verdict, error) {
	if check.Screenshot == nil || len(check.Screenshot.Data) == 0 {
		return nil, errors.New("visual check needs a screenshot")
	}

	dataURL := fmt.Sprintf("data:image/%s;base64,%s", check.Screenshot.Format, base64.StdEncoding.EncodeToString(check.Screenshot.Data))

	resp, err := j.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       j.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: judgePrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: fmt.Sprintf("Page: %s\nExpectation: %s", check.Page, check.Expectation)},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL, Detail: openai.ImageURLDetailLow}},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoVerdict
	}

	verdict, err := parseVerdict(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	if j.logger != nil {
		j.logger.Info("Visual check judged",
			"page", check.Page,
			"pass", verdict.Pass,
			"confidence", verdict.Confidence,
			"issues_count", len(verdict.Issues),
		)
	}
	return verdict, nil
}

func parseVerdict(response string) (*entity.Verdict, error) {
	response = strings.TrimSpace(response)

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("%w: %q", ErrNoVerdict, response)
	}

	var v entity.Verdict
	if err := json.Unmarshal([]byte(response[start:end+1]), &v); err != nil {
		return nil, fmt.Errorf("parse verdict: %w", err)
	}
	return &v, nil
}
