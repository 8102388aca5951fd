package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"nrro-site/domain"
)

// AIClient wraps an OpenAI-compatible gateway for text and image generation.
type AIClient struct {
	client     *openai.Client
	model      string
	imageModel string
	log        logrus.FieldLogger
}

type AIConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	ImageModel string
	Timeout    time.Duration
}

func NewAIClient(cfg AIConfig, log logrus.FieldLogger) *AIClient {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &AIClient{
		client:     openai.NewClientWithConfig(oc),
		model:      cfg.Model,
		imageModel: cfg.ImageModel,
		log:        log,
	}
}

// CompleteJSON asks for a JSON object and decodes it into out.
func (a *AIClient) CompleteJSON(ctx context.Context, system, prompt string, out any) error {
	start := time.Now()
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.4,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return a.mapError(ctx, "chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("%w: completion returned no choices", domain.ErrUpstream)
	}

	a.log.WithFields(logrus.Fields{
		"model":      resp.Model,
		"tokens":     resp.Usage.TotalTokens,
		"latency_ms": time.Since(start).Milliseconds(),
	}).Debug("AI completion")

	content := cleanJSONResponse(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("%w: completion is not valid JSON: %v", domain.ErrUpstream, err)
	}
	return nil
}

func (a *AIClient) GenerateImage(ctx context.Context, prompt, size string) (domain.GeneratedImage, error) {
	if size == "" {
		size = openai.CreateImageSize1024x1024
	}
	resp, err := a.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          a.imageModel,
		N:              1,
		Size:           size,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return domain.GeneratedImage{}, a.mapError(ctx, "image generation", err)
	}
	if len(resp.Data) == 0 {
		return domain.GeneratedImage{}, fmt.Errorf("%w: image generation returned no data", domain.ErrUpstream)
	}
	d := resp.Data[0]
	return domain.GeneratedImage{URL: d.URL, B64JSON: d.B64JSON, RevisedPrompt: d.RevisedPrompt}, nil
}

// mapError turns gateway failures into the domain errors handlers translate
// to 429 / 402 / 504 / 502.
func (a *AIClient) mapError(ctx context.Context, op string, err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	a.log.WithError(err).WithFields(logrus.Fields{"op": op, "status": status}).Warn("AI gateway error")

	var netErr net.Error
	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w", op, domain.ErrAIRateLimited)
	case status == http.StatusPaymentRequired:
		return fmt.Errorf("%s: %w", op, domain.ErrAICreditsExhausted)
	case status == http.StatusGatewayTimeout,
		errors.Is(err, context.DeadlineExceeded),
		ctx.Err() == context.DeadlineExceeded,
		errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%s: %w", op, domain.ErrAITimeout)
	default:
		return fmt.Errorf("%s: %w: %v", op, domain.ErrUpstream, err)
	}
}

// cleanJSONResponse strips markdown fences and anything outside the outermost object.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end != -1 && end > start {
		content = content[start : end+1]
	}

	return strings.TrimSpace(content)
}
