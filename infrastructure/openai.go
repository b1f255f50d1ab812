package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/cyffeer/launchpad-jia/screening"
)

// Default OpenAI model variants, in preference order.
var defaultOpenAIModels = []string{
	"o4-mini",
	"gpt-4o-mini",
}

// OpenAIProvider is the primary screening provider.
type OpenAIProvider struct {
	client *openai.Client
	apiKey string
	models []string
}

func NewOpenAIProvider() *OpenAIProvider {
	apiKey := os.Getenv("OPENAI_API_KEY")
	models := defaultOpenAIModels
	if preferred := os.Getenv("OPENAI_MODEL"); preferred != "" {
		models = append([]string{preferred}, defaultOpenAIModels...)
	}

	p := &OpenAIProvider{apiKey: apiKey, models: models}
	if apiKey != "" {
		p.client = openai.NewClient(apiKey)
	}
	return p
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Available() bool { return p.client != nil }

func (p *OpenAIProvider) Models() []string { return p.models }

// Classify makes a single chat completion call against one model variant.
func (p *OpenAIProvider) Classify(ctx context.Context, model, prompt string) (string, error) {
	if p.client == nil {
		return "", p.fail(model, screening.FailureUnavailable, errors.New("OPENAI_API_KEY is not set"))
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", p.fail(model, classifyOpenAIError(err), err)
	}

	if len(resp.Choices) == 0 {
		return "", p.fail(model, screening.FailureTransient, errors.New("completion has no choices"))
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", p.fail(model, screening.FailureTransient, errors.New("completion is empty"))
	}

	return content, nil
}

func (p *OpenAIProvider) fail(model string, kind screening.FailureKind, err error) error {
	return &screening.ProviderError{Provider: p.Name(), Model: model, Kind: kind, Err: err}
}

// classifyOpenAIError maps API failures onto cascade fallback edges.
func classifyOpenAIError(err error) screening.FailureKind {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return screening.FailureUnavailable
		case http.StatusNotFound:
			return screening.FailureNotSupported
		case http.StatusBadRequest:
			msg := strings.ToLower(fmt.Sprintf("%v", apiErr.Message))
			if strings.Contains(msg, "model") || strings.Contains(msg, "not supported") {
				return screening.FailureNotSupported
			}
		}
	}
	return screening.FailureTransient
}
