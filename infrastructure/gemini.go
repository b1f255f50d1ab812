package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cyffeer/launchpad-jia/screening"
)

// Default Gemini model variants, in preference order. The head can be
// overridden with GEMINI_MODEL; the rest stay as fallback for deprecated
// model names.
var defaultGeminiModels = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-1.5-flash",
}

// GeminiProvider calls the Generative Language REST API. It is the
// whole-provider fallback behind OpenAI.
type GeminiProvider struct {
	apiKey string
	models []string
	client *http.Client
}

func NewGeminiProvider() *GeminiProvider {
	models := defaultGeminiModels
	if preferred := os.Getenv("GEMINI_MODEL"); preferred != "" {
		models = append([]string{preferred}, defaultGeminiModels...)
	}
	return &GeminiProvider{
		apiKey: os.Getenv("GEMINI_API_KEY"),
		models: models,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *GeminiProvider) Name() string { return "gemini" }

func (g *GeminiProvider) Available() bool { return g.apiKey != "" }

func (g *GeminiProvider) Models() []string { return g.models }

// Classify makes a single generateContent call against one model variant.
func (g *GeminiProvider) Classify(ctx context.Context, model, prompt string) (string, error) {
	requestBody := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":      0.2,
			"responseMimeType": "application/json",
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", g.fail(model, screening.FailureTransient, fmt.Errorf("failed to marshal request: %w", err))
	}

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
		model, g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", g.fail(model, screening.FailureTransient, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", g.fail(model, screening.FailureTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", g.fail(model, screening.FailureTransient, err)
	}

	if resp.StatusCode != http.StatusOK {
		reqErr := fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		return "", g.fail(model, classifyGeminiStatus(resp.StatusCode, string(body)), reqErr)
	}

	var apiResponse map[string]any
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return "", g.fail(model, screening.FailureTransient, fmt.Errorf("failed to parse API response: %w", err))
	}

	text, err := extractGeminiText(apiResponse)
	if err != nil {
		return "", g.fail(model, screening.FailureTransient, err)
	}

	return text, nil
}

func (g *GeminiProvider) fail(model string, kind screening.FailureKind, err error) error {
	return &screening.ProviderError{Provider: g.Name(), Model: model, Kind: kind, Err: err}
}

// classifyGeminiStatus decides the fallback edge: unknown/unsupported models
// move to the next variant, everything else abandons the provider.
func classifyGeminiStatus(status int, body string) screening.FailureKind {
	lower := strings.ToLower(body)
	if status == http.StatusNotFound ||
		strings.Contains(lower, "not found") ||
		strings.Contains(lower, "not supported") {
		return screening.FailureNotSupported
	}
	return screening.FailureTransient
}

func extractGeminiText(apiResponse map[string]any) (string, error) {
	candidates, ok := apiResponse["candidates"].([]any)
	if !ok || len(candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	firstCandidate, ok := candidates[0].(map[string]any)
	if !ok {
		return "", fmt.Errorf("invalid candidate format")
	}

	content, ok := firstCandidate["content"].(map[string]any)
	if !ok {
		return "", fmt.Errorf("invalid content format")
	}

	parts, ok := content["parts"].([]any)
	if !ok || len(parts) == 0 {
		return "", fmt.Errorf("no parts in content")
	}

	firstPart, ok := parts[0].(map[string]any)
	if !ok {
		return "", fmt.Errorf("invalid part format")
	}

	text, ok := firstPart["text"].(string)
	if !ok || strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text in part")
	}

	return text, nil
}
