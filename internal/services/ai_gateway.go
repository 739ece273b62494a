package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// DefaultPromptTemplate asks the enhancement model for a single rewritten
// passage. %s placeholders: field label, project name, original text.
const DefaultPromptTemplate = `You are helping improve organizational spotlight submissions for internal communications.

Rewrite the %s section below so it is clear, concise, and uses professional,
engaging language appropriate for company-wide communications. Keep every
important detail and keep the tone positive.

Project: %s
Original text:
%s

Reply with the improved text only, no preamble.`

// SuggestionGateway is the AI content-enhancement collaborator. Failures are
// transient by contract; callers treat them as recoverable and optional.
type SuggestionGateway interface {
	Suggest(ctx context.Context, prompt string) (string, error)
}

// AIClient talks to a managed language-model inference endpoint over JSON.
type AIClient struct {
	endpoint string
	apiKey   string
	model    string
	attempts int
	client   *http.Client
}

func NewAIClient(endpoint string, apiKey string, model string) *AIClient {
	return &AIClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		attempts: 3,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type aiRequest struct {
	Model       string      `json:"model"`
	MaxTokens   int         `json:"max_tokens"`
	Temperature float64     `json:"temperature"`
	Messages    []aiMessage `json:"messages"`
}

type aiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type aiResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Suggest posts the prompt to the inference endpoint, retrying transient
// failures up to the bounded attempt count.
func (ai *AIClient) Suggest(ctx context.Context, prompt string) (string, error) {
	if ai.endpoint == "" {
		return "", fmt.Errorf("ai endpoint not configured: %w", ErrUpstreamUnavailable)
	}

	var lastErr error
	for attempt := 1; attempt <= ai.attempts; attempt++ {
		suggested, err := ai.invoke(ctx, prompt)
		if err == nil {
			return suggested, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		log.Printf("ai suggestion attempt %d/%d failed: %v", attempt, ai.attempts, err)
	}

	return "", fmt.Errorf("ai gateway failed after %d attempts: %v: %w", ai.attempts, lastErr, ErrUpstreamUnavailable)
}

func (ai *AIClient) invoke(ctx context.Context, prompt string) (string, error) {
	payload := aiRequest{
		Model:       ai.model,
		MaxTokens:   2000,
		Temperature: 0.7,
		Messages:    []aiMessage{{Role: "user", Content: prompt}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode ai request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, ai.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build ai request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	if ai.apiKey != "" {
		request.Header.Set("Authorization", "Bearer "+ai.apiKey)
	}

	response, err := ai.client.Do(request)
	if err != nil {
		return "", fmt.Errorf("call ai endpoint: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return "", fmt.Errorf("ai endpoint returned %d: %s", response.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed aiResponse
	if err := json.NewDecoder(response.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode ai response: %w", err)
	}
	if len(parsed.Content) == 0 || strings.TrimSpace(parsed.Content[0].Text) == "" {
		return "", fmt.Errorf("ai response contained no content")
	}

	return strings.TrimSpace(parsed.Content[0].Text), nil
}
