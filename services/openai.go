package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"contendo/config"
)

// openAISystemPrompt is the fixed system instruction for the chat-completions
// provider, in the deployment's primary language.
const openAISystemPrompt = "Eres un generador de debates estructurados. Sigue las instrucciones del usuario al pie de la letra y no añadas comentarios fuera de lo pedido."

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatCompletionResponse models the subset of the response we read. Content
// is either a plain string or an array of typed fragments depending on the
// upstream implementation, hence the RawMessage.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// OpenAIProvider is the secondary provider: an OpenAI-compatible
// chat-completions endpoint reached over plain HTTP.
type OpenAIProvider struct {
	apiKey     string
	url        string
	models     []string
	httpClient *http.Client
}

func NewOpenAIProvider(cfg config.ProviderConfig) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:     cfg.ApiKey,
		url:        cfg.BaseURL,
		models:     cfg.Models,
		httpClient: &http.Client{},
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Available() bool { return p.apiKey != "" }

func (p *OpenAIProvider) Models() []string { return p.models }

func (p *OpenAIProvider) Generate(ctx context.Context, model string, req GenerateRequest) (string, error) {
	payload, err := json.Marshal(chatCompletionRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: openAISystemPrompt},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: 0.7,
		MaxTokens:   1024,
	})
	if err != nil {
		return "", p.wrap(model, fmt.Errorf("failed to marshal request data: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewBuffer(payload))
	if err != nil {
		return "", p.wrap(model, fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", p.wrap(model, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", p.wrap(model, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{
			Provider: p.Name(),
			Model:    model,
			Kind:     classifyHTTPFailure(resp.StatusCode, string(body)),
			Err:      fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body)),
		}
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", p.wrap(model, fmt.Errorf("failed to parse response: %w", err))
	}
	if parsed.Error != nil {
		return "", p.wrap(model, fmt.Errorf("API error: %s", parsed.Error.Message))
	}
	if len(parsed.Choices) == 0 {
		return "", p.wrap(model, fmt.Errorf("unexpected response format"))
	}

	text, err := flattenChatContent(parsed.Choices[0].Message.Content)
	if err != nil {
		return "", p.wrap(model, err)
	}
	return text, nil
}

func (p *OpenAIProvider) wrap(model string, err error) *ProviderError {
	return &ProviderError{
		Provider: p.Name(),
		Model:    model,
		Kind:     classifyErrorMessage(err.Error()),
		Err:      err,
	}
}

// classifyHTTPFailure maps a non-200 chat-completions response onto an
// ErrorKind, preferring the status code over body keywords.
func classifyHTTPFailure(status int, body string) ErrorKind {
	switch status {
	case http.StatusNotFound:
		return ErrorModelNotFound
	case http.StatusTooManyRequests:
		return ErrorRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrorAuthInvalid
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return ErrorServiceUnavailable
	}
	return classifyErrorMessage(body)
}

// flattenChatContent normalizes choices[0].message.content, which is a plain
// string in most implementations but an array of text fragments in others.
func flattenChatContent(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain, nil
	}

	var fragments []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &fragments); err != nil {
		return "", fmt.Errorf("unexpected content shape: %s", string(raw))
	}

	var sb strings.Builder
	for _, f := range fragments {
		sb.WriteString(f.Text)
	}
	return sb.String(), nil
}
