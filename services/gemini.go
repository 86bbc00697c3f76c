package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"contendo/config"
)

// GeminiProvider is the primary generation provider. It supports
// schema-constrained JSON output natively.
type GeminiProvider struct {
	client *genai.Client
	models []string
}

// NewGeminiProvider builds the Gemini adapter. Without an API key the
// provider is constructed unavailable so the fallback orchestrator skips it.
func NewGeminiProvider(ctx context.Context, cfg config.ProviderConfig) (*GeminiProvider, error) {
	p := &GeminiProvider{models: cfg.Models}
	if cfg.ApiKey == "" {
		return p, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.ApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	p.client = client
	return p, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Available() bool { return p.client != nil }

func (p *GeminiProvider) Models() []string { return p.models }

func (p *GeminiProvider) Generate(ctx context.Context, model string, req GenerateRequest) (string, error) {
	gm := p.client.GenerativeModel(model)
	gm.SetTemperature(0.8)
	gm.SetMaxOutputTokens(1024)
	gm.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockOnlyHigh},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockOnlyHigh},
	}
	if req.Schema != nil {
		gm.ResponseMIMEType = "application/json"
		gm.ResponseSchema = req.Schema
	}

	resp, err := gm.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", &ProviderError{
			Provider: p.Name(),
			Model:    model,
			Kind:     classifyErrorMessage(err.Error()),
			Err:      err,
		}
	}

	return flattenGeminiResponse(resp), nil
}

// flattenGeminiResponse joins all text parts of the first candidate.
func flattenGeminiResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

// summaryVerdictSchema constrains the judge call to the exact
// {summary, verdict:{winner, reason}} shape the parser expects.
func summaryVerdictSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": {Type: genai.TypeString},
			"verdict": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"winner": {Type: genai.TypeString, Enum: []string{"A", "B", "draw"}},
					"reason": {Type: genai.TypeString},
				},
				Required: []string{"winner", "reason"},
			},
		},
		Required: []string{"summary", "verdict"},
	}
}
