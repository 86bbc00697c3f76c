package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// ErrNoProviders means no provider has credentials configured at all. It is
// a configuration failure, distinct from generation failures, and is raised
// before any network call.
var ErrNoProviders = errors.New("no generation provider is configured")

// GenerationResult is the first successful output of the fallback chain.
type GenerationResult struct {
	Text      string
	ModelUsed string
}

// Generator is the single entry point the debate orchestrator calls for
// model output.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerationResult, error)
}

// FallbackGenerator tries providers in priority order and each provider's
// model candidates in order. Model-level failures advance to the next model;
// everything else abandons the provider. The first success wins.
type FallbackGenerator struct {
	providers   []Provider
	callTimeout time.Duration
}

func NewFallbackGenerator(providers []Provider, callTimeout time.Duration) *FallbackGenerator {
	return &FallbackGenerator{providers: providers, callTimeout: callTimeout}
}

func (g *FallbackGenerator) Generate(ctx context.Context, req GenerateRequest) (*GenerationResult, error) {
	available := make([]Provider, 0, len(g.providers))
	for _, p := range g.providers {
		if p.Available() {
			available = append(available, p)
		}
	}
	if len(available) == 0 {
		return nil, ErrNoProviders
	}

	var lastErr error
	for _, provider := range available {
		for _, model := range provider.Models() {
			result, err := g.tryOnce(ctx, provider, model, req)
			if err == nil {
				return result, nil
			}
			lastErr = err

			var pe *ProviderError
			if errors.As(err, &pe) && pe.ModelLevel() {
				log.Printf("model %s:%s unavailable, trying next model: %v", provider.Name(), model, pe.Err)
				continue
			}
			log.Printf("provider %s failed on model %s, skipping provider: %v", provider.Name(), model, err)
			break
		}
	}

	if lastErr == nil {
		// Available providers, but every one had an empty model list.
		return nil, errors.New("no model candidates configured")
	}
	return nil, fmt.Errorf("all providers exhausted: %w", lastErr)
}

func (g *FallbackGenerator) tryOnce(ctx context.Context, provider Provider, model string, req GenerateRequest) (*GenerationResult, error) {
	callCtx := ctx
	if g.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.callTimeout)
		defer cancel()
	}

	text, err := provider.Generate(callCtx, model, req)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ProviderError{
			Provider: provider.Name(),
			Model:    model,
			Kind:     ErrorUnknown,
			Err:      errors.New("empty response text"),
		}
	}
	return &GenerationResult{
		Text:      text,
		ModelUsed: provider.Name() + ":" + model,
	}, nil
}
