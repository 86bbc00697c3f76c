package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeResponse struct {
	text string
	err  error
}

type fakeProvider struct {
	name      string
	available bool
	models    []string
	responses map[string]fakeResponse
	calls     []string
}

func (p *fakeProvider) Name() string     { return p.name }
func (p *fakeProvider) Available() bool  { return p.available }
func (p *fakeProvider) Models() []string { return p.models }

func (p *fakeProvider) Generate(ctx context.Context, model string, req GenerateRequest) (string, error) {
	p.calls = append(p.calls, model)
	r := p.responses[model]
	return r.text, r.err
}

func modelNotFound(provider, model string) error {
	return &ProviderError{Provider: provider, Model: model, Kind: ErrorModelNotFound, Err: errors.New("model is not found")}
}

func rateLimited(provider, model string) error {
	return &ProviderError{Provider: provider, Model: model, Kind: ErrorRateLimited, Err: errors.New("quota exceeded")}
}

func TestFallbackModelOrdering(t *testing.T) {
	a := &fakeProvider{
		name: "alpha", available: true,
		models: []string{"m1", "m2", "m3"},
		responses: map[string]fakeResponse{
			"m1": {err: modelNotFound("alpha", "m1")},
			"m2": {err: modelNotFound("alpha", "m2")},
			"m3": {text: "respuesta válida"},
		},
	}
	b := &fakeProvider{
		name: "beta", available: true,
		models:    []string{"m1"},
		responses: map[string]fakeResponse{"m1": {text: "nunca debería usarse"}},
	}

	g := NewFallbackGenerator([]Provider{a, b}, time.Second)
	result, err := g.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result.ModelUsed != "alpha:m3" {
		t.Errorf("ModelUsed = %q, want alpha:m3", result.ModelUsed)
	}
	if len(a.calls) != 3 {
		t.Errorf("alpha calls = %v, want all three models tried in order", a.calls)
	}
	if len(b.calls) != 0 {
		t.Errorf("beta was called after a success: %v", b.calls)
	}
}

func TestFallbackProviderLevelShortCircuit(t *testing.T) {
	a := &fakeProvider{
		name: "alpha", available: true,
		models: []string{"m1", "m2", "m3"},
		responses: map[string]fakeResponse{
			"m1": {err: rateLimited("alpha", "m1")},
		},
	}
	b := &fakeProvider{
		name: "beta", available: true,
		models:    []string{"m1"},
		responses: map[string]fakeResponse{"m1": {text: "respuesta del segundo proveedor"}},
	}

	g := NewFallbackGenerator([]Provider{a, b}, time.Second)
	result, err := g.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(a.calls) != 1 {
		t.Errorf("alpha calls = %v, want remaining models skipped after provider-level error", a.calls)
	}
	if result.ModelUsed != "beta:m1" {
		t.Errorf("ModelUsed = %q, want beta:m1", result.ModelUsed)
	}
}

func TestFallbackEmptyTextIsFailure(t *testing.T) {
	a := &fakeProvider{
		name: "alpha", available: true,
		models:    []string{"m1", "m2"},
		responses: map[string]fakeResponse{"m1": {text: "   \n"}},
	}
	b := &fakeProvider{
		name: "beta", available: true,
		models:    []string{"m1"},
		responses: map[string]fakeResponse{"m1": {text: "texto real"}},
	}

	g := NewFallbackGenerator([]Provider{a, b}, time.Second)
	result, err := g.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	// Empty output is unclassified, so the whole provider is abandoned.
	if len(a.calls) != 1 {
		t.Errorf("alpha calls = %v, want 1", a.calls)
	}
	if result.Text != "texto real" {
		t.Errorf("Text = %q", result.Text)
	}
}

func TestFallbackNoCredentials(t *testing.T) {
	a := &fakeProvider{name: "alpha", available: false, models: []string{"m1"}}
	b := &fakeProvider{name: "beta", available: false, models: []string{"m1"}}

	g := NewFallbackGenerator([]Provider{a, b}, time.Second)
	_, err := g.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	if !errors.Is(err, ErrNoProviders) {
		t.Fatalf("err = %v, want ErrNoProviders", err)
	}
	if len(a.calls)+len(b.calls) != 0 {
		t.Errorf("providers were invoked without credentials")
	}
}

func TestFallbackNoModelCandidates(t *testing.T) {
	a := &fakeProvider{name: "alpha", available: true}
	b := &fakeProvider{name: "beta", available: true}

	g := NewFallbackGenerator([]Provider{a, b}, time.Second)
	_, err := g.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	if err == nil {
		t.Fatal("expected an error when no provider has model candidates")
	}
	if !strings.Contains(err.Error(), "no model candidates configured") {
		t.Errorf("err = %v", err)
	}
	if strings.Contains(err.Error(), "%!w") {
		t.Errorf("error wraps a nil cause: %v", err)
	}
}

func TestFallbackExhaustionAnnotatesLastError(t *testing.T) {
	a := &fakeProvider{
		name: "alpha", available: true,
		models:    []string{"m1"},
		responses: map[string]fakeResponse{"m1": {err: rateLimited("alpha", "m1")}},
	}
	b := &fakeProvider{
		name: "beta", available: true,
		models:    []string{"m9"},
		responses: map[string]fakeResponse{"m9": {err: rateLimited("beta", "m9")}},
	}

	g := NewFallbackGenerator([]Provider{a, b}, time.Second)
	_, err := g.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if !strings.Contains(err.Error(), "beta:m9") {
		t.Errorf("error %q does not name the last provider:model", err)
	}
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Errorf("exhaustion error does not wrap the ProviderError")
	}
}
