package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// ErrorKind classifies a provider failure for fallback routing. The kind is
// derived once, at the adapter boundary, from the upstream error message;
// the keyword sets below are a behavioral contract, not a heuristic to tune.
type ErrorKind int

const (
	// ErrorUnknown is the default bucket; treated as provider-level.
	ErrorUnknown ErrorKind = iota
	// ErrorModelNotFound means this model id is unknown or unsupported;
	// the next model of the same provider may still work.
	ErrorModelNotFound
	// ErrorRateLimited covers rate limiting and quota exhaustion.
	ErrorRateLimited
	// ErrorAuthInvalid covers credential and permission failures.
	ErrorAuthInvalid
	// ErrorServiceUnavailable covers 5xx overload/unavailability.
	ErrorServiceUnavailable
)

// ProviderError wraps an upstream generation failure with the provider and
// model that produced it plus its fallback classification.
type ProviderError struct {
	Provider string
	Model    string
	Kind     ErrorKind
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s:%s: %v", e.Provider, e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ModelLevel reports whether the failure only concerns the attempted model,
// so the next candidate of the same provider should be tried.
func (e *ProviderError) ModelLevel() bool { return e.Kind == ErrorModelNotFound }

var modelLevelSignatures = []string{
	"not found",
	"does not exist",
	"unknown model",
	"model_not_found",
	"unsupported model",
	"is not supported",
	"invalid model",
}

var rateLimitSignatures = []string{
	"rate limit",
	"rate_limit",
	"quota",
	"resource exhausted",
	"resource_exhausted",
	"too many requests",
	"429",
}

var authSignatures = []string{
	"api key",
	"unauthorized",
	"unauthenticated",
	"permission",
	"forbidden",
	"invalid credential",
	"401",
	"403",
}

var unavailableSignatures = []string{
	"unavailable",
	"overloaded",
	"service is currently",
	"timeout",
	"deadline exceeded",
	"internal server error",
	"502",
	"503",
	"529",
}

// classifyErrorMessage maps a raw upstream error message onto an ErrorKind.
func classifyErrorMessage(message string) ErrorKind {
	lower := strings.ToLower(message)

	contains := func(signatures []string) bool {
		for _, sig := range signatures {
			if strings.Contains(lower, sig) {
				return true
			}
		}
		return false
	}

	switch {
	case contains(modelLevelSignatures):
		return ErrorModelNotFound
	case contains(rateLimitSignatures):
		return ErrorRateLimited
	case contains(authSignatures):
		return ErrorAuthInvalid
	case contains(unavailableSignatures):
		return ErrorServiceUnavailable
	default:
		return ErrorUnknown
	}
}

// GenerateRequest is one prompt for the fallback pipeline. Schema, when set,
// requests schema-constrained JSON output from providers that support it;
// the others rely on the prompt's own JSON instructions.
type GenerateRequest struct {
	Prompt string
	Schema *genai.Schema
}

// Provider is one external model vendor with an ordered list of candidate
// models.
type Provider interface {
	Name() string
	// Available reports whether the provider has credentials configured.
	Available() bool
	Models() []string
	// Generate runs one model call and returns the flattened response text.
	// Failures are returned as *ProviderError.
	Generate(ctx context.Context, model string, req GenerateRequest) (string, error)
}
