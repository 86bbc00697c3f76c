package services

import (
	"errors"
	"strings"
	"time"
)

// ErrDebateExists is returned by stores when a create-if-absent insert
// collides with an existing debate id.
var ErrDebateExists = errors.New("debate already exists")

// Error codes for caller-facing failures. Controllers map these to HTTP
// status codes; the messages are the user-safe, primary-language text.
const (
	CodeInvalidArgument   = "invalid-argument"
	CodeUnauthenticated   = "unauthenticated"
	CodeResourceExhausted = "resource-exhausted"
	CodeAlreadyExists     = "already-exists"
	CodeNotConfigured     = "failed-precondition"
	CodeUnavailable       = "unavailable"
	CodeNotFound          = "not-found"
	CodePermissionDenied  = "permission-denied"
	CodeInternal          = "internal"
)

// Error is a categorized, caller-facing failure. Detail carries the raw
// underlying message and is only exposed outside production.
type Error struct {
	Code    string
	Message string
	Detail  string
	// ResetAt is set on quota rejections only.
	ResetAt time.Time
}

func (e *Error) Error() string { return e.Message }

func invalidArgument(message string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: message}
}

// MapUpstreamError converts a raw pipeline failure into the categorized,
// user-safe error surfaced to the caller. The raw text is preserved in
// Detail; pattern matching on the lower-cased message decides the category.
func MapUpstreamError(err error) *Error {
	if errors.Is(err, ErrNoProviders) {
		return &Error{
			Code:    CodeNotConfigured,
			Message: "El servicio de IA no está configurado. Inténtalo más tarde.",
			Detail:  err.Error(),
		}
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		switch pe.Kind {
		case ErrorServiceUnavailable:
			return &Error{
				Code:    CodeUnavailable,
				Message: "El servicio de IA está saturado. Vuelve a intentarlo en unos minutos.",
				Detail:  err.Error(),
			}
		case ErrorRateLimited:
			return &Error{
				Code:    CodeUnavailable,
				Message: "El servicio de IA ha alcanzado su cuota. Vuelve a intentarlo más tarde.",
				Detail:  err.Error(),
			}
		case ErrorAuthInvalid:
			return &Error{
				Code:    CodeNotConfigured,
				Message: "Las credenciales del servicio de IA no son válidas.",
				Detail:  err.Error(),
			}
		}
	}

	// Classification fell through (e.g. a wrapped non-provider failure):
	// re-derive the category from the message text.
	lower := strings.ToLower(err.Error())
	switch classifyErrorMessage(lower) {
	case ErrorServiceUnavailable:
		return &Error{
			Code:    CodeUnavailable,
			Message: "El servicio de IA está saturado. Vuelve a intentarlo en unos minutos.",
			Detail:  err.Error(),
		}
	case ErrorRateLimited:
		return &Error{
			Code:    CodeUnavailable,
			Message: "El servicio de IA ha alcanzado su cuota. Vuelve a intentarlo más tarde.",
			Detail:  err.Error(),
		}
	case ErrorAuthInvalid:
		return &Error{
			Code:    CodeNotConfigured,
			Message: "Las credenciales del servicio de IA no son válidas.",
			Detail:  err.Error(),
		}
	}

	return &Error{
		Code:    CodeInternal,
		Message: "No se pudo generar el debate. Inténtalo de nuevo.",
		Detail:  err.Error(),
	}
}
