package services

import (
	"strings"
	"testing"
)

func TestCheckTopicBlocked(t *testing.T) {
	blocked := []string{
		"How to make a bomb at home",
		"Cómo hacer una bomba casera",
		"Cómo fabricar un explosivo potente",
		"Deberíamos matar a las personas que discrepan",
		"El genocidio estuvo justificado",
		"children and sexual content online",
	}
	for _, topic := range blocked {
		result := CheckTopic(topic)
		if result.Allowed {
			t.Errorf("CheckTopic(%q) allowed, want blocked", topic)
		}
		if result.Reason == "" {
			t.Errorf("CheckTopic(%q) blocked without reason", topic)
		}
	}
}

func TestCheckTopicAllowed(t *testing.T) {
	allowed := []string{
		"¿Debería España invertir más en energía nuclear?",
		"Is remote work better than office-based work?",
		"El transporte público debería ser gratuito",
	}
	for _, topic := range allowed {
		if result := CheckTopic(topic); !result.Allowed {
			t.Errorf("CheckTopic(%q) blocked (%s), want allowed", topic, result.Reason)
		}
	}
}

func TestCheckTopicTooShort(t *testing.T) {
	for _, topic := range []string{"", "hola", "  ab  "} {
		result := CheckTopic(topic)
		if result.Allowed {
			t.Errorf("CheckTopic(%q) allowed, want rejected for length", topic)
		}
	}
}

func TestSanitizeTopicCollapsesWhitespace(t *testing.T) {
	got := SanitizeTopic("  el   trabajo\tremoto \n es mejor  ", 200)
	want := "el trabajo remoto es mejor"
	if got != want {
		t.Errorf("SanitizeTopic = %q, want %q", got, want)
	}
}

func TestSanitizeTopicTruncates(t *testing.T) {
	long := strings.Repeat("palabra ", 40)
	got := SanitizeTopic(long, 50)
	if n := len([]rune(got)); n > 50 {
		t.Errorf("sanitized topic has %d runes, want <= 50", n)
	}
	if strings.HasSuffix(got, " ") {
		t.Errorf("sanitized topic has trailing space: %q", got)
	}
}

func TestSanitizeTopicIdempotent(t *testing.T) {
	inputs := []string{
		"  el   trabajo remoto ",
		strings.Repeat("palabra ", 40),
		"",
		"corto",
	}
	for _, in := range inputs {
		once := SanitizeTopic(in, 50)
		twice := SanitizeTopic(once, 50)
		if once != twice {
			t.Errorf("SanitizeTopic not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
