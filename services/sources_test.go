package services

import (
	"fmt"
	"strings"
	"testing"

	"contendo/models"
)

func turnsFromTexts(texts ...string) []models.Turn {
	turns := make([]models.Turn, len(texts))
	for i, text := range texts {
		turns[i] = models.Turn{Idx: i, Speaker: SpeakerForTurn(i), Text: text}
	}
	return turns
}

func TestExtractSourcesLinkCap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&sb, "ver https://example.com/articulo/%d para más detalle. ", i)
	}
	sources := ExtractDebateSources(turnsFromTexts(sb.String()), "", "")
	if len(sources.Links) != maxSourceLinks {
		t.Errorf("got %d links, want %d", len(sources.Links), maxSourceLinks)
	}
	if sources.Count != len(sources.Links)+len(sources.Mentions) {
		t.Errorf("Count = %d, want links+mentions = %d", sources.Count, len(sources.Links)+len(sources.Mentions))
	}
}

func TestExtractSourcesLinkDedup(t *testing.T) {
	text := strings.Repeat("fuente: https://example.com/estudio. ", 5)
	sources := ExtractDebateSources(turnsFromTexts(text), "", "")
	if len(sources.Links) != 1 {
		t.Errorf("got %d links, want 1 (deduplicated)", len(sources.Links))
	}
	if len(sources.Links) == 1 && sources.Links[0] != "https://example.com/estudio" {
		t.Errorf("link = %q, trailing punctuation not trimmed", sources.Links[0])
	}
}

func TestExtractSourcesRejectsMalformedLinks(t *testing.T) {
	sources := ExtractDebateSources(turnsFromTexts("esquema raro ftp://example.com y http:// sin host"), "", "")
	if len(sources.Links) != 0 {
		t.Errorf("got links %v, want none", sources.Links)
	}
}

func TestExtractSourcesCitationPhrases(t *testing.T) {
	text := "According to the World Health Organization, esto es cierto. " +
		"Según el Banco Mundial, la cifra creció. " +
		"Based on data from Eurostat, el paro bajó."
	sources := ExtractDebateSources(turnsFromTexts(text), "", "")
	if len(sources.Mentions) < 3 {
		t.Fatalf("got %d mentions (%v), want at least 3", len(sources.Mentions), sources.Mentions)
	}
	joined := strings.Join(sources.Mentions, " | ")
	for _, want := range []string{"World Health Organization", "Banco Mundial", "Eurostat"} {
		if !strings.Contains(joined, want) {
			t.Errorf("mentions %v missing %q", sources.Mentions, want)
		}
	}
}

func TestExtractSourcesEntityYear(t *testing.T) {
	text := "Un informe de Acme Institute 2023 lo confirma, igual que Banco de España 2021."
	sources := ExtractDebateSources(turnsFromTexts(text), "", "")
	joined := strings.Join(sources.Mentions, " | ")
	if !strings.Contains(joined, "Acme Institute 2023") {
		t.Errorf("mentions %v missing entity-year capture", sources.Mentions)
	}
}

func TestExtractSourcesStopwords(t *testing.T) {
	text := "El Turno 2023 fue decisivo y el Resumen 2022 también."
	sources := ExtractDebateSources(turnsFromTexts(text), "", "")
	for _, m := range sources.Mentions {
		lower := strings.ToLower(m)
		if strings.Contains(lower, "turno") || strings.Contains(lower, "resumen") {
			t.Errorf("stopword mention leaked through: %q", m)
		}
	}
}

func TestExtractSourcesMentionDedup(t *testing.T) {
	text := "Según la OMS, sube. según la oms, baja. SEGÚN LA OMS, se mantiene."
	sources := ExtractDebateSources(turnsFromTexts(text), "", "")
	count := 0
	for _, m := range sources.Mentions {
		if strings.EqualFold(m, "la OMS") {
			count++
		}
	}
	if count > 1 {
		t.Errorf("mention not deduplicated case-insensitively: %v", sources.Mentions)
	}
}

func TestExtractSourcesScansSummaryAndReason(t *testing.T) {
	sources := ExtractDebateSources(nil,
		"Resumen con enlace https://example.org/resumen",
		"Según Nature, el lado A ganó.",
	)
	if len(sources.Links) != 1 {
		t.Errorf("summary link not extracted: %v", sources.Links)
	}
	if len(sources.Mentions) == 0 {
		t.Errorf("verdict-reason mention not extracted")
	}
}
