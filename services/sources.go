package services

import (
	"net/url"
	"regexp"
	"strings"

	"contendo/models"
)

// Extraction caps. Scanning stops early once both caps are reached; the
// extractor is bounded-cost, not exhaustive.
const (
	maxSourceLinks    = 12
	maxSourceMentions = 16
	maxMentionDisplay = 80
	minMentionDisplay = 3
)

// DebateSources is the extracted citation material of a finished debate.
// Count is always len(Links)+len(Mentions), derived, never stored
// independently.
type DebateSources struct {
	Links    []string
	Mentions []string
	Count    int
}

var linkPattern = regexp.MustCompile(`https?://[^\s<>"'\)\]]+`)

// citationPatterns capture the phrase following a citation marker, in both
// UI languages. The capture runs to the next clause boundary.
var citationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)according to ([^.,;:!?\n]+)`),
	regexp.MustCompile(`(?i)(?:a )?study by ([^.,;:!?\n]+)`),
	regexp.MustCompile(`(?i)based on data from ([^.,;:!?\n]+)`),
	regexp.MustCompile(`(?i)según ([^.,;:!?\n]+)`),
	regexp.MustCompile(`(?i)de acuerdo con ([^.,;:!?\n]+)`),
	regexp.MustCompile(`(?i)un estudio de ([^.,;:!?\n]+)`),
	regexp.MustCompile(`(?i)datos de(?:l)? ([^.,;:!?\n]+)`),
}

// entityYearPattern matches capitalized entities followed by a 4-digit year,
// e.g. "Acme Institute 2023" or "Banco Mundial 2021".
var entityYearPattern = regexp.MustCompile(`\b([A-ZÁÉÍÓÚÑ][\p{L}]+(?:\s+(?:de|del|of|the|[A-ZÁÉÍÓÚÑ][\p{L}]+)){0,3})\s+((?:19|20)\d{2})\b`)

// mentionStopwords excludes generic debate-structure nouns captured by the
// entity pattern.
var mentionStopwords = map[string]struct{}{
	"turno": {}, "turn": {}, "persona": {}, "personas": {},
	"resumen": {}, "summary": {}, "debate": {}, "veredicto": {},
	"verdict": {}, "tema": {}, "topic": {}, "lado": {}, "side": {},
}

var digitsOnly = regexp.MustCompile(`^[\d\s]+$`)

// ExtractDebateSources scans all finalized text (turns, summary, verdict
// reason) for hyperlinks and citation-like mentions.
func ExtractDebateSources(turns []models.Turn, summary, verdictReason string) DebateSources {
	blocks := make([]string, 0, len(turns)+2)
	for _, t := range turns {
		blocks = append(blocks, t.Text)
	}
	blocks = append(blocks, summary, verdictReason)

	links := make([]string, 0, maxSourceLinks)
	seenLinks := make(map[string]struct{})
	mentions := make([]string, 0, maxSourceMentions)
	seenMentions := make(map[string]struct{})

	for _, block := range blocks {
		if len(links)+len(mentions) >= maxSourceLinks+maxSourceMentions {
			break
		}
		collectLinks(block, &links, seenLinks)
		collectMentions(block, &mentions, seenMentions)
	}

	return DebateSources{
		Links:    links,
		Mentions: mentions,
		Count:    len(links) + len(mentions),
	}
}

func collectLinks(block string, links *[]string, seen map[string]struct{}) {
	for _, raw := range linkPattern.FindAllString(block, -1) {
		if len(*links) >= maxSourceLinks {
			return
		}
		cleaned := strings.TrimRight(raw, ".,;:!?'\"”»")
		u, err := url.Parse(cleaned)
		if err != nil || u.Host == "" {
			continue
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			continue
		}
		if _, dup := seen[cleaned]; dup {
			continue
		}
		seen[cleaned] = struct{}{}
		*links = append(*links, cleaned)
	}
}

func collectMentions(block string, mentions *[]string, seen map[string]struct{}) {
	add := func(text string) {
		if len(*mentions) >= maxSourceMentions {
			return
		}
		normalized := strings.Join(strings.Fields(text), " ")
		r := []rune(normalized)
		if len(r) > maxMentionDisplay {
			normalized = strings.TrimSpace(string(r[:maxMentionDisplay]))
		}
		if len([]rune(normalized)) < minMentionDisplay {
			return
		}
		if digitsOnly.MatchString(normalized) {
			return
		}
		key := strings.ToLower(normalized)
		if _, stop := mentionStopwords[key]; stop {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		*mentions = append(*mentions, normalized)
	}

	for _, pattern := range citationPatterns {
		for _, m := range pattern.FindAllStringSubmatch(block, -1) {
			add(m[1])
		}
	}
	for _, m := range entityYearPattern.FindAllStringSubmatch(block, -1) {
		entity := strings.TrimSpace(m[1])
		if containsStopword(entity) {
			continue
		}
		add(entity + " " + m[2])
	}
}

func containsStopword(entity string) bool {
	for _, word := range strings.Fields(entity) {
		if _, stop := mentionStopwords[strings.ToLower(word)]; stop {
			return true
		}
	}
	return false
}
