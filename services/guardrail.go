package services

import (
	"regexp"
	"strings"
)

// TopicCheck is the guardrail result for a proposed debate topic.
type TopicCheck struct {
	Allowed bool
	Reason  string
}

// minTopicLength is the minimum length of a sanitized topic, in runes.
const minTopicLength = 5

// blockedPhrases are exact substrings (matched case-insensitively on the
// trimmed topic) that reject a topic outright. The phrase and pattern
// content mirrors the content policy; the mechanism here is the contract.
var blockedPhrases = []string{
	"cómo hacer una bomba",
	"how to make a bomb",
	"cómo fabricar un arma",
	"how to build a gun",
	"suicidarse",
	"kill yourself",
}

// blockedPatterns cover violence, child exploitation, hate/extremism and
// weapon-building intent, in both UI languages.
var blockedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(matar|asesinar|torturar)\b.*\b(gente|personas|alguien)\b`),
	regexp.MustCompile(`(?i)\b(kill|murder|torture)\b.*\b(people|someone|children)\b`),
	regexp.MustCompile(`(?i)\b(niñ[oa]s?|menores|child|children|minors?)\b.*\b(sexual|porn|explotaci[oó]n|abuso|abuse)\b`),
	regexp.MustCompile(`(?i)\b(genocidio|genocide|limpieza étnica|ethnic cleansing|exterminio racial)\b`),
	regexp.MustCompile(`(?i)\b(c[oó]mo\s+(fabricar|construir|hacer)|how\s+to\s+(build|make|manufacture))\b.*\b(explosivo|bomba|arma|bomb|explosive|weapon|firearm)\b`),
}

// SanitizeTopic trims the topic, collapses internal whitespace runs to single
// spaces and truncates to maxLen runes. The result is stable under repeated
// application.
func SanitizeTopic(topic string, maxLen int) string {
	s := strings.Join(strings.Fields(topic), " ")
	if maxLen > 0 {
		r := []rune(s)
		if len(r) > maxLen {
			s = strings.TrimSpace(string(r[:maxLen]))
		}
	}
	return s
}

// CheckTopic decides whether a (sanitized) topic may be debated. Pure; the
// caller sanitizes first.
func CheckTopic(topic string) TopicCheck {
	trimmed := strings.TrimSpace(topic)
	lower := strings.ToLower(trimmed)

	if len([]rune(trimmed)) < minTopicLength {
		return TopicCheck{Allowed: false, Reason: "El tema es demasiado corto"}
	}
	for _, phrase := range blockedPhrases {
		if strings.Contains(lower, phrase) {
			return TopicCheck{Allowed: false, Reason: "El tema contiene contenido no permitido"}
		}
	}
	for _, pattern := range blockedPatterns {
		if pattern.MatchString(trimmed) {
			return TopicCheck{Allowed: false, Reason: "El tema infringe las normas de contenido"}
		}
	}
	return TopicCheck{Allowed: true}
}
