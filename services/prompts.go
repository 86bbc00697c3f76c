package services

import (
	"fmt"
	"strings"

	"contendo/models"
)

// TotalTurns is the fixed length of the generated debate script.
const TotalTurns = 6

const (
	turnMinWords = 80
	turnMaxWords = 160
)

// SpeakerForTurn maps a turn index to its speaker: even -> A, odd -> B.
func SpeakerForTurn(idx int) string {
	if idx%2 == 0 {
		return "A"
	}
	return "B"
}

func languageDirective(language string) string {
	switch language {
	case "es":
		return "Responde íntegramente en español."
	case "en":
		return "Respond entirely in English."
	default:
		return fmt.Sprintf("Respond entirely in the language with ISO code %q.", language)
	}
}

// formatTurnHistory renders prior turns as a transcript, or an explicit
// empty marker so the model never invents a history.
func formatTurnHistory(personaA, personaB models.Persona, turns []models.Turn) string {
	if len(turns) == 0 {
		return "(sin turnos previos — este es el primer turno del debate)"
	}
	var sb strings.Builder
	for _, t := range turns {
		name := personaA.Name
		if t.Speaker == "B" {
			name = personaB.Name
		}
		sb.WriteString(fmt.Sprintf("Turno %d — %s (%s): %s\n", t.Idx+1, name, t.Speaker, t.Text))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// BuildTurnPrompt renders the prompt for one debate turn. Pure and
// deterministic: the same inputs always produce the same string.
func BuildTurnPrompt(topic string, personaA, personaB models.Persona, speaker string, turnNumber int, priorTurns []models.Turn, language string) string {
	active, counterpart := personaA, personaB
	otherSide := "B"
	if speaker == "B" {
		active, counterpart = personaB, personaA
		otherSide = "A"
	}

	return fmt.Sprintf(
		`Estás participando en un debate estructurado sobre el tema: "%s".
%s

Eres %s (lado %s). Tu estilo de argumentación:
%s

Tu oponente es %s (lado %s), cuyo estilo es:
%s
Marca contraste con ese estilo sin imitarlo.

Historial del debate hasta ahora:
%s

Este es el turno %d de %d. Instrucciones estrictas:
- Escribe únicamente tu intervención como %s, sin acotaciones ni diálogo del oponente.
- Entre %d y %d palabras.
- Texto corrido, sin markdown, sin listas, sin encabezados.
- Responde a los puntos del oponente cuando exista historial; si es el primer turno, presenta tu posición.`,
		topic,
		languageDirective(language),
		active.Name, speaker,
		active.Style,
		counterpart.Name, otherSide,
		counterpart.Style,
		formatTurnHistory(personaA, personaB, priorTurns),
		turnNumber+1, TotalTurns,
		active.Name,
		turnMinWords, turnMaxWords,
	)
}

// BuildSummaryVerdictPrompt renders the closing prompt that asks for a
// strict-JSON summary plus verdict over the full transcript.
func BuildSummaryVerdictPrompt(topic string, personaA, personaB models.Persona, allTurns []models.Turn, language string) string {
	return fmt.Sprintf(
		`Actúa como juez imparcial de un debate sobre: "%s".
%s

Participantes:
- Lado A: %s — %s
- Lado B: %s — %s

Transcripción completa:
%s

Evalúa la solidez de los argumentos, no tu opinión sobre el tema. Devuelve EXCLUSIVAMENTE un objeto JSON con esta forma exacta, sin texto adicional ni marcas de código:
{
  "summary": "resumen breve del debate (2-4 frases)",
  "verdict": {
    "winner": "A" | "B" | "draw",
    "reason": "justificación concreta del fallo"
  }
}`,
		topic,
		languageDirective(language),
		personaA.Name, personaA.Description,
		personaB.Name, personaB.Description,
		formatTurnHistory(personaA, personaB, allTurns),
	)
}
