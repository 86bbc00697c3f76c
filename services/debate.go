package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"contendo/config"
	"contendo/models"
)

// DebateStore is the persistence surface the orchestrator needs. The Mongo
// implementation lives in package db; tests use an in-memory fake.
type DebateStore interface {
	// CreateDebate inserts a new record with create-if-absent semantics and
	// returns ErrDebateExists when the id is already taken.
	CreateDebate(ctx context.Context, debate *models.Debate) error
	AppendTurn(ctx context.Context, turn *models.Turn) error
	// FinalizeDebate flips a running debate to done with its results.
	FinalizeDebate(ctx context.Context, id string, final DebateFinalization) error
	// FailDebate flips a running debate to error with the raw message.
	FailDebate(ctx context.Context, id string, message string) error
}

// DebateFinalization is the single closing update of a successful debate.
type DebateFinalization struct {
	Summary        string
	Verdict        models.Verdict
	Metrics        models.Metrics
	SourceLinks    []string
	SourceMentions []string
	SourceCount    int
}

// CreateDebateRequest is the inbound debate-creation payload after binding.
type CreateDebateRequest struct {
	Topic          string `json:"topic"`
	PersonaA       string `json:"personaA"`
	PersonaB       string `json:"personaB"`
	Visibility     string `json:"visibility"`
	ClientDebateID string `json:"clientDebateId"`
}

// CreateDebateResult is returned to the caller on success.
type CreateDebateResult struct {
	DebateID  string         `json:"debateId"`
	Summary   string         `json:"summary"`
	Verdict   models.Verdict `json:"verdict"`
	Remaining int            `json:"remaining"`
}

var clientDebateIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,120}$`)

// DebateService drives the full generation pipeline for one debate:
// validation, quota, record creation, six turns, verdict, source extraction
// and finalization.
type DebateService struct {
	store     DebateStore
	limiter   RateLimiter
	generator Generator

	language       string
	maxTopicLength int
	totalBudget    time.Duration

	now   func() time.Time
	newID func() string
}

func NewDebateService(store DebateStore, limiter RateLimiter, generator Generator, cfg *config.Config) *DebateService {
	return &DebateService{
		store:          store,
		limiter:        limiter,
		generator:      generator,
		language:       cfg.Debate.Language,
		maxTopicLength: cfg.Debate.MaxTopicLength,
		totalBudget:    time.Duration(cfg.Debate.TotalBudgetSec) * time.Second,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

// CreateDebate runs the whole state machine. Validation and quota failures
// reject before any record exists; once the running record is created, any
// failure flips it to error and the categorized cause is returned.
func (s *DebateService) CreateDebate(ctx context.Context, userID string, req CreateDebateRequest) (*CreateDebateResult, error) {
	if userID == "" {
		return nil, &Error{Code: CodeUnauthenticated, Message: "Debes iniciar sesión para crear un debate."}
	}

	if strings.TrimSpace(req.Topic) == "" {
		return nil, invalidArgument("Falta el tema del debate.")
	}
	personaA, okA := GetPersona(req.PersonaA)
	personaB, okB := GetPersona(req.PersonaB)
	if !okA || !okB {
		return nil, invalidArgument("Alguna de las personas seleccionadas no existe.")
	}
	if personaA.ID == personaB.ID {
		return nil, invalidArgument("Las dos personas del debate deben ser distintas.")
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	if visibility != models.VisibilityPublic && visibility != models.VisibilityPrivate {
		return nil, invalidArgument("Visibilidad inválida: usa public o private.")
	}

	topic := SanitizeTopic(req.Topic, 0)
	if len([]rune(topic)) > s.maxTopicLength {
		return nil, invalidArgument(fmt.Sprintf("El tema supera el máximo de %d caracteres.", s.maxTopicLength))
	}
	if check := CheckTopic(topic); !check.Allowed {
		return nil, invalidArgument(check.Reason)
	}

	if req.ClientDebateID != "" && !clientDebateIDPattern.MatchString(req.ClientDebateID) {
		return nil, invalidArgument("El identificador de debate debe tener entre 8 y 120 caracteres alfanuméricos, guiones o guiones bajos.")
	}

	quota, err := s.limiter.CheckRateLimit(ctx, userID)
	if err != nil {
		return nil, &Error{
			Code:    CodeInternal,
			Message: "No se pudo comprobar tu cuota diaria. Inténtalo de nuevo.",
			Detail:  err.Error(),
		}
	}
	if !quota.Allowed {
		return nil, &Error{
			Code:    CodeResourceExhausted,
			Message: "Has alcanzado el límite diario de debates. Vuelve a intentarlo mañana.",
			ResetAt: quota.ResetAt,
		}
	}

	id := req.ClientDebateID
	if id == "" {
		id = s.newID()
	}

	debate := &models.Debate{
		ID:         id,
		CreatedAt:  s.now(),
		CreatedBy:  userID,
		Topic:      topic,
		Mode:       models.ModeDebate,
		PersonaA:   personaA.ID,
		PersonaB:   personaB.ID,
		Status:     models.StatusRunning,
		Visibility: visibility,
		Language:   s.language,
	}
	if err := s.store.CreateDebate(ctx, debate); err != nil {
		if errors.Is(err, ErrDebateExists) {
			return nil, &Error{
				Code:    CodeAlreadyExists,
				Message: "Ya existe un debate con ese identificador; tu petición anterior puede estar en curso o completada.",
			}
		}
		return nil, &Error{
			Code:    CodeInternal,
			Message: "No se pudo crear el debate. Inténtalo de nuevo.",
			Detail:  err.Error(),
		}
	}

	final, err := s.runPipeline(ctx, debate, personaA, personaB)
	if err != nil {
		s.failDebate(debate.ID, err)
		return nil, MapUpstreamError(err)
	}

	return &CreateDebateResult{
		DebateID:  debate.ID,
		Summary:   final.Summary,
		Verdict:   final.Verdict,
		Remaining: quota.Remaining,
	}, nil
}

// runPipeline generates the six turns, the verdict, extracts sources and
// finalizes the record. The debate document itself is not touched between
// creation and the single closing update; turns are only visible through
// their own collection until then.
func (s *DebateService) runPipeline(ctx context.Context, debate *models.Debate, personaA, personaB models.Persona) (*DebateFinalization, error) {
	ctx, cancel := context.WithTimeout(ctx, s.totalBudget)
	defer cancel()

	started := s.now()
	var metrics models.Metrics
	turns := make([]models.Turn, 0, TotalTurns)

	for idx := 0; idx < TotalTurns; idx++ {
		speaker := SpeakerForTurn(idx)
		prompt := BuildTurnPrompt(debate.Topic, personaA, personaB, speaker, idx, turns, debate.Language)

		result, err := s.generator.Generate(ctx, GenerateRequest{Prompt: prompt})
		if err != nil {
			return nil, fmt.Errorf("turn %d generation failed: %w", idx, err)
		}
		text := NormalizeTurnText(result.Text)
		if text == "" {
			return nil, fmt.Errorf("turn %d produced empty text (model %s)", idx, result.ModelUsed)
		}

		metrics.PromptChars += len([]rune(prompt))
		metrics.OutputChars += len([]rune(text))
		metrics.Model = result.ModelUsed

		turn := models.Turn{
			DebateID:  debate.ID,
			Idx:       idx,
			Speaker:   speaker,
			Text:      text,
			CreatedAt: s.now(),
		}
		if err := s.store.AppendTurn(ctx, &turn); err != nil {
			return nil, fmt.Errorf("failed to persist turn %d: %w", idx, err)
		}
		turns = append(turns, turn)
	}

	verdictPrompt := BuildSummaryVerdictPrompt(debate.Topic, personaA, personaB, turns, debate.Language)
	result, err := s.generator.Generate(ctx, GenerateRequest{Prompt: verdictPrompt, Schema: summaryVerdictSchema()})
	if err != nil {
		return nil, fmt.Errorf("verdict generation failed: %w", err)
	}
	metrics.PromptChars += len([]rune(verdictPrompt))
	metrics.OutputChars += len([]rune(result.Text))
	metrics.Model = result.ModelUsed

	parsed := ParseSummaryVerdict(result.Text)
	if parsed == nil {
		return nil, fmt.Errorf("verdict response is not a valid summary/verdict object (model %s)", result.ModelUsed)
	}

	sources := ExtractDebateSources(turns, parsed.Summary, parsed.Verdict.Reason)
	metrics.LatencyMs = s.now().Sub(started).Milliseconds()

	final := DebateFinalization{
		Summary:        parsed.Summary,
		Verdict:        parsed.Verdict,
		Metrics:        metrics,
		SourceLinks:    sources.Links,
		SourceMentions: sources.Mentions,
		SourceCount:    sources.Count,
	}
	if err := s.store.FinalizeDebate(ctx, debate.ID, final); err != nil {
		return nil, fmt.Errorf("failed to finalize debate: %w", err)
	}
	return &final, nil
}

// failDebate records the raw failure on the debate document. It runs on a
// fresh context because the pipeline context may already be expired, and a
// failed update is only logged: the original error is what the caller sees.
func (s *DebateService) failDebate(debateID string, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.store.FailDebate(ctx, debateID, cause.Error()); err != nil {
		log.Printf("failed to mark debate %s as error: %v (original error: %v)", debateID, err, cause)
	}
}

// GetUsage exposes the read-only quota view for the usage endpoint.
func (s *DebateService) GetUsage(ctx context.Context, userID string) (Usage, error) {
	if userID == "" {
		return Usage{}, &Error{Code: CodeUnauthenticated, Message: "Debes iniciar sesión."}
	}
	return s.limiter.GetUsage(ctx, userID)
}
