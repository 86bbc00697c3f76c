package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"contendo/db"
	"contendo/models"
	"contendo/services"
)

// DebateController wires the debate endpoints to the orchestrator and store.
type DebateController struct {
	Service    *services.DebateService
	Store      *db.MongoDebateStore
	Production bool
}

func NewDebateController(service *services.DebateService, store *db.MongoDebateStore, production bool) *DebateController {
	return &DebateController{Service: service, Store: store, Production: production}
}

// CreateDebate handles POST /debates: the full generation pipeline.
func (dc *DebateController) CreateDebate(c *gin.Context) {
	userID := c.GetString("userId")

	var req services.CreateDebateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido."})
		return
	}

	result, err := dc.Service.CreateDebate(c.Request.Context(), userID, req)
	if err != nil {
		dc.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"debateId":  result.DebateID,
		"summary":   result.Summary,
		"verdict":   result.Verdict,
		"remaining": result.Remaining,
	})
}

// GetDebate handles GET /debates/:id, returning the record plus its turns.
// Private debates are only visible to their creator.
func (dc *DebateController) GetDebate(c *gin.Context) {
	userID := c.GetString("userId")
	id := c.Param("id")

	debate, err := dc.Store.GetDebate(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Debate no encontrado."})
			return
		}
		log.Printf("failed to load debate %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo cargar el debate."})
		return
	}
	if debate.Visibility == models.VisibilityPrivate && debate.CreatedBy != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "No tienes acceso a este debate."})
		return
	}

	turns, err := dc.Store.GetTurns(c.Request.Context(), id)
	if err != nil {
		log.Printf("failed to load turns for debate %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron cargar los turnos."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"debate": debate, "turns": turns})
}

// ListDebates handles GET /debates: the caller's debates, newest first.
func (dc *DebateController) ListDebates(c *gin.Context) {
	userID := c.GetString("userId")

	debates, err := dc.Store.ListDebatesByUser(c.Request.Context(), userID, 50)
	if err != nil {
		log.Printf("failed to list debates for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron cargar tus debates."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"debates": debates})
}

// LikeDebate handles POST /debates/:id/like.
func (dc *DebateController) LikeDebate(c *gin.Context) {
	id := c.Param("id")

	if err := dc.Store.IncrementLikes(c.Request.Context(), id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Debate no encontrado."})
			return
		}
		log.Printf("failed to like debate %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo registrar el me gusta."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetUsage handles GET /usage for the authenticated caller's current day.
func (dc *DebateController) GetUsage(c *gin.Context) {
	userID := c.GetString("userId")

	usage, err := dc.Service.GetUsage(c.Request.Context(), userID)
	if err != nil {
		dc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"used":      usage.Used,
		"limit":     usage.Limit,
		"remaining": usage.Remaining,
	})
}

// ListPersonas handles GET /personas: the fixed registry.
func (dc *DebateController) ListPersonas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"personas": services.ListPersonas()})
}

// respondError maps a service error onto an HTTP status and a user-safe
// payload. Raw detail is attached only outside production.
func (dc *DebateController) respondError(c *gin.Context, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		log.Printf("unclassified error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno. Inténtalo de nuevo."})
		return
	}

	payload := gin.H{"error": svcErr.Message}
	if !dc.Production && svcErr.Detail != "" {
		payload["detail"] = svcErr.Detail
	}

	status := http.StatusInternalServerError
	switch svcErr.Code {
	case services.CodeInvalidArgument:
		status = http.StatusBadRequest
	case services.CodeUnauthenticated:
		status = http.StatusUnauthorized
	case services.CodePermissionDenied:
		status = http.StatusForbidden
	case services.CodeNotFound:
		status = http.StatusNotFound
	case services.CodeAlreadyExists:
		status = http.StatusConflict
	case services.CodeResourceExhausted:
		status = http.StatusTooManyRequests
		payload["remaining"] = 0
		payload["resetAt"] = svcErr.ResetAt.UTC().Format(time.RFC3339)
	case services.CodeNotConfigured, services.CodeUnavailable:
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, payload)
}
