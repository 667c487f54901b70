package handler

import (
	"errors"
	"net/http"
	"strconv"

	"raid-parser/internal/models"
	"raid-parser/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler handles HTTP requests.
type Handler struct {
	parser *service.Parser
	logger *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(parser *service.Parser, logger *zap.Logger) *Handler {
	return &Handler{parser: parser, logger: logger}
}

// ParseRequest is the body of POST /api/v1/parse.
type ParseRequest struct {
	Message string                 `json:"message" binding:"required"`
	Context *models.MessageContext `json:"context,omitempty"`
}

// ValidateRequest is the body of POST /api/v1/validate.
type ValidateRequest struct {
	Message string `json:"message" binding:"required"`
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.POST("/parse", h.Parse)
		api.POST("/validate", h.Validate)
		api.GET("/raids", h.GetRaids)
		api.GET("/raids/stats", h.GetStats)
	}
	r.GET("/health", h.HealthCheck)
}

// Parse turns one chat message into a structured raid record.
func (h *Handler) Parse(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.parser.Parse(c.Request.Context(), req.Message, req.Context)
	if err != nil {
		h.respondParseError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// respondParseError maps the error taxonomy onto HTTP statuses. Not-relevant
// gets its own status so bot frontends can stay silent instead of reporting
// a failure.
func (h *Handler) respondParseError(c *gin.Context, err error) {
	if errors.Is(err, models.ErrNotRaidRelated) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "not_raid_related",
			"confidence": 0,
		})
		return
	}

	var serviceErr *models.ServiceError
	if errors.As(err, &serviceErr) {
		h.logger.Error("Provider failure", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"error":    "provider_failure",
			"provider": serviceErr.Provider,
			"status":   serviceErr.StatusCode,
		})
		return
	}

	var parseErr *models.ParseError
	if errors.As(err, &parseErr) {
		h.logger.Error("Malformed model output", zap.Error(err), zap.String("raw", parseErr.Raw))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "malformed_model_output"})
		return
	}

	h.logger.Error("Parse failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "parse_failed"})
}

// Validate answers the lightweight relevance question.
func (h *Handler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	relevant := h.parser.Validate(c.Request.Context(), req.Message)
	c.JSON(http.StatusOK, gin.H{"relevant": relevant})
}

// GetRaids returns recently parsed records.
func (h *Handler) GetRaids(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	records, err := h.parser.Raids(limit)
	if err != nil {
		h.logger.Error("Failed to get raids", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get raids"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"raids": records,
		"total": len(records),
	})
}

// GetStats returns parse statistics.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.parser.Stats()
	if err != nil {
		h.logger.Error("Failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// HealthCheck returns service health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "raid-parser",
		"version": "1.0.0",
	})
}
