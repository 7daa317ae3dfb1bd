package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/leadforge/leadgen-service/internal/core/domain"
	"github.com/leadforge/leadgen-service/internal/logger"
	logicv1 "github.com/leadforge/leadgen-service/internal/logic/v1"
	"github.com/leadforge/leadgen-service/middleware"
)

// VoiceHandler serves the voice-call endpoint.
type VoiceHandler struct {
	voice *logicv1.VoiceService
}

// NewVoiceHandler creates a new VoiceHandler.
func NewVoiceHandler(voice *logicv1.VoiceService) *VoiceHandler {
	return &VoiceHandler{voice: voice}
}

// RegisterRoutes registers the voice routes on the given router group.
func (h *VoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/voice-call", h.VoiceCall)
}

// VoiceCall handles POST /api/voice-call.
func (h *VoiceHandler) VoiceCall(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.voice_call", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	var req domain.VoiceCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number is required"})
		return
	}

	result, err := h.voice.Call(ctx, req)
	if err != nil {
		span.RecordError(err)

		var ve *logicv1.ValidationError
		switch {
		case errors.As(err, &ve):
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
		case errors.Is(err, logicv1.ErrVoiceConfig):
			log.Error().Err(err).Msg("Voice call configuration invalid")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Configuration validation failed"})
		default:
			log.Error().Err(err).Msg("Voice call failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to make voice call"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
