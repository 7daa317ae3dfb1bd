package v1

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/leadforge/leadgen-service/config"
	"github.com/leadforge/leadgen-service/internal/core/domain"
	logicv1 "github.com/leadforge/leadgen-service/internal/logic/v1"
)

func newVoiceRouter(cfg *config.VoiceConfig) *gin.Engine {
	handler := NewVoiceHandler(logicv1.NewVoiceService(cfg))
	router := gin.New()
	handler.RegisterRoutes(router.Group("/api"))
	return router
}

func TestVoiceCallEndpointValidation(t *testing.T) {
	router := newVoiceRouter(&config.VoiceConfig{
		TwilioAccountSID:  "AC00000000000000000000000000000000",
		TwilioAuthToken:   "00000000000000000000000000000000",
		TwilioPhoneNumber: "+15550001111",
		UltravoxAPIKey:    "00000000.00000000000000000000000000000000",
	})

	// Missing phone number.
	w := postJSON(t, router, "/api/voice-call", domain.VoiceCallRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Phone number is required")

	// Malformed phone number.
	w = postJSON(t, router, "/api/voice-call", domain.VoiceCallRequest{PhoneNumber: "555-1234"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "E.164")
}

func TestVoiceCallEndpointBadConfig(t *testing.T) {
	router := newVoiceRouter(&config.VoiceConfig{})

	w := postJSON(t, router, "/api/voice-call", domain.VoiceCallRequest{PhoneNumber: "+12223334444"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// Credential details never reach the client.
	assert.Contains(t, w.Body.String(), "Configuration validation failed")
	assert.NotContains(t, w.Body.String(), "TWILIO")
}
