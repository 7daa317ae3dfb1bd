// Package v1 contains the HTTP handlers for API version 1.
package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/leadforge/leadgen-service/internal/auth"
	"github.com/leadforge/leadgen-service/internal/core/domain"
	"github.com/leadforge/leadgen-service/internal/logger"
	logicv1 "github.com/leadforge/leadgen-service/internal/logic/v1"
	"github.com/leadforge/leadgen-service/middleware"
)

// Handler groups the auth HTTP handlers.
// Dependencies are injected via the constructor; no global state.
type Handler struct {
	auth    *logicv1.AuthService
	cookies *auth.CookiePolicy
}

// NewHandler creates a new Handler.
func NewHandler(authSvc *logicv1.AuthService, cookies *auth.CookiePolicy) *Handler {
	return &Handler{auth: authSvc, cookies: cookies}
}

// RegisterRoutes registers the auth routes on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/signup", h.Signup)
	rg.POST("/login", h.Login)
	rg.GET("/user", h.GetUser)
	rg.POST("/logout", h.Logout)
}

// Signup handles POST /auth/signup.
func (h *Handler) Signup(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.signup", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	var req domain.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	user, token, err := h.auth.Signup(ctx, req)
	if err != nil {
		span.RecordError(err)

		var ve *logicv1.ValidationError
		switch {
		case errors.As(err, &ve):
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
		case errors.Is(err, logicv1.ErrEmailExists):
			log.Warn().Err(err).Msg("Signup conflict")
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
		default:
			log.Error().Err(err).Msg("Signup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account. Please try again."})
		}
		return
	}

	h.cookies.Attach(c, token)

	log.Info().Int("user_id", user.ID).Msg("Account created")
	c.JSON(http.StatusCreated, domain.AuthResponse{
		Message: "Account created successfully",
		User:    user.Summary(),
	})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.login", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, token, err := h.auth.Login(ctx, req)
	if err != nil {
		span.RecordError(err)

		var ve *logicv1.ValidationError
		switch {
		case errors.As(err, &ve):
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
		case errors.Is(err, logicv1.ErrInvalidCredentials):
			// One body for unknown email and wrong password: no account
			// enumeration through error text.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		default:
			log.Error().Err(err).Msg("Login failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed. Please try again."})
		}
		return
	}

	h.cookies.Attach(c, token)

	log.Info().Int("user_id", user.ID).Msg("Login successful")
	c.JSON(http.StatusOK, domain.AuthResponse{
		Message: "Login successful",
		User:    user.Summary(),
	})
}

// GetUser handles GET /auth/user. Identity is resolved with the full
// token verifier, never the edge parse.
func (h *Handler) GetUser(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.get_user", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	token, err := h.cookies.Token(c)
	if err != nil {
		span.SetAttributes(attribute.Bool("auth.present", false))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No authentication token found"})
		return
	}

	user, err := h.auth.CurrentUser(ctx, token)
	if err != nil {
		span.RecordError(err)

		switch {
		case errors.Is(err, logicv1.ErrTokenInvalid):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		case errors.Is(err, logicv1.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			log.Error().Err(err).Msg("User lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user information"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout handles POST /auth/logout. It clears the cookie only; the token
// itself stays valid until expiry (no server-side revocation).
func (h *Handler) Logout(c *gin.Context) {
	h.cookies.Clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
