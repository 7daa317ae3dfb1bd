package v1

import (
	"errors"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/leadforge/leadgen-service/internal/core/domain"
	"github.com/leadforge/leadgen-service/internal/logger"
	logicv1 "github.com/leadforge/leadgen-service/internal/logic/v1"
	"github.com/leadforge/leadgen-service/middleware"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// LeadHandler serves the lead-generation and outreach endpoints.
type LeadHandler struct {
	leads  *logicv1.LeadService
	emails *logicv1.EmailService

	// backendURL is the upstream lead-sourcing backend proxied by the
	// history endpoints.
	backendURL string
	client     *http.Client
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(leads *logicv1.LeadService, emails *logicv1.EmailService, backendURL string) *LeadHandler {
	return &LeadHandler{
		leads:      leads,
		emails:     emails,
		backendURL: backendURL,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

// RegisterRoutes registers the lead routes on the given router group.
func (h *LeadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate-leads", h.GenerateLeads)
	rg.POST("/send-emails", h.SendEmails)
	rg.GET("/leads/today", h.LeadsToday)
	rg.GET("/leads/date/:date", h.LeadsByDate)
}

// GenerateLeads handles POST /api/generate-leads.
func (h *LeadHandler) GenerateLeads(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.generate_leads", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	var req domain.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.LeadResponse{
			Message: "Missing required fields", Emails: []domain.Lead{},
		})
		return
	}

	resp, err := h.leads.Generate(ctx, req)
	if err != nil {
		span.RecordError(err)

		var ve *logicv1.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, domain.LeadResponse{
				Message: ve.Error(), Emails: []domain.Lead{},
			})
			return
		}
		log.Error().Err(err).Msg("Lead generation failed")
		c.JSON(http.StatusInternalServerError, domain.LeadResponse{
			Message: "Internal server error", Emails: []domain.Lead{},
		})
		return
	}

	log.Info().Int("count", resp.EmailsCount).Msg("Leads generated")
	c.JSON(http.StatusOK, resp)
}

// SendEmails handles POST /api/send-emails.
func (h *LeadHandler) SendEmails(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.send_emails", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	var req domain.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.EmailResponse{
			Message: "Missing required fields", Results: []domain.EmailResult{},
		})
		return
	}

	resp, err := h.emails.Send(ctx, req)
	if err != nil {
		span.RecordError(err)

		var ve *logicv1.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, domain.EmailResponse{
				Message: ve.Error(), Results: []domain.EmailResult{},
			})
			return
		}
		log.Error().Err(err).Msg("Email batch failed")
		c.JSON(http.StatusInternalServerError, domain.EmailResponse{
			Message: "Internal server error", Results: []domain.EmailResult{},
		})
		return
	}

	log.Info().Int("sent", resp.SentCount).Int("failed", resp.FailedCount).Msg("Email batch completed")
	c.JSON(http.StatusOK, resp)
}

// LeadsToday handles GET /api/leads/today by proxying the upstream
// backend.
func (h *LeadHandler) LeadsToday(c *gin.Context) {
	h.proxyLeads(c, "/leads/today", "Failed to fetch today's leads")
}

// LeadsByDate handles GET /api/leads/date/:date.
func (h *LeadHandler) LeadsByDate(c *gin.Context) {
	date := c.Param("date")
	if !datePattern.MatchString(date) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "message": "Invalid date format. Use YYYY-MM-DD",
			"total_count": 0, "results": []any{},
		})
		return
	}
	h.proxyLeads(c, "/leads/date/"+date, "Failed to fetch leads for the specified date")
}

func (h *LeadHandler) proxyLeads(c *gin.Context, path, failureMessage string) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.leads_proxy", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("proxy.path", path),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.backendURL+path, nil)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false, "message": failureMessage, "total_count": 0, "results": []any{},
		})
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		span.RecordError(err)
		log.Error().Err(err).Str("path", path).Msg("Lead backend unreachable")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false, "message": failureMessage, "total_count": 0, "results": []any{},
		})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Str("path", path).Msg("Lead backend error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false, "message": failureMessage, "total_count": 0, "results": []any{},
		})
		return
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false, "message": failureMessage, "total_count": 0, "results": []any{},
		})
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}
