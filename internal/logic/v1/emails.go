package v1

import (
	"context"
	"fmt"
	"math/rand"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/leadforge/leadgen-service/internal/core/domain"
	"github.com/leadforge/leadgen-service/middleware"
)

// successRate is the simulated probability that a message is delivered.
const successRate = 0.85

// EmailService simulates outreach delivery. No mail leaves the process;
// per-recipient outcomes are drawn at the configured success rate so the
// dashboard can exercise its partial-failure handling.
type EmailService struct {
	rng *rand.Rand
}

// NewEmailService creates an EmailService seeded with the given source.
func NewEmailService(rng *rand.Rand) *EmailService {
	return &EmailService{rng: rng}
}

// Send walks the batch and records a simulated outcome per recipient.
func (s *EmailService) Send(ctx context.Context, req domain.EmailRequest) (*domain.EmailResponse, error) {
	_, span := middleware.StartSpan(ctx, "emails.send", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("emails.batch_size", len(req.Emails)),
	))
	defer span.End()

	if req.SenderEmail == "" || req.SenderPassword == "" || len(req.Emails) == 0 {
		return nil, validationErr("Missing required fields")
	}

	results := make([]domain.EmailResult, 0, len(req.Emails))
	var sent, failed int

	for _, msg := range req.Emails {
		if s.rng.Float64() < successRate {
			results = append(results, domain.EmailResult{
				Email:   msg.Email,
				Name:    msg.Name,
				Status:  "success",
				Message: "Email sent successfully",
			})
			sent++
		} else {
			results = append(results, domain.EmailResult{
				Email:   msg.Email,
				Name:    msg.Name,
				Status:  "failed",
				Message: "Failed to send email - SMTP connection error",
			})
			failed++
		}
	}

	span.SetAttributes(
		attribute.Int("emails.sent", sent),
		attribute.Int("emails.failed", failed),
	)

	return &domain.EmailResponse{
		Success:     true,
		Message:     fmt.Sprintf("Email sending completed. Sent: %d, Failed: %d", sent, failed),
		SentCount:   sent,
		FailedCount: failed,
		Results:     results,
	}, nil
}
