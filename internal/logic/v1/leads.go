package v1

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/leadforge/leadgen-service/internal/core/domain"
	"github.com/leadforge/leadgen-service/middleware"
)

// Mock data pools for generated contacts.
var (
	leadFirstNames = []string{
		"John", "Sarah", "Michael", "Emily", "David",
		"Lisa", "Robert", "Jennifer", "William", "Amanda",
	}
	leadLastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones",
		"Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
	}
	companyTypes   = []string{"Tech", "Solutions", "Systems", "Group", "Corp", "Inc", "LLC"}
	companyDomains = []string{"tech", "solutions", "systems", "corp", "inc"}
)

const defaultLeadCount = 5

// LeadService produces mock prospect lists. It stands in for the real
// lead-sourcing backend during demos; the shapes match the real one.
type LeadService struct {
	rng *rand.Rand
}

// NewLeadService creates a LeadService seeded with the given source.
// Pass a fixed-seed source in tests for reproducible output.
func NewLeadService(rng *rand.Rand) *LeadService {
	return &LeadService{rng: rng}
}

// Generate builds n mock leads for the requested niche, each with a
// ready-to-send outreach email.
func (s *LeadService) Generate(ctx context.Context, req domain.LeadRequest) (*domain.LeadResponse, error) {
	_, span := middleware.StartSpan(ctx, "leads.generate", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("leads.niche", req.Niche),
	))
	defer span.End()

	if req.Size == "" || req.Niche == "" || req.NoOf == "" ||
		req.Designation == "" || req.GeospatialArea == "" || req.Service == "" {
		return nil, validationErr("Missing required fields")
	}

	count, err := strconv.Atoi(req.NoOf)
	if err != nil || count <= 0 {
		count = defaultLeadCount
	}

	leads := make([]domain.Lead, 0, count)
	for i := 0; i < count; i++ {
		firstName := pick(s.rng, leadFirstNames)
		lastName := pick(s.rng, leadLastNames)
		companyType := pick(s.rng, companyTypes)
		companyDomain := pick(s.rng, companyDomains)

		companyName := fmt.Sprintf("%s %s %d", req.Niche, companyType, i+1)
		email := fmt.Sprintf("%s.%s@%s%s.com",
			strings.ToLower(firstName),
			strings.ToLower(lastName),
			strings.ReplaceAll(strings.ToLower(req.Niche), " ", ""),
			companyDomain,
		)
		phone := fmt.Sprintf("+1-555-%04d", s.rng.Intn(9000)+1000)

		leads = append(leads, domain.Lead{
			Name:        firstName + " " + lastName,
			Email:       email,
			PhoneNumber: phone,
			Subject:     fmt.Sprintf("%s Partnership Opportunity for %s", req.Service, companyName),
			Body:        leadEmailBody(req, firstName, companyName),
		})
	}

	base := strings.ReplaceAll(strings.Join([]string{
		req.Size, req.Niche, req.Designation, req.GeospatialArea, req.Service,
	}, "_"), " ", "_")

	span.SetAttributes(attribute.Int("leads.count", len(leads)))

	return &domain.LeadResponse{
		Success:           true,
		Message:           "Leads generated successfully",
		EmailsCount:       len(leads),
		Emails:            leads,
		ContactsFilePath:  fmt.Sprintf("output/%s_contacts.json", base),
		CompaniesFilePath: fmt.Sprintf("output/%s_companies.json", base),
	}, nil
}

func pick(rng *rand.Rand, items []string) string {
	return items[rng.Intn(len(items))]
}

func leadEmailBody(req domain.LeadRequest, firstName, companyName string) string {
	return fmt.Sprintf(`Hi %s,

I hope this email finds you well. I'm reaching out regarding our %s services that could significantly benefit %s companies like %s in the %s market.

As a %s, I believe you'd be interested in learning how we've helped similar %s companies in your industry achieve:

• Increased operational efficiency
• Enhanced market presence
• Improved customer satisfaction
• Measurable ROI within the first quarter

Would you be available for a brief 15-minute conversation this week to explore how our %s solutions could specifically benefit %s?

I'd be happy to share some relevant case studies from other %s companies we've worked with in %s.

Best regards,
Your Sales Team

P.S. I've attached a brief overview of our recent success stories in the %s sector.`,
		firstName, req.Service, req.Niche, companyName, req.GeospatialArea,
		req.Designation, req.Size,
		req.Service, companyName,
		req.Niche, req.GeospatialArea,
		req.Niche,
	)
}
