package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/leadforge/leadgen-service/config"
	"github.com/leadforge/leadgen-service/internal/core/domain"
	"github.com/leadforge/leadgen-service/internal/logger"
	"github.com/leadforge/leadgen-service/middleware"
)

// Credential shape checks, applied before any outbound call so obviously
// broken configuration fails without burning an API request.
var (
	twilioSIDPattern   = regexp.MustCompile(`^AC[a-zA-Z0-9]{32}$`)
	twilioTokenPattern = regexp.MustCompile(`^[a-zA-Z0-9]{32}$`)
	e164Pattern        = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
	ultravoxKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9]{8}\.[a-zA-Z0-9]{32}$`)
)

const (
	defaultUltravoxURL = "https://api.ultravox.ai/api/calls"
	defaultTwilioBase  = "https://api.twilio.com"

	defaultVoice        = "Mark"
	defaultTemperature  = 0.3
	defaultVoiceModel   = "fixie-ai/ultravox"
	defaultSystemPrompt = "Hello! I'm calling regarding your business inquiry. I'd like to discuss how our services can help you generate more leads and grow your business. Is this a good time to talk?"
)

// VoiceService bridges the dashboard to the Ultravox voice-AI and Twilio
// telephony APIs: one call to mint an Ultravox join URL, then one Twilio
// call that streams the phone leg into it.
type VoiceService struct {
	cfg    *config.VoiceConfig
	client *http.Client

	// Overridable in tests.
	ultravoxURL string
	twilioBase  string
}

// NewVoiceService creates a VoiceService using the production API
// endpoints.
func NewVoiceService(cfg *config.VoiceConfig) *VoiceService {
	return &VoiceService{
		cfg:         cfg,
		client:      &http.Client{Timeout: 30 * time.Second},
		ultravoxURL: defaultUltravoxURL,
		twilioBase:  defaultTwilioBase,
	}
}

type ultravoxCallConfig struct {
	SystemPrompt         string         `json:"systemPrompt"`
	Model                string         `json:"model"`
	Voice                string         `json:"voice"`
	Temperature          float64        `json:"temperature"`
	FirstSpeakerSettings map[string]any `json:"firstSpeakerSettings"`
	Medium               map[string]any `json:"medium"`
}

type ultravoxResponse struct {
	JoinURL string `json:"joinUrl"`
}

type twilioCallResponse struct {
	SID string `json:"sid"`
}

// Call initiates an outbound voice AI call: Ultravox first, then Twilio.
func (s *VoiceService) Call(ctx context.Context, req domain.VoiceCallRequest) (*domain.VoiceCallResult, error) {
	ctx, span := middleware.StartSpan(ctx, "voice.call", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	if err := s.validateConfig(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if req.PhoneNumber == "" {
		return nil, validationErr("Phone number is required")
	}
	if !e164Pattern.MatchString(req.PhoneNumber) {
		return nil, validationErr("Invalid destination number. Must be in E.164 format (e.g., +1234567890)")
	}

	prompt := req.SystemPrompt
	if prompt == "" {
		prompt = defaultSystemPrompt
	}

	joinURL, err := s.createUltravoxCall(ctx, ultravoxCallConfig{
		SystemPrompt:         prompt,
		Model:                defaultVoiceModel,
		Voice:                defaultVoice,
		Temperature:          defaultTemperature,
		FirstSpeakerSettings: map[string]any{"user": map[string]any{}},
		Medium:               map[string]any{"twilio": map[string]any{}},
	})
	if err != nil {
		span.RecordError(err)
		log.Error().Err(err).Str("failure_class", classifyVoiceError(err)).Msg("Ultravox call creation failed")
		return nil, fmt.Errorf("create ultravox call: %w", err)
	}

	callSID, err := s.createTwilioCall(ctx, req.PhoneNumber, joinURL)
	if err != nil {
		span.RecordError(err)
		log.Error().Err(err).Str("failure_class", classifyVoiceError(err)).Msg("Twilio call creation failed")
		return nil, fmt.Errorf("create twilio call: %w", err)
	}

	span.SetAttributes(attribute.String("voice.call_sid", callSID))
	log.Info().Str("call_sid", callSID).Str("to", req.PhoneNumber).Msg("Voice AI call initiated")

	return &domain.VoiceCallResult{
		Success:           true,
		CallSID:           callSID,
		DestinationNumber: req.PhoneNumber,
		FromNumber:        s.cfg.TwilioPhoneNumber,
		UltravoxJoinURL:   joinURL,
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// validateConfig checks that every credential is present and shaped
// right. All problems are reported at once.
func (s *VoiceService) validateConfig() error {
	checks := []struct {
		name    string
		value   string
		pattern *regexp.Regexp
	}{
		{"TWILIO_ACCOUNT_SID", s.cfg.TwilioAccountSID, twilioSIDPattern},
		{"TWILIO_AUTH_TOKEN", s.cfg.TwilioAuthToken, twilioTokenPattern},
		{"TWILIO_PHONE_NUMBER", s.cfg.TwilioPhoneNumber, e164Pattern},
		{"ULTRAVOX_API_KEY", s.cfg.UltravoxAPIKey, ultravoxKeyPattern},
	}

	var problems []string
	for _, check := range checks {
		switch {
		case check.value == "":
			problems = append(problems, check.name+" is not set")
		case !check.pattern.MatchString(check.value):
			problems = append(problems, check.name+" format appears invalid")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrVoiceConfig, strings.Join(problems, "; "))
	}
	return nil
}

func (s *VoiceService) createUltravoxCall(ctx context.Context, cfg ultravoxCallConfig) (string, error) {
	body, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode call config: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.ultravoxURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", s.cfg.UltravoxAPIKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("ultravox request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read ultravox response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ultravox API status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed ultravoxResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode ultravox response: %w", err)
	}
	if parsed.JoinURL == "" {
		return "", fmt.Errorf("no joinUrl received from Ultravox API")
	}

	return parsed.JoinURL, nil
}

func (s *VoiceService) createTwilioCall(ctx context.Context, to, joinURL string) (string, error) {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls.json", s.twilioBase, s.cfg.TwilioAccountSID)

	form := url.Values{}
	form.Set("Twiml", fmt.Sprintf(`<Response><Connect><Stream url="%s"/></Connect></Response>`, joinURL))
	form.Set("To", to)
	form.Set("From", s.cfg.TwilioPhoneNumber)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.SetBasicAuth(s.cfg.TwilioAccountSID, s.cfg.TwilioAuthToken)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("twilio request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read twilio response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized {
			return "", fmt.Errorf("twilio authentication failed: status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("twilio API status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed twilioCallResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode twilio response: %w", err)
	}
	if parsed.SID == "" {
		return "", fmt.Errorf("no call sid received from Twilio API")
	}

	return parsed.SID, nil
}

// classifyVoiceError buckets a failure for the structured log line.
func classifyVoiceError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "authentication"), strings.Contains(msg, "status 401"):
		return "authentication"
	case strings.Contains(msg, "phone number"):
		return "phone_number"
	case strings.Contains(msg, "ultravox"):
		return "ultravox_api"
	case strings.Contains(msg, "twilio"):
		return "twilio_api"
	default:
		return "unknown"
	}
}
