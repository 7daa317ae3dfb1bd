package v1

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/leadforge/leadgen-service/internal/auth"
	"github.com/leadforge/leadgen-service/internal/core/domain"
	"github.com/leadforge/leadgen-service/middleware"
)

// AuthService implements authentication business rules.
// It depends on the repository interface and the token manager (injected
// via constructor) and MUST NOT access the database or SQL directly.
type AuthService struct {
	users  domain.UserRepository
	tokens *auth.Manager
}

// NewAuthService creates a new AuthService with the given dependencies.
func NewAuthService(users domain.UserRepository, tokens *auth.Manager) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
	}
}

// normalizeEmail lowercases and trims an address. Applied before every
// store lookup and insert so "X@Y.com " and "x@y.com" are one account.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers a new user and mints a session token for it.
func (s *AuthService) Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, string, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.signup", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return nil, "", validationErr("All fields are required")
	}

	// Normalize before the shape check so a padded or mixed-case variant
	// of a registered address conflicts instead of failing validation.
	email := normalizeEmail(req.Email)
	if !isValidEmail(email) {
		return nil, "", validationErr("Please enter a valid email address")
	}
	if !isValidPassword(req.Password) {
		return nil, "", validationErr("Password must be at least 8 characters long and contain at least one letter and one number")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		return nil, "", fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		span.SetAttributes(attribute.Bool("signup.success", false))
		return nil, "", fmt.Errorf("signup %q: %w", email, ErrEmailExists)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		span.RecordError(err)
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	row, err := s.users.Create(ctx, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), email, passwordHash)
	if err != nil {
		// A concurrent signup may win between the pre-check and the
		// insert; the unique constraint settles it.
		if errors.Is(err, domain.ErrDuplicateEmail) {
			span.SetAttributes(attribute.Bool("signup.success", false))
			return nil, "", fmt.Errorf("signup %q: %w", email, ErrEmailExists)
		}
		span.RecordError(err)
		return nil, "", fmt.Errorf("insert user: %w", err)
	}

	token, err := s.tokens.Issue(row.ID, row.Email)
	if err != nil {
		span.RecordError(err)
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	user := row.Sanitize()
	span.SetAttributes(
		attribute.Int("user.id", user.ID),
		attribute.Bool("signup.success", true),
	)
	span.AddEvent("user.registered")

	return &user, token, nil
}

// Login authenticates an existing user and mints a session token.
// An unknown email and a wrong password both return ErrInvalidCredentials
// so the two cases are indistinguishable from the outside.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if req.Email == "" || req.Password == "" {
		return nil, "", validationErr("Email and password are required")
	}

	email := normalizeEmail(req.Email)
	if !isValidEmail(email) {
		return nil, "", validationErr("Please enter a valid email address")
	}

	row, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		return nil, "", fmt.Errorf("query user: %w", err)
	}
	if row == nil || !auth.VerifyPassword(req.Password, row.PasswordHash) {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, "", fmt.Errorf("authenticate %q: %w", email, ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(row.ID, row.Email)
	if err != nil {
		span.RecordError(err)
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	user := row.Sanitize()
	span.SetAttributes(
		attribute.Int("user.id", user.ID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")

	return &user, token, nil
}

// CurrentUser resolves the identity behind a session token using the
// full cryptographic verifier (the edge parser is never trusted here).
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.current_user", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	claims, err := s.tokens.Verify(token)
	if err != nil {
		span.SetAttributes(attribute.Bool("token.valid", false))
		return nil, fmt.Errorf("verify token: %w", ErrTokenInvalid)
	}

	row, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %d: %w", claims.UserID, err)
	}
	if row == nil {
		return nil, fmt.Errorf("user %d: %w", claims.UserID, ErrUserNotFound)
	}

	user := row.Sanitize()
	span.SetAttributes(
		attribute.Int("user.id", user.ID),
		attribute.Bool("token.valid", true),
	)

	return &user, nil
}
