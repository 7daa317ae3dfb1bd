// Package auth implements the session credential machinery: password
// hashing, session token issuance and verification, and the session
// cookie policy.
//
// Two token verifiers exist with deliberately different guarantees.
// Manager.Verify checks the HMAC signature and expiry and is the source
// of truth for anything that reads or writes user data. ParseUnverified
// (edge.go) decodes without a signature check and gates route
// redirection only. Never swap one for the other.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the session token lifetime, matched to the cookie max-age.
const TokenTTL = 7 * 24 * time.Hour

var (
	// ErrMissingSecret indicates the signing secret was absent at
	// construction. This is a startup failure, never a per-request one.
	ErrMissingSecret = errors.New("token signing secret is not set")

	// ErrInvalidToken is returned for every verification failure,
	// whether malformed structure, bad signature, or expiry. Callers cannot
	// distinguish the reason, so clients learn nothing about why a
	// token was rejected.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the session token payload: the authenticated user's identity
// plus the registered expiry claim.
type Claims struct {
	UserID int    `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Manager issues and verifies signed session tokens.
type Manager struct {
	secret []byte
}

// NewManager creates a token Manager. It refuses an empty secret so a
// misconfigured process fails at boot rather than minting unverifiable
// tokens.
func NewManager(secret string) (*Manager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Manager{secret: []byte(secret)}, nil
}

// Issue mints an HS256-signed session token for the given user, expiring
// TokenTTL from now.
func (m *Manager) Issue(userID int, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks the token signature and expiry in one step and returns
// the decoded claims. Every failure maps to ErrInvalidToken.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 || claims.Email == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
