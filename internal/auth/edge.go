package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// EdgeClaims is the payload recovered by ParseUnverified. Unlike Claims,
// the values are NOT backed by a verified signature.
type EdgeClaims struct {
	UserID int    `json:"userId"`
	Email  string `json:"email"`
	Exp    int64  `json:"exp"`
}

// ParseUnverified decodes a session token without checking its
// signature. It enforces only structure (three dot-separated segments),
// payload shape (userId and email present) and expiry.
//
// Reduced trust: a forged payload with a garbage signature passes this
// check. That is acceptable for coarse route gating, where the worst
// outcome is rendering a redirect, and nothing else. Any operation tied
// to a user's data must go through Manager.Verify instead.
func ParseUnverified(tokenString string) (*EdgeClaims, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return nil, ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, ErrInvalidToken
	}

	var claims EdgeClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrInvalidToken
	}

	if claims.Exp != 0 && claims.Exp < time.Now().Unix() {
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 || claims.Email == "" {
		return nil, ErrInvalidToken
	}

	return &claims, nil
}
