package auth

import (
	"encoding/base64"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsignedToken builds a structurally valid token with a garbage
// signature from a raw JSON payload.
func unsignedToken(payload string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return header + "." + body + ".sig"
}

func TestParseUnverified(t *testing.T) {
	future := time.Now().Add(time.Hour).Unix()
	past := time.Now().Add(-time.Hour).Unix()

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{
			name:  "valid payload",
			token: unsignedToken(`{"userId":5,"email":"u@v.com","exp":` + itoa(future) + `}`),
		},
		{
			name:  "no exp claim is tolerated",
			token: unsignedToken(`{"userId":5,"email":"u@v.com"}`),
		},
		{
			name:    "expired",
			token:   unsignedToken(`{"userId":5,"email":"u@v.com","exp":` + itoa(past) + `}`),
			wantErr: true,
		},
		{
			name:    "missing userId",
			token:   unsignedToken(`{"email":"u@v.com"}`),
			wantErr: true,
		},
		{
			name:    "missing email",
			token:   unsignedToken(`{"userId":5}`),
			wantErr: true,
		},
		{
			name:    "two segments",
			token:   "aaaa.bbbb",
			wantErr: true,
		},
		{
			name:    "four segments",
			token:   "a.b.c.d",
			wantErr: true,
		},
		{
			name:    "payload not base64",
			token:   "head.!!!.sig",
			wantErr: true,
		},
		{
			name:    "payload not json",
			token:   "head." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".sig",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ParseUnverified(tt.token)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 5, claims.UserID)
			assert.Equal(t, "u@v.com", claims.Email)
		})
	}
}

func TestParseUnverifiedAcceptsRealToken(t *testing.T) {
	m, err := NewManager("edge-secret")
	require.NoError(t, err)

	token, err := m.Issue(11, "real@token.com")
	require.NoError(t, err)

	claims, err := ParseUnverified(token)
	require.NoError(t, err)
	assert.Equal(t, 11, claims.UserID)
	assert.Equal(t, "real@token.com", claims.Email)
	assert.Greater(t, claims.Exp, time.Now().Unix())
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
