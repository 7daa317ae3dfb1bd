package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/leadforge/leadgen-service/internal/auth"
)

// Context keys set by RequireAuth for downstream handlers.
const (
	ContextUserIDKey    = "auth_user_id"
	ContextUserEmailKey = "auth_user_email"
)

// Identity headers mirrored onto the request for the protected handlers.
const (
	UserIDHeader    = "x-user-id"
	UserEmailHeader = "x-user-email"
)

// RequireAuth guards protected page routes. It uses the unverified edge
// parse of the session token: enough to route a browser to the login
// page, NOT enough to authorize any read or write of user data; those
// must go through the full verifier in the auth service. On an invalid
// token the stale cookie is cleared before redirecting.
func RequireAuth(cookies *auth.CookiePolicy, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := cookies.Token(c)
		if err != nil {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}

		claims, err := auth.ParseUnverified(token)
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Warn().
				Str("path", c.Request.URL.Path).
				Msg("Invalid session token, clearing cookie")
			cookies.Clear(c)
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUserEmailKey, claims.Email)
		c.Header(UserIDHeader, strconv.Itoa(claims.UserID))
		c.Header(UserEmailHeader, claims.Email)

		c.Next()
	}
}

// RedirectIfAuthenticated keeps logged-in users off the auth-entry pages
// (login, signup) by bouncing them to the protected area. An absent or
// invalid cookie just falls through to the page.
func RedirectIfAuthenticated(cookies *auth.CookiePolicy, homePath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := cookies.Token(c)
		if err != nil {
			c.Next()
			return
		}

		if _, err := auth.ParseUnverified(token); err == nil {
			c.Redirect(http.StatusFound, homePath)
			c.Abort()
			return
		}

		c.Next()
	}
}
