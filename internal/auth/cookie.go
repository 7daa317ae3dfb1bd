package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "auth-token"

// cookieMaxAge matches TokenTTL.
const cookieMaxAge = int(TokenTTL / time.Second)

// CookiePolicy sets and clears the session cookie with a fixed attribute
// set: http-only, SameSite=Lax, secure in production.
type CookiePolicy struct {
	// Secure marks the cookie HTTPS-only. On in production.
	Secure bool
}

// Attach sets the session cookie on the response.
func (p *CookiePolicy) Attach(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, cookieMaxAge, "/", "", p.Secure, true)
}

// Clear deletes the session cookie. Used on logout and when the route
// guard finds an invalid token. The token itself stays cryptographically
// valid until it expires; only the browser's copy is removed.
func (p *CookiePolicy) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", p.Secure, true)
}

// Token reads the session cookie from the request.
func (p *CookiePolicy) Token(c *gin.Context) (string, error) {
	return c.Cookie(CookieName)
}
