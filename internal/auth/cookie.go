package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie carrying the signed session credential.
const SessionCookieName = "zenbild_token"

// SetSessionCookie attaches the session credential to the response:
// HTTP-only, secure, lax cross-site policy, scoped to the whole site,
// max-age matching the credential's lifetime.
func SetSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(ttl.Seconds()), "/", "", true, true)
}
