package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RefreshCookieName is the only client-side persistence of any token.
// The access token lives in frontend memory and is re-obtained via refresh.
const RefreshCookieName = "rt"

// RefreshCookiePath scopes the cookie to the auth endpoints.
const RefreshCookiePath = "/api/auth"

// CookieManager sets and clears the HttpOnly refresh-token cookie.
type CookieManager struct {
	Domain string
	Secure bool
	MaxAge time.Duration
}

func NewCookieManager(domain string, secure bool, maxAge time.Duration) *CookieManager {
	return &CookieManager{Domain: domain, Secure: secure, MaxAge: maxAge}
}

func (m *CookieManager) SetRefresh(c *gin.Context, refreshToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(RefreshCookieName, refreshToken, int(m.MaxAge.Seconds()), RefreshCookiePath, m.Domain, m.Secure, true)
}

func (m *CookieManager) ClearRefresh(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(RefreshCookieName, "", -1, RefreshCookiePath, m.Domain, m.Secure, true)
}
