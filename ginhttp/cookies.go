package ginhttp

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wanderstay/tourauth"
)

// loggedOutValue is what the cookies carry after logout. The engine treats
// it as an absent token.
const loggedOutValue = "loggedout"

func (h *Handler) setSessionCookies(c *gin.Context, session *tourauth.Session) {
	cfg := h.engine.Config()

	setCookie(c, cfg, cfg.Cookie.AccessName, session.AccessToken, cfg.Cookie.TTL)
	setCookie(c, cfg, cfg.Cookie.RefreshName, session.RefreshToken, cfg.Cookie.TTL)
}

func (h *Handler) clearSessionCookies(c *gin.Context) {
	cfg := h.engine.Config()

	// Short-lived placeholder rather than a deletion, so stale browsers
	// overwrite their copy instead of resending the old token.
	setCookie(c, cfg, cfg.Cookie.AccessName, loggedOutValue, 10*time.Second)
	setCookie(c, cfg, cfg.Cookie.RefreshName, loggedOutValue, 10*time.Second)
}

func setCookie(c *gin.Context, cfg tourauth.Config, name, value string, ttl time.Duration) {
	path := cfg.Cookie.Path
	if path == "" {
		path = "/"
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   cfg.Cookie.Domain,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl / time.Second),
		Secure:   cfg.Security.RequireSecureCookies || cfg.Security.ProductionMode,
		HttpOnly: true,
		SameSite: cfg.Security.SameSitePolicy,
	})
}
