package ginhttp

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/wanderstay/tourauth"
	"github.com/wanderstay/tourauth/middleware"
)

const userContextKey = "tourauth.user"

// CurrentUser returns the user injected by [Handler.Protect] or
// [Handler.OptionalUser], if any.
func CurrentUser(c *gin.Context) (*tourauth.UserRecord, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*tourauth.UserRecord)
	return user, ok
}

// Protect is the hard authentication gate: requests without a valid access
// token are rejected before the handler runs.
func (h *Handler) Protect() gin.HandlerFunc {
	cookieName := h.engine.Config().Cookie.AccessName

	return func(c *gin.Context) {
		token := middleware.ExtractToken(c.Request, cookieName)

		user, err := h.engine.Authenticate(requestContext(c), token)
		if err != nil {
			writeError(c, err)
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// OptionalUser resolves the user when a valid token is present and lets the
// request through anonymously otherwise. For server-rendered public pages.
func (h *Handler) OptionalUser() gin.HandlerFunc {
	cookieName := h.engine.Config().Cookie.AccessName

	return func(c *gin.Context) {
		token := middleware.ExtractToken(c.Request, cookieName)

		if user, err := h.engine.Authenticate(requestContext(c), token); err == nil {
			c.Set(userContextKey, user)
		}

		c.Next()
	}
}

// RestrictTo gates an already-protected route on the user's role.
func (h *Handler) RestrictTo(roles ...tourauth.Role) gin.HandlerFunc {
	allowed := tourauth.NewRoleSet(roles...)

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			writeError(c, tourauth.ErrTokenMissing)
			return
		}

		if err := h.engine.Authorize(user, allowed); err != nil {
			writeError(c, err)
			return
		}

		c.Next()
	}
}

// requestContext decorates the request context with the client IP and user
// agent so engine audit events carry them.
func requestContext(c *gin.Context) context.Context {
	ctx := tourauth.WithClientIP(c.Request.Context(), c.ClientIP())
	return tourauth.WithUserAgent(ctx, c.Request.UserAgent())
}
