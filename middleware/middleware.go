package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/wanderstay/tourauth"
)

type contextKey struct{}

var userKey contextKey

// UserFromContext returns the authenticated user injected by [Protect] or
// [OptionalUser], if any.
func UserFromContext(ctx context.Context) (*tourauth.UserRecord, bool) {
	user, ok := ctx.Value(userKey).(*tourauth.UserRecord)
	return user, ok
}

// Protect is the hard authentication gate. It resolves the access token
// from the Authorization header (falling back to the configured cookie),
// authenticates it against the engine, injects the user into the request
// context, and rejects the request with a JSON error otherwise.
func Protect(engine *tourauth.Engine) func(http.Handler) http.Handler {
	cookieName := engine.Config().Cookie.AccessName

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := withClientInfo(r)

			user, err := engine.Authenticate(ctx, ExtractToken(r, cookieName))
			if err != nil {
				writeError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, userKey, user)))
		})
	}
}

// OptionalUser is the soft variant of [Protect] used on public pages: it
// injects the user when a valid token is present and otherwise lets the
// request through anonymously. It never writes an error.
func OptionalUser(engine *tourauth.Engine) func(http.Handler) http.Handler {
	cookieName := engine.Config().Cookie.AccessName

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := withClientInfo(r)

			if user, err := engine.Authenticate(ctx, ExtractToken(r, cookieName)); err == nil {
				ctx = context.WithValue(ctx, userKey, user)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles gates an already-protected route on the user's role. Routes
// without an injected user are rejected as unauthenticated, so ordering
// after [Protect] is not load-bearing for safety.
func RequireRoles(engine *tourauth.Engine, roles ...tourauth.Role) func(http.Handler) http.Handler {
	allowed := tourauth.NewRoleSet(roles...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeError(w, tourauth.ErrTokenMissing)
				return
			}

			if err := engine.Authorize(user, allowed); err != nil {
				writeError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ExtractToken pulls the access token from the Authorization header
// ("Bearer <token>") or, failing that, from the named cookie. Returns the
// empty string when neither carries one.
func ExtractToken(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}

	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil {
			return c.Value
		}
	}

	return ""
}

func withClientInfo(r *http.Request) context.Context {
	ctx := r.Context()

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	ctx = tourauth.WithClientIP(ctx, host)

	return tourauth.WithUserAgent(ctx, r.UserAgent())
}

func writeError(w http.ResponseWriter, err error) {
	code := tourauth.HTTPStatus(err)

	status := "fail"
	if code >= http.StatusInternalServerError {
		status = "error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  status,
		"message": err.Error(),
	})
}
