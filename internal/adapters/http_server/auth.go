package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"service_review/internal/adapters/observability"
	"service_review/internal/auth"
	"service_review/internal/domain"
)

// CookieName is the transport for the identity token.
const CookieName = "token"

type ctxKey int

const identityKey ctxKey = 0

// IdentityFrom returns the verified identity attached by RequireAuth.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(domain.Identity)
	return id, ok
}

// RequireAuth verifies the token cookie before the guarded handler runs.
// Any failure — missing cookie or invalid token — terminates the request
// here with the same 401 body; the handler is never reached.
func RequireAuth(v domain.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := verifyCookie(v, r)
			if err != nil {
				observability.ObserveAuthFailure("unauthorized")
				writeMessage(w, http.StatusUnauthorized, "unauthorized access")
				return
			}
			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), identityKey, id)))
		})
	}
}

// RequireOwner is RequireAuth plus an ownership check against the {email}
// path segment. A valid token for a different identity gets 403 and the
// guarded handler (and any store behind it) is never invoked.
func RequireOwner(v domain.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := verifyCookie(v, r)
			if err != nil {
				observability.ObserveAuthFailure("unauthorized")
				writeMessage(w, http.StatusUnauthorized, "unauthorized access")
				return
			}
			if id.Email != chi.URLParam(r, "email") {
				observability.ObserveAuthFailure("forbidden")
				writeMessage(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), identityKey, id)))
		})
	}
}

func verifyCookie(v domain.TokenVerifier, r *http.Request) (domain.Identity, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return domain.Identity{}, auth.ErrMissingToken
	}
	return v.Verify(c.Value)
}

// setAuthCookie writes the identity cookie. Browsers only send cross-site
// cookies with SameSite=None + Secure, so that pair is the production shape;
// dev keeps Lax so plain-http localhost still works.
func setAuthCookie(w http.ResponseWriter, token, appEnv string) {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(auth.Validity),
	}
	if appEnv == "dev" || appEnv == "development" {
		c.SameSite = http.SameSiteLaxMode
	} else {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, c)
}

func clearAuthCookie(w http.ResponseWriter, appEnv string) {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	}
	if appEnv == "dev" || appEnv == "development" {
		c.SameSite = http.SameSiteLaxMode
	} else {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, c)
}
