package middleware

import (
	"context"
	"net/http"

	"horizon/internal/domain/user"
)

type ContextKey string

const PrincipalKey ContextKey = "principal"

// PrincipalResolver resolves a session token into a Principal, or nil when
// the session is absent or invalid.
type PrincipalResolver interface {
	Resolve(ctx context.Context, sessionToken string) *user.Principal
}

// Session authenticates requests by exchanging the session cookie with the
// identity vendor. The token flows as an explicit argument into the
// resolver; no ambient session state. Requests without a resolvable
// principal get a 401 JSON body.
func Session(cookieName string, resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(cookieName); err == nil {
				token = cookie.Value
			}

			principal := resolver.Resolve(r.Context(), token)
			if principal == nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (*user.Principal, bool) {
	principal, ok := ctx.Value(PrincipalKey).(*user.Principal)
	return principal, ok
}
