package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/ariefcatur/go-restaurant-pos.git/internal/auth"
)

type ctxKey int

const userKey ctxKey = iota

// AuthMiddleware parses the bearer token and loads the user for the request.
type AuthMiddleware struct {
	Issuer *auth.TokenIssuer
	Users  *auth.Repo
}

func (a *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" || raw == r.Header.Get("Authorization") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := a.Issuer.Parse(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "could not validate credentials")
			return
		}
		u, err := a.Users.GetByUsername(r.Context(), claims.Username)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "could not validate credentials")
			return
		}
		if !u.IsActive {
			writeError(w, http.StatusBadRequest, "inactive user")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

// RequireRole guards a route behind RequireUser for the given roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := map[string]bool{}
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := UserFrom(r.Context())
			if u == nil || !allowed[u.Role] {
				writeError(w, http.StatusForbidden, "access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func UserFrom(ctx context.Context) *auth.User {
	u, _ := ctx.Value(userKey).(*auth.User)
	return u
}
