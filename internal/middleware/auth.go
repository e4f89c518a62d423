package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/citizenvoice/assistant/pkg/utils"
)

// Authenticator maps a presented bearer token to a user identity. Token
// issuance is handled elsewhere; the gateway only consumes tokens.
type Authenticator interface {
	UserFor(token string) (string, bool)
}

// StaticAuthenticator resolves tokens against a fixed table, loaded from
// configuration.
type StaticAuthenticator map[string]string

// UserFor implements Authenticator.
func (a StaticAuthenticator) UserFor(token string) (string, bool) {
	user, ok := a[token]
	return user, ok
}

type contextKey string

const userIDKey contextKey = "userID"

// UserID extracts the authenticated identity set by RequireAuth.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// RequireAuth rejects requests without a resolvable bearer token and stores
// the user identity on the request context.
func RequireAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				utils.RespondError(w, http.StatusUnauthorized, "no token provided")
				return
			}
			userID, ok := auth.UserFor(token)
			if !ok {
				utils.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
