package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/example/veyara-realtime/internal/auth"
	"github.com/example/veyara-realtime/internal/domain/user"
)

// ActorResolver verifies a credential and returns the actor behind it
type ActorResolver interface {
	Resolve(ctx context.Context, token string) (user.Actor, error)
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// ExtractToken extracts the credential from the handshake query, the
// Authorization header or the access_token cookie, in that order
func ExtractToken(r *http.Request) string {
	// Socket clients cannot set headers from the browser
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}

type contextKey string

const (
	ActorContextKey contextKey = "actor"
)

// AuthMiddleware resolves the request credential and adds the actor to context
func AuthMiddleware(resolver ActorResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := resolver.Resolve(r.Context(), ExtractToken(r))
			if err != nil {
				if auth.IsAuthError(err) {
					respondError(w, "Authentication error: "+err.Error(), http.StatusUnauthorized)
					return
				}
				log.Printf("[API] Failed to resolve credential: %v", err)
				respondError(w, "internal error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), ActorContextKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetActorFromContext retrieves the resolved actor from the request context
func GetActorFromContext(ctx context.Context) (user.Actor, bool) {
	actor, ok := ctx.Value(ActorContextKey).(user.Actor)
	return actor, ok
}
