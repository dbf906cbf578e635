package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/example/veyara-realtime/internal/api/middleware"
)

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	Socket   *SocketHandler
	Resolver middleware.ActorResolver
	Health   HealthChecker
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /ws", middleware.AuthMiddleware(cfg.Resolver)(cfg.Socket))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if cfg.Health != nil {
			if err := cfg.Health.Ping(ctx); err != nil {
				log.Printf("[API] Health check failed: %v", err)
				respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return withLogging(mux)
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Println("[API]", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
