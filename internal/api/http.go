package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/dashbot/internal/metrics"
)

const maxRequestBodySize = 1 << 20 // 1MB

// RouterDeps holds what the top-level router needs.
type RouterDeps struct {
	Chat ChatDeps
}

// NewRouter composes the public routes: health and metrics without auth,
// the chatbot API under /api/chatbot.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(metrics.Middleware)

	r.Get("/health", handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Mount("/api/chatbot", NewChatHandler(deps.Chat))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}
