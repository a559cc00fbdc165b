package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/ansuz/internal/library"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *library.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Skills. The static /skills/search route wins over the wildcard,
	// so a skill path can never shadow search.
	r.Get("/skills", h.ListSkills)
	r.Get("/skills/search", h.SearchSkills)
	r.Get("/skills/*", h.GetSkill)

	// Prompts.
	r.Get("/prompts", h.ListPrompts)
	r.Get("/prompts/search", h.SearchPrompts)
	r.Get("/prompts/{name}", h.GetPrompt)

	// Aggregates.
	r.Get("/categories", h.Categories)
	r.Get("/stats", h.Stats)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
