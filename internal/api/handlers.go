package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/library"
)

// Handler holds API route handlers.
type Handler struct {
	svc *library.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *library.Service) *Handler {
	return &Handler{svc: svc}
}

// skillKey extracts the skill path or name from the URL (everything after
// /api/skills/). Supports encoded slashes from OpenAPI clients
// (e.g. skills%2Fgo%2Ferrors.md).
func skillKey(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListSkills handles GET /api/skills.
//
//	@Summary		List indexed skills with optional category filter
//	@Tags			skills
//	@Produce		json
//	@Param			category	query		string	false	"Filter by category"
//	@Success		200			{object}	SkillListResponse
//	@Security		BearerAuth
//	@Router			/skills [get]
func (h *Handler) ListSkills(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	items, err := h.svc.ListSkills(r.Context(), category)
	if err != nil {
		slog.Error("list skills failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"skills": items,
		"total":  len(items),
	})
}

// GetSkill handles GET /api/skills/*.
//
//	@Summary		Get a single skill by path or unique name
//	@Tags			skills
//	@Produce		json
//	@Param			key	path		string	true	"Skill path or name"
//	@Success		200	{object}	SkillDetail
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/skills/{key} [get]
func (h *Handler) GetSkill(w http.ResponseWriter, r *http.Request) {
	key := skillKey(r)
	if key == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("skill path or name is required"))
		return
	}
	skill, err := h.svc.GetSkill(r.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, apperr.ErrInvalid):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		default:
			slog.Error("get skill failed", slog.String("key", key), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, skill)
}

// SearchSkills handles GET /api/skills/search.
//
//	@Summary		Full-text search across skills
//	@Tags			skills
//	@Produce		json
//	@Param			q			query		string	true	"Search query"
//	@Param			category	query		string	false	"Filter by category"
//	@Param			limit		query		int		false	"Max results"
//	@Success		200			{object}	SkillSearchResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/skills/search [get]
func (h *Handler) SearchSkills(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	category := r.URL.Query().Get("category")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := h.svc.SearchSkills(r.Context(), q, category, limit)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalid) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("skill search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// ListPrompts handles GET /api/prompts.
//
//	@Summary		List indexed prompts
//	@Tags			prompts
//	@Produce		json
//	@Success		200	{object}	PromptListResponse
//	@Security		BearerAuth
//	@Router			/prompts [get]
func (h *Handler) ListPrompts(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListPrompts(r.Context())
	if err != nil {
		slog.Error("list prompts failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"prompts": items,
		"total":   len(items),
	})
}

// GetPrompt handles GET /api/prompts/{name}.
//
//	@Summary		Get a single prompt with its embedded and reference skills
//	@Tags			prompts
//	@Produce		json
//	@Param			name	path		string	true	"Prompt name"
//	@Success		200		{object}	PromptDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/prompts/{name} [get]
func (h *Handler) GetPrompt(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("prompt name is required"))
		return
	}
	prompt, err := h.svc.GetPrompt(r.Context(), name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get prompt failed", slog.String("name", name), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, prompt)
}

// SearchPrompts handles GET /api/prompts/search.
//
//	@Summary		Full-text search across prompts
//	@Tags			prompts
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	PromptSearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/prompts/search [get]
func (h *Handler) SearchPrompts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := h.svc.SearchPrompts(r.Context(), q, limit)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalid) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("prompt search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// Categories handles GET /api/categories.
//
//	@Summary		List skill categories with document counts
//	@Tags			skills
//	@Produce		json
//	@Success		200	{object}	CategoryListResponse
//	@Security		BearerAuth
//	@Router			/categories [get]
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories(r.Context())
	if err != nil {
		slog.Error("categories failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": cats,
	})
}

// Stats handles GET /api/stats.
//
//	@Summary		Aggregate library statistics
//	@Tags			stats
//	@Produce		json
//	@Success		200	{object}	StatsResponse
//	@Security		BearerAuth
//	@Router			/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		slog.Error("stats failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
