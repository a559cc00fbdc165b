package api

import (
	"github.com/starford/ansuz/internal/index"
)

// SkillDetail is the full skill response type (aliased from the index layer).
type SkillDetail = index.SkillRow

// PromptDetail is the full prompt response type including its skill links
// (aliased from the index layer).
type PromptDetail = index.PromptDetail

// StatsResponse is the aggregate library stats payload (aliased from the index layer).
type StatsResponse = index.LibraryStats

// SkillListResponse wraps skill listings.
type SkillListResponse struct {
	Skills []index.SkillRow `json:"skills" validate:"required"`
	Total  int              `json:"total" example:"42" validate:"required"`
}

// PromptListResponse wraps prompt listings.
type PromptListResponse struct {
	Prompts []index.PromptRow `json:"prompts" validate:"required"`
	Total   int               `json:"total" example:"7" validate:"required"`
}

// SkillSearchResponse wraps full-text skill search hits.
type SkillSearchResponse struct {
	Results []index.SkillHit `json:"results" validate:"required"`
}

// PromptSearchResponse wraps full-text prompt search hits.
type PromptSearchResponse struct {
	Results []index.PromptHit `json:"results" validate:"required"`
}

// CategoryListResponse wraps the derived category aggregate.
type CategoryListResponse struct {
	Categories []index.CategoryCount `json:"categories" validate:"required"`
}
