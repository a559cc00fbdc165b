package index

// DefaultSearchLimit caps result counts when the caller does not pick one.
const DefaultSearchLimit = 50

// SkillHit is one skill search result. Rank orders hits best first; with the
// FTS5 build it is the bm25 score (lower is better), with the fallback it is
// always zero.
type SkillHit struct {
	Path     string  `json:"path"`
	Category string  `json:"category"`
	Name     string  `json:"name"`
	Title    string  `json:"title,omitempty"`
	Snippet  string  `json:"snippet,omitempty"`
	Rank     float64 `json:"rank"`
}

// PromptHit is one prompt search result.
type PromptHit struct {
	Name    string  `json:"name"`
	Title   string  `json:"title,omitempty"`
	Snippet string  `json:"snippet,omitempty"`
	Rank    float64 `json:"rank"`
}
