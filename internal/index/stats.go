package index

import "fmt"

// LibraryStats summarizes what the index currently holds.
type LibraryStats struct {
	Skills         int64           `json:"skills"`
	Prompts        int64           `json:"prompts"`
	Fragments      int64           `json:"fragments"`
	Plans          int64           `json:"plans"`
	Categories     int64           `json:"categories"`
	TotalSizeBytes int64           `json:"total_size_bytes"`
	TotalTokens    int64           `json:"total_tokens"`
	ByCategory     []CategoryCount `json:"by_category,omitempty"`
}

// Stats counts rows and sums sizes across the index.
func (db *DB) Stats() (*LibraryStats, error) {
	var s LibraryStats
	for _, c := range []struct {
		query string
		dest  *int64
	}{
		{`SELECT count(*) FROM skills`, &s.Skills},
		{`SELECT count(*) FROM prompts`, &s.Prompts},
		{`SELECT count(*) FROM prompt_fragments`, &s.Fragments},
		{`SELECT count(*) FROM plans`, &s.Plans},
		{`SELECT count(DISTINCT category) FROM skills`, &s.Categories},
		{`SELECT COALESCE(SUM(size_bytes), 0) FROM
			(SELECT size_bytes FROM skills UNION ALL SELECT size_bytes FROM prompts)`, &s.TotalSizeBytes},
		{`SELECT COALESCE(SUM(token_count), 0) FROM
			(SELECT token_count FROM skills UNION ALL SELECT token_count FROM prompts)`, &s.TotalTokens},
	} {
		if err := db.conn.QueryRow(c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("index: stats: %w", err)
		}
	}

	byCat, err := db.Categories()
	if err != nil {
		return nil, err
	}
	s.ByCategory = byCat
	return &s, nil
}
