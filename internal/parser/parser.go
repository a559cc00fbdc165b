// Package parser extracts frontmatter and metadata from Markdown skill and
// prompt documents.
package parser

import (
	"bytes"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultCategory is assigned to skills that live outside a categorised
// skills directory.
const DefaultCategory = "uncategorized"

// Doc holds the parsed pieces of a Markdown document.
type Doc struct {
	Frontmatter map[string]interface{}
	Body        string
	Title       string
	Description string
	Author      string
}

// Parse extracts frontmatter and lifted metadata from raw Markdown bytes.
func Parse(data []byte) (*Doc, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	return &Doc{
		Frontmatter: fm,
		Body:        body,
		Title:       deriveTitle(fm, body),
		Description: stringField(fm, "description"),
		Author:      stringField(fm, "author"),
	}, nil
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. If no frontmatter is found the entire content is body.
func splitFrontmatter(data []byte) (map[string]interface{}, string, error) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data), nil
	}

	// Find end delimiter.
	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter: treat everything as body.
		return nil, string(data), nil
	}

	yamlBlock := rest[:idx]
	// Body starts after closing delimiter line.
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]interface{}
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		// Invalid YAML: fall back to treating the whole file as body.
		return nil, string(data), nil
	}

	return fm, body, nil
}

// deriveTitle returns the frontmatter "title" if present, otherwise the first
// H1 heading, otherwise empty string.
func deriveTitle(fm map[string]interface{}, body string) string {
	if t := stringField(fm, "title"); t != "" {
		return t
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

// stringField reads a string-valued frontmatter key, returning "" when the
// key is absent or holds a non-string value.
func stringField(fm map[string]interface{}, key string) string {
	if fm == nil {
		return ""
	}
	if v, ok := fm[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// Classification is the category and base name derived from a skill path.
type Classification struct {
	Category string
	Name     string
}

// Classify derives category and name from a slash-separated document path.
// skillsDir is the library-relative skills root; the category is the
// slash-joined run of directories strictly between it and the filename.
// Documents directly inside skillsDir, or outside it, get DefaultCategory.
// The name is the filename without its extension.
func Classify(p, skillsDir string) Classification {
	clean := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	file := path.Base(clean)
	name := strings.TrimSuffix(file, path.Ext(file))

	category := DefaultCategory
	root := path.Clean(strings.ReplaceAll(skillsDir, "\\", "/"))
	if root != "." && strings.HasPrefix(clean, root+"/") {
		if between := path.Dir(strings.TrimPrefix(clean, root+"/")); between != "." {
			category = between
		}
	}

	return Classification{Category: category, Name: name}
}

// EstimateTokens approximates the token count of content as len/4,
// truncating. Good enough for budgeting; not a real tokenizer.
func EstimateTokens(content string) int {
	return len(content) / 4
}
