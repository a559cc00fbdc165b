// Package output renders command results as JSON or human-readable text.
//
// Every result is a tagged Record. JSON rendering works for any record;
// human rendering is an open registry keyed by the record's tag, so new
// record types plug in without touching the dispatch.
package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// Mode selects the rendering format.
type Mode string

const (
	ModeJSON  Mode = "json"
	ModeHuman Mode = "human"
)

// ResolveMode applies the precedence: --json beats --human beats the config
// default; when nothing is set, JSON wins.
func ResolveMode(jsonFlag, humanFlag bool, configDefault string) Mode {
	switch {
	case jsonFlag:
		return ModeJSON
	case humanFlag:
		return ModeHuman
	case configDefault == string(ModeHuman):
		return ModeHuman
	default:
		return ModeJSON
	}
}

// Record is a renderable command result. ResultType returns the tag that
// names the record's shape, carried in the JSON as the "type" field.
type Record interface {
	ResultType() string
}

// HumanFunc writes one record in human-readable form.
type HumanFunc func(w io.Writer, rec Record) error

// Registry maps record tags to human formatters.
type Registry struct {
	human map[string]HumanFunc
}

// NewRegistry returns an empty registry; records render as JSON until
// formatters are registered.
func NewRegistry() *Registry {
	return &Registry{human: make(map[string]HumanFunc)}
}

// Register installs the human formatter for a tag, replacing any previous one.
func (r *Registry) Register(tag string, fn HumanFunc) {
	r.human[tag] = fn
}

// Render writes rec to w. Human mode uses the registered formatter for the
// record's tag; JSON mode, or a tag without a formatter, falls back to
// indented JSON.
func (r *Registry) Render(w io.Writer, mode Mode, rec Record) error {
	if mode == ModeHuman {
		if fn, ok := r.human[rec.ResultType()]; ok {
			return fn(w, rec)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("output: encode %s: %w", rec.ResultType(), err)
	}
	return nil
}
