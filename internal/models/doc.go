// Package models defines the domain types shared across Ansuz layers.
package models

import "time"

// DocKind distinguishes the two indexed document types.
type DocKind string

const (
	KindSkill  DocKind = "skill"
	KindPrompt DocKind = "prompt"
)

// FileMeta is a lightweight description of one library file returned by
// list operations.
type FileMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}
