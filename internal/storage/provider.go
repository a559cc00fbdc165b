// Package storage defines the library file-system abstraction.
package storage

import "github.com/starford/ansuz/internal/models"

// Provider is the interface for read access to library files. All paths are
// relative to the library root. The index is the single writer in this
// system; nothing mutates library files through this interface.
type Provider interface {
	// List returns metadata for every file under dir whose name ends with
	// ext, in lexical walk order. A dir that does not exist yields an empty
	// result, not an error.
	List(dir, ext string) ([]models.FileMeta, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Root returns the absolute library root directory.
	Root() string
}
