package parser

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Descriptor is the YAML sidecar that names a prompt and declares its skill
// associations. Fragments are embedded into the prompt in order; references
// are pointed at but not inlined.
type Descriptor struct {
	Name        string   `yaml:"name"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Author      string   `yaml:"author"`
	Date        string   `yaml:"date"`
	Fragments   []string `yaml:"fragments"`
	References  []string `yaml:"references"`
}

// ParseDescriptor parses a prompt descriptor. Unlike frontmatter there is no
// fallback: a descriptor that does not parse is a broken config file.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parser: descriptor: %w", err)
	}
	return &d, nil
}
