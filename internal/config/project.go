package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Project is the optional `flux.yaml` project manifest: the entry-point
// source file and the search path consulted for `import "path";`
// resolution, per SPEC_FULL.md's DOMAIN STACK table (grounded on
// funvibe-funxy/internal/ext's own funxy.yaml, simplified down from its
// Go-binding-generation fields to the two Flux actually needs — import
// resolution itself stays an opaque external collaborator, spec.md §1).
type Project struct {
	Entry      string   `yaml:"entry"`
	ImportPath []string `yaml:"import_path,omitempty"`
}

// ParseProject parses a flux.yaml document.
func ParseProject(data []byte, filename string) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if p.Entry == "" {
		return nil, fmt.Errorf("%s: missing required field 'entry'", filename)
	}
	return &p, nil
}

// LoadProject reads and parses path, returning (nil, nil) if the file
// does not exist — flux.yaml is optional; the CLI falls back to its
// single source-file argument.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return ParseProject(data, path)
}
