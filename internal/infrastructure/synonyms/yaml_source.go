package synonyms

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"RegistryLinker/internal/ports"
)

// YAMLSource loads the curated alias table from a YAML mapping of
// variant name to preferred form. A missing file yields an empty table:
// harmonization is optional, not an error.
type YAMLSource struct {
	path string
}

var _ ports.SynonymSource = (*YAMLSource)(nil)

// NewYAMLSource points the source at a table file.
func NewYAMLSource(path string) *YAMLSource {
	return &YAMLSource{path: path}
}

// Load reads the table once per run.
func (s *YAMLSource) Load(ctx context.Context) (map[string]string, error) {
	if s.path == "" {
		return map[string]string{}, nil
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read synonyms %s: %w", s.path, err)
	}

	table := map[string]string{}
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse synonyms %s: %w", s.path, err)
	}

	return table, nil
}
