// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// fragmentFile is the YAML form of a fragment list.
type fragmentFile struct {
	Fragments []string `yaml:"fragments"`
}

// LoadFragments reads fragments from paths, in order. A directory
// contributes each .txt and .md file directly inside it, sorted by name.
// A .yaml or .yml file contributes its fragments list. Any other file is
// one fragment.
func LoadFragments(paths []string) ([]string, error) {
	var fragments []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("reading fragments from %s: %w", p, err)
		}

		if info.IsDir() {
			got, err := loadFragmentDir(p)
			if err != nil {
				return nil, err
			}
			fragments = append(fragments, got...)
			continue
		}

		got, err := loadFragmentFile(p)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, got...)
	}
	return fragments, nil
}

func loadFragmentDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading fragment directory %s: %w", dir, err)
	}

	var fragments []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading fragment %s: %w", entry.Name(), err)
		}
		fragments = append(fragments, string(data))
	}
	return fragments, nil
}

func loadFragmentFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fragment %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var ff fragmentFile
		if err := yaml.Unmarshal(data, &ff); err != nil {
			return nil, fmt.Errorf("parsing fragment file %s: %w", path, err)
		}
		return ff.Fragments, nil
	default:
		return []string{string(data)}, nil
	}
}
