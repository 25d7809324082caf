// Package yamldir walks content directories of YAML files.
package yamldir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsYAML reports whether name has a .yaml or .yml extension.
func IsYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

// Files returns the paths of every .yaml/.yml file directly inside dir, in
// name order. Subdirectories are skipped.
//
// Precondition: dir must be a readable directory.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %q: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsYAML(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// Each calls fn with the path and contents of every file Files returns. It
// stops at the first error.
func Each(dir string, fn func(path string, data []byte) error) error {
	paths, err := Files(dir)
	if err != nil {
		return err
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		if err := fn(path, data); err != nil {
			return err
		}
	}
	return nil
}
