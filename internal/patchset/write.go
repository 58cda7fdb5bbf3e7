package patchset

import (
	"fmt"
	"os"
	"path/filepath"
)

// Filename returns the numbered filename for a patch in the series
func Filename(number int, label string) string {
	return fmt.Sprintf("%04d-%s.patch", number, label)
}

// Write materializes a patch series into dir with sequential numbering
// starting at start, replacing any existing contents
func Write(patches []Patch, dir string, start int) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clearing patch directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating patch directory: %w", err)
	}

	current := start
	for _, p := range patches {
		path := filepath.Join(dir, Filename(current, p.Label))
		if err := os.WriteFile(path, []byte(p.Content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		current++
	}

	return nil
}
