package patchset

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kernelforge/kforge/internal/common/git"
)

// labelUnsafe matches runs of characters not allowed in a patch filename label
var labelUnsafe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sequencePrefix matches a leading NNNN- numbering on an upstream patch name
var sequencePrefix = regexp.MustCompile(`^[0-9]+-`)

// SanitizeLabel turns a commit subject into a filename-safe label. When the
// subject sanitizes to nothing, the abbreviated hash stands in.
func SanitizeLabel(subject, hash string) string {
	label := strings.Trim(labelUnsafe.ReplaceAllString(subject, "-"), "-")
	if label == "" {
		if len(hash) > 12 {
			return hash[:12]
		}
		return hash
	}
	return label
}

// StripSequencePrefix removes a leading NNNN- numbering from a patch stem so
// the series can be renumbered
func StripSequencePrefix(stem string) string {
	return sequencePrefix.ReplaceAllString(stem, "")
}

// CollectCommits materializes commits into in-memory patches, labeled from
// their subjects
func CollectCommits(exec git.Executor, commits []string, subjects map[string]string) ([]Patch, error) {
	var collected []Patch
	for _, commit := range commits {
		content, err := exec.FormatPatch(commit)
		if err != nil {
			return nil, fmt.Errorf("formatting patch for %s: %w", commit, err)
		}

		collected = append(collected, Patch{
			Label:   SanitizeLabel(subjects[commit], commit),
			Content: content,
		})
	}

	return collected, nil
}
