package patchset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// ErrNoDiffContent is returned when patch content carries no file diffs
var ErrNoDiffContent = errors.New("patch contains no diff content")

// Stat summarizes a patch: files touched and line counts. Changed lines
// count on both sides.
type Stat struct {
	Files   int
	Added   int64
	Deleted int64
}

// String renders a stat in the familiar shortstat shape
func (s Stat) String() string {
	return fmt.Sprintf("%d file(s), +%d -%d", s.Files, s.Added, s.Deleted)
}

// Diffstat parses patch content and returns its aggregate stat. Mail headers
// from format-patch are tolerated; content with no diff at all is an error.
func Diffstat(content string) (Stat, error) {
	// format-patch emits an mbox header before the first file diff, which
	// the diff parser does not expect.
	idx := strings.Index(content, "diff --git")
	if idx == -1 {
		return Stat{}, ErrNoDiffContent
	}

	fds, err := diff.ParseMultiFileDiff([]byte(content[idx:]))
	if err != nil {
		return Stat{}, fmt.Errorf("parsing patch: %w", err)
	}
	if len(fds) == 0 {
		return Stat{}, ErrNoDiffContent
	}

	var stat Stat
	stat.Files = len(fds)
	for _, fd := range fds {
		s := fd.Stat()
		stat.Added += int64(s.Added + s.Changed)
		stat.Deleted += int64(s.Deleted + s.Changed)
	}

	return stat, nil
}

// Validate checks every patch in a series parses as a unified diff, returning
// a labeled error for the first malformed one
func Validate(patches []Patch) error {
	for _, p := range patches {
		if _, err := Diffstat(p.Content); err != nil {
			return fmt.Errorf("patch %q: %w", p.Label, err)
		}
	}
	return nil
}
