package patchset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kernelforge/kforge/internal/common/git"
)

// ErrTooManyVendorPatches is returned when the vendor series exceeds the cap.
// An oversized range almost always means the base resolved to the wrong
// commit, so the run aborts instead of producing a bogus package.
var ErrTooManyVendorPatches = errors.New("vendor patch count exceeds limit")

// minExcludeAbbrev is the shortest accepted exclude abbreviation
const minExcludeAbbrev = 7

// VendorCommits returns the vendor-only commit hashes in apply order along
// with their subjects. Commits reachable from any exclude ref are dropped, as
// are commits listed in excludeCommits (full hash or abbreviation).
func VendorCommits(exec git.Executor, vendorRef string, excludeRefs, excludeCommits []string, max int) ([]string, map[string]string, error) {
	hashes, err := exec.RevListRange(vendorRef, excludeRefs, true)
	if err != nil {
		return nil, nil, fmt.Errorf("listing vendor commits: %w", err)
	}

	hashes = FilterExcluded(hashes, excludeCommits)

	if max > 0 && len(hashes) > max {
		return nil, nil, fmt.Errorf("%w: %d (>%d)", ErrTooManyVendorPatches, len(hashes), max)
	}

	subjects, err := exec.CommitSubjects(hashes)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving commit subjects: %w", err)
	}

	return hashes, subjects, nil
}

// FilterExcluded drops hashes matching any exclusion. An exclusion matches a
// hash exactly or as a prefix when it is at least 7 characters long.
func FilterExcluded(hashes, exclusions []string) []string {
	if len(exclusions) == 0 {
		return hashes
	}

	var kept []string
	for _, h := range hashes {
		if !excluded(h, exclusions) {
			kept = append(kept, h)
		}
	}
	return kept
}

func excluded(hash string, exclusions []string) bool {
	for _, ex := range exclusions {
		if ex == "" {
			continue
		}
		if ex == hash {
			return true
		}
		if len(ex) >= minExcludeAbbrev && strings.HasPrefix(hash, ex) {
			return true
		}
	}
	return false
}
