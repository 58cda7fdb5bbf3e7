// Package apply dry-runs a patch series against a kernel tree using a
// detached git index, so the real index and working tree are never touched.
package apply

import (
	"errors"
	"fmt"
	"os"

	"github.com/kernelforge/kforge/internal/common/git"
	"github.com/kernelforge/kforge/internal/common/logger"
	"github.com/kernelforge/kforge/internal/patchset"
)

// ErrRequiredPatchFailed is returned when a required patch does not apply
var ErrRequiredPatchFailed = errors.New("required patch failed to apply")

// Skipped records a patch left out of the final series and why
type Skipped struct {
	Label  string
	Reason string
}

// Result is the outcome of a simulation: the ordered series that needs
// applying, plus everything that was left out
type Result struct {
	Applied []patchset.Patch
	Skipped []Skipped

	// RequiredApplied and OptionalApplied count how many of each input
	// set survived into Applied
	RequiredApplied int
	OptionalApplied int
}

type applyStatus int

const (
	statusApplied applyStatus = iota
	statusSkipped
	statusFailed
)

// Simulate applies patches against a temporary index built from baseTreeish.
// Required patches must all apply (a reverse-clean patch counts as already
// upstream and is skipped); optional patches are filtered to those that apply
// in order. The returned series preserves order: required first, then the
// surviving optional patches.
func Simulate(exec git.Executor, baseTreeish string, required, optional []patchset.Patch) (*Result, error) {
	idx, err := os.CreateTemp("", "kforge-index-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary index: %w", err)
	}
	indexFile := idx.Name()
	idx.Close()
	defer os.Remove(indexFile)

	if err := exec.ReadTree(indexFile, baseTreeish); err != nil {
		return nil, fmt.Errorf("reading base tree %s: %w", baseTreeish, err)
	}

	result := &Result{}

	for _, p := range required {
		logger.Debug("applying required patch %s", p.Label)
		status, msg := applyOne(exec, indexFile, p)
		switch status {
		case statusFailed:
			return nil, fmt.Errorf("%w on %s: %s: %s", ErrRequiredPatchFailed, baseTreeish, p.Label, msg)
		case statusSkipped:
			logger.Info("already applied: %s", p.Label)
			result.Skipped = append(result.Skipped, Skipped{Label: p.Label, Reason: msg})
		default:
			result.Applied = append(result.Applied, p)
			result.RequiredApplied++
		}
	}

	for _, p := range optional {
		logger.Debug("testing optional patch %s", p.Label)
		status, msg := applyOne(exec, indexFile, p)
		switch status {
		case statusFailed:
			logger.Warn("skipping %s: %s", p.Label, msg)
			result.Skipped = append(result.Skipped, Skipped{Label: p.Label, Reason: msg})
		case statusSkipped:
			logger.Info("already applied: %s", p.Label)
			result.Skipped = append(result.Skipped, Skipped{Label: p.Label, Reason: msg})
		default:
			result.Applied = append(result.Applied, p)
			result.OptionalApplied++
		}
	}

	return result, nil
}

// applyOne attempts a single patch against the detached index: plain apply,
// then a reverse --check to detect an already-applied patch, then a
// three-way fallback.
func applyOne(exec git.Executor, indexFile string, p patchset.Patch) (applyStatus, string) {
	err := exec.Apply(indexFile, p.Content, git.ApplyOptions{})
	if err == nil {
		return statusApplied, ""
	}

	reverseErr := exec.Apply(indexFile, p.Content, git.ApplyOptions{Reverse: true, CheckOnly: true})
	if reverseErr == nil {
		return statusSkipped, "already applied (reverse clean)"
	}

	threeWayErr := exec.Apply(indexFile, p.Content, git.ApplyOptions{ThreeWay: true})
	if threeWayErr == nil {
		return statusApplied, ""
	}

	return statusFailed, threeWayErr.Error()
}
