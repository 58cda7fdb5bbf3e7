package patchset

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kernelforge/kforge/internal/common/logger"
)

var (
	// ErrNoUpstreamPatches is returned when the PKGBUILD source array
	// yields no patch entries
	ErrNoUpstreamPatches = errors.New("no patches discovered in PKGBUILD source array")
	// ErrPatchFileMissing is returned when a referenced patch is absent
	// from the patch collection checkout
	ErrPatchFileMissing = errors.New("patch referenced by PKGBUILD not found in patch collection")
)

// Knobs are the PKGBUILD environment switches that shape its source array
type Knobs struct {
	LTO      string
	CPUSched string
}

// env returns the environment the PKGBUILD is sourced under. Optional
// components that would pull in extra sources are pinned off.
func (k Knobs) env(pkgbuildPath string) []string {
	return append(os.Environ(),
		"PKGBUILD_PATH="+pkgbuildPath,
		"_use_llvm_lto="+k.LTO,
		"_cpusched="+k.CPUSched,
		"_build_nvidia_open=no",
		"_build_zfs=no",
	)
}

// CollectUpstream resolves the upstream PKGBUILD source array and loads every
// patch it references from the patch collection checkout. Order follows the
// source array, which is the order the upstream build applies them in.
func CollectUpstream(pkgbuildPath, patchesDir, folder string, knobs Knobs) ([]Patch, error) {
	sources, err := sourceArray(pkgbuildPath, knobs)
	if err != nil {
		return nil, err
	}

	urls := PatchSources(sources)
	if len(urls) == 0 {
		return nil, ErrNoUpstreamPatches
	}

	var collected []Patch
	for _, url := range urls {
		rel := ResolvePatchRel(url, folder)
		path := filepath.Join(patchesDir, folder, rel)

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrPatchFileMissing, path)
			}
			return nil, err
		}

		collected = append(collected, Patch{
			Label:   UpstreamLabel(rel),
			Content: string(data),
		})
	}

	return collected, nil
}

// sourceArray sources the PKGBUILD in bash and prints its source array.
// bash is the PKGBUILD contract; there is no way to resolve the array's
// conditional entries without executing it.
func sourceArray(pkgbuildPath string, knobs Knobs) ([]string, error) {
	script := `source "${PKGBUILD_PATH}" >/dev/null; printf "%s\n" "${source[@]}"`
	logger.Command("bash", "-lc", script)

	cmd := exec.Command("bash", "-lc", script)
	cmd.Env = knobs.env(pkgbuildPath)

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("sourcing PKGBUILD: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("sourcing PKGBUILD: %w", err)
	}

	var sources []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			sources = append(sources, line)
		}
	}
	return sources, nil
}

// PatchSources filters a PKGBUILD source array down to its patch entries
func PatchSources(sources []string) []string {
	var urls []string
	for _, s := range sources {
		if strings.HasSuffix(s, ".patch") {
			urls = append(urls, s)
		}
	}
	return urls
}

// ResolvePatchRel maps a patch source URL to its path relative to the series
// folder. URLs carrying the folder keep their subpath below it; anything else
// falls back to the basename.
func ResolvePatchRel(url, folder string) string {
	marker := "/" + folder + "/"
	if idx := strings.Index(url, marker); idx != -1 {
		return url[idx+len(marker):]
	}
	if idx := strings.LastIndex(url, "/"); idx != -1 {
		return url[idx+1:]
	}
	return url
}

// UpstreamLabel derives a label from a patch path: the file stem minus any
// leading sequence number
func UpstreamLabel(rel string) string {
	stem := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	return StripSequencePrefix(stem)
}
