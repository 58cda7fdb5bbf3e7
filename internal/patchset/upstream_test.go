package patchset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestPatchSources(t *testing.T) {
	sources := []string{
		"https://example.org/linux-6.19-rc5.tar.gz",
		"config",
		"https://raw.githubusercontent.com/example/kernel-patches/abc123/6.19/all/0001-cachyos-base-all.patch",
		"https://raw.githubusercontent.com/example/kernel-patches/abc123/6.19/sched/0001-bore.patch",
		"auto-cpufreq.install",
	}

	urls := PatchSources(sources)
	if len(urls) != 2 {
		t.Fatalf("PatchSources = %v", urls)
	}
	for _, u := range urls {
		if filepath.Ext(u) != ".patch" {
			t.Errorf("Non-patch entry kept: %q", u)
		}
	}
}

func TestResolvePatchRel(t *testing.T) {
	tests := []struct {
		url    string
		folder string
		want   string
	}{
		{
			"https://raw.githubusercontent.com/example/kernel-patches/abc/6.19/all/0001-cachyos-base-all.patch",
			"6.19",
			"all/0001-cachyos-base-all.patch",
		},
		{
			"https://raw.githubusercontent.com/example/kernel-patches/abc/6.19/sched/0001-bore.patch",
			"6.19",
			"sched/0001-bore.patch",
		},
		// No folder marker, falls back to basename
		{"https://example.org/misc/fix-build.patch", "6.19", "fix-build.patch"},
		{"local.patch", "6.19", "local.patch"},
	}

	for _, tt := range tests {
		if got := ResolvePatchRel(tt.url, tt.folder); got != tt.want {
			t.Errorf("ResolvePatchRel(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestUpstreamLabel(t *testing.T) {
	tests := []struct {
		rel  string
		want string
	}{
		{"all/0001-cachyos-base-all.patch", "cachyos-base-all"},
		{"sched/0001-bore.patch", "bore"},
		{"misc/fix-build.patch", "fix-build"},
	}

	for _, tt := range tests {
		if got := UpstreamLabel(tt.rel); got != tt.want {
			t.Errorf("UpstreamLabel(%q) = %q, want %q", tt.rel, got, tt.want)
		}
	}
}

// Exercises the bash sourcing path end to end with a synthetic PKGBUILD
// whose source array depends on the knob environment.
func TestCollectUpstream(t *testing.T) {
	dir := t.TempDir()

	pkgbuild := filepath.Join(dir, "PKGBUILD")
	script := `
source=("https://example.org/linux-6.19.tar.gz" "config")
source+=("https://example.org/patches/6.19/all/0001-base.patch")
if [ "$_cpusched" = "bore" ]; then
  source+=("https://example.org/patches/6.19/sched/0001-bore.patch")
fi
if [ "$_build_zfs" = "yes" ]; then
  source+=("https://example.org/patches/6.19/misc/0001-zfs.patch")
fi
`
	if err := os.WriteFile(pkgbuild, []byte(script), 0644); err != nil {
		t.Fatal(err)
	}

	patchesDir := filepath.Join(dir, "patches")
	for rel, content := range map[string]string{
		"6.19/all/0001-base.patch":   "base patch\n",
		"6.19/sched/0001-bore.patch": "bore patch\n",
	} {
		path := filepath.Join(patchesDir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	patches, err := CollectUpstream(pkgbuild, patchesDir, "6.19", Knobs{LTO: "thin", CPUSched: "bore"})
	if err != nil {
		t.Fatalf("CollectUpstream failed: %v", err)
	}

	if len(patches) != 2 {
		t.Fatalf("Expected 2 patches, got %d", len(patches))
	}
	if patches[0].Label != "base" || patches[1].Label != "bore" {
		t.Errorf("labels = %q, %q", patches[0].Label, patches[1].Label)
	}
	if patches[1].Content != "bore patch\n" {
		t.Errorf("content = %q", patches[1].Content)
	}
}

func TestCollectUpstreamMissingPatchFile(t *testing.T) {
	dir := t.TempDir()

	pkgbuild := filepath.Join(dir, "PKGBUILD")
	script := `source=("https://example.org/patches/6.19/all/0001-base.patch")` + "\n"
	if err := os.WriteFile(pkgbuild, []byte(script), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := CollectUpstream(pkgbuild, filepath.Join(dir, "patches"), "6.19", Knobs{})
	if !errors.Is(err, ErrPatchFileMissing) {
		t.Errorf("Expected ErrPatchFileMissing, got %v", err)
	}
}

func TestCollectUpstreamNoPatches(t *testing.T) {
	dir := t.TempDir()

	pkgbuild := filepath.Join(dir, "PKGBUILD")
	script := `source=("https://example.org/linux-6.19.tar.gz" "config")` + "\n"
	if err := os.WriteFile(pkgbuild, []byte(script), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := CollectUpstream(pkgbuild, dir, "6.19", Knobs{})
	if !errors.Is(err, ErrNoUpstreamPatches) {
		t.Errorf("Expected ErrNoUpstreamPatches, got %v", err)
	}
}
