// Package checker reports how far a profile's pins have drifted from their
// upstreams: branch heads for the GitHub-hosted collections and the latest
// stable release on kernel.org.
package checker

import (
	"net/http"
	"strings"
	"time"

	"github.com/kernelforge/kforge/internal/common/github"
	"github.com/kernelforge/kforge/internal/profile"
)

// SourceStatus describes one pinned source against its upstream
type SourceStatus struct {
	Name   string
	Repo   string
	Branch string
	Pinned string
	Head   github.Commit
	// UpdateAvailable is set when the upstream head differs from the pin
	UpdateAvailable bool
	// Note carries the reason a source could not be checked
	Note string
}

// Report is the result of a freshness check
type Report struct {
	Sources      []SourceStatus
	LatestStable string
	// ProfileVersion is the pkgver the profile builds
	ProfileVersion string
	// KernelUpdateAvailable is set when the latest stable release does not
	// match the profile pkgver
	KernelUpdateAvailable bool
}

// Checker queries upstreams for drift against a profile's pins
type Checker struct {
	GitHub       *github.Client
	HTTPClient   *http.Client
	KernelOrgURL string
}

// New creates a Checker with default endpoints
func New(gh *github.Client) *Checker {
	return &Checker{
		GitHub: gh,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		KernelOrgURL: "https://www.kernel.org/",
	}
}

// Check reports the status of every pinned source plus the latest stable
// kernel release. Sources that cannot be checked are reported with a note
// rather than failing the whole run.
func (c *Checker) Check(p *profile.Profile) (*Report, error) {
	report := &Report{}

	sources := []struct {
		name, remote, branch, ref string
	}{
		{"kernel", p.Kernel.Remote, p.Kernel.Branch, p.Kernel.Ref},
		{"vendor", p.Vendor.Remote, p.Vendor.Branch, p.Vendor.Ref},
		{"pkgbuilds", p.PKGBuilds.Remote, p.PKGBuilds.Branch, p.PKGBuilds.Ref},
		{"patches", p.Patches.Remote, p.Patches.Branch, p.Patches.Ref},
	}

	for _, src := range sources {
		status := SourceStatus{
			Name:   src.name,
			Branch: src.branch,
			Pinned: src.ref,
		}

		repo, err := github.RepoPath(src.remote)
		if err != nil {
			status.Note = "not a GitHub remote; skipped"
			report.Sources = append(report.Sources, status)
			continue
		}
		status.Repo = repo

		head, err := c.GitHub.BranchHead(repo, src.branch)
		if err != nil {
			status.Note = err.Error()
			report.Sources = append(report.Sources, status)
			continue
		}

		status.Head = head
		status.UpdateAvailable = src.ref != "" && src.ref != head.SHA
		report.Sources = append(report.Sources, status)
	}

	latest, err := c.LatestStable()
	if err != nil {
		// kernel.org being unreachable should not hide the pin report
		latest = ""
	}
	report.LatestStable = latest
	report.ProfileVersion = p.Package.Version
	report.KernelUpdateAvailable = latest != "" && p.Package.Version != "" &&
		!sameRelease(p.Package.Version, latest)

	return report, nil
}

// sameRelease compares a makepkg pkgver against a kernel.org release string.
// pkgver cannot carry hyphens, so "6.19-rc5" is written as "6.19.0rc5";
// separators and the rc padding zero are ignored for the comparison.
func sameRelease(pkgver, release string) bool {
	return normalizeRelease(pkgver) == normalizeRelease(release)
}

func normalizeRelease(v string) string {
	v = strings.NewReplacer(".", "", "-", "", "_", "").Replace(v)
	return strings.Replace(v, "0rc", "rc", 1)
}
