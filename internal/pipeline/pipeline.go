// Package pipeline wires the generation steps together: source sync, base
// resolution, patch collection, apply simulation, and artifact rendering.
// Steps run strictly in sequence; the first failing external command aborts
// the run.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/kernelforge/kforge/internal/apply"
	"github.com/kernelforge/kforge/internal/builder"
	"github.com/kernelforge/kforge/internal/checker"
	"github.com/kernelforge/kforge/internal/common/config"
	"github.com/kernelforge/kforge/internal/common/github"
	"github.com/kernelforge/kforge/internal/common/logger"
	"github.com/kernelforge/kforge/internal/patchset"
	"github.com/kernelforge/kforge/internal/pkgbuild"
	"github.com/kernelforge/kforge/internal/profile"
	"github.com/kernelforge/kforge/internal/source"
)

// Repo checkout names under the workspace
const (
	repoPKGBuilds = "pkgbuilds"
	repoPatches   = "patches"
)

// patchesArchive is the tarball name referenced from the PKGBUILD source array
const patchesArchive = "patches.tar.gz"

// Pipeline holds everything a run needs
type Pipeline struct {
	Config    *config.Config
	Profile   *profile.Profile
	Workspace *source.Workspace
}

// New creates a Pipeline over the configured workspace
func New(cfg *config.Config, prof *profile.Profile) (*Pipeline, error) {
	wsDir, err := cfg.WorkspaceDir()
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		Config:    cfg,
		Profile:   prof,
		Workspace: source.NewWorkspace(wsDir),
	}, nil
}

// Refs are the resolved pins for one run
type Refs struct {
	Kernel     string
	KernelHash string
	Vendor     string
	VendorHash string
	Base       string
	BaseHash   string
}

// FetchSources syncs the kernel repository remotes and resolves all pins
func (p *Pipeline) FetchSources() (*Refs, error) {
	exec := p.Workspace.Kernel()
	prof := p.Profile

	kernelRef, err := source.EnsureRef(exec, source.RemoteKernel, prof.Kernel.Remote, prof.Kernel.Branch, prof.Kernel.Ref, "kernel")
	if err != nil {
		return nil, err
	}

	vendorRef, err := source.EnsureRef(exec, source.RemoteVendor, prof.Vendor.Remote, prof.Vendor.Branch, prof.Vendor.Ref, "vendor")
	if err != nil {
		return nil, err
	}

	baseRef, err := source.ResolveBase(exec, prof.Base, vendorRef)
	if err != nil {
		return nil, err
	}

	refs := &Refs{Kernel: kernelRef, Vendor: vendorRef, Base: baseRef}

	if refs.KernelHash, err = exec.RevParse(kernelRef); err != nil {
		return nil, err
	}
	if refs.VendorHash, err = exec.RevParse(vendorRef); err != nil {
		return nil, err
	}
	if refs.BaseHash, err = exec.RevParse(baseRef); err != nil {
		return nil, err
	}

	return refs, nil
}

// vendorCommits lists the vendor-only series for the resolved refs
func (p *Pipeline) vendorCommits(refs *Refs) ([]string, map[string]string, error) {
	exec := p.Workspace.Kernel()
	return patchset.VendorCommits(
		exec,
		refs.Vendor,
		[]string{refs.Base, refs.Kernel},
		p.Profile.Vendor.Exclude,
		p.Profile.Package.MaxVendorPatches,
	)
}

// SeriesEntry describes one vendor commit for listing
type SeriesEntry struct {
	Hash    string
	Subject string
	Stat    patchset.Stat
}

// VendorSeries fetches sources and returns the vendor series with per-patch
// diffstats, without generating any package artifacts
func (p *Pipeline) VendorSeries() ([]SeriesEntry, error) {
	refs, err := p.FetchSources()
	if err != nil {
		return nil, err
	}

	hashes, subjects, err := p.vendorCommits(refs)
	if err != nil {
		return nil, err
	}

	exec := p.Workspace.Kernel()
	entries := make([]SeriesEntry, 0, len(hashes))
	for _, h := range hashes {
		content, err := exec.FormatPatch(h)
		if err != nil {
			return nil, err
		}

		stat, err := patchset.Diffstat(content)
		if err != nil {
			// A commit with no textual diff (e.g. mode-only) still
			// belongs in the listing.
			stat = patchset.Stat{}
		}

		entries = append(entries, SeriesEntry{Hash: h, Subject: subjects[h], Stat: stat})
	}

	return entries, nil
}

// ExportVendor writes the vendor patch series as numbered files into dir,
// without generating the package artifacts
func (p *Pipeline) ExportVendor(dir string) (int, error) {
	refs, err := p.FetchSources()
	if err != nil {
		return 0, err
	}

	hashes, subjects, err := p.vendorCommits(refs)
	if err != nil {
		return 0, err
	}

	patches, err := patchset.CollectCommits(p.Workspace.Kernel(), hashes, subjects)
	if err != nil {
		return 0, err
	}

	if err := patchset.Write(patches, dir, 1); err != nil {
		return 0, err
	}
	return len(patches), nil
}

// Result summarizes a completed generation run
type Result struct {
	Refs            Refs
	UpstreamCount   int
	VendorCollected int
	VendorApplied   int
	Skipped         []apply.Skipped
	PatchDir        string
	TarballPath     string
	TarballSize     int64
	ConfigPath      string
	PKGBUILDPath    string
}

// Generate runs the full pipeline and writes the package artifacts
func (p *Pipeline) Generate() (*Result, error) {
	prof := p.Profile

	refs, err := p.FetchSources()
	if err != nil {
		return nil, err
	}
	logger.Info("kernel pinned at %s", refs.KernelHash)
	logger.Info("vendor pinned at %s", refs.VendorHash)
	logger.Info("base resolved to %s", refs.BaseHash)

	hashes, subjects, err := p.vendorCommits(refs)
	if err != nil {
		return nil, err
	}
	for _, h := range hashes {
		logger.Debug("%s %s", h, subjects[h])
	}

	// Pin the upstream PKGBUILD and patch collections.
	if err := source.Checkout(p.Workspace.Repo(repoPKGBuilds), prof.PKGBuilds.Remote, prof.PKGBuilds.Branch, prof.PKGBuilds.Ref); err != nil {
		return nil, err
	}
	if err := source.Checkout(p.Workspace.Repo(repoPatches), prof.Patches.Remote, prof.Patches.Branch, prof.Patches.Ref); err != nil {
		return nil, err
	}

	pkgbuildPath := filepath.Join(p.Workspace.RepoDir(repoPKGBuilds), prof.PKGBuilds.PackageDir, "PKGBUILD")
	upstream, err := patchset.CollectUpstream(
		pkgbuildPath,
		p.Workspace.RepoDir(repoPatches),
		prof.Patches.Folder,
		patchset.Knobs{LTO: prof.Package.LTO, CPUSched: prof.Package.CPUSched},
	)
	if err != nil {
		return nil, err
	}
	if err := patchset.Validate(upstream); err != nil {
		return nil, fmt.Errorf("upstream patch collection: %w", err)
	}

	exec := p.Workspace.Kernel()
	vendor, err := patchset.CollectCommits(exec, hashes, subjects)
	if err != nil {
		return nil, err
	}

	sim, err := apply.Simulate(exec, refs.Kernel, upstream, vendor)
	if err != nil {
		return nil, err
	}

	outDir, err := p.Config.OutputDir()
	if err != nil {
		return nil, err
	}

	patchDir := filepath.Join(outDir, "patches")
	if err := patchset.Write(sim.Applied, patchDir, 1); err != nil {
		return nil, err
	}

	tarballPath := filepath.Join(outDir, patchesArchive)
	tarballSize, err := pkgbuild.Tarball(patchDir, tarballPath)
	if err != nil {
		return nil, err
	}

	configSrc := filepath.Join(p.Workspace.RepoDir(repoPKGBuilds), prof.PKGBuilds.PackageDir, "config")
	configDst := filepath.Join(outDir, "config")
	if err := pkgbuild.StageConfig(configSrc, configDst); err != nil {
		return nil, err
	}

	sources := []string{prof.Package.Source, "config", patchesArchive}
	sums, err := pkgbuild.Sums(sources, outDir)
	if err != nil {
		return nil, err
	}

	pkgbuildDst := filepath.Join(outDir, "PKGBUILD")
	err = pkgbuild.Render(pkgbuild.TemplateData{
		PkgBase:    prof.Package.Name,
		PkgVer:     prof.Package.Version,
		SrcName:    pkgbuild.SrcName(prof.Package.Source),
		Sources:    sources,
		SHA256Sums: sums,
	}, pkgbuildDst)
	if err != nil {
		return nil, err
	}

	return &Result{
		Refs:            *refs,
		UpstreamCount:   len(upstream),
		VendorCollected: len(vendor),
		VendorApplied:   sim.OptionalApplied,
		Skipped:         sim.Skipped,
		PatchDir:        patchDir,
		TarballPath:     tarballPath,
		TarballSize:     tarballSize,
		ConfigPath:      configDst,
		PKGBUILDPath:    pkgbuildDst,
	}, nil
}

// Build invokes the package build tool in the output directory
func (p *Pipeline) Build(ctx context.Context) error {
	outDir, err := p.Config.OutputDir()
	if err != nil {
		return err
	}

	b := builder.New(p.Config.Makepkg.Command, p.Config.Makepkg.Args, p.Config.Makepkg.Env)
	return b.Run(ctx, outDir)
}

// Check reports upstream drift for the profile's pins
func (p *Pipeline) Check() (*checker.Report, error) {
	gh := github.NewClient()
	gh.Token = p.Config.GitHub.Token
	if err := gh.SetCacheDir(filepath.Join(p.Workspace.Root, "api-cache")); err != nil {
		return nil, err
	}

	return checker.New(gh).Check(p.Profile)
}
