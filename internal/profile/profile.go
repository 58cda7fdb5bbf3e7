// Package profile provides declarative configuration for a kernel flavor.
//
// A profile is a TOML file describing everything one generated package needs:
// the kernel base to build against, the vendor tree to extract patches from,
// the upstream PKGBUILD and patch collections to merge in, and the package
// level knobs passed through to the build.
package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultFileName is the profile file looked up when none is given explicitly
const DefaultFileName = "kforge.toml"

// DefaultMaxVendorPatches bounds the vendor series; a runaway range almost
// always means the base ref resolved wrong
const DefaultMaxVendorPatches = 50

var (
	// ErrProfileNotFound is returned when the profile file does not exist
	ErrProfileNotFound = errors.New("profile file not found")
	// ErrMissingRemote is returned when a source section has no remote URL
	ErrMissingRemote = errors.New("missing required field: remote")
	// ErrMissingBranch is returned when a source section has no branch and no ref
	ErrMissingBranch = errors.New("missing required field: branch (or an explicit ref)")
	// ErrMissingVersion is returned when the package section has no pkgver
	ErrMissingVersion = errors.New("missing required field: pkgver")
	// ErrInvalidMaxPatches is returned when max_vendor_patches is not positive
	ErrInvalidMaxPatches = errors.New("max_vendor_patches must be positive")
	// ErrMissingSource is returned when the package section has no kernel source URL
	ErrMissingSource = errors.New("missing required field: source")
	// ErrUnpinnedRef is returned when the pkgbuilds or patches repo has no pinned ref
	ErrUnpinnedRef = errors.New("pkgbuilds and patches repositories require a pinned ref")
	// ErrMissingPackageDir is returned when the pkgbuilds section has no package dir
	ErrMissingPackageDir = errors.New("missing required field: package_dir")
	// ErrMissingFolder is returned when the patches section has no folder
	ErrMissingFolder = errors.New("missing required field: folder")
)

// PackageConfig holds the package-level knobs for the generated PKGBUILD
type PackageConfig struct {
	// Name is the pkgbase for the generated package
	Name string `toml:"name"`
	// Version is the pkgver written into the PKGBUILD
	Version string `toml:"pkgver"`
	// Source is the kernel source tarball URL consumed by makepkg
	Source string `toml:"source"`
	// LTO selects the LLVM LTO mode exported when resolving upstream
	// PKGBUILD sources (default "thin")
	LTO string `toml:"lto,omitempty"`
	// CPUSched selects the CPU scheduler flavor (default "bore")
	CPUSched string `toml:"cpusched,omitempty"`
	// MaxVendorPatches caps the extracted vendor series (default 50)
	MaxVendorPatches int `toml:"max_vendor_patches,omitempty"`
}

// SourceConfig identifies a git source: remote URL, branch, and an optional
// pinned ref. An empty ref means the branch tip.
type SourceConfig struct {
	Remote string `toml:"remote"`
	Branch string `toml:"branch"`
	Ref    string `toml:"ref,omitempty"`
}

// BaseConfig identifies the distro base tree the vendor branch forked from
type BaseConfig struct {
	Remote string `toml:"remote"`
	Branch string `toml:"branch"`
	Ref    string `toml:"ref,omitempty"`
	// TagPattern selects base release tags (e.g. "Ubuntu-hwe-6.17-*") used
	// to pin the base when no explicit ref is set
	TagPattern string `toml:"tag_pattern,omitempty"`
}

// VendorConfig identifies the vendor kernel tree patches are extracted from
type VendorConfig struct {
	Remote string `toml:"remote"`
	Branch string `toml:"branch"`
	Ref    string `toml:"ref,omitempty"`
	// Exclude lists commit hashes (full or abbreviated to at least 7
	// characters) dropped from the vendor series
	Exclude []string `toml:"exclude,omitempty"`
}

// PKGBuildsConfig identifies the upstream PKGBUILD collection
type PKGBuildsConfig struct {
	Remote string `toml:"remote"`
	Branch string `toml:"branch"`
	Ref    string `toml:"ref"`
	// PackageDir is the directory inside the repo holding the PKGBUILD and
	// kernel config to use (e.g. "linux-cachyos-rc")
	PackageDir string `toml:"package_dir"`
}

// PatchesConfig identifies the upstream patch collection
type PatchesConfig struct {
	Remote string `toml:"remote"`
	Branch string `toml:"branch"`
	Ref    string `toml:"ref"`
	// Folder is the kernel-series subdirectory holding the patches (e.g. "6.19")
	Folder string `toml:"folder"`
}

// Profile is a complete kernel flavor description
type Profile struct {
	Package   PackageConfig   `toml:"package"`
	Kernel    SourceConfig    `toml:"kernel"`
	Base      BaseConfig      `toml:"base"`
	Vendor    VendorConfig    `toml:"vendor"`
	PKGBuilds PKGBuildsConfig `toml:"pkgbuilds"`
	Patches   PatchesConfig   `toml:"patches"`
}

// Load reads and validates a profile from path
func Load(path string) (*Profile, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	p.applyDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// LoadDefault loads kforge.toml from the given directory
func LoadDefault(dir string) (*Profile, error) {
	return Load(filepath.Join(dir, DefaultFileName))
}

// applyDefaults fills in zero-valued optional fields
func (p *Profile) applyDefaults() {
	if p.Package.Name == "" {
		p.Package.Name = "linux-kforge"
	}
	if p.Package.LTO == "" {
		p.Package.LTO = "thin"
	}
	if p.Package.CPUSched == "" {
		p.Package.CPUSched = "bore"
	}
	if p.Package.MaxVendorPatches == 0 {
		p.Package.MaxVendorPatches = DefaultMaxVendorPatches
	}
}

// Validate checks that all required fields are present
func (p *Profile) Validate() error {
	if p.Package.Version == "" {
		return fmt.Errorf("[package]: %w", ErrMissingVersion)
	}
	if p.Package.Source == "" {
		return fmt.Errorf("[package]: %w", ErrMissingSource)
	}
	// A negative cap would silently disable the runaway-range bound, since
	// the vendor collection treats a non-positive cap as uncapped.
	if p.Package.MaxVendorPatches < 0 {
		return fmt.Errorf("[package]: %w", ErrInvalidMaxPatches)
	}

	for _, src := range []struct {
		section     string
		remote      string
		branch, ref string
	}{
		{"kernel", p.Kernel.Remote, p.Kernel.Branch, p.Kernel.Ref},
		{"base", p.Base.Remote, p.Base.Branch, p.Base.Ref},
		{"vendor", p.Vendor.Remote, p.Vendor.Branch, p.Vendor.Ref},
		{"pkgbuilds", p.PKGBuilds.Remote, p.PKGBuilds.Branch, p.PKGBuilds.Ref},
		{"patches", p.Patches.Remote, p.Patches.Branch, p.Patches.Ref},
	} {
		if src.remote == "" {
			return fmt.Errorf("[%s]: %w", src.section, ErrMissingRemote)
		}
		if src.branch == "" && src.ref == "" {
			return fmt.Errorf("[%s]: %w", src.section, ErrMissingBranch)
		}
	}

	// The PKGBUILD and patch collections must be reproducible; branch tips
	// are not acceptable pins for them.
	if p.PKGBuilds.Ref == "" || p.Patches.Ref == "" {
		return ErrUnpinnedRef
	}

	if p.PKGBuilds.PackageDir == "" {
		return fmt.Errorf("[pkgbuilds]: %w", ErrMissingPackageDir)
	}
	if p.Patches.Folder == "" {
		return fmt.Errorf("[patches]: %w", ErrMissingFolder)
	}

	return nil
}
