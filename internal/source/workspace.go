// Package source manages the local git workspace the generator operates on:
// a single kernel repository carrying the mainline, vendor, and distro base
// trees as remotes, plus detached checkouts of the upstream PKGBUILD and
// patch collections.
package source

import (
	"path/filepath"

	"github.com/kernelforge/kforge/internal/common/git"
)

// Remote names used inside the kernel repository
const (
	RemoteKernel = "origin"
	RemoteVendor = "vendor"
	RemoteBase   = "base"
)

// Workspace lays out the cached repositories under a root directory
type Workspace struct {
	Root string

	// NewExecutor builds the git executor for a directory; tests override it
	NewExecutor func(dir string) git.Executor
}

// NewWorkspace creates a Workspace rooted at root
func NewWorkspace(root string) *Workspace {
	return &Workspace{
		Root: root,
		NewExecutor: func(dir string) git.Executor {
			return git.NewRunner(dir)
		},
	}
}

// KernelDir returns the kernel repository directory
func (w *Workspace) KernelDir() string {
	return filepath.Join(w.Root, "linux")
}

// RepoDir returns the directory for a named auxiliary checkout
func (w *Workspace) RepoDir(name string) string {
	return filepath.Join(w.Root, "repos", name)
}

// Kernel returns an executor for the kernel repository
func (w *Workspace) Kernel() git.Executor {
	return w.NewExecutor(w.KernelDir())
}

// Repo returns an executor for a named auxiliary checkout
func (w *Workspace) Repo(name string) git.Executor {
	return w.NewExecutor(w.RepoDir(name))
}
