package git

// ApplyOptions controls how a patch is applied to the detached index.
type ApplyOptions struct {
	// ThreeWay enables three-way merge fallback (--3way)
	ThreeWay bool
	// Reverse applies the patch in reverse (--reverse)
	Reverse bool
	// CheckOnly verifies the patch would apply without applying it (--check)
	CheckOnly bool
}

// Executor defines the interface for git operations.
// This interface allows for mocking git operations in tests.
type Executor interface {
	// WorkDir returns the working directory of the git repository
	WorkDir() string

	// IsRepo reports whether the working directory is a git repository
	IsRepo() bool

	// CloneNoCheckout clones a repository into the working directory
	// without checking out a working tree, with the given origin name
	CloneNoCheckout(origin, url string) error

	// Remotes lists the configured remote names
	Remotes() ([]string, error)

	// AddRemote adds a named remote
	AddRemote(name, url string) error

	// SetRemoteURL updates the URL of an existing remote
	SetRemoteURL(name, url string) error

	// Fetch fetches the given refspecs from a remote; with no refspecs it
	// fetches the remote's default refs
	Fetch(remote string, refspecs ...string) error

	// FetchTags fetches tags from a remote
	FetchTags(remote string) error

	// SwitchDetachFetchHead detaches the working tree at FETCH_HEAD
	SwitchDetachFetchHead() error

	// ForEachRef lists refs matching a pattern (e.g. refs/remotes/*)
	ForEachRef(pattern string) ([]string, error)

	// RevParse resolves a revision to a full commit hash
	RevParse(rev string) (string, error)

	// RevListRange returns non-merge commits reachable from include but
	// not from any of the exclude refs, oldest first when reverse is set
	RevListRange(include string, exclude []string, reverse bool) ([]string, error)

	// MergeBase returns the best common ancestor of two revisions
	MergeBase(a, b string) (string, error)

	// MergedTags lists tags matching a pattern that are merged into ref,
	// newest version first
	MergedTags(pattern, ref string) ([]string, error)

	// CommitSubjects resolves commit subjects for many hashes at once
	CommitSubjects(hashes []string) (map[string]string, error)

	// FormatPatch returns the mbox-formatted patch for a single commit
	FormatPatch(commit string) (string, error)

	// ReadTree populates a detached index file from a tree-ish
	ReadTree(indexFile, treeish string) error

	// Apply applies patch content to a detached index (git apply --cached)
	Apply(indexFile, patch string, opts ApplyOptions) error
}
