package git

// MockRunner implements Executor for testing.
// Each method can be configured with a custom function to control behavior.
type MockRunner struct {
	IsRepoFunc                func() bool
	CloneNoCheckoutFunc       func(origin, url string) error
	RemotesFunc               func() ([]string, error)
	AddRemoteFunc             func(name, url string) error
	SetRemoteURLFunc          func(name, url string) error
	FetchFunc                 func(remote string, refspecs ...string) error
	FetchTagsFunc             func(remote string) error
	SwitchDetachFetchHeadFunc func() error
	ForEachRefFunc            func(pattern string) ([]string, error)
	RevParseFunc              func(rev string) (string, error)
	RevListRangeFunc          func(include string, exclude []string, reverse bool) ([]string, error)
	MergeBaseFunc             func(a, b string) (string, error)
	MergedTagsFunc            func(pattern, ref string) ([]string, error)
	CommitSubjectsFunc        func(hashes []string) (map[string]string, error)
	FormatPatchFunc           func(commit string) (string, error)
	ReadTreeFunc              func(indexFile, treeish string) error
	ApplyFunc                 func(indexFile, patch string, opts ApplyOptions) error
	workDir                   string
}

// NewMockRunner creates a new MockRunner with the specified working directory
func NewMockRunner(workDir string) *MockRunner {
	return &MockRunner{
		workDir: workDir,
	}
}

// WorkDir returns the working directory of the mock
func (m *MockRunner) WorkDir() string {
	return m.workDir
}

// IsRepo reports whether the working directory is a git repository
func (m *MockRunner) IsRepo() bool {
	if m.IsRepoFunc != nil {
		return m.IsRepoFunc()
	}
	return true
}

// CloneNoCheckout clones a repository without a working tree
func (m *MockRunner) CloneNoCheckout(origin, url string) error {
	if m.CloneNoCheckoutFunc != nil {
		return m.CloneNoCheckoutFunc(origin, url)
	}
	return nil
}

// Remotes lists the configured remote names
func (m *MockRunner) Remotes() ([]string, error) {
	if m.RemotesFunc != nil {
		return m.RemotesFunc()
	}
	return nil, nil
}

// AddRemote adds a named remote
func (m *MockRunner) AddRemote(name, url string) error {
	if m.AddRemoteFunc != nil {
		return m.AddRemoteFunc(name, url)
	}
	return nil
}

// SetRemoteURL updates the URL of an existing remote
func (m *MockRunner) SetRemoteURL(name, url string) error {
	if m.SetRemoteURLFunc != nil {
		return m.SetRemoteURLFunc(name, url)
	}
	return nil
}

// Fetch fetches the given refspecs from a remote
func (m *MockRunner) Fetch(remote string, refspecs ...string) error {
	if m.FetchFunc != nil {
		return m.FetchFunc(remote, refspecs...)
	}
	return nil
}

// FetchTags fetches tags from a remote
func (m *MockRunner) FetchTags(remote string) error {
	if m.FetchTagsFunc != nil {
		return m.FetchTagsFunc(remote)
	}
	return nil
}

// SwitchDetachFetchHead detaches the working tree at FETCH_HEAD
func (m *MockRunner) SwitchDetachFetchHead() error {
	if m.SwitchDetachFetchHeadFunc != nil {
		return m.SwitchDetachFetchHeadFunc()
	}
	return nil
}

// ForEachRef lists refs matching a pattern
func (m *MockRunner) ForEachRef(pattern string) ([]string, error) {
	if m.ForEachRefFunc != nil {
		return m.ForEachRefFunc(pattern)
	}
	return nil, nil
}

// RevParse resolves a revision to a full commit hash
func (m *MockRunner) RevParse(rev string) (string, error) {
	if m.RevParseFunc != nil {
		return m.RevParseFunc(rev)
	}
	return "", nil
}

// RevListRange returns commits reachable from include but not the excludes
func (m *MockRunner) RevListRange(include string, exclude []string, reverse bool) ([]string, error) {
	if m.RevListRangeFunc != nil {
		return m.RevListRangeFunc(include, exclude, reverse)
	}
	return nil, nil
}

// MergeBase returns the best common ancestor of two revisions
func (m *MockRunner) MergeBase(a, b string) (string, error) {
	if m.MergeBaseFunc != nil {
		return m.MergeBaseFunc(a, b)
	}
	return "", nil
}

// MergedTags lists tags matching a pattern merged into a ref
func (m *MockRunner) MergedTags(pattern, ref string) ([]string, error) {
	if m.MergedTagsFunc != nil {
		return m.MergedTagsFunc(pattern, ref)
	}
	return nil, nil
}

// CommitSubjects resolves commit subjects for many hashes
func (m *MockRunner) CommitSubjects(hashes []string) (map[string]string, error) {
	if m.CommitSubjectsFunc != nil {
		return m.CommitSubjectsFunc(hashes)
	}
	return map[string]string{}, nil
}

// FormatPatch returns the mbox-formatted patch for a single commit
func (m *MockRunner) FormatPatch(commit string) (string, error) {
	if m.FormatPatchFunc != nil {
		return m.FormatPatchFunc(commit)
	}
	return "", nil
}

// ReadTree populates a detached index file from a tree-ish
func (m *MockRunner) ReadTree(indexFile, treeish string) error {
	if m.ReadTreeFunc != nil {
		return m.ReadTreeFunc(indexFile, treeish)
	}
	return nil
}

// Apply applies patch content to a detached index
func (m *MockRunner) Apply(indexFile, patch string, opts ApplyOptions) error {
	if m.ApplyFunc != nil {
		return m.ApplyFunc(indexFile, patch, opts)
	}
	return nil
}

// Ensure MockRunner implements Executor interface
var _ Executor = (*MockRunner)(nil)
