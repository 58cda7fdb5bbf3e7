package git

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kernelforge/kforge/internal/common/logger"
)

var (
	ErrGitCommand = errors.New("git command failed")
	ErrMissingRev = errors.New("revision did not resolve to a commit")
)

// Runner executes git commands in a specific working directory
type Runner struct {
	workDir string
}

// NewRunner creates a new Runner for the specified working directory
func NewRunner(workDir string) *Runner {
	return &Runner{
		workDir: workDir,
	}
}

// WorkDir returns the working directory of the Runner
func (g *Runner) WorkDir() string {
	return g.workDir
}

// IsRepo reports whether the working directory contains a git repository
func (g *Runner) IsRepo() bool {
	info, err := os.Stat(filepath.Join(g.workDir, ".git"))
	return err == nil && info.IsDir()
}

// runCommand executes a git command and returns stdout, stderr, and any error
func (g *Runner) runCommand(args ...string) (stdout, stderr string, err error) {
	return g.run(g.workDir, nil, "", args...)
}

// run executes a git command with explicit dir, extra env and stdin data
func (g *Runner) run(dir string, extraEnv []string, stdin string, args ...string) (stdout, stderr string, err error) {
	logger.Command("git", args...)

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if err != nil {
		// Wrap the error with stderr for context
		if stderr != "" {
			err = errors.Join(ErrGitCommand, errors.New(strings.TrimSpace(stderr)))
		}
	}

	return stdout, stderr, err
}

// CloneNoCheckout clones a repository into the working directory without a
// working tree, naming the default remote after origin
func (g *Runner) CloneNoCheckout(origin, url string) error {
	parent := filepath.Dir(g.workDir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return err
	}

	_, _, err := g.run(parent, nil, "", "clone", "--origin", origin, "--no-checkout", url, g.workDir)
	return err
}

// Remotes lists the configured remote names
func (g *Runner) Remotes() ([]string, error) {
	stdout, _, err := g.runCommand("remote")
	if err != nil {
		return nil, err
	}
	return splitLines(stdout), nil
}

// AddRemote adds a named remote
func (g *Runner) AddRemote(name, url string) error {
	_, _, err := g.runCommand("remote", "add", name, url)
	return err
}

// SetRemoteURL updates the URL of an existing remote
func (g *Runner) SetRemoteURL(name, url string) error {
	_, _, err := g.runCommand("remote", "set-url", name, url)
	return err
}

// Fetch fetches the given refspecs from a remote
func (g *Runner) Fetch(remote string, refspecs ...string) error {
	args := append([]string{"fetch", remote}, refspecs...)
	_, _, err := g.runCommand(args...)
	return err
}

// FetchTags fetches tags from a remote
func (g *Runner) FetchTags(remote string) error {
	_, _, err := g.runCommand("fetch", remote, "--tags")
	return err
}

// SwitchDetachFetchHead detaches the working tree at FETCH_HEAD
func (g *Runner) SwitchDetachFetchHead() error {
	_, _, err := g.runCommand("switch", "--detach", "FETCH_HEAD")
	return err
}

// ForEachRef lists refs matching a pattern
func (g *Runner) ForEachRef(pattern string) ([]string, error) {
	stdout, _, err := g.runCommand("for-each-ref", "--format=%(refname)", pattern)
	if err != nil {
		return nil, err
	}
	return splitLines(stdout), nil
}

// RevParse resolves a revision to a full commit hash
func (g *Runner) RevParse(rev string) (string, error) {
	stdout, _, err := g.runCommand("rev-parse", "--verify", rev+"^{commit}")
	if err != nil {
		return "", err
	}

	hash := strings.TrimSpace(stdout)
	if hash == "" {
		return "", ErrMissingRev
	}
	return hash, nil
}

// RevListRange returns non-merge commits reachable from include but not from
// the exclude refs
func (g *Runner) RevListRange(include string, exclude []string, reverse bool) ([]string, error) {
	args := []string{"rev-list", "--no-merges"}
	if reverse {
		args = append(args, "--reverse")
	}
	args = append(args, include)
	for _, ex := range exclude {
		if ex != "" {
			args = append(args, "^"+ex)
		}
	}

	stdout, _, err := g.runCommand(args...)
	if err != nil {
		return nil, err
	}
	return splitLines(stdout), nil
}

// MergeBase returns the best common ancestor of two revisions
func (g *Runner) MergeBase(a, b string) (string, error) {
	stdout, _, err := g.runCommand("merge-base", a, b)
	if err != nil {
		return "", err
	}

	hash := strings.TrimSpace(stdout)
	if hash == "" {
		return "", ErrMissingRev
	}
	return firstLine(hash), nil
}

// MergedTags lists tags matching pattern that are merged into ref, newest
// version first
func (g *Runner) MergedTags(pattern, ref string) ([]string, error) {
	stdout, _, err := g.runCommand("tag", "--list", pattern, "--merged", ref, "--sort=-version:refname")
	if err != nil {
		return nil, err
	}
	return splitLines(stdout), nil
}

// CommitSubjects resolves commit subjects for many hashes in one invocation
func (g *Runner) CommitSubjects(hashes []string) (map[string]string, error) {
	if len(hashes) == 0 {
		return map[string]string{}, nil
	}

	args := append([]string{"show", "-s", "--format=%H %s"}, hashes...)
	stdout, _, err := g.runCommand(args...)
	if err != nil {
		return nil, err
	}
	return ParseSubjectsOutput(stdout), nil
}

// ParseSubjectsOutput parses `git show -s --format=%H %s` output into a
// hash-to-subject map
func ParseSubjectsOutput(output string) map[string]string {
	subjects := make(map[string]string)
	for _, line := range splitLines(output) {
		parts := strings.SplitN(line, " ", 2)
		if len(parts) == 2 {
			subjects[parts[0]] = parts[1]
		} else {
			subjects[parts[0]] = ""
		}
	}
	return subjects
}

// FormatPatch returns the mbox-formatted patch for a single commit
func (g *Runner) FormatPatch(commit string) (string, error) {
	stdout, _, err := g.runCommand("format-patch", "-1", commit, "--stdout")
	if err != nil {
		return "", err
	}
	return stdout, nil
}

// ReadTree populates a detached index file from a tree-ish.
// The index file lives outside the repository so the real index and working
// tree stay untouched.
func (g *Runner) ReadTree(indexFile, treeish string) error {
	_, _, err := g.run(g.workDir, indexEnv(g.workDir, indexFile), "", "read-tree", treeish)
	return err
}

// Apply applies patch content to a detached index
func (g *Runner) Apply(indexFile, patch string, opts ApplyOptions) error {
	args := []string{"apply", "--cached", "--whitespace=nowarn"}
	if opts.ThreeWay {
		args = append(args, "--3way")
	}
	if opts.Reverse {
		args = append(args, "--reverse")
	}
	if opts.CheckOnly {
		args = append(args, "--check")
	}
	args = append(args, "-")

	_, _, err := g.run(g.workDir, indexEnv(g.workDir, indexFile), patch, args...)
	return err
}

// indexEnv builds the environment for detached-index operations
func indexEnv(workDir, indexFile string) []string {
	return []string{
		"GIT_INDEX_FILE=" + indexFile,
		"GIT_WORK_TREE=" + workDir,
	}
}

// splitLines splits command output into trimmed, non-empty lines
func splitLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// firstLine returns the first line of a string
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		return s[:idx]
	}
	return s
}

// Ensure Runner implements Executor interface
var _ Executor = (*Runner)(nil)
