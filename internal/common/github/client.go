// Package github provides a minimal GitHub API client for looking up branch
// head commits, with an on-disk response cache.
package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrRateLimit indicates GitHub API rate limit exceeded
	ErrRateLimit = errors.New("GitHub API rate limit exceeded")
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("repository or branch not found")
	// ErrAPIError indicates a general GitHub API error
	ErrAPIError = errors.New("GitHub API error")
	// ErrNotGitHub indicates a remote URL not hosted on github.com
	ErrNotGitHub = errors.New("remote is not a GitHub URL")
)

// Client handles communication with the GitHub API
type Client struct {
	BaseURL    string
	UserAgent  string
	Token      string // GitHub personal access token (optional, increases rate limit)
	HTTPClient *http.Client
	CacheDir   string
	CacheTTL   time.Duration
}

// Commit is the head commit of a branch
type Commit struct {
	SHA     string    `json:"sha"`
	Subject string    `json:"subject"`
	Date    time.Time `json:"date"`
}

// cacheEntry represents a cached API response
type cacheEntry struct {
	Commit    Commit    `json:"commit"`
	Timestamp time.Time `json:"timestamp"`
}

// NewClient creates a new GitHub API client
func NewClient() *Client {
	return &Client{
		BaseURL:   "https://api.github.com",
		UserAgent: "kforge/1.0",
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		CacheTTL: time.Hour,
	}
}

// SetCacheDir sets the cache directory for API responses
func (c *Client) SetCacheDir(dir string) error {
	if dir == "" {
		return nil
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dir = filepath.Join(home, dir[1:])
	}
	c.CacheDir = dir
	return os.MkdirAll(dir, 0755)
}

// RepoPath extracts the "owner/repo" path from a GitHub remote URL
func RepoPath(remote string) (string, error) {
	for _, prefix := range []string{"https://github.com/", "http://github.com/", "git@github.com:"} {
		if strings.HasPrefix(remote, prefix) {
			path := strings.TrimPrefix(remote, prefix)
			path = strings.TrimSuffix(path, ".git")
			path = strings.TrimSuffix(path, "/")
			if strings.Count(path, "/") == 1 {
				return path, nil
			}
			break
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotGitHub, remote)
}

// BranchHead returns the head commit of a branch in owner/repo form,
// consulting the cache first
func (c *Client) BranchHead(repo, branch string) (Commit, error) {
	if c.CacheDir != "" {
		if commit, ok := c.loadFromCache(repo, branch); ok {
			return commit, nil
		}
	}

	commit, err := c.fetchBranchHead(repo, branch)
	if err != nil {
		return Commit{}, err
	}

	if c.CacheDir != "" {
		c.saveToCache(repo, branch, commit)
	}

	return commit, nil
}

// commitResponse matches the fields we need from the commits API
type commitResponse struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message   string `json:"message"`
		Committer struct {
			Date time.Time `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
}

// fetchBranchHead queries the GitHub commits API
func (c *Client) fetchBranchHead(repo, branch string) (Commit, error) {
	url := fmt.Sprintf("%s/repos/%s/commits/%s", c.BaseURL, repo, branch)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return Commit{}, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Commit{}, fmt.Errorf("%w: %v", ErrAPIError, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return Commit{}, fmt.Errorf("%w: %s@%s", ErrNotFound, repo, branch)
	case http.StatusForbidden, http.StatusTooManyRequests:
		if resp.Header.Get("X-RateLimit-Remaining") == "0" {
			return Commit{}, ErrRateLimit
		}
		return Commit{}, fmt.Errorf("%w: HTTP %d", ErrAPIError, resp.StatusCode)
	default:
		return Commit{}, fmt.Errorf("%w: HTTP %d", ErrAPIError, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Commit{}, err
	}

	var cr commitResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return Commit{}, fmt.Errorf("%w: %v", ErrAPIError, err)
	}

	subject := cr.Commit.Message
	if idx := strings.IndexByte(subject, '\n'); idx != -1 {
		subject = subject[:idx]
	}

	return Commit{
		SHA:     cr.SHA,
		Subject: subject,
		Date:    cr.Commit.Committer.Date,
	}, nil
}

// cachePath returns the cache file for a repo/branch pair
func (c *Client) cachePath(repo, branch string) string {
	safe := strings.NewReplacer("/", "_", ":", "_").Replace(repo + "@" + branch)
	return filepath.Join(c.CacheDir, safe+".json")
}

// loadFromCache returns a cached commit when present and fresh
func (c *Client) loadFromCache(repo, branch string) (Commit, bool) {
	data, err := os.ReadFile(c.cachePath(repo, branch))
	if err != nil {
		return Commit{}, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Commit{}, false
	}

	if time.Since(entry.Timestamp) > c.CacheTTL {
		return Commit{}, false
	}

	return entry.Commit, true
}

// saveToCache stores a commit lookup result; cache failures are ignored
func (c *Client) saveToCache(repo, branch string, commit Commit) {
	entry := cacheEntry{Commit: commit, Timestamp: time.Now()}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_ = os.WriteFile(c.cachePath(repo, branch), data, 0644)
}
