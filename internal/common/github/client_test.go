package github

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

func TestRepoPath(t *testing.T) {
	tests := []struct {
		remote  string
		want    string
		wantErr bool
	}{
		{"https://github.com/example/kernel-patches.git", "example/kernel-patches", false},
		{"https://github.com/example/pkgbuilds", "example/pkgbuilds", false},
		{"https://github.com/example/pkgbuilds/", "example/pkgbuilds", false},
		{"git@github.com:example/linux.git", "example/linux", false},
		{"https://gitlab.example.com/vendor/linux.git", "", true},
		{"git://git.launchpad.net/~kernel/+git/noble", "", true},
		{"https://github.com/just-owner", "", true},
	}

	for _, tt := range tests {
		got, err := RepoPath(tt.remote)
		if tt.wantErr {
			if !errors.Is(err, ErrNotGitHub) {
				t.Errorf("RepoPath(%q): expected ErrNotGitHub, got %v", tt.remote, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("RepoPath(%q) failed: %v", tt.remote, err)
			continue
		}
		if got != tt.want {
			t.Errorf("RepoPath(%q) = %q, want %q", tt.remote, got, tt.want)
		}
	}
}

func TestSetCacheDirLeavesUserTildeAlone(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	c := NewClient()
	if err := c.SetCacheDir("~other-cache"); err != nil {
		t.Fatalf("SetCacheDir failed: %v", err)
	}

	// A ~user path is not home-relative; it stays a literal directory name
	if c.CacheDir != "~other-cache" {
		t.Errorf("CacheDir = %q", c.CacheDir)
	}
}

const commitJSON = `{
	"sha": "27b53f08bb8b7dcf4e9ae551bc8f9c65a05568ca",
	"commit": {
		"message": "drivers: add vendor quirk\n\nLonger body here.",
		"committer": {"date": "2026-08-04T10:00:00Z"}
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient()
	client.BaseURL = server.URL
	return client, server
}

func TestBranchHead(t *testing.T) {
	var gotPath, gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(commitJSON))
	})
	client.Token = "testtoken"

	commit, err := client.BranchHead("example/linux", "vendor-6.17")
	if err != nil {
		t.Fatalf("BranchHead failed: %v", err)
	}

	if gotPath != "/repos/example/linux/commits/vendor-6.17" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer testtoken" {
		t.Errorf("auth = %q", gotAuth)
	}
	if commit.SHA != "27b53f08bb8b7dcf4e9ae551bc8f9c65a05568ca" {
		t.Errorf("SHA = %q", commit.SHA)
	}
	// Only the first line of the message is the subject
	if commit.Subject != "drivers: add vendor quirk" {
		t.Errorf("Subject = %q", commit.Subject)
	}
}

func TestBranchHeadNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.BranchHead("example/linux", "gone")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestBranchHeadRateLimit(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.BranchHead("example/linux", "master")
	if !errors.Is(err, ErrRateLimit) {
		t.Errorf("Expected ErrRateLimit, got %v", err)
	}
}

func TestBranchHeadUsesCache(t *testing.T) {
	var requests int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(commitJSON))
	})
	if err := client.SetCacheDir(t.TempDir()); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if _, err := client.BranchHead("example/linux", "master"); err != nil {
			t.Fatalf("BranchHead failed: %v", err)
		}
	}

	if requests != 1 {
		t.Errorf("requests = %d, want 1 (cache hits)", requests)
	}
}

func TestBranchHeadCacheExpiry(t *testing.T) {
	var requests int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(commitJSON))
	})
	if err := client.SetCacheDir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	client.CacheTTL = -time.Second // everything is stale

	for i := 0; i < 2; i++ {
		if _, err := client.BranchHead("example/linux", "master"); err != nil {
			t.Fatalf("BranchHead failed: %v", err)
		}
	}

	if requests != 2 {
		t.Errorf("requests = %d, want 2 (expired cache)", requests)
	}
}
