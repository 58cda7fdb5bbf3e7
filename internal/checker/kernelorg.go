package checker

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrNoRelease is returned when no release version could be extracted
	ErrNoRelease = errors.New("no kernel release found on kernel.org")
	// ErrKernelOrgUnavailable is returned when kernel.org cannot be fetched
	ErrKernelOrgUnavailable = errors.New("failed to fetch kernel.org")
)

// releasePattern validates extracted version strings
var releasePattern = regexp.MustCompile(`^\d+\.\d+(\.\d+)?(-rc\d+)?$`)

// latestStableSelector locates the latest stable release link on the
// kernel.org front page
const latestStableSelector = "td#latest_link a"

// LatestStable scrapes the latest stable kernel release from kernel.org
func (c *Checker) LatestStable() (string, error) {
	resp, err := c.HTTPClient.Get(c.KernelOrgURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKernelOrgUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: HTTP %d", ErrKernelOrgUnavailable, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing kernel.org HTML: %w", err)
	}

	version := strings.TrimSpace(doc.Find(latestStableSelector).First().Text())
	if version == "" {
		return "", ErrNoRelease
	}

	if !releasePattern.MatchString(version) {
		return "", fmt.Errorf("%w: unexpected version text %q", ErrNoRelease, version)
	}

	return version, nil
}
