package pkgbuild

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SkipSum marks a source whose checksum makepkg should not verify
const SkipSum = "'SKIP'"

// Sums returns the sha256sums array entries for a PKGBUILD source array.
// Sources present as files in dir get a real checksum; remote sources the
// generator never downloaded stay SKIP.
func Sums(sources []string, dir string) ([]string, error) {
	sums := make([]string, 0, len(sources))
	for _, src := range sources {
		name := src
		if idx := strings.LastIndex(name, "/"); idx != -1 {
			name = name[idx+1:]
		}

		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			sums = append(sums, SkipSum)
			continue
		}

		sum, err := fileSHA256(path)
		if err != nil {
			return nil, fmt.Errorf("hashing %s: %w", path, err)
		}
		sums = append(sums, "'"+sum+"'")
	}

	return sums, nil
}

// fileSHA256 returns the hex sha256 digest of a file
func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
