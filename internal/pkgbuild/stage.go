package pkgbuild

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrConfigMissing is returned when the kernel config is absent from the
// upstream package directory
var ErrConfigMissing = errors.New("kernel config not found in upstream package directory")

// StageConfig copies the kernel config out of the upstream checkout into the
// package directory, replacing any existing file
func StageConfig(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigMissing, src)
		}
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying config: %w", err)
	}

	return out.Sync()
}
