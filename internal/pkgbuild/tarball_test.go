package pkgbuild

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestTarball(t *testing.T) {
	srcDir := t.TempDir()
	files := map[string]string{
		"0002-bore.patch": "bore\n",
		"0001-base.patch": "base\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(srcDir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	// Subdirectories are not archived
	if err := os.Mkdir(filepath.Join(srcDir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}

	outPath := filepath.Join(t.TempDir(), "patches.tar.gz")
	size, err := Tarball(srcDir, outPath)
	if err != nil {
		t.Fatalf("Tarball failed: %v", err)
	}
	if size <= 0 {
		t.Errorf("size = %d", size)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	tr := tar.NewReader(gr)

	var names []string
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, hdr.Name)

		data, err := io.ReadAll(tr)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != files[hdr.Name] {
			t.Errorf("%s content = %q", hdr.Name, data)
		}
	}

	// Entries are name-sorted for reproducible archives
	want := []string{"0001-base.patch", "0002-bore.patch"}
	if len(names) != len(want) {
		t.Fatalf("entries = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestTarballReplacesExisting(t *testing.T) {
	srcDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(srcDir, "a.patch"), []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}

	outPath := filepath.Join(t.TempDir(), "patches.tar.gz")
	if err := os.WriteFile(outPath, []byte("stale archive"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Tarball(srcDir, outPath); err != nil {
		t.Fatalf("Tarball failed: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := gzip.NewReader(f); err != nil {
		t.Errorf("Archive not replaced with valid gzip: %v", err)
	}
}

func TestStageConfig(t *testing.T) {
	src := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(src, []byte("CONFIG_SMP=y\n"), 0644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(t.TempDir(), "out", "config")
	if err := StageConfig(src, dst); err != nil {
		t.Fatalf("StageConfig failed: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "CONFIG_SMP=y\n" {
		t.Errorf("staged config = %q", data)
	}
}

func TestStageConfigMissing(t *testing.T) {
	err := StageConfig(filepath.Join(t.TempDir(), "config"), filepath.Join(t.TempDir(), "config"))
	if !errors.Is(err, ErrConfigMissing) {
		t.Errorf("Expected ErrConfigMissing, got %v", err)
	}
}
