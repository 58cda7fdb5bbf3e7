// Package pkgbuild produces the artifacts makepkg consumes: the rendered
// PKGBUILD, the patch tarball, checksums, and the staged kernel config.
package pkgbuild

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed PKGBUILD.in
var pkgbuildTemplate string

// archiveSuffixes are stripped from the kernel tarball name to obtain the
// extracted source directory name
var archiveSuffixes = []string{
	".tar.gz", ".tar.xz", ".tar.bz2", ".tar.zst", ".tgz", ".tar",
}

// TemplateData fills the embedded PKGBUILD template
type TemplateData struct {
	PkgBase    string
	PkgVer     string
	SrcName    string
	Sources    []string
	SHA256Sums []string
}

// SrcName derives the extracted source directory name from the kernel
// tarball URL
func SrcName(sourceURL string) string {
	name := sourceURL
	if idx := strings.LastIndex(name, "/"); idx != -1 {
		name = name[idx+1:]
	}
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}

// Render writes the filled PKGBUILD template to destPath
func Render(data TemplateData, destPath string) error {
	tmpl, err := template.New("PKGBUILD").Parse(pkgbuildTemplate)
	if err != nil {
		return fmt.Errorf("parsing PKGBUILD template: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return err
	}

	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("rendering PKGBUILD: %w", err)
	}

	return nil
}
