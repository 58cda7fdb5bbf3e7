// Package patchset collects, labels, and materializes the patch series the
// generated package carries: vendor commits extracted from a kernel tree and
// upstream patches referenced by a PKGBUILD source array.
package patchset

// Patch is a labeled unified diff held in memory until the series is written
type Patch struct {
	Label   string
	Content string
}
