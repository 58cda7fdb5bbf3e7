package source

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/kernelforge/kforge/internal/common/git"
	"github.com/kernelforge/kforge/internal/profile"
)

var (
	// ErrMissingRef is returned when neither a ref nor a branch is given
	ErrMissingRef = errors.New("no ref or branch to fetch")
	// ErrBaseUnresolved is returned when no base pin could be determined
	ErrBaseUnresolved = errors.New("failed to determine base ref")
)

// EnsureRemote ensures the repository exists and the named remote points at
// url. A missing repository is cloned without a checkout; an existing remote
// has its URL updated so moved upstreams keep working.
func EnsureRemote(exec git.Executor, name, url string) error {
	if !exec.IsRepo() {
		if err := exec.CloneNoCheckout(name, url); err != nil {
			return fmt.Errorf("cloning %s: %w", url, err)
		}
	}

	remotes, err := exec.Remotes()
	if err != nil {
		return err
	}

	if slices.Contains(remotes, name) {
		return exec.SetRemoteURL(name, url)
	}
	return exec.AddRemote(name, url)
}

// PinRef returns the pinned ref name for a remote and label
func PinRef(remote, label string) string {
	return fmt.Sprintf("refs/remotes/%s/pin-%s", remote, label)
}

// EnsureRef fetches a ref (or the branch tip when ref is empty) into a pinned
// namespace and returns the local ref name. A ref already naming a local
// remote-tracking ref is returned verbatim when it exists.
func EnsureRef(exec git.Executor, remote, url, branch, ref, label string) (string, error) {
	target := ref
	if target == "" {
		target = branch
	}
	if target == "" {
		return "", fmt.Errorf("%w for %s", ErrMissingRef, label)
	}

	if err := EnsureRemote(exec, remote, url); err != nil {
		return "", err
	}

	if strings.HasPrefix(target, "refs/remotes/"+remote+"/") {
		refs, err := exec.ForEachRef(target)
		if err == nil && len(refs) > 0 {
			return target, nil
		}
	}

	pin := PinRef(remote, label)
	// Forced refspec: re-pinning to an older tag must not fail on
	// non-fast-forward.
	if err := exec.Fetch(remote, "+"+target+":"+pin); err != nil {
		return "", fmt.Errorf("fetching ref %s for %s from %s: %w", target, label, remote, err)
	}

	return pin, nil
}

// Checkout ensures a repository exists with origin at url and its working
// tree detached at ref (or the branch tip when ref is empty)
func Checkout(exec git.Executor, url, branch, ref string) error {
	if err := EnsureRemote(exec, "origin", url); err != nil {
		return err
	}

	target := ref
	if target == "" {
		target = branch
	}
	if target == "" {
		return fmt.Errorf("%w for checkout in %s", ErrMissingRef, exec.WorkDir())
	}

	if err := exec.Fetch("origin", target); err != nil {
		return fmt.Errorf("fetching ref %s in %s: %w", target, exec.WorkDir(), err)
	}

	return exec.SwitchDetachFetchHead()
}

// ResolveBase determines the distro base pin for the vendor tree.
//
// Resolution order:
//  1. an explicit base ref from the profile
//  2. the newest base release tag matching TagPattern already merged into
//     the vendor ref (stays closest to what the vendor actually built on)
//  3. the merge-base of the vendor ref and the base branch tip
func ResolveBase(exec git.Executor, base profile.BaseConfig, vendorRef string) (string, error) {
	if base.Ref != "" {
		return EnsureRef(exec, RemoteBase, base.Remote, base.Branch, base.Ref, "base")
	}

	if err := EnsureRemote(exec, RemoteBase, base.Remote); err != nil {
		return "", err
	}
	if err := exec.FetchTags(RemoteBase); err != nil {
		// Tag fetch failure only disables the tag shortcut; merge-base
		// resolution below can still succeed.
		if base.TagPattern != "" {
			base.TagPattern = ""
		}
	}

	if base.TagPattern != "" {
		tags, err := exec.MergedTags(base.TagPattern, vendorRef)
		if err == nil && len(tags) > 0 {
			hash, err := exec.RevParse(tags[0])
			if err == nil && hash != "" {
				return hash, nil
			}
		}
	}

	tip, err := EnsureRef(exec, RemoteBase, base.Remote, base.Branch, "", "base-tip")
	if err != nil {
		return "", err
	}

	mb, err := exec.MergeBase(vendorRef, tip)
	if err != nil || mb == "" {
		return "", errors.Join(ErrBaseUnresolved, err)
	}
	return mb, nil
}
