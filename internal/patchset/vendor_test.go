package patchset

import (
	"errors"
	"testing"

	"github.com/kernelforge/kforge/internal/common/git"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestFilterExcluded(t *testing.T) {
	hashes := []string{
		"27b53f08bb8b7dcf4e9ae551bc8f9c65a05568ca",
		"1fe04fc050d845eedd28cc16e768e4eac66891a8",
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
	}

	tests := []struct {
		name       string
		exclusions []string
		wantLen    int
	}{
		{"no exclusions", nil, 3},
		{"full hash", []string{"27b53f08bb8b7dcf4e9ae551bc8f9c65a05568ca"}, 2},
		{"abbreviated", []string{"1fe04fc050d8"}, 2},
		{"minimum abbreviation", []string{"aaaaaaa"}, 2},
		{"too short to match", []string{"27b53f"}, 3},
		{"empty string ignored", []string{""}, 3},
		{"multiple", []string{"27b53f08bb8b7dcf4e9ae551bc8f9c65a05568ca", "aaaaaaaa"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterExcluded(hashes, tt.exclusions)
			if len(got) != tt.wantLen {
				t.Errorf("FilterExcluded = %v, want %d entries", got, tt.wantLen)
			}
		})
	}
}

// Property: filtering preserves order and never invents hashes
func TestFilterExcludedProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	genHashes := gen.SliceOf(gen.RegexMatch(`[0-9a-f]{40}`))

	properties.Property("kept hashes form an ordered subsequence", prop.ForAll(
		func(hashes []string, excludeIdx int) bool {
			var exclusions []string
			if len(hashes) > 0 {
				exclusions = []string{hashes[excludeIdx%len(hashes)]}
			}

			kept := FilterExcluded(hashes, exclusions)

			pos := 0
			for _, k := range kept {
				found := false
				for ; pos < len(hashes); pos++ {
					if hashes[pos] == k {
						found = true
						pos++
						break
					}
				}
				if !found {
					return false
				}
			}
			return true
		},
		genHashes,
		gen.IntRange(0, 1<<20),
	))

	properties.Property("excluded hash never survives", prop.ForAll(
		func(hashes []string, excludeIdx int) bool {
			if len(hashes) == 0 {
				return true
			}
			target := hashes[excludeIdx%len(hashes)]

			for _, k := range FilterExcluded(hashes, []string{target}) {
				if k == target {
					return false
				}
			}
			return true
		},
		genHashes,
		gen.IntRange(0, 1<<20),
	))

	properties.TestingRun(t)
}

func TestVendorCommits(t *testing.T) {
	commits := []string{
		"1111111111111111111111111111111111111111",
		"2222222222222222222222222222222222222222",
		"3333333333333333333333333333333333333333",
	}

	mock := &git.MockRunner{
		RevListRangeFunc: func(include string, exclude []string, reverse bool) ([]string, error) {
			if !reverse {
				t.Error("Expected reverse ordering for apply order")
			}
			if len(exclude) != 2 {
				t.Errorf("exclude = %v", exclude)
			}
			return commits, nil
		},
		CommitSubjectsFunc: func(hashes []string) (map[string]string, error) {
			subjects := make(map[string]string)
			for _, h := range hashes {
				subjects[h] = "subject for " + h[:4]
			}
			return subjects, nil
		},
	}

	hashes, subjects, err := VendorCommits(mock, "vendorRef", []string{"baseRef", "kernelRef"}, []string{"2222222222222222222222222222222222222222"}, 50)
	if err != nil {
		t.Fatalf("VendorCommits failed: %v", err)
	}

	if len(hashes) != 2 {
		t.Fatalf("Expected 2 commits after exclusion, got %v", hashes)
	}
	if subjects[hashes[0]] != "subject for 1111" {
		t.Errorf("subjects = %v", subjects)
	}
}

func TestVendorCommitsCap(t *testing.T) {
	many := make([]string, 51)
	for i := range many {
		many[i] = "1111111111111111111111111111111111111111"
	}

	mock := &git.MockRunner{
		RevListRangeFunc: func(include string, exclude []string, reverse bool) ([]string, error) {
			return many, nil
		},
	}

	_, _, err := VendorCommits(mock, "vendorRef", nil, nil, 50)
	if !errors.Is(err, ErrTooManyVendorPatches) {
		t.Errorf("Expected ErrTooManyVendorPatches, got %v", err)
	}
}

func TestVendorCommitsRevListError(t *testing.T) {
	mock := &git.MockRunner{
		RevListRangeFunc: func(include string, exclude []string, reverse bool) ([]string, error) {
			return nil, errors.New("bad revision")
		},
	}

	_, _, err := VendorCommits(mock, "vendorRef", nil, nil, 50)
	if err == nil {
		t.Error("Expected rev-list error to propagate")
	}
}
