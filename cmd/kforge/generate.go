package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/kernelforge/kforge/internal/common/output"
	"github.com/spf13/cobra"
)

var generateBuild bool

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the package from the profile",
	Long: `Sync kernel sources, extract the vendor patch series, merge it with the
upstream patch collection, verify the combined series applies to the pinned
kernel base, and write the PKGBUILD, kernel config, and patch tarball.`,
	Run: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateBuild, "build", false, "Run makepkg after generating")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) {
	p, err := loadPipeline()
	if err != nil {
		fail("%v", err)
	}

	result, err := p.Generate()
	if err != nil {
		fail("%v", err)
	}

	fmt.Println()
	output.Println(output.Header, "Summary")
	output.PrintInfo("kernel base %s", output.FormatRef(result.Refs.KernelHash))
	output.PrintInfo("vendor tree %s (distro base %s)",
		output.FormatRef(result.Refs.VendorHash), output.FormatRef(result.Refs.BaseHash))
	output.PrintSuccess("upstream patches: %d", result.UpstreamCount)
	output.PrintSuccess("vendor patches: applied %d of %d, skipped %d",
		result.VendorApplied, result.VendorCollected, result.VendorCollected-result.VendorApplied)

	if len(result.Skipped) > 0 {
		output.PrintWarning("skipped patches:")
		for _, s := range result.Skipped {
			fmt.Printf("  %s %s: %s\n", output.FormatStatus("skipped"), s.Label, s.Reason)
		}
	}

	output.PrintSuccess("wrote %s", result.PKGBUILDPath)
	output.PrintSuccess("wrote %s (%s)", result.TarballPath, humanize.Bytes(uint64(result.TarballSize)))

	if generateBuild {
		if err := p.Build(cmd.Context()); err != nil {
			fail("%v", err)
		}
		output.PrintSuccess("package built")
	}
}
