package main

import (
	"github.com/kernelforge/kforge/internal/common/output"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Sync kernel sources and resolve pins",
	Long: `Fetch the kernel, vendor, and distro base trees into the workspace and
resolve every pinned ref without generating anything.`,
	Run: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) {
	p, err := loadPipeline()
	if err != nil {
		fail("%v", err)
	}

	refs, err := p.FetchSources()
	if err != nil {
		fail("%v", err)
	}

	output.PrintSuccess("kernel  %s (%s)", output.FormatRef(refs.KernelHash), refs.Kernel)
	output.PrintSuccess("vendor  %s (%s)", output.FormatRef(refs.VendorHash), refs.Vendor)
	output.PrintSuccess("base    %s", output.FormatRef(refs.BaseHash))
}
