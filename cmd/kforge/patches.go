package main

import (
	"fmt"

	"github.com/kernelforge/kforge/internal/common/output"
	"github.com/spf13/cobra"
)

var patchesExportDir string

var patchesCmd = &cobra.Command{
	Use:   "patches",
	Short: "List the vendor patch series",
	Long:  `Sync sources and list the vendor commits that form the patch series, with per-patch diffstats.`,
	Run:   runPatches,
}

func init() {
	patchesCmd.Flags().StringVar(&patchesExportDir, "export", "", "Write the series as numbered patch files into this directory")
	rootCmd.AddCommand(patchesCmd)
}

func runPatches(cmd *cobra.Command, args []string) {
	p, err := loadPipeline()
	if err != nil {
		fail("%v", err)
	}

	if patchesExportDir != "" {
		n, err := p.ExportVendor(patchesExportDir)
		if err != nil {
			fail("%v", err)
		}
		output.PrintSuccess("exported %d patches to %s", n, patchesExportDir)
		return
	}

	entries, err := p.VendorSeries()
	if err != nil {
		fail("%v", err)
	}

	if len(entries) == 0 {
		output.PrintInfo("vendor series is empty")
		return
	}

	for i, e := range entries {
		fmt.Printf("%4d  %s  %s\n", i+1, output.FormatRef(e.Hash), e.Subject)
		output.Println(output.Dim, "      "+e.Stat.String())
	}
	output.PrintSuccess("%d vendor patches", len(entries))
}
