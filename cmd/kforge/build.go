package main

import (
	"github.com/kernelforge/kforge/internal/common/output"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the generated package",
	Long:  `Run the configured build tool (makepkg by default) in the output directory.`,
	Run:   runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) {
	p, err := loadPipeline()
	if err != nil {
		fail("%v", err)
	}

	if err := p.Build(cmd.Context()); err != nil {
		fail("%v", err)
	}

	output.PrintSuccess("package built")
}
