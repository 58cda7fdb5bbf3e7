package main

import (
	"fmt"
	"os"

	"github.com/kernelforge/kforge/internal/common/logger"
	"github.com/kernelforge/kforge/internal/common/output"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	quiet       bool
	noColor     bool
	profilePath string
)

var rootCmd = &cobra.Command{
	Use:   "kforge",
	Short: "Patched kernel package generator",
	Long: `kforge maintains a kernel git workspace with multiple upstream remotes,
extracts a vendor patch series, merges it with an upstream patch collection,
and renders the PKGBUILD and artifacts that makepkg builds from.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Configure logging based on flags
		if verbose {
			logger.SetVerbose(true)
		}
		if quiet {
			logger.SetQuiet(true)
		}
		if noColor {
			output.NoColor()
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVarP(&profilePath, "profile", "p", "", "Path to the kernel profile (default ./kforge.toml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
