package main

import (
	"fmt"

	"github.com/kernelforge/kforge/internal/common/output"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check pinned sources for upstream updates",
	Long:  `Compare the profile's pinned refs against upstream branch heads and report the latest stable kernel release.`,
	Run:   runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	p, err := loadPipeline()
	if err != nil {
		fail("%v", err)
	}

	report, err := p.Check()
	if err != nil {
		fail("%v", err)
	}

	for _, src := range report.Sources {
		switch {
		case src.Note != "":
			fmt.Printf("%-10s %s\n", src.Name, output.Sprintf(output.Dim, "%s", src.Note))
		case src.UpdateAvailable:
			output.PrintWarning("%-10s %s -> %s (%s)", src.Name,
				output.FormatRef(src.Pinned), output.FormatRef(src.Head.SHA), src.Head.Subject)
		case src.Pinned == "":
			output.PrintInfo("%-10s tracking %s head %s", src.Name, src.Branch, output.FormatRef(src.Head.SHA))
		default:
			output.PrintSuccess("%-10s up to date at %s", src.Name, output.FormatRef(src.Pinned))
		}
	}

	if report.LatestStable != "" {
		if report.KernelUpdateAvailable {
			output.PrintWarning("latest stable kernel: %s (profile builds %s)",
				report.LatestStable, report.ProfileVersion)
		} else {
			output.PrintInfo("latest stable kernel: %s", report.LatestStable)
		}
	}
}
