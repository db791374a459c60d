package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display docsite version, commit and build date.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "docsite v%s\n", version)
			_, _ = fmt.Fprintf(out, "commit %s, built %s\n", commit, buildDate)
			_, _ = fmt.Fprintln(out, "Serves a folder tree of HTML documents as a website")
		},
	}
}
