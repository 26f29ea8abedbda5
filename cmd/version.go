package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd prints build information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ce.",
	Long: `Display the release version, the commit it was built from, the build date
and the Go runtime. Include this output when reporting a bug.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("ce %s (commit %s, built %s, %s)\n", version, commit, date, runtime.Version())
	},
}
