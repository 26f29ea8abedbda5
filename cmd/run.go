package cmd

import (
	"github.com/jblievremont/sonarqube/core"
	"github.com/jblievremont/sonarqube/internal/outwriter"
	"github.com/jblievremont/sonarqube/internal/store"
	"github.com/spf13/cobra"
)

// runCmd analyzes one extracted batch report.
var runCmd = &cobra.Command{
	Use:   "run <report-dir>",
	Short: "Run the computation steps over an extracted batch report",
	Long: `Run every computation step over an extracted batch report directory.

Steps, in order:
- Build tree of components
- Feed technical debt model
- Retrieve Quality Gate
- Load measures
- Persist file sources

The run stops at the first failing step. File sources are only rewritten when
their content or facets changed since the previous analysis.

Examples:
  # Analyze a report into the default SQLite store
  ce run ./report

  # Analyze into PostgreSQL and emit JSON
  ce run ./report --db-backend postgresql --db-connect "host=localhost dbname=ce" --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		summary, err := core.RunAnalysis(rootCtx, cfg, store.Manager.GetStore(), metrics)
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WriteRunSummary(summary, cfg)
	},
}
