package cmd

import (
	"github.com/jblievremont/sonarqube/internal/outwriter"
	"github.com/jblievremont/sonarqube/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// sourcesCmd groups the commands working on persisted file sources.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Inspect persisted file sources",
}

// sourcesExportCmd exports file sources to Parquet files.
var sourcesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export persisted file sources to Parquet",
	Long: `Export stored file sources to Parquet for use with analytics tools.

Exports two datasets:
- <output-file>.file_sources.parquet - one row per file with its hashes
- <output-file>.file_lines.parquet   - one row per decoded source line

Requires: --output-file parameter

Examples:
  ce sources export --output-file sources
  duckdb -c "SELECT * FROM read_parquet('sources.file_lines.parquet') LIMIT 10"`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		summary, err := store.Manager.GetStore().ExportFileSources(rootCtx, viper.GetString("project-uuid"), cfg.OutputFile)
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WriteExportSummary(summary, cfg)
	},
}
