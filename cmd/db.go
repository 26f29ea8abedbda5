package cmd

import (
	"fmt"

	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/internal/logging"
	"github.com/jblievremont/sonarqube/internal/outwriter"
	"github.com/jblievremont/sonarqube/internal/store"
	"github.com/jblievremont/sonarqube/schema"
	"github.com/spf13/cobra"
)

// dbCmd focused on persistence store management.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the persistence store",
	Long: `Manage the relational store holding file sources and reference data.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory, discarded on exit)

Subcommands:
  migrate - Run database schema migrations
  status  - Show store statistics
  clear   - Remove all stored data`,
}

// dbMigrateCmd runs database migrations.
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Move the store schema to a given version.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  ce db migrate

  # Rollback everything
  ce db migrate --target-version 0`,
	PreRunE: configOnlySetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := store.MigrateDatabase(rootCtx, cfg.Backend, cfg.DBConnect, cfg.TargetVersion); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		logging.Default().Info("Migrations applied", logging.FieldBackend, cfg.Backend)
		return nil
	},
}

// dbStatusCmd shows store status.
var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show backend, schema version, stored file sources and table sizes.

Examples:
  ce db status --output json`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		status, err := store.Manager.GetStore().GetStatus(rootCtx)
		if err != nil {
			return fmt.Errorf("failed to get store status: %w", err)
		}
		return outwriter.NewOutWriter().WriteStoreStatus(status, cfg)
	},
}

// dbClearCmd clears the store.
var dbClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored data",
	Long: `Delete every stored file source and reference row.

For SQLite the database file is removed. For MySQL and PostgreSQL the managed tables
and the migration history are dropped.

WARNING: This action cannot be undone. Consider exporting sources first.`,
	PreRunE: configOnlySetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		dbFilePath := cfg.DBConnect
		if cfg.Backend == schema.SQLiteBackend && dbFilePath == "" {
			dbFilePath = contract.GetDBFilePath()
		}
		if err := store.Clear(rootCtx, cfg.Backend, dbFilePath, cfg.DBConnect); err != nil {
			return fmt.Errorf("failed to clear store: %w", err)
		}
		logging.Default().Info("Store cleared", logging.FieldBackend, cfg.Backend)
		return nil
	},
}
