package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marcomd/metricmind/internal/contract"
	"github.com/marcomd/metricmind/internal/report"
	"github.com/marcomd/metricmind/internal/store"
)

// storeCmd groups database maintenance commands.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the commit database.",
	Long: `Inspect and maintain the database that holds loaded commits.

Supported backends: SQLite (default), MySQL, PostgreSQL

Subcommands:
  status  - Show row counts and connection info
  migrate - Apply or roll back schema migrations

Examples:
  # Check row counts
  metricmind store status

  # Bring the schema up to date
  metricmind store migrate`,
}

// storeStatusCmd shows row counts per table.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display row counts and connection details.",
	Long: `Show row counts for the repositories, commits and categories tables.

Use this to verify the store is reachable and to watch growth over time.

Examples:
  # Check the default SQLite store
  metricmind store status

  # Check a PostgreSQL store
  METRICMIND_BACKEND=postgresql METRICMIND_DB_CONNECT="..." metricmind store status`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := db.Status(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		if err := report.WriteStoreStatus(os.Stdout, status); err != nil {
			contract.LogFatal("Cannot write store status", err)
		}
	},
}

// storeMigrateCmd runs schema migrations.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back schema migrations.",
	Long: `Run versioned schema migrations against the configured backend.

By default the schema is migrated to the latest version. Pass
--target-version to pin a specific version, or 0 to roll everything back.

Examples:
  # Migrate to the latest version
  metricmind store migrate

  # Roll back everything
  metricmind store migrate --target-version 0`,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := store.Migrate(cfg.Backend, cfg.DBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Printf("Migrations complete for %s backend\n", cfg.Backend)
	},
}
