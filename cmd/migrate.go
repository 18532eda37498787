package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/killallgit/transcriptflow-api/internal/database"
	"github.com/killallgit/transcriptflow-api/internal/models"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage database migrations for the TranscriptFlow API.

The schema is derived from the application models with GORM auto migration.
Tables are created or extended, never narrowed.

Available subcommands:
  up      - Create or update every application table
  down    - Drop every application table
  status  - Show which application tables exist`,
}

// migrateUpCmd applies the schema
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Create or update all tables",
	Long: `Apply all pending database migrations.

Runs GORM auto migration for channel jobs, usage records, subscriptions,
saved transcripts and cache entries.`,
	RunE: runMigrateUp,
}

// migrateDownCmd drops the schema
var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Drop all tables",
	Long: `Rollback the last applied migration by dropping every application table.

All jobs, usage history and saved transcripts are lost. The command asks
for confirmation unless --yes is given.`,
	RunE: runMigrateDown,
}

// migrateStatusCmd shows migration status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long: `Display the current status of database migrations.

Lists every application table and whether it exists in the configured database.`,
	RunE: runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateDownCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	migrateCmd.PersistentFlags().Bool("dry-run", false, "show what would be done without making changes")
}

func openDatabase() (*database.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return database.Open(cfg.Database)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if dryRun {
		fmt.Fprintln(out, "Dry run mode - no changes will be made")
		for _, table := range tableNames(db.DB) {
			fmt.Fprintf(out, "  would migrate %s\n", table)
		}
		return nil
	}

	if err := db.Migrate(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables (%s)\n", len(models.AllModels()), db.Driver())
	return nil
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	yes, _ := cmd.Flags().GetBool("yes")
	out := cmd.OutOrStdout()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	tables := tableNames(db.DB)
	if dryRun {
		fmt.Fprintln(out, "Dry run mode - no changes will be made")
		for _, table := range tables {
			fmt.Fprintf(out, "  would drop %s\n", table)
		}
		return nil
	}

	if !yes {
		fmt.Fprintf(out, "WARNING: This will drop %d table(s) and all their data. Continue? (y/N): ", len(tables))
		response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		response = strings.TrimSpace(response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Migration rollback cancelled")
			return nil
		}
	}

	// drop in reverse creation order
	all := models.AllModels()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(all[i]); err != nil {
			return fmt.Errorf("drop %s: %w", tables[i], err)
		}
	}
	fmt.Fprintf(out, "Dropped %d tables\n", len(tables))
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintln(out, "Database Migration Status")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintf(out, "Driver: %s\n\n", db.Driver())

	names := tableNames(db.DB)
	pending := 0
	for i, model := range models.AllModels() {
		state := "applied"
		if !db.Migrator().HasTable(model) {
			state = "pending"
			pending++
		}
		fmt.Fprintf(out, "  %-22s %s\n", names[i], state)
	}
	fmt.Fprintf(out, "\n%d pending\n", pending)
	return nil
}

// tableNames resolves the table of every model in migration order
func tableNames(db *gorm.DB) []string {
	all := models.AllModels()
	names := make([]string, 0, len(all))
	for _, model := range all {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			names = append(names, fmt.Sprintf("%T", model))
			continue
		}
		names = append(names, stmt.Schema.Table)
	}
	return names
}
