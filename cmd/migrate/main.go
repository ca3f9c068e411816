package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/creator-copilot/ledger-backend/config"
	"github.com/creator-copilot/ledger-backend/internal/db"
	"github.com/creator-copilot/ledger-backend/internal/storage/postgres"
)

var (
	migrationsDir string
	dsnFlag       string
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the ledger database schema",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Args:  cobra.NoArgs,
	RunE:  runUp,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List applied migrations",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "dir", "", "Read migrations from this directory instead of the embedded set")
	rootCmd.PersistentFlags().StringVar(&dsnFlag, "dsn", "", "Database DSN (defaults to DB_DSN / DB_* settings)")
	rootCmd.AddCommand(upCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func open(ctx context.Context) (*db.DB, error) {
	dsn := dsnFlag
	if dsn == "" {
		cfg, err := config.LoadDatabase()
		if err != nil {
			return nil, err
		}
		dsn = postgres.DSN(cfg)
	}
	return db.Open(ctx, dsn, db.Options{MaxConns: 2})
}

func source() fs.FS {
	if migrationsDir != "" {
		return os.DirFS(migrationsDir)
	}
	return db.Migrations()
}

func runUp(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	d, err := open(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	applied, err := d.ApplyMigrations(ctx, source())
	for _, name := range applied {
		fmt.Fprintln(cmd.OutOrStdout(), "applied", name)
	}
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
	}
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	d, err := open(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	rows, err := d.AppliedMigrations(ctx)
	if err != nil {
		return err
	}
	for _, a := range rows {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", a.Filename, a.AppliedAt.Format(time.RFC3339))
	}
	return nil
}
