// Command runclub is the operations CLI: schema migrations and bulk import of
// collectible items.
//
// Usage:
//
//	runclub migrate up
//	runclub migrate version
//	runclub import items.xlsx
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"backend-runclub/internal/collectible"
	"backend-runclub/internal/config"
	"backend-runclub/internal/db"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type cliDeps struct {
	loadConfig     func() config.Config
	migrateUp      func(string) error
	migrateDown    func(string) error
	migrateVersion func(string) (uint, bool, error)
	connect        func(config.Config) (db.Querier, func(), error)
}

func defaultDeps() cliDeps {
	return cliDeps{
		loadConfig:     config.Load,
		migrateUp:      db.MigrateUp,
		migrateDown:    db.MigrateDown,
		migrateVersion: db.MigrateVersion,
		connect: func(cfg config.Config) (db.Querier, func(), error) {
			pool, err := db.ConnectPostgres(cfg)
			if err != nil {
				return nil, nil, err
			}
			return pool, pool.Close, nil
		},
	}
}

func main() {
	_ = godotenv.Load(".env")

	if err := newRootCmd(defaultDeps()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(deps cliDeps) *cobra.Command {
	root := &cobra.Command{
		Use:          "runclub",
		Short:        "Run club operations CLI",
		SilenceUsage: true,
	}
	root.AddCommand(migrateCmd(deps))
	root.AddCommand(importCmd(deps))
	return root
}

func migrateCmd(deps cliDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := deps.migrateUp(deps.loadConfig().PostgresURL); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := deps.migrateDown(deps.loadConfig().PostgresURL); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "rolled back one migration")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			version, dirty, err := deps.migrateVersion(deps.loadConfig().PostgresURL)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty=%v)\n", version, dirty)
			return nil
		},
	})
	return cmd
}

func importCmd(deps cliDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import collectible items from an .xlsx or .csv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := collectible.ReadRows(args[0], f)
			if err != nil {
				return err
			}

			q, closeFn, err := deps.connect(deps.loadConfig())
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer closeFn()

			// a failed import still reports the rows handled before the error
			result, err := collectible.NewService(q).Import(context.Background(), rows)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "created %d items\n", result.Created)
			for _, row := range result.Invalid {
				fmt.Fprintf(out, "invalid row: %s\n", strings.Join(row, ","))
			}
			return err
		},
	}
}
