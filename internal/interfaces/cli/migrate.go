package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/mini-spade/pkg/errors"
)

// MigrationStatus is the output of `migrate status`.
type MigrationStatus struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

func (s MigrationStatus) String() string {
	return fmt.Sprintf("version: %d\ndirty:   %t\n", s.Version, s.Dirty)
}

func (s MigrationStatus) TableHeaders() []string { return []string{"VERSION", "DIRTY"} }

func (s MigrationStatus) TableRows() [][]string {
	return [][]string{{strconv.FormatUint(uint64(s.Version), 10), strconv.FormatBool(s.Dirty)}}
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	withMigrator := func(run func(cmd *cobra.Command, m Migrator, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			m, err := cliCtx.Factories.Migrator(cliCtx.Config, cliCtx.Logger)
			if err != nil {
				return err
			}
			return run(cmd, m, args)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(cmd *cobra.Command, m Migrator, _ []string) error {
				if err := m.RunMigrations(); err != nil {
					return err
				}
				PrintSuccess(cmd, "schema is up to date")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down [n]",
			Short: "Roll back the last n migrations (default 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: withMigrator(func(cmd *cobra.Command, m Migrator, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n < 1 {
						return errors.InvalidParam("n must be a positive integer").WithDetail("n=" + args[0])
					}
					steps = n
				}
				if err := m.RollbackMigration(steps); err != nil {
					return err
				}
				PrintSuccess(cmd, fmt.Sprintf("rolled back %d migration(s)", steps))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the applied schema version",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(cmd *cobra.Command, m Migrator, _ []string) error {
				v, dirty, err := m.MigrationStatus()
				if err != nil {
					return err
				}
				return PrintResult(cmd, MigrationStatus{Version: v, Dirty: dirty})
			}),
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Mark a version as applied after a manual fix",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(cmd *cobra.Command, m Migrator, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil || v < -1 {
					return errors.InvalidParam("version must be an integer >= -1").WithDetail("version=" + args[0])
				}
				if err := m.ForceMigrationVersion(v); err != nil {
					return err
				}
				PrintSuccess(cmd, fmt.Sprintf("forced version %d", v))
				return nil
			}),
		},
	)
	return cmd
}

//Personal.AI order the ending
