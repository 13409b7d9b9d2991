// Command migrate manages the database schema outside of the API process.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	appMigrations "github.com/viniciusfeitosaa/gymapp/internal/app/migrations"
	"github.com/viniciusfeitosaa/gymapp/internal/config"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/logger"
)

var (
	configPath string
	migrator   *appMigrations.Migrator
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back the GymApp database schema",
	Long: `Migrate runs the SQL migrations embedded in the API binary.

The connection string comes from DATABASE_URL or the database section of the
config file, exactly as the API resolves it. The whole configuration is
validated, so JWT_SECRET must be set as well.

  $ migrate up          # apply every pending migration
  $ migrate down 1      # roll back the last migration
  $ migrate down --all  # drop the whole schema
  $ migrate version     # print the current schema version`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		lgr := logger.Configure(logger.Config{Level: cfg.Logging.Level, Pretty: true})
		migrator, err = appMigrations.NewMigrator(cfg.GetPostgresConnectionString(), lgr)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if migrator != nil {
			return migrator.Close()
		}
		return nil
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := migrator.Up(); err != nil {
			return err
		}
		return printVersion()
	},
}

var downAll bool

var downCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations (one step by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("steps must be a positive number, got %q", args[0])
			}
			steps = n
		}
		if downAll {
			color.Yellow("Rolling back every migration")
			steps = 0
		}
		if err := migrator.Down(steps); err != nil {
			return err
		}
		return printVersion()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printVersion()
	},
}

func printVersion() error {
	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		color.Yellow("No migrations applied")
		return nil
	}
	if dirty {
		color.Red("Schema version %d is dirty: the last migration failed halfway", version)
		return nil
	}
	color.Green("Schema version %d", version)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "path to the YAML config file")
	downCmd.Flags().BoolVar(&downAll, "all", false, "roll back every migration")
	rootCmd.AddCommand(upCmd, downCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
