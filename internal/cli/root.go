// Package cli wires the fleetfin commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	intconfig "fleetfin/internal/config"
	intdb "fleetfin/internal/db"
	"fleetfin/internal/domain"
	"fleetfin/internal/utils"
)

// cliActor is recorded in audit rows written from the command line.
var cliActor = domain.Actor{Username: "cli", Role: domain.RoleAdmin}

type app struct {
	cfgFile string
	env     intconfig.Env
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "fleetfin",
		Short:         "Fleet financial management service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			env, err := intconfig.Load(cmd.Flags(), a.cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := env.Validate(); err != nil {
				return err
			}
			a.env = env
			if _, err := utils.InitLogger(env.LogLevel, env.LogFormat); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			utils.SetCurrency(env.Currency)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = utils.Log().Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./fleetfin.yaml)")
	pf.String("db-driver", "", "database driver: sqlite or mysql")
	pf.String("db-dsn", "", "database DSN")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: json or console")

	root.AddCommand(
		a.serveCmd(),
		a.migrateCmd(),
		a.backupCmd(),
		a.seedCmd(),
		a.userCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		utils.Log().Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

// connect opens the configured database and applies pending migrations.
// The caller closes it with intconfig.CloseDB.
func (a *app) connect(ctx context.Context, migrate bool) error {
	db, err := intconfig.ConnectDB(a.env)
	if err != nil {
		return err
	}
	if !migrate {
		return nil
	}
	n, err := intdb.Migrate(ctx, db, a.env.DBDriver, utils.Timestamp())
	if err != nil {
		intconfig.CloseDB()
		return fmt.Errorf("migrate: %w", err)
	}
	if n > 0 {
		utils.LogEvent("", "db", "migrate", "migrations applied", zap.Int("count", n))
	}
	return nil
}
