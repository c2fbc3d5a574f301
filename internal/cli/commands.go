package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	intconfig "fleetfin/internal/config"
	intdb "fleetfin/internal/db"
	"fleetfin/internal/services"
	"fleetfin/internal/utils"
)

func (a *app) migrateCmd() *cobra.Command {
	var down bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations, or roll back the last one with --down",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.connect(ctx, false); err != nil {
				return err
			}
			defer intconfig.CloseDB()
			if down {
				if err := intdb.RollbackLast(ctx, intconfig.DB, a.env.DBDriver); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "rolled back last migration")
				return nil
			}
			n, err := intdb.Migrate(ctx, intconfig.DB, a.env.DBDriver, utils.Timestamp())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll back the most recent migration")
	return cmd
}

func (a *app) backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import the whole dataset",
	}

	var out string
	var compress bool
	export := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.connect(ctx, true); err != nil {
				return err
			}
			defer intconfig.CloseDB()

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			data, err := services.BackupService{}.Export(ctx, w, compress)
			if err != nil {
				return err
			}
			if out != "" && out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %s\n", formatCounts(data.Counts()))
			}
			return nil
		},
	}
	export.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	export.Flags().BoolVar(&compress, "gzip", false, "gzip the output")

	var in string
	imp := &cobra.Command{
		Use:   "import",
		Short: "Replace every table with a backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" {
				return fmt.Errorf("--in is required")
			}
			ctx := cmd.Context()
			if err := a.connect(ctx, true); err != nil {
				return err
			}
			defer intconfig.CloseDB()

			f, err := os.Open(in)
			if err != nil {
				return err
			}
			defer f.Close()
			counts, err := services.BackupService{}.Import(ctx, cliActor, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", formatCounts(counts))
			return nil
		},
	}
	imp.Flags().StringVar(&in, "in", "", "backup file, plain or gzip")

	cmd.AddCommand(export, imp)
	return cmd
}

func (a *app) seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load registry fixtures from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			seed, err := services.ParseSeed(f)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := a.connect(ctx, true); err != nil {
				return err
			}
			defer intconfig.CloseDB()
			counts, err := services.SeedService{}.Load(ctx, cliActor, seed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %s\n", formatCounts(counts))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "fixtures file")
	return cmd
}

func (a *app) userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	var in services.UserInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.connect(ctx, true); err != nil {
				return err
			}
			defer intconfig.CloseDB()
			if in.Name == "" {
				in.Name = in.Username
			}
			u, err := services.UserService{}.Create(ctx, cliActor, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d, role %s)\n", u.Username, u.ID, u.Role)
			return nil
		},
	}
	f := create.Flags()
	f.StringVar(&in.Username, "username", "", "login name")
	f.StringVar(&in.Name, "name", "", "display name (default username)")
	f.StringVar(&in.Password, "password", "", "password")
	f.StringVar(&in.Role, "role", "operator", "admin, manager, operator or viewer")
	cmd.AddCommand(create)
	return cmd
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s := ""
	for i, k := range keys {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s=%d", k, counts[k])
	}
	return s
}
