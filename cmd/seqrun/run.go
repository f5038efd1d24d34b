package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/seqkit/bootstrap"
	"github.com/kbukum/seqkit/config"
	"github.com/kbukum/seqkit/plan"
	"github.com/kbukum/seqkit/version"
)

func newRunCmd() *cobra.Command {
	var (
		file   string
		input  string
		pretty bool
	)
	cmd := &cobra.Command{
		Use:   "run [plan]",
		Short: "Run a plan by name or from a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" && len(args) == 0 {
				return fmt.Errorf("a plan name or --file is required")
			}
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			return app.RunTask(cmd.Context(), func(ctx context.Context, a *bootstrap.App) error {
				p, err := loadPlan(a.Loader, file, args)
				if err != nil {
					return err
				}
				if input != "" {
					p.Source = plan.Source{JSON: input}
				}
				res, err := a.Engine.Run(ctx, p)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res, pretty)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "plan file path")
	cmd.Flags().StringVar(&input, "input", "", "JSON array replacing the plan source")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered plan functions",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range plan.DefaultRegistry().List() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func loadPlan(loader plan.Loader, file string, args []string) (*plan.Plan, error) {
	if file != "" {
		return plan.LoadFile(file)
	}
	return loader.Load(args[0])
}

// newApp loads configuration from file, env and flags, then bootstraps.
func newApp(cmd *cobra.Command) (*bootstrap.App, error) {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config")
	envFile, _ := flags.GetString("env-file")

	opts := []config.LoaderOption{
		config.WithDefaults(config.Defaults()),
		config.WithFlags(flags, flagKeys),
	}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	var cfg config.ServiceConfig
	if err := config.LoadConfig("seqrun", &cfg, opts...); err != nil {
		return nil, err
	}
	return bootstrap.NewApp(&cfg, bootstrap.WithVersion(version.Get().Version))
}
