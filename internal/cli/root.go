// Package cli implements the lifesync command line, the front end that reads
// from and writes to the organizer's store.
package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/lifesync/internal/config"
	"github.com/mmynk/lifesync/pkg/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	DBPath     string
	Format     string // "json" | "text"
	Verbose    bool

	cfg config.Config
}

// NewRootCommand creates the root command for the lifesync CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "lifesync",
		Short:         "LifeSync - a local-first life organizer",
		Long:          "Tasks, appointments, expenses and budgets kept on this device, shared with partners by exchanging a code.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "path to the database (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewSetupCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewRenameCommand(opts))
	cmd.AddCommand(NewCodeCommand(opts))
	cmd.AddCommand(NewLinkCommand(opts))
	cmd.AddCommand(NewUnlinkCommand(opts))
	cmd.AddCommand(NewPartnersCommand(opts))
	cmd.AddCommand(NewTaskCommand(opts))
	cmd.AddCommand(NewApptCommand(opts))
	cmd.AddCommand(NewExpenseCommand(opts))
	cmd.AddCommand(NewBudgetCommand(opts))
	cmd.AddCommand(NewDashboardCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))

	return cmd
}

// load resolves the configuration: file and environment first, then flags.
func (o *RootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = o.Format
	}
	if o.Verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logging.SetupWithLevel(cmd.ErrOrStderr(), level)
	slog.Debug("Configuration loaded", "db", cfg.DBPath, "format", cfg.Format, "write_behind", cfg.WriteBehind)

	o.cfg = cfg
	return nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.cfg.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // keep diagnostics out of JSON output
		Verbose:   o.Verbose,
	}
}

// run opens a session, calls fn and reports any error through the formatter.
func (o *RootOptions) run(cmd *cobra.Command, fn func(s *session, f *OutputFormatter) error) error {
	f := o.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := openSession(ctx, o.cfg)
	if err != nil {
		return f.Fail(err)
	}
	defer s.Close()
	f.VerboseLog("Using database %s", o.cfg.DBPath)

	if err := fn(s, f); err != nil {
		return f.Fail(err)
	}
	return nil
}
