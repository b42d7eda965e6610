package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/typedfs/pkg/typedfs"
	"github.com/arthur-debert/typedfs/pkg/typedfs/config"
	"github.com/arthur-debert/typedfs/pkg/typedfs/core"
)

// app carries what every subcommand needs once flags and environment are read.
type app struct {
	fs       *typedfs.FS
	ifExists core.IfExists
}

// globalFlags override the environment configuration.
type globalFlags struct {
	sandbox  string
	deny     []string
	logLevel string
	ifExists string
}

// newRootCmd builds the command tree. opts are applied to the FS after the
// configuration, which lets tests inject a workdir.
func newRootCmd(opts ...typedfs.Option) *cobra.Command {
	var (
		flags globalFlags
		a     app
	)

	cmd := &cobra.Command{
		Use:   "typedfs",
		Short: "Typed, sandbox-aware filesystem operations",
		Long: `typedfs creates, links, lists and deletes files and directories through typed
paths. Writes can be confined to a sandbox root, and every creation honors an
if-exists policy (error, open or replace).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if flags.sandbox != "" {
				cfg.Sandbox.Enabled = true
				cfg.Sandbox.Root = flags.sandbox
			}
			if len(flags.deny) > 0 {
				cfg.Sandbox.Denylist = append(cfg.Sandbox.Denylist, flags.deny...)
			}
			if flags.logLevel != "" {
				cfg.Logging.Level = flags.logLevel
			}
			if flags.ifExists != "" {
				cfg.Create.IfExists = flags.ifExists
			}

			fsys, err := typedfs.NewFromConfig(cfg, opts...)
			if err != nil {
				return err
			}
			ifExists, err := cfg.IfExists()
			if err != nil {
				return err
			}
			a = app{fs: fsys, ifExists: ifExists}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.sandbox, "sandbox", "", "Confine writes to this absolute directory")
	pf.StringSliceVar(&flags.deny, "deny", nil, "Gitignore-style patterns rejected inside the sandbox")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	pf.StringVar(&flags.ifExists, "if-exists", "", "Policy when the entry exists: error, open or replace")

	cmd.AddCommand(newVersionCommand())
	cmd.AddCommand(newLsCommand(&a))
	cmd.AddCommand(newTouchCommand(&a))
	cmd.AddCommand(newMkdirCommand(&a))
	cmd.AddCommand(newLnCommand(&a))
	cmd.AddCommand(newRmCommand(&a))
	cmd.AddCommand(newCatCommand(&a))
	cmd.AddCommand(newStatCommand(&a))
	cmd.AddCommand(newReadlinkCommand(&a))
	cmd.AddCommand(newApplyCommand(&a))

	return cmd
}

// Execute runs the command tree. This is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  `Print the version number of typedfs`,
		// The version needs no filesystem.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "typedfs version %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
