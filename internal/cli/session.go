package cli

import (
	"github.com/spf13/cobra"

	"github.com/n-sviridenko/pyprep/pkg/pyenv"
	"github.com/n-sviridenko/pyprep/pkg/session"
)

// sessionCommand creates the session command group for persisting and
// restoring environment state.
func (c *CLI) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Persist and restore environment state",
		Long: `Persist and restore environment state.

A session captures the sandbox's manifest and installed module set as a
single file, so a prepared environment can be recreated without
re-resolving and re-installing its packages.`,
	}

	cmd.AddCommand(c.sessionDumpCommand())
	cmd.AddCommand(c.sessionLoadCommand())

	return cmd
}

// sessionDumpCommand creates the "session dump" subcommand.
func (c *CLI) sessionDumpCommand() *cobra.Command {
	var envRoot string

	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Capture the environment into a session file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := pyenv.Open(envRoot)
			if err != nil {
				return err
			}
			lib := session.NewFileLibrary(env)
			if err := lib.Dump(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Session saved")
			printFile(args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&envRoot, "env", "e", "", "sandbox environment directory (required)")
	_ = cmd.MarkFlagRequired("env")

	return cmd
}

// sessionLoadCommand creates the "session load" subcommand.
func (c *CLI) sessionLoadCommand() *cobra.Command {
	var envRoot string

	cmd := &cobra.Command{
		Use:   "load [file]",
		Short: "Restore the environment from a session file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := pyenv.Open(envRoot)
			if err != nil {
				return err
			}
			lib := session.NewFileLibrary(env)
			if err := lib.Load(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Session restored")
			printFile(env.Root())
			return nil
		},
	}

	cmd.Flags().StringVarP(&envRoot, "env", "e", "", "sandbox environment directory (required)")
	_ = cmd.MarkFlagRequired("env")

	return cmd
}
