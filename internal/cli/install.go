package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/n-sviridenko/pyprep/pkg/prepare"
	"github.com/n-sviridenko/pyprep/pkg/pyenv"
	"github.com/n-sviridenko/pyprep/pkg/session"
)

// installCommand creates the install command, the main end-to-end flow.
func (c *CLI) installCommand() *cobra.Command {
	var (
		envRoot     string
		packages    []string
		interactive bool
		noCache     bool
		sessionOut  string
	)

	cmd := &cobra.Command{
		Use:   "install [file.py]",
		Short: "Resolve and install missing packages into a sandbox",
		Long: `Resolve and install missing packages into a sandbox.

Scans the source for imports, computes the packages the environment is
missing, and installs them from PyPI one at a time, in plan order. The
first failed install aborts the run. If the sandbox lacks the installer
support module it is bootstrapped first.

Source that does not parse installs nothing and is not an error: the
same file will fail again at execution time with a proper traceback.

With --interactive the computed plan is shown for review and individual
entries can be deselected before anything is downloaded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args[0])
			if err != nil {
				return err
			}
			env, err := pyenv.Open(envRoot)
			if err != nil {
				return err
			}
			return c.runInstall(cmd.Context(), env, installParams{
				source:      source,
				packages:    packages,
				interactive: interactive,
				noCache:     noCache,
				sessionOut:  sessionOut,
			})
		},
	}

	cmd.Flags().StringVarP(&envRoot, "env", "e", "", "sandbox environment directory (required)")
	cmd.Flags().StringArrayVarP(&packages, "package", "p", nil, "extra package to install (repeatable)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "review the plan before installing")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable metadata caching")
	cmd.Flags().StringVar(&sessionOut, "session", "", "dump the environment session to this file after installing")
	_ = cmd.MarkFlagRequired("env")

	return cmd
}

type installParams struct {
	source      string
	packages    []string
	interactive bool
	noCache     bool
	sessionOut  string
}

// runInstall drives the prepare flow and renders progress.
func (c *CLI) runInstall(ctx context.Context, env *pyenv.DirEnv, params installParams) error {
	p, err := c.newPreparer(env, params.noCache)
	if err != nil {
		return fmt.Errorf("initialize preparer: %w", err)
	}

	src := prepare.Code(params.source)
	additional := params.packages
	if params.interactive {
		selected, ok, err := c.selectEntries(params.source, additional, p.Env)
		if err != nil {
			return err
		}
		if !ok {
			printInfo("Install cancelled")
			return nil
		}
		if len(selected) == 0 {
			printInfo("Nothing selected")
			return nil
		}
		modules := make([]string, len(selected))
		for i, e := range selected {
			modules[i] = e.Module
		}
		src = prepare.Modules(modules...)
		additional = nil
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Installing packages...")
	spinner.Start()

	entries, err := p.InstallImports(ctx, src, additional)
	if err != nil {
		spinner.StopWithError("Install failed")
		return err
	}
	spinner.Stop()

	// A nil plan with a nil error means the source did not parse; there is
	// nothing to install and execution will surface the real error.
	if entries == nil {
		printWarning("source does not parse; nothing to install")
		return nil
	}
	if len(entries) == 0 {
		printInfo("Nothing to install")
	} else {
		printSuccess("Installed %d package(s)", len(entries))
		printEntries(entries)
		prog.done(fmt.Sprintf("Installed %d packages", len(entries)))
	}

	if params.sessionOut != "" {
		lib := session.NewFileLibrary(env)
		if err := lib.Dump(ctx, params.sessionOut); err != nil {
			return fmt.Errorf("dump session: %w", err)
		}
		printFile(params.sessionOut)
	}
	return nil
}
