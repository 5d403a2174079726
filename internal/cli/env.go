package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/n-sviridenko/pyprep/pkg/pyenv"
)

// envCommand creates the env command group for managing sandboxes.
func (c *CLI) envCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Create and inspect sandbox environments",
	}

	cmd.AddCommand(c.envInitCommand())
	cmd.AddCommand(c.envInfoCommand())

	return cmd
}

// envInitCommand creates the "env init" subcommand.
func (c *CLI) envInitCommand() *cobra.Command {
	var (
		runtime  string
		version  string
		python   string
		builtins []string
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new sandbox environment",
		Long: `Create a new sandbox environment.

Writes the environment manifest (env.toml) and the directory layout a
sandbox needs. Builtin modules passed with --builtin are treated as
always importable and never installed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := pyenv.Init(args[0], pyenv.Meta{
				Runtime: pyenv.Runtime{
					Name:     runtime,
					Version:  version,
					Python:   python,
					Builtins: builtins,
				},
			})
			if err != nil {
				return err
			}

			printSuccess("Created sandbox")
			printFile(env.Root())
			printNextStep("Install packages for a script", fmt.Sprintf("pyprep install script.py --env %s", args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&runtime, "runtime", "pyodide", "runtime name")
	cmd.Flags().StringVar(&version, "runtime-version", "", "runtime version")
	cmd.Flags().StringVar(&python, "python", "", "python version the runtime embeds")
	cmd.Flags().StringArrayVar(&builtins, "builtin", nil, "module shipped with the runtime (repeatable)")

	return cmd
}

// envInfoCommand creates the "env info" subcommand.
func (c *CLI) envInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [dir]",
		Short: "Show a sandbox's runtime and installed modules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := pyenv.Open(args[0])
			if err != nil {
				return err
			}
			meta := env.Meta()

			printKeyValue("Root", env.Root())
			printKeyValue("Runtime", meta.Runtime.Name)
			if meta.Runtime.Version != "" {
				printKeyValue("Version", meta.Runtime.Version)
			}
			if meta.Runtime.Python != "" {
				printKeyValue("Python", meta.Runtime.Python)
			}
			if len(meta.Runtime.Builtins) > 0 {
				printKeyValue("Builtins", strings.Join(meta.Runtime.Builtins, ", "))
			}

			if table := meta.PackageNameTable(); len(table) > 0 {
				modules := make([]string, 0, len(table))
				for mod := range table {
					modules = append(modules, mod)
				}
				sort.Strings(modules)
				fmt.Println()
				printDetail("Import name aliases:")
				for _, mod := range modules {
					printDetail("%s %s %s", mod, iconArrow, table[mod])
				}
			}

			mods, err := env.Modules()
			if err != nil {
				return err
			}
			fmt.Println()
			if len(mods) == 0 {
				printInfo("No modules installed")
				return nil
			}
			printInfo("%d module(s) installed:", len(mods))
			for _, mod := range mods {
				printDetail("%s", mod)
			}
			return nil
		},
	}
}
