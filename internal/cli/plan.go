package cli

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/n-sviridenko/pyprep/pkg/prepare"
	"github.com/n-sviridenko/pyprep/pkg/pyenv"
	"github.com/n-sviridenko/pyprep/pkg/pysrc"
)

// planCommand creates the plan command for computing an install plan
// without touching the environment.
func (c *CLI) planCommand() *cobra.Command {
	var (
		envRoot  string
		packages []string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "plan [file.py]",
		Short: "Compute which packages an environment is missing",
		Long: `Compute which packages an environment is missing.

Scans the source for imports, probes each one against the sandbox, and
prints the packages that would be installed. Nothing is downloaded and
the environment is not modified. Extra packages requested with --package
are appended to the plan unless an entry for that module already exists.`,
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

			logger := loggerFromContext(cmd.Context())
			imports, err := pysrc.FindImports(source)
			if err != nil {
				var synErr *pysrc.SyntaxError
				if stderrors.As(err, &synErr) {
					printWarning("source does not parse: %v", synErr)
					return nil
				}
				return err
			}

			logger.Debugf("found %d imports in %s", len(imports), args[0])

			entries, err := prepare.FindImportsToInstall(env, imports)
			if err != nil {
				return err
			}
			for _, pkg := range packages {
				if !hasPlanModule(entries, pkg) {
					entries = append(entries, prepare.InstallEntry{Module: pkg, Package: pkg})
				}
			}

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(entries)
			}
			if len(entries) == 0 {
				printInfo("Nothing to install")
				return nil
			}
			fmt.Printf("%d package(s) to install:\n", len(entries))
			printEntries(entries)
			return nil
		},
	}

	cmd.Flags().StringVarP(&envRoot, "env", "e", "", "sandbox environment directory (required)")
	cmd.Flags().StringArrayVarP(&packages, "package", "p", nil, "extra package to include (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as JSON")
	_ = cmd.MarkFlagRequired("env")

	return cmd
}

// hasPlanModule reports whether the plan already covers module, by exact
// name comparison.
func hasPlanModule(entries []prepare.InstallEntry, module string) bool {
	for _, e := range entries {
		if e.Module == module {
			return true
		}
	}
	return false
}
