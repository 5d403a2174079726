package cli

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/n-sviridenko/pyprep/pkg/pysrc"
)

// scanCommand creates the scan command for extracting imports from source.
func (c *CLI) scanCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scan [file.py]",
		Short: "Extract top-level imports from Python source",
		Long: `Extract top-level imports from Python source.

Reads a Python file (or stdin when the argument is "-") and prints the
root module of every top-level import statement, deduplicated in order
of first appearance. Imports nested inside functions, classes, or
conditionals are not included, and neither are relative imports.

A file that does not parse is reported as an error with the offending line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args[0])
			if err != nil {
				return err
			}

			imports, err := pysrc.FindImports(source)
			if err != nil {
				var synErr *pysrc.SyntaxError
				if stderrors.As(err, &synErr) {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				return err
			}

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(imports)
			}
			for _, name := range imports {
				fmt.Println(name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print imports as a JSON array")

	return cmd
}
