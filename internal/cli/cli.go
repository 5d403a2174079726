// Package cli implements the pyprep command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/n-sviridenko/pyprep/pkg/buildinfo"
	"github.com/n-sviridenko/pyprep/pkg/cache"
	"github.com/n-sviridenko/pyprep/pkg/installer/pypi"
	"github.com/n-sviridenko/pyprep/pkg/prepare"
	"github.com/n-sviridenko/pyprep/pkg/pyenv"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pyprep"

	// metadataTTL bounds how long cached package metadata stays fresh.
	metadataTTL = 24 * time.Hour
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "pyprep",
		Short:        "Pyprep prepares sandboxed Python environments for user code",
		Long:         `Pyprep scans Python source for imports, resolves the packages that are missing from a sandboxed runtime environment, and installs them so the code can run.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.installCommand())
	root.AddCommand(c.envCommand())
	root.AddCommand(c.sessionCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Preparer Factory
// =============================================================================

// newPreparer wires a preparer against env, with a PyPI-backed installer.
func (c *CLI) newPreparer(env *pyenv.DirEnv, noCache bool) (*prepare.Preparer, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	client := pypi.NewClient(store)
	inst := pypi.NewInstaller(client, env)

	p := prepare.New(env, inst, inst)
	p.Logger = c.Logger.Debugf
	return p, nil
}

func newCache(noCache bool) (*cache.Cache, error) {
	if noCache {
		return nil, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, nil
	}
	store, err := cache.New(dir, metadataTTL)
	if err != nil {
		return nil, nil
	}
	return store.Namespace("pypi:"), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pyprep/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Input Helpers
// =============================================================================

// readSource reads Python source from path, or from stdin when path is "-".
func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
