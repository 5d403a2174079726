// Package installer defines the ports through which packages enter a
// sandbox environment.
//
// [Installer] installs one named package into the running environment.
// [Loader] is the lower-level bootstrap path used to fetch the installer's
// own support module before any install can happen — the equivalent of
// loading micropip into a Pyodide runtime before calling it.
//
// [pypi.Installer] implements both against the PyPI index; tests substitute
// in-memory fakes.
package installer

import (
	"context"
	"strings"
)

// SupportModule is the module the installer needs importable inside the
// environment before it can install anything else.
const SupportModule = "micropip"

// SupportPackage is the package that provides [SupportModule].
const SupportPackage = "micropip"

// Installer installs a package into the running environment.
// Install blocks until the package is fully available and may perform
// network I/O; failures propagate untouched, with no retry.
type Installer interface {
	Install(ctx context.Context, pkg string) error
}

// Loader fetches a support package and makes it available ahead of import,
// without going through the installer itself.
type Loader interface {
	Load(ctx context.Context, pkg string) error
}

// ImportName converts a distribution-style name to the module name it
// provides, following the wheel convention of underscores for hyphens
// (scikit-learn -> scikit_learn). Names that are already valid module names
// pass through unchanged.
func ImportName(pkg string) string {
	return strings.ReplaceAll(pkg, "-", "_")
}
