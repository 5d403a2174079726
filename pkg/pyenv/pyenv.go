// Package pyenv models the target Python runtime environment that pyprep
// prepares.
//
// A [DirEnv] is a sandbox rooted at a directory, laid out as:
//
//	<root>/env.toml    runtime metadata (name, version, builtins, name table)
//	<root>/modules/    one entry per importable module
//	<root>/wheels/     downloaded distribution files
//
// The metadata file carries the import-name to package-name table that maps
// an import name to the distribution that provides it (e.g. PIL -> pillow).
// Current metadata stores it under the `import_name_to_package_name` key;
// environments written before the v2 layout used the `aliases` key, and
// [DirEnv.PackageNameTable] falls back to it when the current key is absent.
//
// Probing a module distinguishes three outcomes: importable (nil error),
// missing (MODULE_NOT_FOUND), and present-but-broken (MODULE_BROKEN). Only
// the missing case means "install it"; a broken module is a real failure.
package pyenv

import (
	"maps"

	"github.com/n-sviridenko/pyprep/pkg/errors"
)

// Meta is the decoded form of env.toml.
type Meta struct {
	Runtime Runtime           `toml:"runtime" json:"runtime"`
	Table   map[string]string `toml:"import_name_to_package_name" json:"import_name_to_package_name,omitempty"`
	Aliases map[string]string `toml:"aliases" json:"aliases,omitempty"` // legacy pre-v2 key
}

// Runtime describes the interpreter the sandbox hosts.
type Runtime struct {
	Name     string   `toml:"name" json:"name"`         // e.g. "pyodide"
	Version  string   `toml:"version" json:"version"`   // e.g. "0.26.2"
	Python   string   `toml:"python" json:"python"`     // e.g. "3.12"
	Builtins []string `toml:"builtins" json:"builtins"` // modules shipped with the runtime
	Broken   []string `toml:"broken" json:"broken"`     // present but unimportable modules
}

// PackageNameTable returns the import-name to package-name mapping, trying
// the current metadata key first and falling back to the legacy one.
// The returned map is a copy; mutating it does not affect the metadata.
func (m *Meta) PackageNameTable() map[string]string {
	if len(m.Table) > 0 {
		return maps.Clone(m.Table)
	}
	if m.Aliases == nil {
		return map[string]string{}
	}
	return maps.Clone(m.Aliases)
}

// IsNotFound reports whether err is a missing-module probe result.
func IsNotFound(err error) bool {
	return errors.Is(err, errors.ErrCodeModuleNotFound)
}

// IsBroken reports whether err is a present-but-broken probe result.
func IsBroken(err error) bool {
	return errors.Is(err, errors.ErrCodeModuleBroken)
}
