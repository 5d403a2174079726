// Package prepare resolves and installs the packages a piece of Python
// source needs before it can run in a sandboxed runtime.
//
// # Overview
//
// The flow mirrors what happens right before user code executes:
//
//  1. Scan the source for top-level imports ([pysrc.FindImports]).
//  2. Probe each import against the target environment; missing modules are
//     mapped to installable package names via the environment's name table
//     ([FindImportsToInstall]).
//  3. Merge in explicitly requested extra packages.
//  4. Bootstrap the installer support module if it is not importable yet.
//  5. Install every entry sequentially, registering each module on success.
//
// Installs run one at a time, in plan order, with no retries: the first
// failure aborts the run and propagates. The environment's live module set
// is mutated along the way, so a Preparer must not be invoked concurrently
// against the same environment.
package prepare

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/n-sviridenko/pyprep/pkg/installer"
	"github.com/n-sviridenko/pyprep/pkg/observability"
	"github.com/n-sviridenko/pyprep/pkg/pyenv"
	"github.com/n-sviridenko/pyprep/pkg/pysrc"
)

// InstallEntry pairs an import name with the package that provides it.
// Module is the name used in source; Package is the name requested from the
// index. They differ when the import name is aliased (e.g. PIL -> pillow).
type InstallEntry struct {
	Module  string `json:"module"`
	Package string `json:"package"`
}

// Environment is the target runtime the plan is computed against.
// [pyenv.DirEnv] implements it.
type Environment interface {
	// Probe returns nil when module is importable, a MODULE_NOT_FOUND error
	// when it is absent, and any other error for modules that exist but
	// cannot be imported.
	Probe(module string) error
	// PackageNameTable maps import names to installable package names.
	PackageNameTable() map[string]string
	// Register marks module as importable after a successful install.
	Register(module string) error
}

// Source is the input to [Preparer.InstallImports]: either raw source code
// or a pre-extracted list of module names.
type Source struct {
	code    *string
	modules []string
}

// Code wraps raw Python source text.
func Code(src string) Source { return Source{code: &src} }

// Modules wraps a pre-extracted list of imported module names, used verbatim.
func Modules(names ...string) Source { return Source{modules: names} }

// FindImportsToInstall probes each imported module against env and returns
// an entry for every missing one, in input order. Importable modules are
// omitted. Probe failures other than "not found" (e.g. a broken module)
// abort with that error.
func FindImportsToInstall(env Environment, imports []string) ([]InstallEntry, error) {
	table := env.PackageNameTable()

	toInstall := []InstallEntry{}
	for _, module := range imports {
		err := env.Probe(module)
		switch {
		case err == nil:
		case pyenv.IsNotFound(err):
			pkg, ok := table[module]
			if !ok {
				pkg = module
			}
			toInstall = append(toInstall, InstallEntry{Module: module, Package: pkg})
		default:
			return nil, err
		}
	}
	return toInstall, nil
}

// Preparer runs the resolve-and-install flow against one environment.
type Preparer struct {
	Env       Environment
	Installer installer.Installer
	Loader    installer.Loader // bootstraps the installer support module

	// Logger receives progress messages. Optional.
	Logger func(string, ...any)
}

// New creates a Preparer with a no-op logger.
func New(env Environment, inst installer.Installer, loader installer.Loader) *Preparer {
	return &Preparer{
		Env:       env,
		Installer: inst,
		Loader:    loader,
		Logger:    func(string, ...any) {},
	}
}

// InstallImports computes the install plan for src plus additional packages
// and installs it.
//
// When src is raw code that fails to parse, the outcome is null: a nil plan
// and a nil error. That is distinct from an empty (non-nil) plan, which
// means the source parsed and nothing was missing.
//
// Each name in additional is appended as a self-named entry unless an entry
// with that exact module name is already planned. The match is a plain
// string comparison, so an alias mismatch (e.g. "pillow" vs an existing
// "PIL" entry) still installs twice.
//
// A non-empty plan triggers the installer bootstrap check, then sequential
// installs in plan order. The first failed install aborts the run and
// propagates; entries after it are not attempted.
func (p *Preparer) InstallImports(ctx context.Context, src Source, additional []string) ([]InstallEntry, error) {
	imports := src.modules
	if src.code != nil {
		observability.Prepare().OnScanStart(ctx)
		found, err := pysrc.FindImports(*src.code)
		observability.Prepare().OnScanComplete(ctx, len(found), err)
		if err != nil {
			var synErr *pysrc.SyntaxError
			if stderrors.As(err, &synErr) {
				p.logf("source does not parse (%v), nothing to install", err)
				return nil, nil
			}
			return nil, err
		}
		imports = found
	}

	toInstall, err := FindImportsToInstall(p.Env, imports)
	if err != nil {
		return nil, err
	}

	for _, pkg := range additional {
		if !hasModule(toInstall, pkg) {
			toInstall = append(toInstall, InstallEntry{Module: pkg, Package: pkg})
		}
	}
	observability.Prepare().OnPlanComplete(ctx, len(toInstall))

	if len(toInstall) == 0 {
		return toInstall, nil
	}

	if err := p.ensureInstaller(ctx); err != nil {
		return nil, err
	}

	for _, entry := range toInstall {
		p.logf("installing %s (for module %s)", entry.Package, entry.Module)
		observability.Prepare().OnInstallStart(ctx, entry.Package)
		start := time.Now()
		err := p.Installer.Install(ctx, entry.Package)
		observability.Prepare().OnInstallComplete(ctx, entry.Package, time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("install %s: %w", entry.Package, err)
		}
		// Additional packages carry a distribution name in the Module field
		// (e.g. scikit-learn); register the module name the wheel provides.
		if err := p.Env.Register(installer.ImportName(entry.Module)); err != nil {
			return nil, err
		}
	}
	return toInstall, nil
}

// ensureInstaller makes sure the installer's support module is importable,
// fetching it through the loader when absent. The bootstrap package is not
// part of the returned plan.
func (p *Preparer) ensureInstaller(ctx context.Context) error {
	err := p.Env.Probe(installer.SupportModule)
	switch {
	case err == nil:
		return nil
	case pyenv.IsNotFound(err):
		p.logf("bootstrapping %s", installer.SupportPackage)
		if err := p.Loader.Load(ctx, installer.SupportPackage); err != nil {
			return fmt.Errorf("bootstrap %s: %w", installer.SupportPackage, err)
		}
		return nil
	default:
		return err
	}
}

func (p *Preparer) logf(format string, args ...any) {
	if p.Logger != nil {
		p.Logger(format, args...)
	}
}

func hasModule(entries []InstallEntry, module string) bool {
	for _, e := range entries {
		if e.Module == module {
			return true
		}
	}
	return false
}
