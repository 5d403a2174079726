package pyenv

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/n-sviridenko/pyprep/pkg/errors"
)

const (
	metaFile   = "env.toml"
	modulesDir = "modules"
	wheelsDir  = "wheels"
)

// DirEnv is a directory-backed sandbox environment.
//
// DirEnv is not safe for concurrent use: Register mutates the live module
// set that Probe reads.
type DirEnv struct {
	root string
	meta Meta
}

// Init creates a new sandbox at root with the given metadata and returns it.
// The directory layout (env.toml, modules/, wheels/) is created; an existing
// env.toml is overwritten.
func Init(root string, meta Meta) (*DirEnv, error) {
	for _, dir := range []string{root, filepath.Join(root, modulesDir), filepath.Join(root, wheelsDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sandbox dir: %w", err)
		}
	}
	env := &DirEnv{root: root, meta: meta}
	if err := env.writeMeta(); err != nil {
		return nil, err
	}
	return env, nil
}

// Open loads an existing sandbox rooted at root.
func Open(root string) (*DirEnv, error) {
	data, err := os.ReadFile(filepath.Join(root, metaFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeInvalidEnv, "%s is not a sandbox (missing %s)", root, metaFile)
		}
		return nil, fmt.Errorf("read %s: %w", metaFile, err)
	}
	var meta Meta
	if err := toml.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidEnv, err, "parse %s", metaFile)
	}
	return &DirEnv{root: root, meta: meta}, nil
}

// Root returns the sandbox root directory.
func (e *DirEnv) Root() string { return e.root }

// Meta returns a copy of the sandbox metadata.
func (e *DirEnv) Meta() Meta {
	m := e.meta
	m.Table = e.meta.PackageNameTable()
	return m
}

// WheelDir returns the directory that downloaded distributions land in.
func (e *DirEnv) WheelDir() string { return filepath.Join(e.root, wheelsDir) }

// Probe reports whether module is importable in this environment.
// It returns nil for importable modules, a MODULE_NOT_FOUND error for
// missing ones, and a MODULE_BROKEN error for modules that are present but
// known to be unimportable. Only the missing case should be treated as
// "needs installing".
func (e *DirEnv) Probe(module string) error {
	root, _, _ := strings.Cut(module, ".")
	if slices.Contains(e.meta.Runtime.Broken, root) {
		return errors.New(errors.ErrCodeModuleBroken, "module %s is present but broken", root)
	}
	if slices.Contains(e.meta.Runtime.Builtins, root) {
		return nil
	}
	for _, candidate := range []string{root, root + ".py"} {
		if _, err := os.Stat(filepath.Join(e.root, modulesDir, candidate)); err == nil {
			return nil
		}
	}
	return errors.New(errors.ErrCodeModuleNotFound, "no module named %s", root)
}

// PackageNameTable returns the import-name to package-name mapping.
func (e *DirEnv) PackageNameTable() map[string]string {
	return e.meta.PackageNameTable()
}

// Register marks module as importable, creating its entry under modules/.
// Installers call this after a successful install; the mutation is durable,
// so a reopened sandbox sees the module too.
func (e *DirEnv) Register(module string) error {
	if err := errors.ValidateModuleName(module); err != nil {
		return err
	}
	root, _, _ := strings.Cut(module, ".")
	if err := os.MkdirAll(filepath.Join(e.root, modulesDir, root), 0o755); err != nil {
		return fmt.Errorf("register module %s: %w", root, err)
	}
	return nil
}

// Modules returns the sorted names of modules present under modules/.
// Builtins are not included.
func (e *DirEnv) Modules() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(e.root, modulesDir))
	if err != nil {
		return nil, fmt.Errorf("read modules dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".py"))
	}
	slices.Sort(names)
	return names, nil
}

// snapshot is the serialized form of a sandbox session.
type snapshot struct {
	Meta    Meta     `json:"meta"`
	Modules []string `json:"modules"`
}

// Snapshot captures the live environment state (metadata plus the installed
// module set) as an opaque blob for session persistence.
func (e *DirEnv) Snapshot() ([]byte, error) {
	mods, err := e.Modules()
	if err != nil {
		return nil, err
	}
	return json.Marshal(snapshot{Meta: e.meta, Modules: mods})
}

// Restore replaces the live environment state with a previously captured
// snapshot: metadata is rewritten and module entries are recreated.
// Modules installed after the snapshot was taken are left in place; they
// reappear in Modules but carry no metadata.
func (e *DirEnv) Restore(blob []byte) error {
	var snap snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return errors.Wrap(errors.ErrCodeSession, err, "decode session blob")
	}
	e.meta = snap.Meta
	if err := e.writeMeta(); err != nil {
		return err
	}
	for _, mod := range snap.Modules {
		if err := os.MkdirAll(filepath.Join(e.root, modulesDir, mod), 0o755); err != nil {
			return fmt.Errorf("restore module %s: %w", mod, err)
		}
	}
	return nil
}

func (e *DirEnv) writeMeta() error {
	f, err := os.Create(filepath.Join(e.root, metaFile))
	if err != nil {
		return fmt.Errorf("write %s: %w", metaFile, err)
	}
	if err := toml.NewEncoder(f).Encode(e.meta); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", metaFile, err)
	}
	return f.Close()
}
