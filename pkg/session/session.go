// Package session persists and restores interpreter session state.
//
// A session is the full state of a prepared environment, treated as an
// opaque blob: this package never inspects it. The environment produces and
// consumes the blob through [Snapshotter]; the [Library] implementations
// only move it to and from storage.
//
// # Usage
//
//	env, _ := pyenv.Open(root)
//	lib := session.NewFileLibrary(env)
//
//	// Persist the session
//	if err := lib.Dump(ctx, "session.json"); err != nil { ... }
//
//	// Later, restore it
//	if err := lib.Load(ctx, "session.json"); err != nil { ... }
//
// Errors from the filesystem or from the snapshotter propagate unchanged;
// there is no validation layer. Writes overwrite the target path and are
// not atomic: a crash mid-write leaves a partial file.
package session

import "context"

// Snapshotter captures and restores opaque session state.
// [pyenv.DirEnv] implements it.
type Snapshotter interface {
	Snapshot() ([]byte, error)
	Restore(blob []byte) error
}

// Library saves and loads sessions at caller-supplied paths.
type Library interface {
	// Load reads the session at path and restores it into the live environment.
	Load(ctx context.Context, path string) error

	// Dump captures the live environment and writes it to path, overwriting
	// any existing file.
	Dump(ctx context.Context, path string) error
}
