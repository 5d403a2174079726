// Package pkg provides the core libraries for pyprep environment preparation.
//
// # Overview
//
// Pyprep makes a piece of Python source runnable inside a sandboxed runtime
// by resolving and installing the packages it imports. The pkg directory is
// organized into these areas:
//
//  1. [pysrc] - Import scanning of Python source
//  2. [pyenv] - Sandbox environments (manifest, module probing, sessions)
//  3. [prepare] - Orchestration (scan → plan → bootstrap → install)
//  4. [installer] - Installer interfaces and the PyPI implementation
//  5. [session] - Session persistence
//  6. [serialize] - Robust JSON serialization of execution results
//
// # Architecture
//
// The typical data flow through pyprep:
//
//	Python source
//	         ↓
//	    [pysrc] package (extract top-level imports)
//	         ↓
//	    [prepare] package (probe environment, build install plan)
//	         ↓
//	    [installer/pypi] package (fetch and install wheels)
//	         ↓
//	    prepared [pyenv] sandbox, optionally persisted via [session]
//
// Supporting packages: [cache] for metadata caching, [errors] for coded
// errors, [observability] for hooks, [buildinfo] for version metadata.
package pkg
