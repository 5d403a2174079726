// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about environment preparation, package installs, and HTTP
// traffic against the package index.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPrepareHooks(&myPrepareHooks{})
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Prepare().OnInstallStart(ctx, entry.Package)
//	// ... install ...
//	observability.Prepare().OnInstallComplete(ctx, entry.Package, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Prepare Hooks
// =============================================================================

// PrepareHooks receives events from the environment preparation flow.
type PrepareHooks interface {
	// Scan events
	OnScanStart(ctx context.Context)
	OnScanComplete(ctx context.Context, importCount int, err error)

	// Plan events
	OnPlanComplete(ctx context.Context, entryCount int)

	// Install events
	OnInstallStart(ctx context.Context, pkg string)
	OnInstallComplete(ctx context.Context, pkg string, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations against the index.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPrepareHooks is a no-op implementation of PrepareHooks.
type NoopPrepareHooks struct{}

func (NoopPrepareHooks) OnScanStart(context.Context)                                     {}
func (NoopPrepareHooks) OnScanComplete(context.Context, int, error)                      {}
func (NoopPrepareHooks) OnPlanComplete(context.Context, int)                             {}
func (NoopPrepareHooks) OnInstallStart(context.Context, string)                          {}
func (NoopPrepareHooks) OnInstallComplete(context.Context, string, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	prepareHooks PrepareHooks = NoopPrepareHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetPrepareHooks registers custom prepare hooks.
// This should be called once at application startup before any prepare operations.
func SetPrepareHooks(h PrepareHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		prepareHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Prepare returns the registered prepare hooks.
func Prepare() PrepareHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return prepareHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	prepareHooks = NoopPrepareHooks{}
	httpHooks = NoopHTTPHooks{}
}
