// Package observability provides hooks for metrics, tracing, and logging.
//
// Library code never talks to a metrics backend directly. It calls the
// registered hooks, which default to no-ops; main registers a real
// implementation (for example [NewPrometheus]) at startup.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.Register(observability.NewPrometheus(prometheus.DefaultRegisterer))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnLayoutStart(ctx, nodes, edges)
//	// ... run the layout ...
//	observability.Layout().OnLayoutComplete(ctx, stats)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutStats summarizes one full re-layout.
type LayoutStats struct {
	Nodes     int
	Edges     int
	Restarts  int
	Crossings int
	Rating    float64
	Duration  time.Duration
}

// LayoutHooks receives events from the layout engine and the world that drives it.
type LayoutHooks interface {
	OnLayoutStart(ctx context.Context, nodes, edges int)
	OnLayoutComplete(ctx context.Context, stats LayoutStats)

	// OnExpired records connections removed by an expiry sweep.
	OnExpired(ctx context.Context, count int)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from persistence backends.
type StoreHooks interface {
	// OnOperation records a load, save, or delete against a backend.
	OnOperation(ctx context.Context, backend, op string, duration time.Duration, err error)

	// OnSnapshot records a remote snapshot pushed to watchers.
	OnSnapshot(ctx context.Context, backend string, records int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
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

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, int, int)       {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, LayoutStats) {}
func (NoopLayoutHooks) OnExpired(context.Context, int)                {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnOperation(context.Context, string, string, time.Duration, error) {}
func (NoopStoreHooks) OnSnapshot(context.Context, string, int)                           {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks. Nil is ignored.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetStoreHooks registers custom store hooks. Nil is ignored.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Register installs h for every hook category it implements.
func Register(h any) {
	if l, ok := h.(LayoutHooks); ok {
		SetLayoutHooks(l)
	}
	if s, ok := h.(StoreHooks); ok {
		SetStoreHooks(s)
	}
	if x, ok := h.(HTTPHooks); ok {
		SetHTTPHooks(x)
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
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
	layoutHooks = NoopLayoutHooks{}
	storeHooks = NoopStoreHooks{}
	httpHooks = NoopHTTPHooks{}
}
