// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about recipe compilation, cache operations, and HTTP
// requests served.
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
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnParseStart(ctx, name, len(src))
//	// ... do parsing ...
//	observability.Pipeline().OnParseComplete(ctx, name, ruleCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the recipe pipeline.
type PipelineHooks interface {
	// Parse events
	OnParseStart(ctx context.Context, recipe string, sourceBytes int)
	OnParseComplete(ctx context.Context, recipe string, ruleCount int, duration time.Duration, err error)

	// Analysis events; problems is zero for a valid recipe.
	OnAnalyzeComplete(ctx context.Context, recipe string, problems int)

	// Layout events
	OnLayoutStart(ctx context.Context, recipe string, ruleCount int)
	OnLayoutComplete(ctx context.Context, recipe string, rows int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path, requestID string)

	// OnResponse records the response sent for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// OnError records a request that failed with an error.
	OnError(ctx context.Context, method, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string, int) {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnAnalyzeComplete(context.Context, string, int)                 {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                     {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)              {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

// registry holds the active hooks. A nil argument to a setter keeps the
// current value.
type registry struct {
	mu       sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var hooks = newRegistry()

func newRegistry() *registry {
	return &registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	}
}

func (r *registry) update(fn func(*registry)) {
	r.mu.Lock()
	fn(r)
	r.mu.Unlock()
}

func (r *registry) snapshot() (PipelineHooks, CacheHooks, HTTPHooks) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pipeline, r.cache, r.http
}

// SetPipelineHooks installs h for parse, analyze, layout and render events.
// Call it during startup, before the first recipe is compiled.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	hooks.update(func(r *registry) { r.pipeline = h })
}

// SetCacheHooks installs h for artifact cache lookups and writes.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	hooks.update(func(r *registry) { r.cache = h })
}

// SetHTTPHooks installs h for the rendering server.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	hooks.update(func(r *registry) { r.http = h })
}

// Pipeline returns the active pipeline hooks.
func Pipeline() PipelineHooks {
	p, _, _ := hooks.snapshot()
	return p
}

// Cache returns the active cache hooks.
func Cache() CacheHooks {
	_, c, _ := hooks.snapshot()
	return c
}

// HTTP returns the active HTTP hooks.
func HTTP() HTTPHooks {
	_, _, h := hooks.snapshot()
	return h
}

// Reset puts every hook back to its no-op value. Tests use it in cleanup.
func Reset() {
	fresh := newRegistry()
	hooks.update(func(r *registry) {
		r.pipeline, r.cache, r.http = fresh.pipeline, fresh.cache, fresh.http
	})
}
