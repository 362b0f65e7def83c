// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about editing sessions and story playback.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSessionHooks(&mySessionHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	g, err := load(path)
//	observability.Session().OnLoad(ctx, path, g.NodeCount(), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Session Hooks
// =============================================================================

// SessionHooks receives events from editing sessions.
type SessionHooks interface {
	// OnLoad fires after the story document has been read.
	OnLoad(ctx context.Context, path string, nodes int, duration time.Duration, err error)

	// OnCommit fires after the document has been written back.
	OnCommit(ctx context.Context, path string, bytes int, duration time.Duration, err error)

	// OnClose fires once when the session ends.
	OnClose(ctx context.Context, path string, err error)
}

// =============================================================================
// Playback Hooks
// =============================================================================

// PlaybackHooks receives events from the playback compiler and players.
type PlaybackHooks interface {
	// OnCompile records a compiled story.
	OnCompile(ctx context.Context, steps, warnings int, duration time.Duration, err error)

	// OnStep records a step taken by a reader.
	OnStep(ctx context.Context, from, to uint64)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSessionHooks is a no-op implementation of SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnLoad(context.Context, string, int, time.Duration, error)   {}
func (NoopSessionHooks) OnCommit(context.Context, string, int, time.Duration, error) {}
func (NoopSessionHooks) OnClose(context.Context, string, error)                      {}

// NoopPlaybackHooks is a no-op implementation of PlaybackHooks.
type NoopPlaybackHooks struct{}

func (NoopPlaybackHooks) OnCompile(context.Context, int, int, time.Duration, error) {}
func (NoopPlaybackHooks) OnStep(context.Context, uint64, uint64)                    {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	sessionHooks  SessionHooks  = NoopSessionHooks{}
	playbackHooks PlaybackHooks = NoopPlaybackHooks{}
	hooksMu       sync.RWMutex
)

// SetSessionHooks registers custom session hooks.
// This should be called once at application startup.
func SetSessionHooks(h SessionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sessionHooks = h
	}
}

// SetPlaybackHooks registers custom playback hooks.
// This should be called once at application startup.
func SetPlaybackHooks(h PlaybackHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		playbackHooks = h
	}
}

// Session returns the registered session hooks.
func Session() SessionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sessionHooks
}

// Playback returns the registered playback hooks.
func Playback() PlaybackHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return playbackHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	sessionHooks = NoopSessionHooks{}
	playbackHooks = NoopPlaybackHooks{}
}
