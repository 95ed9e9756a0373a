// Package lifecycle coordinates startup warmers and shutdown closers.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Hook is a named startup or shutdown step.
type Hook struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Coordinator runs startup hooks concurrently and reports readiness once all
// have returned. Shutdown hooks run in reverse registration order.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	mu       sync.Mutex
	startup  []Hook
	shutdown []Hook

	readyMu sync.RWMutex
	ready   bool
}

// New creates a Coordinator with a cancellable context.
func New(logger *slog.Logger) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{ctx: ctx, cancel: cancel, logger: logger}
}

// Context is cancelled when Shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a startup hook. Errors are logged, not fatal.
func (c *Coordinator) OnStartup(name string, fn func(ctx context.Context) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startup = append(c.startup, Hook{Name: name, Fn: fn})
}

// OnShutdown registers a shutdown hook.
func (c *Coordinator) OnShutdown(name string, fn func(ctx context.Context) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shutdown = append(c.shutdown, Hook{Name: name, Fn: fn})
}

// Ready returns true after Start has finished every startup hook.
func (c *Coordinator) Ready() bool {
	c.readyMu.RLock()
	defer c.readyMu.RUnlock()
	return c.ready
}

// Start runs the startup hooks concurrently and blocks until they return.
func (c *Coordinator) Start() {
	c.mu.Lock()
	hooks := append([]Hook(nil), c.startup...)
	c.mu.Unlock()

	var wg sync.WaitGroup
	for _, h := range hooks {
		wg.Go(func() {
			start := time.Now()
			if err := h.Fn(c.ctx); err != nil {
				c.logger.Warn("startup hook failed", "hook", h.Name, "error", err)
				return
			}
			c.logger.Info("startup hook done", "hook", h.Name, "duration_ms", time.Since(start).Milliseconds())
		})
	}
	wg.Wait()

	c.readyMu.Lock()
	c.ready = true
	c.readyMu.Unlock()
}

// Shutdown cancels the coordinator context and runs shutdown hooks in reverse
// order within timeout. The first hook error is returned after all hooks ran.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()
	c.readyMu.Lock()
	c.ready = false
	c.readyMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	c.mu.Lock()
	hooks := append([]Hook(nil), c.shutdown...)
	c.mu.Unlock()

	var firstErr error
	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]
		if err := h.Fn(ctx); err != nil {
			c.logger.Error("shutdown hook failed", "hook", h.Name, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", h.Name, err)
			}
		}
		if ctx.Err() != nil {
			return fmt.Errorf("shutdown timeout after %v", timeout)
		}
	}
	return firstErr
}
