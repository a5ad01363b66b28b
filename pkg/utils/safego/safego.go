// Package safego starts goroutines that recover from panics instead of
// crashing the process.
package safego

import (
	"context"
	"runtime/debug"

	"github.com/kiosk404/bioagent/pkg/logger"
)

// Go runs fn in a new goroutine with panic recovery. The context is kept in
// the signature so call sites read like errgroup-style dispatch; cancellation
// stays the caller's responsibility inside fn.
func Go(_ context.Context, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("goroutine panic recovered: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}
