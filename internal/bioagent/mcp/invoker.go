package mcp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kiosk404/bioagent/internal/bioagent/entity"
	"github.com/kiosk404/bioagent/internal/bioagent/errno"
	"github.com/kiosk404/bioagent/pkg/logger"
	"github.com/kiosk404/bioagent/pkg/utils/safego"
)

// DefaultCallTimeout bounds a single tool call when no timeout is configured.
const DefaultCallTimeout = 30 * time.Second

// Invoker resolves tool calls through the registry and dispatches them on
// the manager's live handles. Failures are folded into structured results,
// never raised: the model and the user see them as tool output.
type Invoker struct {
	registry *Registry
	manager  Manager
	timeout  time.Duration
}

// NewInvoker creates an invoker with the given per-call timeout.
// A zero timeout falls back to DefaultCallTimeout.
func NewInvoker(registry *Registry, manager Manager, timeout time.Duration) *Invoker {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &Invoker{
		registry: registry,
		manager:  manager,
		timeout:  timeout,
	}
}

// Invoke executes one tool call and returns its normalized result.
//
// Unknown tool names fail locally without any network traffic. A server
// that is not Connected also fails immediately; connection lifecycle is the
// caller's job, not silently retried here.
func (iv *Invoker) Invoke(ctx context.Context, req *entity.ToolCallRequest) *entity.ToolCallResult {
	start := time.Now()
	result := &entity.ToolCallResult{
		CallID:   req.CallID,
		ToolName: req.ToolName,
	}

	td, ok := iv.registry.Lookup(req.ToolName)
	if !ok {
		result.Status = entity.CallError
		result.ErrorMessage = fmt.Sprintf("%v: %s", errno.ErrUnknownTool, req.ToolName)
		result.DurationMs = time.Since(start).Milliseconds()
		return result
	}

	handle, ok := iv.manager.Handle(td.ServerID)
	if !ok {
		result.Status = entity.CallError
		result.ErrorMessage = fmt.Sprintf("%v: %s", errno.ErrServerNotFound, td.ServerID)
		result.DurationMs = time.Since(start).Milliseconds()
		return result
	}

	if st := handle.Status(); st != ServerStatusConnected {
		result.Status = entity.CallError
		result.ErrorMessage = fmt.Sprintf("%v: server %q is %s", errno.ErrNotConnected, td.ServerID, st)
		result.DurationMs = time.Since(start).Milliseconds()
		return result
	}

	// The derived context bounds only this call; siblings keep running.
	callCtx, cancel := context.WithTimeout(ctx, iv.timeout)
	defer cancel()

	output, err := handle.CallTool(callCtx, req.ToolName, req.Arguments)
	result.DurationMs = time.Since(start).Milliseconds()

	switch {
	case err == nil:
		result.Status = entity.CallSuccess
		result.Output = output
	case errors.Is(err, context.DeadlineExceeded) && callCtx.Err() != nil && ctx.Err() == nil:
		result.Status = entity.CallTimeout
		result.ErrorMessage = fmt.Sprintf("%v: %s on server %q after %s",
			errno.ErrToolTimeout, req.ToolName, td.ServerID, iv.timeout)
	default:
		result.Status = entity.CallError
		result.ErrorMessage = fmt.Sprintf("%v: %s on server %q: %v",
			errno.ErrToolExecution, req.ToolName, td.ServerID, err)
	}

	if result.Failed() {
		logger.WarnX("mcp", "tool call %s (%s) failed: %s", req.ToolName, req.CallID, result.ErrorMessage)
	}
	return result
}

// InvokeMany executes all requests concurrently and returns results in
// request order regardless of completion order. One request's failure or
// timeout never blocks or cancels its siblings.
func (iv *Invoker) InvokeMany(ctx context.Context, reqs []*entity.ToolCallRequest) []*entity.ToolCallResult {
	results := make([]*entity.ToolCallResult, len(reqs))
	if len(reqs) == 0 {
		return results
	}

	var wg sync.WaitGroup
	for i, req := range reqs {
		i, req := i, req
		wg.Add(1)
		safego.Go(ctx, func() {
			defer wg.Done()
			// Write-once slot; no result ever shares an index.
			results[i] = iv.Invoke(ctx, req)
		})
	}
	wg.Wait()

	return results
}
