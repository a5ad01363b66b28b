package agent

import (
	"github.com/kiosk404/bioagent/pkg/logger"
)

// CycleState is the state of one conversational turn-cycle.
// State machine: AwaitingInput -> Generating -> (ToolCallsPending ->
// ToolsExecuting -> Generating)* -> Complete | Failed
type CycleState int

const (
	CycleAwaitingInput CycleState = iota
	CycleGenerating
	CycleToolCallsPending
	CycleToolsExecuting
	CycleComplete
	CycleFailed
)

func (s CycleState) String() string {
	switch s {
	case CycleAwaitingInput:
		return "awaiting_input"
	case CycleGenerating:
		return "generating"
	case CycleToolCallsPending:
		return "tool_calls_pending"
	case CycleToolsExecuting:
		return "tools_executing"
	case CycleComplete:
		return "complete"
	case CycleFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// turnCycle tracks one cycle's progress through the state machine.
type turnCycle struct {
	sessionID string
	state     CycleState
	rounds    int
}

func newTurnCycle(sessionID string) *turnCycle {
	return &turnCycle{
		sessionID: sessionID,
		state:     CycleAwaitingInput,
	}
}

func (c *turnCycle) transition(next CycleState) {
	logger.DebugX("agent", "[TurnCycle] session %s: %s -> %s", c.sessionID, c.state, next)
	c.state = next
}

func (c *turnCycle) beginRound() int {
	c.rounds++
	return c.rounds
}
