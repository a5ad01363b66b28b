package errno

import (
	"errors"
)

var (
	ErrConfiguration   = errors.New("invalid configuration")
	ErrConnection      = errors.New("server connection failed")
	ErrServerNotFound  = errors.New("server not found")
	ErrNotConnected    = errors.New("server not connected")
	ErrDuplicateServer = errors.New("duplicate server id")
	ErrUnknownTool     = errors.New("unknown tool")
	ErrToolTimeout     = errors.New("tool call timed out")
	ErrToolExecution   = errors.New("tool execution failed")
	ErrModelProvider   = errors.New("model provider error")
	ErrMaxToolRounds   = errors.New("max tool rounds exceeded")
	ErrSessionNotFound = errors.New("session not found")
)
