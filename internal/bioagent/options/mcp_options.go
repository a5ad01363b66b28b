package options

import (
	"errors"
	"time"

	"github.com/spf13/pflag"
)

// MCPOptions holds options for the MCP (Model Context Protocol) subsystem.
// MCP uses a standalone configuration file.
type MCPOptions struct {
	// ConfigFile is the path to the MCP configuration file.
	ConfigFile string `json:"config-file" mapstructure:"config-file"`

	// EnabledServers restricts which configured servers are used.
	// Empty enables all of them.
	EnabledServers []string `json:"enabled-servers" mapstructure:"enabled-servers"`

	// CallTimeout bounds a single tool call.
	CallTimeout time.Duration `json:"call-timeout" mapstructure:"call-timeout"`
}

// NewMCPOptions creates a default MCPOptions instance.
func NewMCPOptions() *MCPOptions {
	return &MCPOptions{
		ConfigFile:  "conf/mcp.json",
		CallTimeout: 30 * time.Second,
	}
}

// Validate checks the MCPOptions for correctness.
func (o *MCPOptions) Validate() []error {
	var errs []error
	if o.ConfigFile == "" {
		errs = append(errs, errors.New("mcp.config-file is required"))
	}
	if o.CallTimeout <= 0 {
		errs = append(errs, errors.New("mcp.call-timeout must be positive"))
	}
	return errs
}

// AddFlags adds the MCPOptions flags to the given flag set.
func (o *MCPOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigFile, "mcp.config-file", o.ConfigFile, "Path to the MCP configuration file.")
	fs.StringSliceVar(&o.EnabledServers, "mcp.enabled-servers", o.EnabledServers, "Servers to enable (default: all configured).")
	fs.DurationVar(&o.CallTimeout, "mcp.call-timeout", o.CallTimeout, "Timeout for a single tool call.")
}
