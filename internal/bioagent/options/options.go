// Package options defines the flag-backed configuration surface of the
// bioagent CLI.
package options

import (
	"github.com/spf13/pflag"

	"github.com/kiosk404/bioagent/pkg/utils/json"
)

// Options aggregates every subsystem's options.
type Options struct {
	ModelOptions   *ModelOptions   `json:"model"   mapstructure:"model"`
	MCPOptions     *MCPOptions     `json:"mcp"     mapstructure:"mcp"`
	SessionOptions *SessionOptions `json:"session" mapstructure:"session"`
	LogLevel       string          `json:"log-level" mapstructure:"log-level"`
	LogFile        string          `json:"log-file"  mapstructure:"log-file"`
}

// NewOptions creates default options.
func NewOptions() *Options {
	return &Options{
		ModelOptions:   NewModelOptions(),
		MCPOptions:     NewMCPOptions(),
		SessionOptions: NewSessionOptions(),
		LogLevel:       "info",
	}
}

// AddFlags registers every subsystem's flags on the given flag set.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.ModelOptions.AddFlags(fs)
	o.MCPOptions.AddFlags(fs)
	o.SessionOptions.AddFlags(fs)
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "Log level: debug, info, warn, error.")
	fs.StringVar(&o.LogFile, "log-file", o.LogFile, "Log file path (default: stderr).")
}

// Validate collects every subsystem's validation errors.
func (o *Options) Validate() []error {
	var errs []error
	errs = append(errs, o.ModelOptions.Validate()...)
	errs = append(errs, o.MCPOptions.Validate()...)
	errs = append(errs, o.SessionOptions.Validate()...)
	return errs
}

func (o *Options) String() string {
	data, _ := json.Marshal(o)
	return string(data)
}
