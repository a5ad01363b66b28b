package config

import (
	"fmt"
	"strings"

	"github.com/kiosk404/bioagent/internal/bioagent/errno"
	"github.com/kiosk404/bioagent/internal/bioagent/options"
)

// Config is the running configuration of the bioagent CLI.
type Config struct {
	*options.Options
}

// CreateConfigFromOptions validates the options and wraps them as the
// running configuration. Validation failures are configuration errors and
// stop the process before any session starts.
func CreateConfigFromOptions(opts *options.Options) (*Config, error) {
	if errs := opts.Validate(); len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, err := range errs {
			msgs = append(msgs, err.Error())
		}
		return nil, fmt.Errorf("%w: %s", errno.ErrConfiguration, strings.Join(msgs, "; "))
	}
	return &Config{opts}, nil
}
