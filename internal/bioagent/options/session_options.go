package options

import (
	"errors"

	"github.com/spf13/pflag"
)

// SessionOptions configures session behavior and persistence.
type SessionOptions struct {
	// MaxToolRounds bounds tool-call rounds within one user turn.
	MaxToolRounds int `json:"max-tool-rounds" mapstructure:"max-tool-rounds"`

	// StorePath is the BoltDB file for persisted sessions.
	StorePath string `json:"store-path" mapstructure:"store-path"`

	// InMemory skips persistence entirely.
	InMemory bool `json:"in-memory" mapstructure:"in-memory"`
}

// NewSessionOptions creates a default SessionOptions instance.
func NewSessionOptions() *SessionOptions {
	return &SessionOptions{
		MaxToolRounds: 5,
		StorePath:     "data/sessions.db",
	}
}

// Validate checks the SessionOptions for correctness.
func (o *SessionOptions) Validate() []error {
	var errs []error
	if o.MaxToolRounds <= 0 {
		errs = append(errs, errors.New("session.max-tool-rounds must be positive"))
	}
	if !o.InMemory && o.StorePath == "" {
		errs = append(errs, errors.New("session.store-path is required unless session.in-memory is set"))
	}
	return errs
}

// AddFlags adds the SessionOptions flags to the given flag set.
func (o *SessionOptions) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.MaxToolRounds, "session.max-tool-rounds", o.MaxToolRounds, "Maximum tool-call rounds per user turn.")
	fs.StringVar(&o.StorePath, "session.store-path", o.StorePath, "BoltDB file for persisted sessions.")
	fs.BoolVar(&o.InMemory, "session.in-memory", o.InMemory, "Keep sessions in memory only.")
}
