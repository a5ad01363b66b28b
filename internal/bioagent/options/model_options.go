package options

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/kiosk404/bioagent/internal/bioagent/llm"
)

// ModelOptions selects and parameterizes the chat model provider.
type ModelOptions struct {
	// Provider is one of "ollama", "openai", "anthropic".
	Provider string `json:"provider" mapstructure:"provider"`

	// Model is the provider-side model identifier.
	Model string `json:"model" mapstructure:"model"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// APIKey authenticates against the provider; "${ENV_VAR}" references
	// are resolved at startup.
	APIKey string `json:"api-key" mapstructure:"api-key"`

	// Temperature is the sampling temperature.
	Temperature float32 `json:"temperature" mapstructure:"temperature"`

	// MaxTokens bounds the response length. Zero keeps the provider default.
	MaxTokens int `json:"max-tokens" mapstructure:"max-tokens"`
}

// NewModelOptions creates a default ModelOptions instance.
func NewModelOptions() *ModelOptions {
	return &ModelOptions{
		Provider:    "ollama",
		Model:       "llama3.1",
		Temperature: 0.7,
	}
}

// Validate checks the ModelOptions for correctness.
func (o *ModelOptions) Validate() []error {
	var errs []error
	switch o.Provider {
	case "ollama", "openai", "anthropic":
	default:
		errs = append(errs, fmt.Errorf("invalid model provider %q, must be 'ollama', 'openai' or 'anthropic'", o.Provider))
	}
	if o.Model == "" {
		errs = append(errs, fmt.Errorf("model name is required"))
	}
	if o.Temperature < 0 || o.Temperature > 2 {
		errs = append(errs, fmt.Errorf("temperature %.2f out of range [0, 2]", o.Temperature))
	}
	return errs
}

// AddFlags adds the ModelOptions flags to the given flag set.
func (o *ModelOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Provider, "model.provider", o.Provider, "Model provider: 'ollama', 'openai' or 'anthropic'.")
	fs.StringVar(&o.Model, "model.name", o.Model, "Model identifier to use.")
	fs.StringVar(&o.BaseURL, "model.base-url", o.BaseURL, "Override the provider's default endpoint.")
	fs.StringVar(&o.APIKey, "model.api-key", o.APIKey, "API key, supports ${ENV_VAR} references.")
	fs.Float32Var(&o.Temperature, "model.temperature", o.Temperature, "Sampling temperature.")
	fs.IntVar(&o.MaxTokens, "model.max-tokens", o.MaxTokens, "Response token limit (0 keeps the provider default).")
}

// ModelConfig converts the options into the llm layer's config.
func (o *ModelOptions) ModelConfig() *llm.ModelConfig {
	temp := o.Temperature
	return &llm.ModelConfig{
		Provider:    o.Provider,
		Model:       o.Model,
		BaseURL:     o.BaseURL,
		APIKey:      o.APIKey,
		Temperature: &temp,
		MaxTokens:   o.MaxTokens,
	}
}
