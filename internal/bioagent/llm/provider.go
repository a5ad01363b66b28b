// Package llm adapts chat-model providers behind a single Generate contract.
// Provider failures surface as wrapped errors; the session layer decides how
// they end a turn-cycle.
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/kiosk404/bioagent/internal/bioagent/errno"
)

// ModelConfig selects and parameterizes one chat model.
type ModelConfig struct {
	// Provider is one of "ollama", "openai", "anthropic".
	Provider string `json:"provider" mapstructure:"provider"`

	// Model is the provider-side model identifier.
	Model string `json:"model" mapstructure:"model"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// APIKey authenticates against the provider. Supports "${ENV_VAR}"
	// references resolved at build time.
	APIKey string `json:"api-key" mapstructure:"api-key"`

	// Temperature, when non-nil, overrides the provider default.
	Temperature *float32 `json:"temperature" mapstructure:"temperature"`

	// MaxTokens bounds the response length. Zero keeps the provider default.
	MaxTokens int `json:"max-tokens" mapstructure:"max-tokens"`
}

// Provider generates one assistant message from the conversation history,
// with the given tools bound for function calling.
type Provider interface {
	Name() string
	Generate(ctx context.Context, messages []*schema.Message, tools []*schema.ToolInfo) (*schema.Message, error)
}

// New builds the provider named by cfg.Provider.
func New(ctx context.Context, cfg *ModelConfig) (Provider, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model name is required", errno.ErrConfiguration)
	}

	var (
		cm  einoModel.BaseChatModel
		err error
	)
	switch cfg.Provider {
	case "ollama":
		cm, err = newOllamaChatModel(ctx, cfg)
	case "openai":
		cm, err = newOpenAIChatModel(ctx, cfg)
	case "anthropic":
		cm, err = newAnthropicChatModel(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported provider %q (must be 'ollama', 'openai' or 'anthropic')",
			errno.ErrConfiguration, cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: build %s chat model: %v", errno.ErrConfiguration, cfg.Provider, err)
	}

	return &chatProvider{name: cfg.Provider, model: cfg.Model, base: cm}, nil
}

type chatProvider struct {
	name  string
	model string
	base  einoModel.BaseChatModel
}

var _ Provider = (*chatProvider)(nil)

func (p *chatProvider) Name() string {
	return p.name
}

func (p *chatProvider) Generate(ctx context.Context, messages []*schema.Message, tools []*schema.ToolInfo) (*schema.Message, error) {
	cm := p.base

	if len(tools) > 0 {
		tcm, ok := cm.(einoModel.ToolCallingChatModel)
		if !ok {
			return nil, fmt.Errorf("%w: model %q does not support tool calling", errno.ErrModelProvider, p.model)
		}
		bound, err := tcm.WithTools(tools)
		if err != nil {
			return nil, fmt.Errorf("%w: bind tools: %v", errno.ErrModelProvider, err)
		}
		cm = bound
	}

	msg, err := cm.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %v", errno.ErrModelProvider, p.name, p.model, err)
	}
	return msg, nil
}

// resolveEnvValue resolves "${ENV_VAR}" references in a string.
func resolveEnvValue(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	return s
}
