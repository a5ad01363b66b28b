package llm

import (
	"context"

	einoClaude "github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino/components/model"
)

const defaultAnthropicMaxTokens = 4096

func newAnthropicChatModel(ctx context.Context, cfg *ModelConfig) (model.BaseChatModel, error) {
	conf := &einoClaude.Config{
		APIKey:    resolveEnvValue(cfg.APIKey),
		Model:     cfg.Model,
		MaxTokens: defaultAnthropicMaxTokens,
	}

	if cfg.BaseURL != "" {
		conf.BaseURL = &cfg.BaseURL
	}
	if cfg.Temperature != nil {
		conf.Temperature = cfg.Temperature
	}
	if cfg.MaxTokens > 0 {
		conf.MaxTokens = cfg.MaxTokens
	}

	return einoClaude.NewChatModel(ctx, conf)
}
