package llm

import (
	"context"

	"github.com/bytedance/gg/gptr"
	einoOpenAI "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

func newOpenAIChatModel(ctx context.Context, cfg *ModelConfig) (model.BaseChatModel, error) {
	conf := &einoOpenAI.ChatModelConfig{
		Model:  cfg.Model,
		APIKey: resolveEnvValue(cfg.APIKey),
		ResponseFormat: &einoOpenAI.ChatCompletionResponseFormat{
			Type: einoOpenAI.ChatCompletionResponseFormatTypeText,
		},
	}

	// Set BaseURL only for non-default OpenAI endpoints.
	if cfg.BaseURL != "" {
		conf.BaseURL = cfg.BaseURL
	}
	if cfg.Temperature != nil {
		conf.Temperature = cfg.Temperature
	}
	if cfg.MaxTokens > 0 {
		conf.MaxTokens = gptr.Of(cfg.MaxTokens)
	}

	return einoOpenAI.NewChatModel(ctx, conf)
}
