package llm

import (
	"context"

	einoOllama "github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino/components/model"
)

const defaultOllamaBaseURL = "http://127.0.0.1:11434"

func newOllamaChatModel(ctx context.Context, cfg *ModelConfig) (model.BaseChatModel, error) {
	conf := &einoOllama.ChatModelConfig{
		BaseURL: defaultOllamaBaseURL,
		Model:   cfg.Model,
		Options: &einoOllama.Options{},
	}
	if cfg.BaseURL != "" {
		conf.BaseURL = cfg.BaseURL
	}
	if cfg.Temperature != nil {
		conf.Options.Temperature = *cfg.Temperature
	}
	if cfg.MaxTokens > 0 {
		conf.Options.NumPredict = cfg.MaxTokens
	}

	return einoOllama.NewChatModel(ctx, conf)
}
