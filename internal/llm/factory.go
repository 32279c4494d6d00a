package llm

import (
	"stock-news-agents/internal/interfaces"
	"stock-news-agents/internal/llm/claude"
	"stock-news-agents/internal/llm/jina"
	"stock-news-agents/internal/llm/noop"
	"stock-news-agents/internal/llm/openai"
	"stock-news-agents/internal/store"
)

// NewCompleter builds the chat completer for the configured provider.
func NewCompleter(cfg *store.Config) interfaces.Completer {
	return completerFor(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.MaxTokens, cfg.LLM.Temperature)
}

// NewSummaryCompleter builds the completer used for summarization, which may
// run on a different provider/model than the chat completer.
func NewSummaryCompleter(cfg *store.Config) interfaces.Completer {
	return completerFor(cfg.SummaryProvider(), cfg.SummaryModel(), cfg.LLM.MaxTokens, cfg.LLM.Temperature)
}

func completerFor(provider, model string, maxTokens int, temperature float32) interfaces.Completer {
	switch provider {
	case "CLAUDE":
		return claude.NewCompleter(model, maxTokens)
	case "GROQ":
		return openai.NewCompleter(openai.Params{
			Model:       model,
			MaxTokens:   maxTokens,
			Temperature: temperature,
			BaseURL:     "https://api.groq.com/openai/v1",
			APIKeyEnvs:  []string{"STOCK_CHAT_API_KEY", "GROQ_API_KEY"},
		})
	case "XAI":
		return openai.NewCompleter(openai.Params{
			Model:       model,
			MaxTokens:   maxTokens,
			Temperature: temperature,
			BaseURL:     "https://api.x.ai/v1",
			APIKeyEnvs:  []string{"STOCK_CHAT_API_KEY", "XAI_API_KEY"},
		})
	case "QWEN":
		return openai.NewCompleter(openai.Params{
			Model:       model,
			MaxTokens:   maxTokens,
			Temperature: temperature,
			BaseURL:     "https://dashscope.aliyuncs.com/compatible-mode/v1",
			APIKeyEnvs:  []string{"STOCK_CHAT_API_KEY", "DASHSCOPE_API_KEY"},
		})
	case "NOOP":
		return noop.NewCompleter()
	default: // OPENAI
		return openai.NewCompleter(openai.Params{
			Model:       model,
			MaxTokens:   maxTokens,
			Temperature: temperature,
		})
	}
}

// NewEmbedder builds the embedder for the configured provider.
func NewEmbedder(cfg *store.Config) interfaces.Embedder {
	switch cfg.Embedding.Provider {
	case "JINA":
		return jina.NewEmbedder(cfg.Embedding.Model)
	default: // OPENAI
		return openai.NewEmbedder(cfg.Embedding.Model, "", nil)
	}
}
