package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"stock-news-agents/internal/logger"
	"stock-news-agents/internal/trace"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Params configures an OpenAI-compatible endpoint. Groq, xAI and Qwen expose
// the same chat/completions surface, so they are the same client with a
// different BaseURL and key variable.
type Params struct {
	Model       string
	MaxTokens   int
	Temperature float32
	BaseURL     string   // empty: public OpenAI
	APIKeyEnvs  []string // checked in order; empty: OPENAI_API_KEY
}

// Completer calls an OpenAI-compatible chat completions API.
type Completer struct {
	p Params
}

func NewCompleter(p Params) *Completer {
	if p.BaseURL == "" {
		p.BaseURL = defaultBaseURL
	}
	if len(p.APIKeyEnvs) == 0 {
		p.APIKeyEnvs = []string{"OPENAI_API_KEY"}
	}
	return &Completer{p: p}
}

func (c *Completer) Complete(ctx context.Context, system, user string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-complete")
	defer span.End()

	apiKey, err := resolveKey(c.p.APIKeyEnvs)
	if err != nil {
		return "", err
	}

	body := map[string]any{
		"model": c.p.Model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"temperature": c.p.Temperature,
	}
	if c.p.MaxTokens > 0 {
		body["max_tokens"] = c.p.MaxTokens
	}
	bb, _ := json.Marshal(body)

	start := time.Now()
	req, _ := http.NewRequestWithContext(ctx, "POST", c.p.BaseURL+"/chat/completions", bytes.NewReader(bb))
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai http %d", resp.StatusCode)
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", err
	}
	if len(r.Choices) == 0 {
		return "", errors.New("no choices")
	}

	logger.Debug(ctx, "OpenAI completion received",
		"model", c.p.Model,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return strings.TrimSpace(r.Choices[0].Message.Content), nil
}

// Embedder calls an OpenAI-compatible embeddings API.
type Embedder struct {
	model      string
	baseURL    string
	apiKeyEnvs []string
}

func NewEmbedder(model, baseURL string, apiKeyEnvs []string) *Embedder {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if len(apiKeyEnvs) == 0 {
		apiKeyEnvs = []string{"OPENAI_API_KEY"}
	}
	return &Embedder{model: model, baseURL: baseURL, apiKeyEnvs: apiKeyEnvs}
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, span := trace.StartSpan(ctx, "openai-embed")
	defer span.End()

	apiKey, err := resolveKey(e.apiKeyEnvs)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"model": e.model,
		"input": []string{text},
	}
	bb, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/embeddings", bytes.NewReader(bb))
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai embeddings http %d", resp.StatusCode)
	}

	var r struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, err
	}
	if len(r.Data) == 0 || len(r.Data[0].Embedding) == 0 {
		return nil, errors.New("empty embedding response")
	}
	return r.Data[0].Embedding, nil
}

func resolveKey(envs []string) (string, error) {
	for _, env := range envs {
		if v := os.Getenv(env); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("%s missing", strings.Join(envs, "/"))
}
