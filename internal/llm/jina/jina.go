package jina

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"stock-news-agents/internal/trace"
)

// Embedder calls the Jina embeddings API.
type Embedder struct {
	model string
}

func NewEmbedder(model string) *Embedder {
	return &Embedder{model: model}
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, span := trace.StartSpan(ctx, "jina-embed")
	defer span.End()

	apiKey := os.Getenv("STOCK_EMBED_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("JINA_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("JINA_API_KEY missing")
	}

	body := map[string]any{
		"model": e.model,
		"input": []string{text},
	}
	bb, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", "https://api.jina.ai/v1/embeddings", bytes.NewReader(bb))
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("jina http %d", resp.StatusCode)
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
