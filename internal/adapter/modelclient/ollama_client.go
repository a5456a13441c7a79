package modelclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"mind-maze/internal/config"
	"mind-maze/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaClient implements domain.ModelClient against an Ollama server.
type OllamaClient struct {
	llm     *ollama.LLM
	timeout time.Duration
}

// NewOllamaClient builds the client from configuration. The HTTP client
// timeout covers the whole completion call, so a hung model server cannot
// stall a generation job forever.
func NewOllamaClient(cfg config.LLMConfig) (*OllamaClient, error) {
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("llm server url is empty")
	}

	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     10 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		},
	}

	llm, err := ollama.New(
		ollama.WithServerURL(cfg.ServerURL),
		ollama.WithModel(cfg.Model),
		ollama.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ollama client: %w", err)
	}

	return &OllamaClient{llm: llm, timeout: cfg.Timeout}, nil
}

// Complete sends the prompt and returns the raw model output. A low
// temperature keeps the JSON-only responses deterministic enough to parse.
func (c *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	response, err := c.llm.Call(ctx, prompt, llms.WithTemperature(0.1))
	if err != nil {
		return "", domain.NewModelServiceError(err)
	}
	return response, nil
}

var _ domain.ModelClient = (*OllamaClient)(nil)
