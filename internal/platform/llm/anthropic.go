package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/pathwise-backend/internal/platform/envutil"
	"github.com/yungbote/pathwise-backend/internal/platform/httpx"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
)

const anthropicVersion = "2023-06-01"

type AnthropicConfig struct {
	BaseURL    string
	HTTPClient *http.Client
}

type anthropicBackend struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
}

type messagesRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func NewAnthropic(log *logger.Logger, cfg AnthropicConfig) Backend {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = strings.TrimRight(envutil.String("ANTHROPIC_BASE_URL", "https://api.anthropic.com"), "/")
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = httpx.NewClient(time.Duration(envutil.Int("ANTHROPIC_TIMEOUT_SECONDS", 90)) * time.Second)
	}
	return &anthropicBackend{
		log:        log.With("client", "AnthropicBackend"),
		baseURL:    base,
		httpClient: hc,
	}
}

func (b *anthropicBackend) Complete(ctx context.Context, apiKey, model, prompt string) (string, error) {
	req := messagesRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
	}
	headers := map[string]string{
		"x-api-key":         apiKey,
		"anthropic-version": anthropicVersion,
	}
	var resp messagesResponse
	if err := postJSON(ctx, b.httpClient, "anthropic", b.baseURL+"/v1/messages", headers, req, &resp); err != nil {
		return "", err
	}
	for _, block := range resp.Content {
		if block.Type == "" || block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("anthropic: no text content in response")
}
