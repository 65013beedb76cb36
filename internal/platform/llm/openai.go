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

type OpenAIConfig struct {
	BaseURL    string
	HTTPClient *http.Client
}

type openAIBackend struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewOpenAI(log *logger.Logger, cfg OpenAIConfig) Backend {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = strings.TrimRight(envutil.String("OPENAI_BASE_URL", "https://api.openai.com"), "/")
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = httpx.NewClient(time.Duration(envutil.Int("OPENAI_TIMEOUT_SECONDS", 90)) * time.Second)
	}
	return &openAIBackend{
		log:        log.With("client", "OpenAIBackend"),
		baseURL:    base,
		httpClient: hc,
	}
}

func (b *openAIBackend) Complete(ctx context.Context, apiKey, model, prompt string) (string, error) {
	req := chatCompletionRequest{
		Model:     model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
	}
	var resp chatCompletionResponse
	headers := map[string]string{"Authorization": "Bearer " + apiKey}
	if err := postJSON(ctx, b.httpClient, "openai", b.baseURL+"/v1/chat/completions", headers, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
