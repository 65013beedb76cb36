package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"google.golang.org/genai"

	"github.com/yungbote/pathwise-backend/internal/platform/httpx"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
)

type GeminiConfig struct {
	BaseURL    string
	HTTPClient *http.Client
}

type geminiBackend struct {
	log *logger.Logger
	cfg GeminiConfig

	mu     sync.Mutex
	key    string
	client *genai.Client
}

func NewGemini(log *logger.Logger, cfg GeminiConfig) Backend {
	return &geminiBackend{
		log: log.With("client", "GeminiBackend"),
		cfg: cfg,
	}
}

// clientFor returns the client for the current API key. A rotated key
// replaces the cached client on the next call.
func (b *geminiBackend) clientFor(ctx context.Context, apiKey string) (*genai.Client, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client != nil && b.key == apiKey {
		return b.client, nil
	}
	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: b.cfg.HTTPClient,
	}
	if b.cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: b.cfg.BaseURL}
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	b.key, b.client = apiKey, cli
	return cli, nil
}

func (b *geminiBackend) Complete(ctx context.Context, apiKey, model, prompt string) (string, error) {
	cli, err := b.clientFor(ctx, apiKey)
	if err != nil {
		return "", err
	}
	resp, err := cli.Models.GenerateContent(ctx,
		model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{MaxOutputTokens: maxTokens},
	)
	if err != nil {
		return "", geminiStatusError(err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: empty response")
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && p.Text != "" {
			return p.Text, nil
		}
	}
	return "", errors.New("gemini: no text part in response")
}

// geminiStatusError exposes the API status code so the adapter's retry
// classification treats genai errors like any other HTTP failure.
func geminiStatusError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return &httpx.StatusError{Service: "gemini", StatusCode: apiErr.Code, Body: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && apiErrPtr.Code != 0 {
		return &httpx.StatusError{Service: "gemini", StatusCode: apiErrPtr.Code, Body: apiErrPtr.Message}
	}
	return err
}
