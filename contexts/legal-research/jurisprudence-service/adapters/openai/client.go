// Package openai generates synonyms and analysis terms through the OpenAI
// chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainerrors "ijus/contexts/legal-research/jurisprudence-service/domain/errors"
	"ijus/contexts/legal-research/jurisprudence-service/ports"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// GenerateSynonyms asks for up to five related legal terms.
func (c *Client) GenerateSynonyms(ctx context.Context, text string) ([]string, error) {
	content, err := c.complete(ctx, synonymSystemPrompt, "Gere sinônimos jurídicos para: "+text, 100)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(content, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}

// ExtractTerms returns the raw comma separated terms for an uploaded document.
func (c *Client) ExtractTerms(ctx context.Context, request ports.TermRequest) (string, error) {
	prompt := promptFor(request.Mode)
	var content strings.Builder
	fmt.Fprintf(&content, "Nome do arquivo: %s\nTipo: %s", request.FileName, request.ContentType)
	if request.ExtractedText != "" {
		content.WriteString("\n\nTexto extraído do documento:\n")
		content.WriteString(request.ExtractedText)
	} else {
		content.WriteString("\n\nNão foi possível extrair texto do documento. Baseie a análise no nome e tipo do arquivo.")
	}
	return c.complete(ctx, prompt.system+termSafetySuffix, prompt.task+"\n\n"+content.String(), 500)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) complete(ctx context.Context, system string, user string, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", domainerrors.ErrCredentialsMissing
	}
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	startedAt := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: openai request: %v", domainerrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read openai response: %v", domainerrors.ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: openai status %d", domainerrors.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var decoded chatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("%w: decode openai response: %v", domainerrors.ErrUpstreamUnavailable, err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("%w: openai error: %s", domainerrors.ErrUpstreamUnavailable, decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", domainerrors.ErrUpstreamUnavailable)
	}
	c.logger.Debug("openai completion finished",
		"event", "openai_completion_finished",
		"module", "legal-research/jurisprudence-service",
		"layer", "adapter",
		"model", c.model,
		"duration_ms", time.Since(startedAt).Milliseconds(),
	)
	return strings.TrimSpace(decoded.Choices[0].Message.Content), nil
}
