package generative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gold-assistant-go/internal/config"
	"github.com/gold-assistant-go/internal/models"
	"github.com/sirupsen/logrus"
)

// Stop sequences keep the model from producing run-on dialogue turns.
var stopSequences = []string{"END_RESPONSE", "User:", "Human:"}

// Service is the generative backend consulted when no keyword rule
// matches a message.
type Service interface {
	Available() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client calls an OpenAI-compatible chat-completions endpoint with fixed
// low-temperature sampling and a strict per-call timeout. No retries:
// a failed call degrades to the engine's next fallback tier.
type Client struct {
	cfg        *config.GenerativeConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates the generative backend client
func NewClient(cfg *config.GenerativeConfig, logger *logrus.Logger) *Client {
	if cfg.APIKey == "" || cfg.BaseURL == "" {
		logger.Warn("Generative backend not configured")
	} else {
		logger.WithField("model", cfg.Model).Info("Generative backend configured")
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Available reports whether the backend can be called at all.
func (c *Client) Available() bool {
	return c.cfg.APIKey != "" && c.cfg.BaseURL != ""
}

// Generate produces a completion for the given prompt
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("generative backend not configured")
	}

	reqBody := map[string]interface{}{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens":  c.cfg.MaxTokens,
		"temperature": c.cfg.Temperature,
		"top_p":       c.cfg.TopP,
		"stop":        stopSequences,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	url := fmt.Sprintf("%s/chat/completions", strings.TrimSuffix(c.cfg.BaseURL, "/"))
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.cfg.APIKey))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generative request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Error.Message != "" {
		return "", fmt.Errorf("generative error: %s", result.Error.Message)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no response from generative backend")
	}

	c.logger.WithField("elapsed", time.Since(start)).Debug("Generative response received")
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

// BuildPrompt constructs the bounded prompt sent to the backend. When a
// quote is available a one-line price summary is embedded.
func BuildPrompt(message string, quote *models.PriceQuote) string {
	priceInfo := ""
	if quote != nil {
		priceInfo = fmt.Sprintf("Current gold: $%.2f/oz (%+.2f)", quote.CurrentPrice, quote.Change24h)
	}

	return fmt.Sprintf(`You are a gold investment expert. Answer this question briefly and helpfully:

Question: %q
%s

Keep your response under 300 words, be specific and helpful. Don't repeat the question.`, message, priceInfo)
}
