// Package ai wraps the Google Generative Language API (Gemini) behind a
// small client with rate limiting and bounded retry.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1"
	defaultModel   = "gemini-2.5-flash"

	// Free tier allows ~15 requests per minute
	rateLimit = 0.25 // requests per second
	rateBurst = 3

	// Retry configuration
	maxRetries   = 3
	initialDelay = 1 * time.Second
	maxDelay     = 16 * time.Second
)

var (
	ErrMissingAPIKey = errors.New("gemini api key is not configured")
	ErrEmptyPrompt   = errors.New("prompt cannot be empty")

	modelNameRe = regexp.MustCompile(`^[a-z0-9.-]+$`)

	// Deprecated and experimental model names mapped to their current equivalents.
	modelAliases = map[string]string{
		"gemini-1.5-flash":        "gemini-2.5-flash",
		"gemini-1.5-flash-latest": "gemini-2.5-flash",
		"gemini-1.5-pro":          "gemini-2.5-pro",
		"gemini-1.5-pro-latest":   "gemini-2.5-pro",
		"gemini-2.0-flash-exp":    "gemini-2.0-flash",
	}
)

// GeminiClient calls the generateContent endpoint.
type GeminiClient struct {
	baseURL      string
	apiKey       string
	defaultModel string
	httpClient   *http.Client
	rateLimiter  *rate.Limiter
	logger       *slog.Logger
}

func NewGeminiClient(apiKey, model string, logger *slog.Logger) *GeminiClient {
	if model == "" {
		model = defaultModel
	}
	return &GeminiClient{
		baseURL:      defaultBaseURL,
		apiKey:       apiKey,
		defaultModel: model,
		rateLimiter:  rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger,
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (c *GeminiClient) WithBaseURL(baseURL string) *GeminiClient {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// ResolveModel maps deprecated model names to current ones and validates the
// name format. An empty name selects the client default.
func (c *GeminiClient) ResolveModel(model string) (string, error) {
	if model == "" {
		model = c.defaultModel
	}
	if mapped, ok := modelAliases[model]; ok {
		c.logger.Info("mapped deprecated model name", "requested", model, "using", mapped)
		model = mapped
	}
	if !modelNameRe.MatchString(model) {
		return "", fmt.Errorf("invalid model name format: %q", model)
	}
	return model, nil
}

// GenerateContent sends the prompt to the model and returns the first
// candidate's text. Rate-limited; 429 and 5xx responses are retried with
// exponential backoff up to maxRetries.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt, model string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	model, err := c.ResolveModel(model)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)

	delay := initialDelay
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("retrying gemini request", "attempt", attempt, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			delay *= 2
			if delay > maxDelay {
				delay = maxDelay
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", err
		}

		text, retryable, err := c.doGenerate(ctx, url, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
	}

	return "", fmt.Errorf("gemini request failed after %d retries: %w", maxRetries, lastErr)
}

func (c *GeminiClient) doGenerate(ctx context.Context, url string, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("gemini api returned status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", false, fmt.Errorf("decode response: %w", err)
	}

	if parsed.Error != nil {
		return "", false, fmt.Errorf("gemini api error %d (%s): %s",
			parsed.Error.Code, parsed.Error.Status, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("gemini api returned status %d", resp.StatusCode)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", false, errors.New("empty response from gemini api")
	}

	var sb strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), false, nil
}
