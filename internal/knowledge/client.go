// Package knowledge is the client for the question-answering service that
// returns calendar and spiritual guidance.
package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/normanking/voicevedic/internal/metrics"
)

// ErrMissingCredential means the service, or this client, has no API key
// configured. It is a configuration problem rather than an outage.
var ErrMissingCredential = errors.New("knowledge API credential missing")

// UpstreamError is a failure reported by the service itself.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("knowledge service error: %d - %s", e.StatusCode, e.Message)
}

// Request is the question sent to the service.
type Request struct {
	Question string `json:"question"`
	Location string `json:"location,omitempty"`
}

// Response carries the raw answer text.
type Response struct {
	Answer string `json:"answer"`
}

// Config configures the client.
type Config struct {
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns defaults for a locally running service.
func DefaultConfig() *Config {
	return &Config{
		Endpoint: "http://localhost:8787/ask",
		Timeout:  60 * time.Second,
	}
}

// Client calls the knowledge API.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a client.
func NewClient(cfg *Config, logger zerolog.Logger) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With().Str("component", "knowledge-client").Logger(),
	}
}

// Ask sends one question. Errors are ErrMissingCredential, *UpstreamError
// or a wrapped transport error.
func (c *Client) Ask(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(c.config.APIKey) == "" {
		return nil, ErrMissingCredential
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	metrics.KnowledgeLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("knowledge request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var out struct {
		Answer string `json:"answer"`
		Error  string `json:"error"`
	}
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || out.Error != "" {
		msg := out.Error
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("error", msg).
			Msg("Knowledge service returned an error")
		return nil, classify(resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if strings.TrimSpace(out.Answer) == "" {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: "empty answer"}
	}

	c.logger.Debug().
		Int("answerLen", len(out.Answer)).
		Dur("latency", time.Since(start)).
		Msg("Knowledge answer received")
	return &Response{Answer: out.Answer}, nil
}

// classify maps a service error onto the client's error taxonomy. The
// service reports its own missing upstream key in the message text.
func classify(status int, msg string) error {
	lower := strings.ToLower(msg)
	for _, hint := range []string{"api key", "api_key", "apikey"} {
		if strings.Contains(lower, hint) {
			return fmt.Errorf("%w: %s", ErrMissingCredential, msg)
		}
	}
	return &UpstreamError{StatusCode: status, Message: msg}
}
