// Package translate wraps a translation provider around the knowledge API
// call. Translation is best effort: failures never block an answer.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// AutoDetect lets the provider detect the source language.
const AutoDetect = "auto"

// ErrMissingKey is returned when no provider credential is configured.
var ErrMissingKey = errors.New("translation API key not configured")

// Request is one translation call. Codes are bare ISO codes.
type Request struct {
	Text   string
	Target string
	Source string // AutoDetect or empty to let the provider decide
}

// Provider translates text.
type Provider interface {
	Translate(ctx context.Context, req Request) (string, error)
}

// HTTPConfig configures an HTTPProvider.
type HTTPConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// DefaultHTTPConfig returns the Google Cloud Translation v2 endpoint.
func DefaultHTTPConfig() *HTTPConfig {
	return &HTTPConfig{
		Endpoint: "https://translation.googleapis.com/language/translate/v2",
		Timeout:  10 * time.Second,
	}
}

// HTTPProvider speaks the Cloud Translation v2 JSON API.
type HTTPProvider struct {
	config     *HTTPConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewHTTPProvider creates a provider.
func NewHTTPProvider(cfg *HTTPConfig, logger zerolog.Logger) *HTTPProvider {
	if cfg == nil {
		cfg = DefaultHTTPConfig()
	}
	return &HTTPProvider{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With().Str("component", "translate-http").Logger(),
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Target string `json:"target"`
	Source string `json:"source,omitempty"`
	Format string `json:"format"`
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Translate calls the provider.
func (p *HTTPProvider) Translate(ctx context.Context, req Request) (string, error) {
	if p.config.APIKey == "" {
		return "", ErrMissingKey
	}

	body := translateRequest{Q: req.Text, Target: req.Target, Format: "text"}
	if req.Source != "" && req.Source != AutoDetect {
		body.Source = req.Source
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := p.config.Endpoint + "?key=" + url.QueryEscape(p.config.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("translation failed: %d - %s", resp.StatusCode, string(msg))
	}

	var out translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode translation: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("translation failed: %d - %s", out.Error.Code, out.Error.Message)
	}
	if len(out.Data.Translations) == 0 {
		return "", errors.New("translation response had no translations")
	}
	return out.Data.Translations[0].TranslatedText, nil
}
