package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	calls []Request
	out   string
	err   error
}

func (m *mockProvider) Translate(_ context.Context, req Request) (string, error) {
	m.calls = append(m.calls, req)
	return m.out, m.err
}

func TestGateway_Translate(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		target    string
		source    string
		provider  *mockProvider
		want      string
		wantOK    bool
		wantCalls []Request
	}{
		{
			name:      "regional tags normalized",
			text:      "आज तिथि क्या है",
			target:    "en-IN",
			source:    "hi-IN",
			provider:  &mockProvider{out: "What is the tithi today"},
			want:      "What is the tithi today",
			wantOK:    true,
			wantCalls: []Request{{Text: "आज तिथि क्या है", Target: "en", Source: "hi"}},
		},
		{
			name:     "identity short circuit",
			text:     "When is Amavasya?",
			target:   "en",
			source:   "en-IN",
			provider: &mockProvider{out: "unused"},
			want:     "When is Amavasya?",
		},
		{
			name:      "auto source",
			text:      "Tithi: Amavasya",
			target:    "kn-IN",
			source:    "auto",
			provider:  &mockProvider{out: "ತಿಥಿ: ಅಮಾವಾಸ್ಯೆ"},
			want:      "ತಿಥಿ: ಅಮಾವಾಸ್ಯೆ",
			wantOK:    true,
			wantCalls: []Request{{Text: "Tithi: Amavasya", Target: "kn", Source: "auto"}},
		},
		{
			name:      "failure returns original",
			text:      "Tithi: Amavasya",
			target:    "hi",
			source:    "en",
			provider:  &mockProvider{err: errors.New("quota exceeded")},
			want:      "Tithi: Amavasya",
			wantCalls: []Request{{Text: "Tithi: Amavasya", Target: "hi", Source: "en"}},
		},
		{
			name:      "empty translation returns original",
			text:      "Tithi: Amavasya",
			target:    "hi",
			source:    "en",
			provider:  &mockProvider{out: "  "},
			want:      "Tithi: Amavasya",
			wantCalls: []Request{{Text: "Tithi: Amavasya", Target: "hi", Source: "en"}},
		},
		{
			name:     "blank text skipped",
			text:     " ",
			target:   "hi",
			source:   "en",
			provider: &mockProvider{out: "unused"},
			want:     " ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGateway(tt.provider, zerolog.Nop())
			got, ok := g.TryTranslate(context.Background(), tt.text, tt.target, tt.source)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCalls, tt.provider.calls)
		})
	}
}

func TestGateway_NilProvider(t *testing.T) {
	g := NewGateway(nil, zerolog.Nop())
	assert.Equal(t, "hello", g.Translate(context.Background(), "hello", "hi", "en"))

	out, ok := g.TryTranslate(context.Background(), "hello", "hi", "en")
	assert.Equal(t, "hello", out)
	assert.False(t, ok)
}

func TestHTTPProvider_Translate(t *testing.T) {
	var got translateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"translations": []map[string]string{{"translatedText": "तिथि: अमावस्या"}},
			},
		})
	}))
	defer server.Close()

	p := NewHTTPProvider(&HTTPConfig{Endpoint: server.URL, APIKey: "secret"}, zerolog.Nop())

	out, err := p.Translate(context.Background(), Request{Text: "Tithi: Amavasya", Target: "hi", Source: "en"})
	require.NoError(t, err)
	assert.Equal(t, "तिथि: अमावस्या", out)
	assert.Equal(t, translateRequest{Q: "Tithi: Amavasya", Target: "hi", Source: "en", Format: "text"}, got)

	got = translateRequest{}
	_, err = p.Translate(context.Background(), Request{Text: "x", Target: "hi", Source: AutoDetect})
	require.NoError(t, err)
	assert.Empty(t, got.Source, "auto source is omitted")
}

func TestHTTPProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"http error", http.StatusForbidden, `{"error":{"code":403,"message":"API key not valid"}}`, "403"},
		{"no translations", http.StatusOK, `{"data":{"translations":[]}}`, "no translations"},
		{"bad json", http.StatusOK, `not json`, "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p := NewHTTPProvider(&HTTPConfig{Endpoint: server.URL, APIKey: "k"}, zerolog.Nop())
			_, err := p.Translate(context.Background(), Request{Text: "x", Target: "hi"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHTTPProvider_MissingKey(t *testing.T) {
	p := NewHTTPProvider(&HTTPConfig{Endpoint: "http://127.0.0.1:0"}, zerolog.Nop())
	_, err := p.Translate(context.Background(), Request{Text: "x", Target: "hi"})
	assert.ErrorIs(t, err, ErrMissingKey)
}
