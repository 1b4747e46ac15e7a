package extract

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/fyrsmithlabs/notesd/internal/config"
)

func TestNewLLMExtractor(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ExtractConfig
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: config.ExtractConfig{
				LLMBaseURL: "http://localhost:11434/v1",
				LLMModel:   "llama3.1:8b",
			},
			wantErr: false,
		},
		{
			name: "missing base URL",
			cfg: config.ExtractConfig{
				LLMModel: "llama3.1:8b",
			},
			wantErr: true,
		},
		{
			name: "missing model",
			cfg: config.ExtractConfig{
				LLMBaseURL: "http://localhost:11434/v1",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor, err := NewLLMExtractor(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewLLMExtractor() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && extractor == nil {
				t.Error("NewLLMExtractor() returned nil extractor")
			}
		})
	}
}

// chatReply wraps content into an OpenAI-style chat completion response.
func chatReply(content string) string {
	resp := chatResponse{
		Choices: []chatChoice{
			{Message: chatMessage{Role: "assistant", Content: content}},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestLLMExtractor_Extract(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse string
		statusCode     int
		want           []string
		wantErr        bool
		wantMalformed  bool
	}{
		{
			name:           "successful extraction",
			serverResponse: chatReply(`{"items":[{"action":"Review the document"},{"action":"Send email to team"}]}`),
			statusCode:     http.StatusOK,
			want:           []string{"Review the document", "Send email to team"},
		},
		{
			name:           "duplicates and blanks dropped",
			serverResponse: chatReply(`{"items":[{"action":"Fix build"},{"action":"fix build"},{"action":"  "}]}`),
			statusCode:     http.StatusOK,
			want:           []string{"Fix build"},
		},
		{
			name:           "empty item list",
			serverResponse: chatReply(`{"items":[]}`),
			statusCode:     http.StatusOK,
			want:           []string{},
		},
		{
			name:           "unparsable model output",
			serverResponse: chatReply(`here are your action items: fix stuff`),
			statusCode:     http.StatusOK,
			wantErr:        true,
			wantMalformed:  true,
		},
		{
			name:           "no choices",
			serverResponse: `{"choices":[]}`,
			statusCode:     http.StatusOK,
			wantErr:        true,
		},
		{
			name:           "client error not retried",
			serverResponse: `{"error":{"message":"bad request"}}`,
			statusCode:     http.StatusBadRequest,
			wantErr:        true,
		},
		{
			name:           "server error exhausts retries",
			serverResponse: `upstream exploded`,
			statusCode:     http.StatusInternalServerError,
			wantErr:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests++
				if r.URL.Path != "/chat/completions" {
					t.Errorf("request path = %q, want /chat/completions", r.URL.Path)
				}
				if r.Header.Get("Content-Type") != "application/json" {
					t.Error("missing Content-Type header")
				}

				var req chatRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("decoding request: %v", err)
				}
				if req.Model != "test-model" {
					t.Errorf("request model = %q, want test-model", req.Model)
				}
				if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
					t.Errorf("unexpected messages: %+v", req.Messages)
				}

				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.serverResponse))
			}))
			defer server.Close()

			extractor, err := NewLLMExtractor(config.ExtractConfig{
				LLMBaseURL:           server.URL,
				LLMModel:             "test-model",
				LLMRequestsPerMinute: 600,
				LLMMaxRetries:        0,
			})
			if err != nil {
				t.Fatalf("NewLLMExtractor() error = %v", err)
			}

			got, err := extractor.Extract(context.Background(), "note text")
			if (err != nil) != tt.wantErr {
				t.Errorf("Extract() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantMalformed && !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("Extract() error = %v, want ErrMalformedResponse", err)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract() = %v, want %v", got, tt.want)
			}
			if requests != 1 {
				t.Errorf("server saw %d requests, want 1", requests)
			}
		})
	}
}

func TestLLMExtractor_SendsAuthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q, want Bearer sk-test", got)
		}
		_, _ = w.Write([]byte(chatReply(`{"items":[]}`)))
	}))
	defer server.Close()

	extractor, err := NewLLMExtractor(config.ExtractConfig{
		LLMBaseURL:           server.URL,
		LLMModel:             "test-model",
		LLMAPIKey:            config.Secret("sk-test"),
		LLMRequestsPerMinute: 600,
	})
	if err != nil {
		t.Fatalf("NewLLMExtractor() error = %v", err)
	}

	if _, err := extractor.Extract(context.Background(), "text"); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
}

func TestLLMExtractor_RetriesServerErrors(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(chatReply(`{"items":[{"action":"Retry worked"}]}`)))
	}))
	defer server.Close()

	extractor, err := NewLLMExtractor(config.ExtractConfig{
		LLMBaseURL:           server.URL,
		LLMModel:             "test-model",
		LLMRequestsPerMinute: 600,
		LLMMaxRetries:        2,
	})
	if err != nil {
		t.Fatalf("NewLLMExtractor() error = %v", err)
	}

	got, err := extractor.Extract(context.Background(), "text")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(got) != 1 || got[0] != "Retry worked" {
		t.Errorf("Extract() = %v, want [Retry worked]", got)
	}
	if requests != 2 {
		t.Errorf("server saw %d requests, want 2", requests)
	}
}

func TestParseItemList(t *testing.T) {
	items, err := parseItemList(`{"items":[{"action":"One"},{"action":"Two"}]}`)
	if err != nil {
		t.Fatalf("parseItemList() error = %v", err)
	}
	if !reflect.DeepEqual(items, []string{"One", "Two"}) {
		t.Errorf("parseItemList() = %v", items)
	}

	_, err = parseItemList(`not json`)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("parseItemList(not json) error = %v, want ErrMalformedResponse", err)
	}
	if err != nil && !strings.Contains(err.Error(), "malformed model response") {
		t.Errorf("parseItemList() error message = %q", err.Error())
	}
}
