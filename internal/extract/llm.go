package extract

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

	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/notesd/internal/config"
)

const (
	defaultLLMTimeout = 30 * time.Second
	defaultBaseBackoff = 1 * time.Second

	// Allow short bursts above the per-minute budget.
	defaultBurst = 5
)

// ErrMalformedResponse indicates the model returned output that could not
// be parsed into action items. Callers treat it as a validation failure
// rather than a server fault.
var ErrMalformedResponse = errors.New("malformed model response")

const extractSystemPrompt = `You are an assistant that extracts action items from text.
Extract all action items, tasks, or to-dos from the given text.
Return them as a JSON object with an "items" array containing objects with an "action" field.
Example: {"items": [{"action": "Review the document"}, {"action": "Send email to team"}]}`

// LLMExtractor extracts action items by asking an OpenAI-compatible chat
// endpoint (a local Ollama server by default) for a JSON item list.
type LLMExtractor struct {
	model      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

// NewLLMExtractor creates an LLM-backed extractor from configuration.
func NewLLMExtractor(cfg config.ExtractConfig) (*LLMExtractor, error) {
	if cfg.LLMBaseURL == "" {
		return nil, fmt.Errorf("llm base URL required")
	}
	if cfg.LLMModel == "" {
		return nil, fmt.Errorf("llm model required")
	}

	timeout := cfg.LLMTimeout.Duration()
	if timeout <= 0 {
		timeout = defaultLLMTimeout
	}

	perMinute := cfg.LLMRequestsPerMinute
	if perMinute <= 0 {
		perMinute = 60
	}

	maxRetries := cfg.LLMMaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &LLMExtractor{
		model:   cfg.LLMModel,
		apiKey:  cfg.LLMAPIKey.Value(),
		baseURL: strings.TrimRight(cfg.LLMBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter:    rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), defaultBurst),
		maxRetries: maxRetries,
	}, nil
}

// Extract asks the model for action items in text.
//
// The method handles:
//   - Rate limiting to stay inside the configured per-minute budget
//   - Context cancellation and deadlines
//   - Retries with exponential backoff for transient errors
//
// Unparsable model output returns ErrMalformedResponse.
func (e *LLMExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req := chatRequest{
		Model:       e.model,
		Temperature: 0,
		ResponseFormat: &chatResponseFormat{
			Type: "json_object",
		},
		Messages: []chatMessage{
			{Role: "system", Content: extractSystemPrompt},
			{Role: "user", Content: "Extract action items from this text:\n\n" + text},
		},
	}

	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := defaultBaseBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		items, err := e.doRequest(ctx, req)
		if err == nil {
			return items, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// doRequest performs one chat completion call and parses the item list.
func (e *LLMExtractor) doRequest(ctx context.Context, req chatRequest) ([]string, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, &retryableError{err: fmt.Errorf("chat request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &retryableError{err: fmt.Errorf("rate limited (429)")}
	}
	if resp.StatusCode >= 500 {
		return nil, &retryableError{err: fmt.Errorf("server error (%d): %s", resp.StatusCode, string(body))}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat API error (%d): %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from chat API")
	}

	return parseItemList(chatResp.Choices[0].Message.Content)
}

// parseItemList decodes the model's JSON payload into plain strings.
func parseItemList(content string) ([]string, error) {
	var list actionItemList
	if err := json.Unmarshal([]byte(content), &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	items := make([]string, 0, len(list.Items))
	for _, entry := range list.Items {
		if strings.TrimSpace(entry.Action) == "" {
			continue
		}
		items = append(items, entry.Action)
	}
	return dedupe(items), nil
}

type chatRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	Temperature    float64             `json:"temperature"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type actionItemList struct {
	Items []actionItemEntry `json:"items"`
}

type actionItemEntry struct {
	Action string `json:"action"`
}

// retryableError wraps an error to indicate it can be retried.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return e.err.Error()
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// isRetryableError checks if an error should be retried.
func isRetryableError(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

// Ensure LLMExtractor implements Extractor.
var _ Extractor = (*LLMExtractor)(nil)
