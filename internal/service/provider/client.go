package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	apperrors "github.com/coursetrans/coursetrans/internal/errors"
	"github.com/coursetrans/coursetrans/internal/model"
	"github.com/coursetrans/coursetrans/internal/service/common"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultRequestTimeout = 300 * time.Second

	maxAttempts  = 2
	retryBackoff = 2 * time.Second

	// Glossary instruction block is capped to bound prompt size
	maxGlossaryPairs = 40
)

// Config holds provider settings, injected at construction so tests
// can point the client at a fake endpoint.
type Config struct {
	Endpoint       string
	APIKey         string
	Model          string
	SystemPrompt   string
	Temperature    *float64
	MaxTokens      *int
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
}

// Doer issues HTTP requests; satisfied by *http.Client
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// UsageRecorder is a side channel for per-request token accounting.
// Recording failures are swallowed; cost accounting is non-critical.
type UsageRecorder interface {
	RecordUsage(requestID, model string, tokens int)
}

// Client performs one provider round trip for a batch of items in one
// source-to-target language direction.
type Client interface {
	// Translate returns a structured BatchResult for provider-level
	// failures; the error return is reserved for transport faults
	// (network errors) that callers may treat as retryable exceptions.
	Translate(ctx context.Context, req *model.BatchRequest) (*model.BatchResult, error)
}

// httpClient implements Client against a chat-completion style API
// with a function-calling contract
type httpClient struct {
	cfg   Config
	doer  Doer
	usage UsageRecorder
	sleep func(time.Duration)
}

// NewClient creates a provider client with a default HTTP client
// (10s connect, 300s overall timeout)
func NewClient(cfg Config) Client {
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	doer := &http.Client{
		Timeout: requestTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
		},
	}
	return NewClientWithDoer(cfg, doer, NewLogUsageRecorder())
}

// NewClientWithDoer creates a provider client with an injected HTTP
// doer and optional usage recorder
func NewClientWithDoer(cfg Config, doer Doer, usage UsageRecorder) Client {
	return &httpClient{
		cfg:   cfg,
		doer:  doer,
		usage: usage,
		sleep: time.Sleep,
	}
}

// Translate performs one provider round trip, including the optional
// control-character repair round trip.
func (c *httpClient) Translate(ctx context.Context, req *model.BatchRequest) (*model.BatchResult, error) {
	if c.cfg.Endpoint == "" || c.cfg.APIKey == "" {
		return model.FailedBatch(apperrors.CodeMissingAPIConfig), nil
	}
	if req == nil || req.RequestID == "" || req.SourceLang == "" || req.TargetLang == "" || len(req.Items) == 0 {
		return model.FailedBatch(apperrors.CodeInvalidArguments), nil
	}

	body := c.buildChatRequest(req)
	result, err := c.roundTrip(ctx, req.RequestID, body)
	if err != nil || !result.OK {
		return result, err
	}

	// One repair round trip when the model returned control characters;
	// on repair failure the dirty text is kept for downstream sanitization.
	if dirty := dirtyResults(result.Results); len(dirty) > 0 {
		repairBody := c.buildRepairRequest(req, result.Results)
		repaired, repairErr := c.roundTrip(ctx, req.RequestID, repairBody)
		if repairErr == nil && repaired.OK && len(repaired.Results) == len(result.Results) {
			result.Results = repaired.Results
			result.Meta.UsageTokens += repaired.Meta.UsageTokens
		}
	}

	if c.usage != nil {
		c.usage.RecordUsage(req.RequestID, result.Meta.Model, result.Meta.UsageTokens)
	}

	return result, nil
}

// roundTrip issues the HTTP POST with retry and parses the response.
// A 429 is surfaced immediately as rate_limited; other non-2xx
// responses retry once after an exponential backoff.
func (c *httpClient) roundTrip(ctx context.Context, requestID string, body []byte) (*model.BatchResult, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			c.sleep(retryBackoff << (attempt - 1))
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
		if err != nil {
			return model.FailedBatch(apperrors.CodeException), err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

		resp, err := c.doer.Do(httpReq)
		if err != nil {
			// Transport fault: surfaced as an error for the caller's
			// retry policy, not as a structured provider code
			return model.FailedBatch(apperrors.CodeException), err
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return model.FailedBatch(apperrors.CodeException), readErr
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			return model.FailedBatch(apperrors.CodeRateLimited), nil
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			continue
		}

		return c.parseResponse(requestID, respBody), nil
	}

	return model.FailedBatch(apperrors.CodeHTTPError), nil
}

// dirtyResults returns indexes of results containing control characters
func dirtyResults(results []model.BatchItemResult) []int {
	var dirty []int
	for i, r := range results {
		if common.HasControlChars(r.Translated) {
			dirty = append(dirty, i)
		}
	}
	return dirty
}

// buildChatRequest serializes the chat-completion request body
func (c *httpClient) buildChatRequest(req *model.BatchRequest) []byte {
	chatReq := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: c.systemPrompt()},
			{Role: "user", Content: buildUserPrompt(req)},
		},
		Tools:      []chatTool{translationTool()},
		ToolChoice: &chatToolChoice{Type: "function", Function: chatToolChoiceFunc{Name: toolName}},
	}
	if req.Temperature != nil {
		chatReq.Temperature = req.Temperature
	} else if c.cfg.Temperature != nil {
		chatReq.Temperature = c.cfg.Temperature
	}
	if req.MaxTokens != nil {
		chatReq.MaxTokens = req.MaxTokens
	} else if c.cfg.MaxTokens != nil {
		chatReq.MaxTokens = c.cfg.MaxTokens
	}

	body, _ := json.Marshal(chatReq)
	return body
}

// buildRepairRequest serializes the control-character repair request
func (c *httpClient) buildRepairRequest(req *model.BatchRequest, results []model.BatchItemResult) []byte {
	chatReq := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: c.systemPrompt()},
			{Role: "user", Content: buildRepairPrompt(req.RequestID, results)},
		},
		Tools:      []chatTool{translationTool()},
		ToolChoice: &chatToolChoice{Type: "function", Function: chatToolChoiceFunc{Name: toolName}},
	}
	body, _ := json.Marshal(chatReq)
	return body
}

func (c *httpClient) systemPrompt() string {
	if c.cfg.SystemPrompt != "" {
		return c.cfg.SystemPrompt
	}
	return defaultSystemPrompt
}
