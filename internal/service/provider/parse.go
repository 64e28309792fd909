package provider

import (
	"encoding/json"
	"strings"

	apperrors "github.com/coursetrans/coursetrans/internal/errors"
	"github.com/coursetrans/coursetrans/internal/model"
)

// chatResponse is the chat-completion response body
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// functionResult is the parsed function-call payload. Pointer fields
// distinguish missing keys from empty values.
type functionResult struct {
	RequestID string               `json:"request_id"`
	Results   []functionResultItem `json:"results"`
}

type functionResultItem struct {
	ID         *string  `json:"id"`
	Translated *string  `json:"translated"`
	Confidence *float64 `json:"confidence,omitempty"`
	Tokens     *int     `json:"tokens,omitempty"`
}

// parseResponse extracts and validates the structured function-call
// arguments from a raw provider response body.
func (c *httpClient) parseResponse(requestID string, body []byte) *model.BatchResult {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.FailedBatch(apperrors.CodeInvalidJSONResponse)
	}
	if len(resp.Choices) == 0 {
		return model.FailedBatch(apperrors.CodeInvalidFunctionResponse)
	}

	msg := resp.Choices[0].Message

	var payload string
	if len(msg.ToolCalls) > 0 && msg.ToolCalls[0].Function.Arguments != "" {
		payload = msg.ToolCalls[0].Function.Arguments
	} else if msg.Content != "" {
		// Fallback: model answered in free text instead of the tool call
		payload = msg.Content
	} else {
		return model.FailedBatch(apperrors.CodeNoFunctionArguments)
	}

	span := extractJSONObject(payload)
	if span == "" {
		return model.FailedBatch(apperrors.CodeInvalidJSONResponse)
	}

	var parsed functionResult
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		return model.FailedBatch(apperrors.CodeInvalidFunctionResponse)
	}

	if parsed.RequestID != requestID {
		return model.FailedBatch(apperrors.CodeRequestIDMismatch)
	}
	if len(parsed.Results) == 0 {
		return model.FailedBatch(apperrors.CodeEmptyResults)
	}

	results := make([]model.BatchItemResult, 0, len(parsed.Results))
	for _, item := range parsed.Results {
		if item.ID == nil || item.Translated == nil {
			return model.FailedBatch(apperrors.CodeMalformedResultItem)
		}
		results = append(results, model.BatchItemResult{
			ID:          *item.ID,
			Key:         *item.ID,
			Translated:  *item.Translated,
			Confidence:  item.Confidence,
			ModelTokens: item.Tokens,
		})
	}

	return &model.BatchResult{
		OK:      true,
		Results: results,
		Meta: model.BatchMeta{
			Model:       resp.Model,
			UsageTokens: resp.Usage.TotalTokens,
		},
	}
}

// extractJSONObject returns the outermost {...} span in s, tolerating a
// model that wraps JSON in surrounding prose. Returns "" when no
// balanced object is found.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
