package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/coursetrans/coursetrans/internal/model"
)

const toolName = "submit_translations"

const defaultSystemPrompt = "You are a professional translator for educational course content. " +
	"Translate each item from the source language to the target language, preserving meaning, " +
	"tone and any placeholder tokens exactly as they appear. Return translations via the " +
	toolName + " function only. Output must be valid UTF-8 and must not contain control characters."

// chatRequest is the chat-completion request body
type chatRequest struct {
	Model       string          `json:"model"`
	Messages    []chatMessage   `json:"messages"`
	Tools       []chatTool      `json:"tools,omitempty"`
	ToolChoice  *chatToolChoice `json:"tool_choice,omitempty"`
	Temperature *float64        `json:"temperature,omitempty"`
	MaxTokens   *int            `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type chatToolChoice struct {
	Type     string             `json:"type"`
	Function chatToolChoiceFunc `json:"function"`
}

type chatToolChoiceFunc struct {
	Name string `json:"name"`
}

// translationTool describes the function-calling contract the model
// must answer with
func translationTool() chatTool {
	params := json.RawMessage(`{
		"type": "object",
		"properties": {
			"request_id": {"type": "string"},
			"results": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"id": {"type": "string"},
						"translated": {"type": "string"},
						"confidence": {"type": "number"}
					},
					"required": ["id", "translated"]
				}
			}
		},
		"required": ["request_id", "results"]
	}`)

	return chatTool{
		Type: "function",
		Function: chatFunction{
			Name:        toolName,
			Description: "Submit the translated items, echoing the request_id and each item id.",
			Parameters:  params,
		},
	}
}

// promptItem is the compact item representation embedded in the user
// prompt; ids are shortened to the bare key to reduce payload and match
// the model's expected echo format.
type promptItem struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Context string `json:"context,omitempty"`
}

// buildUserPrompt assembles the user message: request metadata, the
// item list and the capped glossary instruction block.
func buildUserPrompt(req *model.BatchRequest) string {
	items := make([]promptItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, promptItem{
			ID:      item.Key,
			Text:    item.SourceText,
			Context: item.Context,
		})
	}
	itemJSON, _ := json.Marshal(items)

	var b strings.Builder
	fmt.Fprintf(&b, "Request ID: %s\n", req.RequestID)
	fmt.Fprintf(&b, "Translate the following items from %s to %s.\n", req.SourceLang, req.TargetLang)
	fmt.Fprintf(&b, "Echo each item id unchanged in your response.\n\nItems:\n%s\n", itemJSON)

	if block := glossaryBlock(req.Glossary); block != "" {
		b.WriteString(block)
	}

	return b.String()
}

// glossaryBlock renders the glossary instruction block, capped at
// maxGlossaryPairs entries.
func glossaryBlock(glossary []model.GlossaryEntry) string {
	if len(glossary) == 0 {
		return ""
	}
	if len(glossary) > maxGlossaryPairs {
		glossary = glossary[:maxGlossaryPairs]
	}

	var b strings.Builder
	b.WriteString("\nGlossary (prefer these translations for the listed terms):\n")
	for _, entry := range glossary {
		fmt.Fprintf(&b, "- %q -> %q\n", entry.Term, entry.Replacement)
	}
	return b.String()
}

// buildRepairPrompt asks the model to strip control characters from the
// previously returned translations while preserving the text.
func buildRepairPrompt(requestID string, results []model.BatchItemResult) string {
	items := make([]promptItem, 0, len(results))
	for _, r := range results {
		items = append(items, promptItem{ID: r.ID, Text: r.Translated})
	}
	itemJSON, _ := json.Marshal(items)

	var b strings.Builder
	fmt.Fprintf(&b, "Request ID: %s\n", requestID)
	b.WriteString("The following translations contain control characters. ")
	b.WriteString("Return the same items with all control characters removed, preserving the text otherwise. ")
	b.WriteString("Do not re-translate.\n\nItems:\n")
	b.Write(itemJSON)
	b.WriteString("\n")

	return b.String()
}
