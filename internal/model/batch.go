package model

// BatchItem is one unit of source text handed to the batch engine.
type BatchItem struct {
	ID           string   `json:"id"`
	Key          string   `json:"key"`
	Component    string   `json:"component"`
	CourseID     int64    `json:"course_id"`
	SourceText   string   `json:"source_text"`
	Context      string   `json:"context"`
	Placeholders []string `json:"placeholders,omitempty"`
}

// CompositeID returns the canonical "component:key" identifier for an
// item, or the bare key when no component is set.
func (i *BatchItem) CompositeID() string {
	if i.Component == "" {
		return i.Key
	}
	return i.Component + ":" + i.Key
}

// BatchRequest is one engine invocation: N items translated from one
// source language to one target language.
type BatchRequest struct {
	RequestID   string          `json:"request_id"`
	SourceLang  string          `json:"source_lang"`
	TargetLang  string          `json:"target_lang"`
	Items       []BatchItem     `json:"items"`
	Glossary    []GlossaryEntry `json:"glossary,omitempty"`
	Temperature *float64        `json:"temperature,omitempty"`
	MaxTokens   *int            `json:"max_tokens,omitempty"`
}

// BatchItemResult is one translated item, after post-processing.
type BatchItemResult struct {
	ID                   string   `json:"id"`
	Key                  string   `json:"key,omitempty"`
	Translated           string   `json:"translated"`
	Confidence           *float64 `json:"confidence,omitempty"`
	ModelTokens          *int     `json:"model_tokens,omitempty"`
	AppliedGlossaryTerms []string `json:"applied_glossary_terms,omitempty"`
	Warnings             []string `json:"warnings,omitempty"`
}

// BatchMeta carries provider-side accounting for one round trip.
type BatchMeta struct {
	Model       string `json:"model,omitempty"`
	UsageTokens int    `json:"usage_tokens,omitempty"`
}

// BatchResult is the structured outcome of one engine invocation.
// Errors carries provider error codes; it is never a thrown fault.
type BatchResult struct {
	OK      bool              `json:"ok"`
	Results []BatchItemResult `json:"results,omitempty"`
	Errors  []string          `json:"errors,omitempty"`
	Meta    BatchMeta         `json:"meta"`
}

// FailedBatch builds a non-OK result carrying the given error codes.
func FailedBatch(codes ...string) *BatchResult {
	return &BatchResult{OK: false, Errors: codes}
}
