package translation

import (
	"regexp"
	"strings"
	"sync"

	"github.com/coursetrans/coursetrans/internal/model"
)

// PostProcessor validates returned translations against glossary terms
// and required placeholders. Validation is advisory only: it records
// applied terms and emits warnings, never mutating the translated text.
type PostProcessor interface {
	Process(item *model.BatchItem, result *model.BatchItemResult, glossary []model.GlossaryEntry)
}

// postProcessor implements PostProcessor with cached word-boundary patterns
type postProcessor struct {
	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

// NewPostProcessor creates a new glossary/placeholder post-processor
func NewPostProcessor() PostProcessor {
	return &postProcessor{
		patterns: map[string]*regexp.Regexp{},
	}
}

// Process merges glossary and placeholder findings into the result
func (p *postProcessor) Process(item *model.BatchItem, result *model.BatchItemResult, glossary []model.GlossaryEntry) {
	for _, entry := range glossary {
		if entry.Replacement != "" && p.contains(result.Translated, entry.Replacement) {
			result.AppliedGlossaryTerms = append(result.AppliedGlossaryTerms, entry.Term)
			continue
		}
		// Only warn when the term was actually present in the source
		if entry.Term == "" || !p.contains(item.SourceText, entry.Term) {
			continue
		}
		if !p.contains(result.Translated, entry.Term) {
			result.Warnings = append(result.Warnings, "glossary_not_applied:"+entry.Term)
		}
	}

	// Placeholder tokens must survive verbatim, so match them literally
	// rather than on word boundaries
	for _, token := range item.Placeholders {
		if token == "" {
			continue
		}
		if !strings.Contains(result.Translated, token) {
			result.Warnings = append(result.Warnings, "placeholder_missing:"+token)
		}
	}
}

// contains reports a case-insensitive, word-boundary-anchored match
func (p *postProcessor) contains(text, term string) bool {
	return p.pattern(term).MatchString(text)
}

func (p *postProcessor) pattern(term string) *regexp.Regexp {
	p.mu.Lock()
	defer p.mu.Unlock()

	if re, ok := p.patterns[term]; ok {
		return re
	}
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
	p.patterns[term] = re
	return re
}
