package repository

import (
	"context"

	"github.com/coursetrans/coursetrans/internal/model"
)

// TranslationRepository defines operations for Translation persistence
type TranslationRepository interface {
	// Upsert writes the translation for a (key, language) pair.
	// At most one row per pair; last writer wins.
	Upsert(ctx context.Context, keyID int64, lang, text string, reviewed bool) error

	// GetByKeyAndLanguage retrieves the translation for a key addressed
	// by its (component, key) pair
	GetByKeyAndLanguage(ctx context.Context, component, key, lang string) (*model.Translation, error)

	// Lookup retrieves a translation by loose item id. When component is
	// non-empty an exact (component, key) match is used; otherwise the
	// first key matching the bare structural key wins.
	Lookup(ctx context.Context, component, key, lang string) (*model.Translation, error)

	// ListMissing returns keys with no active translation for the language,
	// ordered by key ID, for the missing-translation sweep
	ListMissing(ctx context.Context, lang string, limit int) ([]*model.TranslationKey, error)

	// Bundle returns the full component:key -> text map for a language
	Bundle(ctx context.Context, lang string) (map[string]string, error)
}
