package repository

import (
	"context"

	"github.com/coursetrans/coursetrans/internal/model"
)

// SaveKeyParams is the input for the save-key-with-translation
// operation: create or refresh a key, optionally scope it to a course,
// and optionally upsert a translation in one transaction.
type SaveKeyParams struct {
	Component   string
	Key         string
	SourceText  string
	Lang        string
	Translation string
	Reviewed    bool
	CourseID    int64
	Context     string
}

// KeyRepository defines operations for TranslationKey persistence
type KeyRepository interface {
	// GetByComponentAndKey retrieves a key by its natural (component, key) pair
	GetByComponentAndKey(ctx context.Context, component, key string) (*model.TranslationKey, error)

	// GetByID retrieves a key by its surrogate ID
	GetByID(ctx context.Context, id int64) (*model.TranslationKey, error)

	// SaveKeyWithTranslation upserts a key (source text may be refreshed,
	// identity is stable), associates it with a course when CourseID is
	// set, and upserts the translation when Lang is set. Returns the key ID.
	SaveKeyWithTranslation(ctx context.Context, params SaveKeyParams) (int64, error)
}
