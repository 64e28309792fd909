package repository

import (
	"context"
	"errors"

	apperrors "github.com/coursetrans/coursetrans/internal/errors"
	"github.com/coursetrans/coursetrans/internal/model"
	"github.com/jackc/pgx/v5"
)

// translationRepository implements TranslationRepository using PostgreSQL
type translationRepository struct {
	pool Pool
}

// NewTranslationRepository creates a new instance of TranslationRepository
func NewTranslationRepository(pool Pool) TranslationRepository {
	return &translationRepository{
		pool: pool,
	}
}

// Upsert writes the translation for a (key, language) pair
func (r *translationRepository) Upsert(ctx context.Context, keyID int64, lang, text string, reviewed bool) error {
	sql := `
		INSERT INTO translations (key_id, lang, text, active, reviewed)
		VALUES ($1, $2, $3, true, $4)
		ON CONFLICT (key_id, lang)
		DO UPDATE SET text = EXCLUDED.text, reviewed = EXCLUDED.reviewed, modified_at = now()`
	_, err := r.pool.Exec(ctx, sql, keyID, lang, text, reviewed)
	if err != nil {
		return handlePostgreSQLError(err, "failed to upsert translation")
	}
	return nil
}

// GetByKeyAndLanguage retrieves the translation for a (component, key, lang)
func (r *translationRepository) GetByKeyAndLanguage(ctx context.Context, component, key, lang string) (*model.Translation, error) {
	sql := `
		SELECT t.id, t.key_id, t.lang, t.text, t.active, t.reviewed, t.modified_at
		FROM translations t
		JOIN translation_keys k ON k.id = t.key_id
		WHERE k.component = $1 AND k.key = $2 AND t.lang = $3`
	row := r.pool.QueryRow(ctx, sql, component, key, lang)

	var t model.Translation
	err := row.Scan(&t.ID, &t.KeyID, &t.Lang, &t.Text, &t.Active, &t.Reviewed, &t.ModifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "translation not found")
		}
		return nil, handlePostgreSQLError(err, "failed to get translation")
	}

	return &t, nil
}

// Lookup retrieves a translation by loose item id, preferring an exact
// (component, key) match over a bare structural key match.
func (r *translationRepository) Lookup(ctx context.Context, component, key, lang string) (*model.Translation, error) {
	if component != "" {
		return r.GetByKeyAndLanguage(ctx, component, key, lang)
	}

	sql := `
		SELECT t.id, t.key_id, t.lang, t.text, t.active, t.reviewed, t.modified_at
		FROM translations t
		JOIN translation_keys k ON k.id = t.key_id
		WHERE k.key = $1 AND t.lang = $2
		ORDER BY k.id
		LIMIT 1`
	row := r.pool.QueryRow(ctx, sql, key, lang)

	var t model.Translation
	err := row.Scan(&t.ID, &t.KeyID, &t.Lang, &t.Text, &t.Active, &t.Reviewed, &t.ModifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "translation not found")
		}
		return nil, handlePostgreSQLError(err, "failed to look up translation")
	}

	return &t, nil
}

// ListMissing returns keys with no active translation for the language
func (r *translationRepository) ListMissing(ctx context.Context, lang string, limit int) ([]*model.TranslationKey, error) {
	sql := `
		SELECT k.id, k.component, k.key, k.source_text, k.created_at, k.modified_at
		FROM translation_keys k
		WHERE NOT EXISTS (
			SELECT 1 FROM translations t
			WHERE t.key_id = k.id AND t.lang = $1 AND t.active
		)
		ORDER BY k.id
		LIMIT $2`
	rows, err := r.pool.Query(ctx, sql, lang, limit)
	if err != nil {
		return nil, handlePostgreSQLError(err, "failed to list missing translations")
	}
	defer rows.Close()

	keys := []*model.TranslationKey{}
	for rows.Next() {
		var k model.TranslationKey
		err := rows.Scan(&k.ID, &k.Component, &k.Key, &k.SourceText, &k.CreatedAt, &k.ModifiedAt)
		if err != nil {
			return nil, handlePostgreSQLError(err, "failed to scan key row")
		}
		keys = append(keys, &k)
	}

	if err := rows.Err(); err != nil {
		return nil, handlePostgreSQLError(err, "failed to iterate key rows")
	}

	return keys, nil
}

// Bundle returns the full component:key -> text map for a language
func (r *translationRepository) Bundle(ctx context.Context, lang string) (map[string]string, error) {
	sql := `
		SELECT k.component, k.key, t.text
		FROM translations t
		JOIN translation_keys k ON k.id = t.key_id
		WHERE t.lang = $1 AND t.active
		ORDER BY k.component, k.key`
	rows, err := r.pool.Query(ctx, sql, lang)
	if err != nil {
		return nil, handlePostgreSQLError(err, "failed to load bundle")
	}
	defer rows.Close()

	bundle := map[string]string{}
	for rows.Next() {
		var component, key, text string
		if err := rows.Scan(&component, &key, &text); err != nil {
			return nil, handlePostgreSQLError(err, "failed to scan bundle row")
		}
		bundle[component+":"+key] = text
	}

	if err := rows.Err(); err != nil {
		return nil, handlePostgreSQLError(err, "failed to iterate bundle rows")
	}

	return bundle, nil
}
