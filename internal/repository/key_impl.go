package repository

import (
	"context"
	"errors"

	apperrors "github.com/coursetrans/coursetrans/internal/errors"
	"github.com/coursetrans/coursetrans/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Pool interface for abstracting pgx connection pool
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// keyRepository implements KeyRepository using PostgreSQL
type keyRepository struct {
	pool Pool
}

// NewKeyRepository creates a new instance of KeyRepository
func NewKeyRepository(pool Pool) KeyRepository {
	return &keyRepository{
		pool: pool,
	}
}

// GetByComponentAndKey retrieves a key by its natural (component, key) pair
func (r *keyRepository) GetByComponentAndKey(ctx context.Context, component, key string) (*model.TranslationKey, error) {
	sql := "SELECT id, component, key, source_text, context, created_at, modified_at FROM translation_keys WHERE component = $1 AND key = $2"
	row := r.pool.QueryRow(ctx, sql, component, key)

	var k model.TranslationKey
	err := row.Scan(&k.ID, &k.Component, &k.Key, &k.SourceText, &k.Context, &k.CreatedAt, &k.ModifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "translation key not found")
		}
		return nil, handlePostgreSQLError(err, "failed to get translation key")
	}

	return &k, nil
}

// GetByID retrieves a key by its surrogate ID
func (r *keyRepository) GetByID(ctx context.Context, id int64) (*model.TranslationKey, error) {
	sql := "SELECT id, component, key, source_text, context, created_at, modified_at FROM translation_keys WHERE id = $1"
	row := r.pool.QueryRow(ctx, sql, id)

	var k model.TranslationKey
	err := row.Scan(&k.ID, &k.Component, &k.Key, &k.SourceText, &k.Context, &k.CreatedAt, &k.ModifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "translation key not found")
		}
		return nil, handlePostgreSQLError(err, "failed to get translation key")
	}

	return &k, nil
}

// SaveKeyWithTranslation upserts a key, its course association and its
// translation in a single transaction.
func (r *keyRepository) SaveKeyWithTranslation(ctx context.Context, params SaveKeyParams) (int64, error) {
	if params.Component == "" || params.Key == "" {
		return 0, apperrors.New(apperrors.CodeInvalidArg, "component and key are required")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, handlePostgreSQLError(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var keyID int64
	// Re-capture refreshes source text; an empty context never wipes a
	// previously stored one
	keySQL := `
		INSERT INTO translation_keys (component, key, source_text, context)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (component, key)
		DO UPDATE SET
			source_text = EXCLUDED.source_text,
			context = COALESCE(NULLIF(EXCLUDED.context, ''), translation_keys.context),
			modified_at = now()
		RETURNING id`
	if err := tx.QueryRow(ctx, keySQL, params.Component, params.Key, params.SourceText, params.Context).Scan(&keyID); err != nil {
		return 0, handlePostgreSQLError(err, "failed to upsert translation key")
	}

	if params.CourseID != 0 {
		assocSQL := `
			INSERT INTO key_course_associations (key_id, course_id)
			VALUES ($1, $2)
			ON CONFLICT (key_id, course_id) DO NOTHING`
		if _, err := tx.Exec(ctx, assocSQL, keyID, params.CourseID); err != nil {
			return 0, handlePostgreSQLError(err, "failed to associate key with course")
		}
	}

	if params.Lang != "" {
		transSQL := `
			INSERT INTO translations (key_id, lang, text, active, reviewed)
			VALUES ($1, $2, $3, true, $4)
			ON CONFLICT (key_id, lang)
			DO UPDATE SET text = EXCLUDED.text, reviewed = EXCLUDED.reviewed, modified_at = now()`
		if _, err := tx.Exec(ctx, transSQL, keyID, params.Lang, params.Translation, params.Reviewed); err != nil {
			return 0, handlePostgreSQLError(err, "failed to upsert translation")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, handlePostgreSQLError(err, "failed to commit key save")
	}

	return keyID, nil
}
