package repository

import (
	"context"
	"errors"

	apperrors "github.com/coursetrans/coursetrans/internal/errors"
	"github.com/coursetrans/coursetrans/internal/model"
	"github.com/jackc/pgx/v5"
)

// jobRepository implements JobRepository using PostgreSQL
type jobRepository struct {
	pool Pool
}

// NewJobRepository creates a new instance of JobRepository
func NewJobRepository(pool Pool) JobRepository {
	return &jobRepository{
		pool: pool,
	}
}

// Create inserts a new job row
func (r *jobRepository) Create(ctx context.Context, job *model.CourseJob) error {
	sql := `
		INSERT INTO course_jobs (course_id, user_id, status, total, processed, failures, batch_size, options, last_id, last_error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, modified_at`
	err := r.pool.QueryRow(ctx, sql,
		job.CourseID, job.UserID, job.Status, job.Total, job.Processed,
		job.Failures, job.BatchSize, job.Options, job.LastID, job.LastError).
		Scan(&job.ID, &job.CreatedAt, &job.ModifiedAt)
	if err != nil {
		return handlePostgreSQLError(err, "failed to create course job")
	}
	return nil
}

// Get retrieves a job by its ID
func (r *jobRepository) Get(ctx context.Context, id int64) (*model.CourseJob, error) {
	sql := `
		SELECT id, course_id, user_id, status, total, processed, failures, batch_size, options, last_id, last_error, created_at, modified_at
		FROM course_jobs
		WHERE id = $1`
	row := r.pool.QueryRow(ctx, sql, id)

	var job model.CourseJob
	err := row.Scan(&job.ID, &job.CourseID, &job.UserID, &job.Status, &job.Total,
		&job.Processed, &job.Failures, &job.BatchSize, &job.Options,
		&job.LastID, &job.LastError, &job.CreatedAt, &job.ModifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "course job not found")
		}
		return nil, handlePostgreSQLError(err, "failed to get course job")
	}

	return &job, nil
}

// Update persists a job's mutable fields
func (r *jobRepository) Update(ctx context.Context, job *model.CourseJob) error {
	sql := `
		UPDATE course_jobs
		SET status = $2, processed = $3, failures = $4, last_id = $5, last_error = $6, modified_at = now()
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, sql,
		job.ID, job.Status, job.Processed, job.Failures, job.LastID, job.LastError)
	if err != nil {
		return handlePostgreSQLError(err, "failed to update course job")
	}
	return nil
}

// associationRepository implements AssociationRepository using PostgreSQL
type associationRepository struct {
	pool Pool
}

// NewAssociationRepository creates a new instance of AssociationRepository
func NewAssociationRepository(pool Pool) AssociationRepository {
	return &associationRepository{
		pool: pool,
	}
}

// Associate links a key to a course; duplicates are ignored
func (r *associationRepository) Associate(ctx context.Context, keyID, courseID int64) error {
	sql := `
		INSERT INTO key_course_associations (key_id, course_id)
		VALUES ($1, $2)
		ON CONFLICT (key_id, course_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, sql, keyID, courseID)
	if err != nil {
		return handlePostgreSQLError(err, "failed to associate key with course")
	}
	return nil
}

// CountByCourse returns the number of keys associated with a course
func (r *associationRepository) CountByCourse(ctx context.Context, courseID int64) (int, error) {
	sql := "SELECT COUNT(*) FROM key_course_associations WHERE course_id = $1"
	row := r.pool.QueryRow(ctx, sql, courseID)

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, handlePostgreSQLError(err, "failed to count course associations")
	}
	return count, nil
}

// NextPage returns the next batch of associations after the cursor
func (r *associationRepository) NextPage(ctx context.Context, courseID, afterID int64, limit int) ([]*model.CourseKeyRow, error) {
	sql := `
		SELECT a.id, k.id, k.component, k.key, k.source_text, k.context
		FROM key_course_associations a
		JOIN translation_keys k ON k.id = a.key_id
		WHERE a.course_id = $1 AND a.id > $2
		ORDER BY a.id
		LIMIT $3`
	rows, err := r.pool.Query(ctx, sql, courseID, afterID, limit)
	if err != nil {
		return nil, handlePostgreSQLError(err, "failed to fetch association page")
	}
	defer rows.Close()

	page := []*model.CourseKeyRow{}
	for rows.Next() {
		var row model.CourseKeyRow
		err := rows.Scan(&row.AssociationID, &row.KeyID, &row.Component, &row.Key, &row.SourceText, &row.Context)
		if err != nil {
			return nil, handlePostgreSQLError(err, "failed to scan association row")
		}
		page = append(page, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, handlePostgreSQLError(err, "failed to iterate association rows")
	}

	return page, nil
}
