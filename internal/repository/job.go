package repository

import (
	"context"

	"github.com/coursetrans/coursetrans/internal/model"
)

// JobRepository defines operations for CourseJob persistence
type JobRepository interface {
	// Create inserts a new job row and fills in ID and timestamps
	Create(ctx context.Context, job *model.CourseJob) error

	// Get retrieves a job by its ID
	Get(ctx context.Context, id int64) (*model.CourseJob, error)

	// Update persists a job's mutable fields (status, counters, cursor,
	// last error) and touches modified_at
	Update(ctx context.Context, job *model.CourseJob) error
}

// AssociationRepository defines operations for key-course associations
type AssociationRepository interface {
	// Associate links a key to a course; duplicates are ignored
	Associate(ctx context.Context, keyID, courseID int64) error

	// CountByCourse returns the number of keys associated with a course
	CountByCourse(ctx context.Context, courseID int64) (int, error)

	// NextPage returns up to limit associations with ID greater than
	// afterID, ascending, joined to their key's component/key/source text.
	// Cursor-based so re-invocation never revisits consumed rows.
	NextPage(ctx context.Context, courseID, afterID int64, limit int) ([]*model.CourseKeyRow, error)
}
