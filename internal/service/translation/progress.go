package translation

import (
	"context"
	"strings"

	apperrors "github.com/coursetrans/coursetrans/internal/errors"
	"github.com/coursetrans/coursetrans/internal/repository"
	"github.com/coursetrans/coursetrans/internal/service/common"
)

// JobProgress is a polling snapshot of one course job.
type JobProgress struct {
	JobID     int64   `json:"job_id"`
	CourseID  int64   `json:"course_id"`
	Status    string  `json:"status"`
	Total     int     `json:"total"`
	Processed int     `json:"processed"`
	Failures  int     `json:"failures"`
	Percent   float64 `json:"percent"`
	LastError string  `json:"last_error,omitempty"`
}

// ItemProgress is the translation state of one requested item id.
type ItemProgress struct {
	ID         string `json:"id"`
	Translated bool   `json:"translated"`
	Text       string `json:"text,omitempty"`
	Reviewed   bool   `json:"reviewed"`
}

// ProgressService reports job and per-item translation progress
type ProgressService interface {
	// JobProgress returns a snapshot of the job's counters and status
	JobProgress(ctx context.Context, jobID int64) (*JobProgress, error)

	// ItemProgress resolves each id ("component:key" or bare key) to its
	// stored translation for the language, if any
	ItemProgress(ctx context.Context, lang string, ids []string) ([]ItemProgress, error)
}

// progressService implements ProgressService
type progressService struct {
	jobs         repository.JobRepository
	translations repository.TranslationRepository
}

// NewProgressService creates a new progress reporting service
func NewProgressService(jobs repository.JobRepository, translations repository.TranslationRepository) ProgressService {
	return &progressService{jobs: jobs, translations: translations}
}

func (s *progressService) JobProgress(ctx context.Context, jobID int64) (*JobProgress, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	percent := 0.0
	if job.Total > 0 {
		percent = float64(job.Processed) / float64(job.Total) * 100
		if percent > 100 {
			percent = 100
		}
	}

	return &JobProgress{
		JobID:     job.ID,
		CourseID:  job.CourseID,
		Status:    string(job.Status),
		Total:     job.Total,
		Processed: job.Processed,
		Failures:  job.Failures,
		Percent:   percent,
		LastError: job.LastError,
	}, nil
}

func (s *progressService) ItemProgress(ctx context.Context, lang string, ids []string) ([]ItemProgress, error) {
	if lang == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "language is required")
	}

	out := make([]ItemProgress, 0, len(ids))
	for _, id := range ids {
		component, key := splitItemID(id)
		item := ItemProgress{ID: id}

		tr, err := s.translations.Lookup(ctx, component, key, lang)
		if err != nil {
			if apperrors.IsCode(err, apperrors.CodeNotFound) {
				out = append(out, item)
				continue
			}
			return nil, err
		}

		item.Translated = true
		item.Text = common.SanitizeText(tr.Text)
		item.Reviewed = tr.Reviewed
		out = append(out, item)
	}

	return out, nil
}

// splitItemID parses a "component:key" id; a bare id with no separator
// is treated as a structural key with no component scope.
func splitItemID(id string) (component, key string) {
	if i := strings.Index(id, ":"); i >= 0 {
		return id[:i], id[i+1:]
	}
	return "", id
}
