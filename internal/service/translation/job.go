package translation

import (
	"context"

	apperrors "github.com/coursetrans/coursetrans/internal/errors"
	"github.com/coursetrans/coursetrans/internal/model"
	"github.com/coursetrans/coursetrans/internal/repository"
	"github.com/google/uuid"
)

const defaultBatchSize = 50

// JobService orchestrates durable, resumable, paginated application of
// the batch engine across all keys associated with a course.
type JobService interface {
	// Enqueue validates and persists a new course job and schedules its
	// first batch invocation
	Enqueue(ctx context.Context, courseID, userID int64, opts *model.JobOptions) (*model.CourseJob, error)

	// RunBatch processes one page of the job's associations: one engine
	// call per target language, persisted translations, advanced cursor.
	// Full pages re-enqueue a follow-up invocation.
	RunBatch(ctx context.Context, jobID int64) error
}

// jobService implements JobService
type jobService struct {
	jobs         repository.JobRepository
	associations repository.AssociationRepository
	keys         repository.KeyRepository
	engine       Engine
	queue        Queue
	newRequestID func() string
}

// NewJobService creates a new course job orchestrator
func NewJobService(
	jobs repository.JobRepository,
	associations repository.AssociationRepository,
	keys repository.KeyRepository,
	engine Engine,
	queue Queue,
) JobService {
	return &jobService{
		jobs:         jobs,
		associations: associations,
		keys:         keys,
		engine:       engine,
		queue:        queue,
		newRequestID: uuid.NewString,
	}
}

// Enqueue creates a pending job covering the course's current
// association set and schedules the first batch.
func (s *jobService) Enqueue(ctx context.Context, courseID, userID int64, opts *model.JobOptions) (*model.CourseJob, error) {
	if courseID == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "course id is required")
	}
	if opts == nil {
		opts = &model.JobOptions{}
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.SourceLang == "" {
		opts.SourceLang = "en"
	}

	total, err := s.associations.CountByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "course has no captured strings to translate")
	}

	encoded, err := model.EncodeOptions(opts)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to encode job options")
	}

	job := &model.CourseJob{
		CourseID:  courseID,
		UserID:    userID,
		Status:    model.JobStatusPending,
		Total:     total,
		BatchSize: opts.BatchSize,
		Options:   encoded,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	if err := s.queue.Enqueue(ctx, job.ID); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to schedule first batch")
	}

	return job, nil
}

// RunBatch executes one orchestrator invocation: one page of
// associations, one engine call per target language.
func (s *jobService) RunBatch(ctx context.Context, jobID int64) error {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status.Terminal() {
		return nil
	}

	opts, err := job.DecodeOptions()
	if err != nil {
		job.Status = model.JobStatusFailed
		job.LastError = "invalid job options: " + err.Error()
		s.jobs.Update(ctx, job)
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to decode job options")
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = job.BatchSize
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	page, err := s.associations.NextPage(ctx, job.CourseID, job.LastID, batchSize)
	if err != nil {
		return err
	}

	// Exhausted: nothing past the cursor
	if len(page) == 0 {
		job.Status = model.JobStatusComplete
		job.Processed = job.Total
		return s.jobs.Update(ctx, job)
	}

	// No target languages means no useful work is possible
	if len(opts.TargetLangs) == 0 {
		job.Status = model.JobStatusComplete
		return s.jobs.Update(ctx, job)
	}

	items := make([]model.BatchItem, 0, len(page))
	for _, row := range page {
		item := model.BatchItem{
			Key:        row.Key,
			Component:  row.Component,
			CourseID:   job.CourseID,
			SourceText: row.SourceText,
			Context:    row.Context,
		}
		item.ID = item.CompositeID()
		items = append(items, item)
	}

	// One engine call per target language, sequentially. A structured
	// engine failure skips the language for this page and is recorded
	// on the job; a transport fault marks the job failed and surfaces
	// the error to the queue's retry policy.
	for _, lang := range opts.TargetLangs {
		result, err := s.engine.Translate(ctx, &model.BatchRequest{
			RequestID:  s.newRequestID(),
			SourceLang: opts.SourceLang,
			TargetLang: lang,
			Items:      items,
			Glossary:   opts.Glossary,
		})
		if err != nil {
			job.Status = model.JobStatusFailed
			job.LastError = lang + ": " + err.Error()
			s.jobs.Update(ctx, job)
			return err
		}
		if !result.OK {
			job.Failures++
			if len(result.Errors) > 0 {
				job.LastError = lang + ": " + result.Errors[0]
			}
			continue
		}

		if err := s.persistResults(ctx, job.CourseID, lang, items, result.Results); err != nil {
			job.Status = model.JobStatusFailed
			job.LastError = lang + ": " + err.Error()
			s.jobs.Update(ctx, job)
			return err
		}
	}

	job.LastID = page[len(page)-1].AssociationID
	job.Processed += len(page)

	morePagesLikely := len(page) == batchSize
	if morePagesLikely {
		job.Status = model.JobStatusRunning
	} else {
		job.Status = model.JobStatusComplete
	}
	if err := s.jobs.Update(ctx, job); err != nil {
		return err
	}

	if morePagesLikely {
		return s.queue.Enqueue(ctx, job.ID)
	}
	return nil
}

// persistResults binds engine results back to their input items and
// upserts one translation per match. Results are matched by composite
// id first, bare key as fallback; unmatched results and items without a
// component/key pair are skipped rather than failing the batch.
func (s *jobService) persistResults(ctx context.Context, courseID int64, lang string, items []model.BatchItem, results []model.BatchItemResult) error {
	byComposite := make(map[string]*model.BatchItem, len(items))
	byKey := make(map[string]*model.BatchItem, len(items))
	for i := range items {
		item := &items[i]
		byComposite[item.CompositeID()] = item
		byKey[item.Key] = item
	}

	for _, r := range results {
		item, ok := byComposite[r.ID]
		if !ok {
			item, ok = byKey[r.ID]
		}
		if !ok && r.Key != "" {
			item, ok = byKey[r.Key]
		}
		if !ok || item.Component == "" || item.Key == "" {
			continue
		}

		_, err := s.keys.SaveKeyWithTranslation(ctx, repository.SaveKeyParams{
			Component:   item.Component,
			Key:         item.Key,
			SourceText:  item.SourceText,
			Lang:        lang,
			Translation: r.Translated,
			Reviewed:    false,
			CourseID:    courseID,
			Context:     item.Context,
		})
		if err != nil {
			return err
		}
	}

	return nil
}
