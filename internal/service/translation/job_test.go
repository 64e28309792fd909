package translation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/coursetrans/coursetrans/internal/errors"
	"github.com/coursetrans/coursetrans/internal/model"
	"github.com/coursetrans/coursetrans/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeJobRepo stores jobs in memory and counts writes
type fakeJobRepo struct {
	jobs    map[int64]*model.CourseJob
	nextID  int64
	updates int
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[int64]*model.CourseJob{}, nextID: 1}
}

func (f *fakeJobRepo) Create(_ context.Context, job *model.CourseJob) error {
	job.ID = f.nextID
	f.nextID++
	stored := *job
	f.jobs[job.ID] = &stored
	return nil
}

func (f *fakeJobRepo) Get(_ context.Context, id int64) (*model.CourseJob, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, apperrors.New(apperrors.CodeNotFound, "job not found")
	}
	copied := *job
	return &copied, nil
}

func (f *fakeJobRepo) Update(_ context.Context, job *model.CourseJob) error {
	f.updates++
	stored := *job
	f.jobs[job.ID] = &stored
	return nil
}

// fakeAssocRepo serves pages from a fixed association list
type fakeAssocRepo struct {
	rows []*model.CourseKeyRow
}

func (f *fakeAssocRepo) Associate(_ context.Context, _, _ int64) error { return nil }

func (f *fakeAssocRepo) CountByCourse(_ context.Context, _ int64) (int, error) {
	return len(f.rows), nil
}

func (f *fakeAssocRepo) NextPage(_ context.Context, _, afterID int64, limit int) ([]*model.CourseKeyRow, error) {
	var page []*model.CourseKeyRow
	for _, row := range f.rows {
		if row.AssociationID > afterID {
			page = append(page, row)
			if len(page) == limit {
				break
			}
		}
	}
	return page, nil
}

// fakeKeyRepo records every persisted translation
type fakeKeyRepo struct {
	saved []repository.SaveKeyParams
	err   error
}

func (f *fakeKeyRepo) GetByComponentAndKey(_ context.Context, _, _ string) (*model.TranslationKey, error) {
	return nil, apperrors.New(apperrors.CodeNotFound, "not found")
}

func (f *fakeKeyRepo) GetByID(_ context.Context, _ int64) (*model.TranslationKey, error) {
	return nil, apperrors.New(apperrors.CodeNotFound, "not found")
}

func (f *fakeKeyRepo) SaveKeyWithTranslation(_ context.Context, params repository.SaveKeyParams) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.saved = append(f.saved, params)
	return int64(len(f.saved)), nil
}

// fakeQueue records enqueued job ids
type fakeQueue struct {
	enqueued []int64
}

func (f *fakeQueue) Enqueue(_ context.Context, jobID int64) error {
	f.enqueued = append(f.enqueued, jobID)
	return nil
}

// scriptedEngine answers each call from a queue of canned outcomes,
// echoing composite ids back as a cooperative provider would
type scriptedEngine struct {
	requests []*model.BatchRequest
	failNext []string // per-call provider error code, "" for success
	err      error
}

func (f *scriptedEngine) Translate(_ context.Context, req *model.BatchRequest) (*model.BatchResult, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	call := len(f.requests) - 1
	if call < len(f.failNext) && f.failNext[call] != "" {
		return model.FailedBatch(f.failNext[call]), nil
	}

	results := make([]model.BatchItemResult, 0, len(req.Items))
	for _, item := range req.Items {
		results = append(results, model.BatchItemResult{
			ID:         item.ID,
			Key:        item.Key,
			Translated: "[" + req.TargetLang + "] " + item.SourceText,
		})
	}
	return &model.BatchResult{OK: true, Results: results}, nil
}

func courseRows(n int) []*model.CourseKeyRow {
	rows := make([]*model.CourseKeyRow, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, &model.CourseKeyRow{
			AssociationID: int64(i),
			KeyID:         int64(100 + i),
			Component:     "course/unit",
			Key:           fmt.Sprintf("label%d", i),
			SourceText:    fmt.Sprintf("Label %d", i),
		})
	}
	return rows
}

func newTestJobService(assoc *fakeAssocRepo) (*jobService, *fakeJobRepo, *fakeKeyRepo, *fakeQueue, *scriptedEngine) {
	jobs := newFakeJobRepo()
	keys := &fakeKeyRepo{}
	queue := &fakeQueue{}
	engine := &scriptedEngine{}
	svc := NewJobService(jobs, assoc, keys, engine, queue).(*jobService)
	svc.newRequestID = func() string { return "req-fixed" }
	return svc, jobs, keys, queue, engine
}

func TestJobService_Enqueue(t *testing.T) {
	svc, jobs, _, queue, _ := newTestJobService(&fakeAssocRepo{rows: courseRows(7)})

	job, err := svc.Enqueue(context.Background(), 42, 9, &model.JobOptions{
		TargetLangs: []string{"es", "fr"},
		BatchSize:   5,
	})

	require.NoError(t, err)
	assert.Equal(t, model.JobStatusPending, job.Status)
	assert.Equal(t, 7, job.Total)
	assert.Equal(t, 5, job.BatchSize)
	assert.Equal(t, []int64{job.ID}, queue.enqueued)

	stored, err := jobs.Get(context.Background(), job.ID)
	require.NoError(t, err)
	opts, err := stored.DecodeOptions()
	require.NoError(t, err)
	assert.Equal(t, "en", opts.SourceLang)
	assert.Equal(t, []string{"es", "fr"}, opts.TargetLangs)
}

func TestJobService_Enqueue_EmptyCourse(t *testing.T) {
	svc, _, _, queue, _ := newTestJobService(&fakeAssocRepo{})

	_, err := svc.Enqueue(context.Background(), 42, 9, &model.JobOptions{TargetLangs: []string{"es"}})

	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidArg))
	assert.Empty(t, queue.enqueued)
}

func TestJobService_RunBatch_FullLifecycle(t *testing.T) {
	// 120 associations at batch size 50: three invocations, the last a
	// short page that completes the job
	svc, jobs, keys, queue, engine := newTestJobService(&fakeAssocRepo{rows: courseRows(120)})
	ctx := context.Background()

	job, err := svc.Enqueue(ctx, 42, 9, &model.JobOptions{TargetLangs: []string{"es"}, BatchSize: 50})
	require.NoError(t, err)
	queue.enqueued = nil

	require.NoError(t, svc.RunBatch(ctx, job.ID))
	stored, _ := jobs.Get(ctx, job.ID)
	assert.Equal(t, model.JobStatusRunning, stored.Status)
	assert.Equal(t, 50, stored.Processed)
	assert.Equal(t, int64(50), stored.LastID)
	assert.Equal(t, []int64{job.ID}, queue.enqueued)

	require.NoError(t, svc.RunBatch(ctx, job.ID))
	stored, _ = jobs.Get(ctx, job.ID)
	assert.Equal(t, 100, stored.Processed)
	assert.Equal(t, int64(100), stored.LastID)

	require.NoError(t, svc.RunBatch(ctx, job.ID))
	stored, _ = jobs.Get(ctx, job.ID)
	assert.Equal(t, model.JobStatusComplete, stored.Status)
	assert.Equal(t, 120, stored.Processed)
	assert.Equal(t, int64(120), stored.LastID)
	assert.Zero(t, stored.Failures)

	// Three engine calls, one per page; 120 persisted translations
	assert.Len(t, engine.requests, 3)
	assert.Len(t, keys.saved, 120)
	assert.Equal(t, "es", keys.saved[0].Lang)
	assert.Equal(t, "[es] Label 1", keys.saved[0].Translation)
	assert.False(t, keys.saved[0].Reviewed)

	// Complete jobs are a no-op on re-delivery
	require.NoError(t, svc.RunBatch(ctx, job.ID))
	assert.Len(t, engine.requests, 3)
}

func TestJobService_RunBatch_CursorNeverRevisits(t *testing.T) {
	svc, jobs, _, _, engine := newTestJobService(&fakeAssocRepo{rows: courseRows(6)})
	ctx := context.Background()

	job, err := svc.Enqueue(ctx, 42, 9, &model.JobOptions{TargetLangs: []string{"es"}, BatchSize: 2})
	require.NoError(t, err)

	var cursors []int64
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.RunBatch(ctx, job.ID))
		stored, _ := jobs.Get(ctx, job.ID)
		cursors = append(cursors, stored.LastID)
	}

	assert.Equal(t, []int64{2, 4, 6}, cursors)
	var seen []string
	for _, req := range engine.requests {
		for _, item := range req.Items {
			seen = append(seen, item.Key)
		}
	}
	assert.Equal(t, []string{"label1", "label2", "label3", "label4", "label5", "label6"}, seen)
}

func TestJobService_RunBatch_PerLanguageFailureSkipsLanguage(t *testing.T) {
	svc, jobs, keys, _, engine := newTestJobService(&fakeAssocRepo{rows: courseRows(3)})
	engine.failNext = []string{apperrors.CodeRateLimited, ""}
	ctx := context.Background()

	job, err := svc.Enqueue(ctx, 42, 9, &model.JobOptions{TargetLangs: []string{"es", "fr"}, BatchSize: 10})
	require.NoError(t, err)

	require.NoError(t, svc.RunBatch(ctx, job.ID))

	stored, _ := jobs.Get(ctx, job.ID)
	assert.Equal(t, model.JobStatusComplete, stored.Status)
	assert.Equal(t, 1, stored.Failures)
	assert.Equal(t, "es: "+apperrors.CodeRateLimited, stored.LastError)
	assert.Equal(t, 3, stored.Processed)

	// Only the fr results were persisted
	require.Len(t, keys.saved, 3)
	for _, params := range keys.saved {
		assert.Equal(t, "fr", params.Lang)
	}
}

func TestJobService_RunBatch_TransportErrorFailsJob(t *testing.T) {
	svc, jobs, _, queue, engine := newTestJobService(&fakeAssocRepo{rows: courseRows(3)})
	engine.err = errors.New("dial tcp: connection refused")
	ctx := context.Background()

	job, err := svc.Enqueue(ctx, 42, 9, &model.JobOptions{TargetLangs: []string{"es"}, BatchSize: 10})
	require.NoError(t, err)
	queue.enqueued = nil

	err = svc.RunBatch(ctx, job.ID)
	require.Error(t, err)

	stored, _ := jobs.Get(ctx, job.ID)
	assert.Equal(t, model.JobStatusFailed, stored.Status)
	assert.Contains(t, stored.LastError, "connection refused")
	assert.Empty(t, queue.enqueued)

	// Failed jobs are terminal
	require.NoError(t, svc.RunBatch(ctx, job.ID))
	assert.Len(t, engine.requests, 1)
}

func TestJobService_RunBatch_NoTargetLanguagesCompletes(t *testing.T) {
	svc, jobs, _, _, engine := newTestJobService(&fakeAssocRepo{rows: courseRows(3)})
	ctx := context.Background()

	job, err := svc.Enqueue(ctx, 42, 9, &model.JobOptions{BatchSize: 10})
	require.NoError(t, err)

	require.NoError(t, svc.RunBatch(ctx, job.ID))

	stored, _ := jobs.Get(ctx, job.ID)
	assert.Equal(t, model.JobStatusComplete, stored.Status)
	assert.Empty(t, engine.requests)
}

func TestJobService_RunBatch_BareKeyResultsStillPersist(t *testing.T) {
	svc, jobs, keys, _, _ := newTestJobService(&fakeAssocRepo{rows: courseRows(2)})
	ctx := context.Background()

	// Swap in an engine that echoes bare keys only
	bare := &bareKeyEngine{}
	svc.engine = bare

	job, err := svc.Enqueue(ctx, 42, 9, &model.JobOptions{TargetLangs: []string{"es"}, BatchSize: 10})
	require.NoError(t, err)

	require.NoError(t, svc.RunBatch(ctx, job.ID))

	stored, _ := jobs.Get(ctx, job.ID)
	assert.Equal(t, model.JobStatusComplete, stored.Status)
	require.Len(t, keys.saved, 2)
	assert.Equal(t, "course/unit", keys.saved[0].Component)
	assert.Equal(t, "label1", keys.saved[0].Key)
}

type bareKeyEngine struct{}

func (bareKeyEngine) Translate(_ context.Context, req *model.BatchRequest) (*model.BatchResult, error) {
	results := make([]model.BatchItemResult, 0, len(req.Items))
	for _, item := range req.Items {
		results = append(results, model.BatchItemResult{ID: item.Key, Translated: "t:" + item.SourceText})
	}
	return &model.BatchResult{OK: true, Results: results}, nil
}
