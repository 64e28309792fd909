package translation

import (
	"context"
	"log"
)

// Queue schedules a follow-up orchestrator invocation for a job. The
// interface keeps the orchestration logic independent of the queueing
// backend (in-process worker, cron poller, external job queue).
type Queue interface {
	Enqueue(ctx context.Context, jobID int64) error
}

// BatchRunner runs one batch of a course job; implemented by JobService
type BatchRunner interface {
	RunBatch(ctx context.Context, jobID int64) error
}

// ChannelQueue is an in-process, channel-backed Queue with a worker
// loop draining it sequentially.
type ChannelQueue struct {
	jobs chan int64
}

// NewChannelQueue creates an in-process queue with the given buffer size
func NewChannelQueue(buffer int) *ChannelQueue {
	if buffer <= 0 {
		buffer = 64
	}
	return &ChannelQueue{
		jobs: make(chan int64, buffer),
	}
}

// Enqueue schedules a job id for a follow-up batch run
func (q *ChannelQueue) Enqueue(ctx context.Context, jobID int64) error {
	select {
	case q.jobs <- jobID:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drains the queue with a single worker until the context is
// cancelled. Jobs run one at a time, preserving the at-most-one
// concurrent execution guarantee per job.
func (q *ChannelQueue) Run(ctx context.Context, runner BatchRunner) {
	for {
		select {
		case <-ctx.Done():
			return
		case jobID := <-q.jobs:
			if err := runner.RunBatch(ctx, jobID); err != nil {
				// The job row already carries the failure state; the
				// worker loop just keeps draining
				log.Printf("job %d batch failed: %v", jobID, err)
			}
		}
	}
}
