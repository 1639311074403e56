package service

import (
	"context"
	"log"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tipote/autocomment/engine"
)

// BatchRunner runs one auto-comment batch. Satisfied by *engine.Runner.
type BatchRunner interface {
	Run(ctx context.Context, job engine.BatchJob) engine.BatchResult
}

// BatchScheduler runs batches concurrently across content items while
// guaranteeing at most one in-flight batch per content id. A second submit
// for the same content while the first is still running is rejected, not
// queued; the platforms' pacing rules make overlapping batches on the same
// content worse than dropped ones.
type BatchScheduler struct {
	runner BatchRunner
	logger *log.Logger

	group  *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	inFlight map[string]bool

	finishMu sync.Mutex
	onFinish func(engine.BatchJob, engine.BatchResult)
}

// NewBatchScheduler creates a scheduler running at most maxConcurrent
// batches at once. maxConcurrent <= 0 means unlimited.
func NewBatchScheduler(runner BatchRunner, maxConcurrent int, logger *log.Logger) *BatchScheduler {
	if logger == nil {
		logger = log.New(os.Stderr, "scheduler: ", log.LstdFlags)
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)
	if maxConcurrent > 0 {
		group.SetLimit(maxConcurrent)
	}

	return &BatchScheduler{
		runner:   runner,
		logger:   logger,
		group:    group,
		ctx:      ctx,
		cancel:   cancel,
		inFlight: make(map[string]bool),
	}
}

// OnFinish registers a callback invoked after each batch completes. Must be
// set before the first Submit.
func (s *BatchScheduler) OnFinish(fn func(engine.BatchJob, engine.BatchResult)) {
	s.finishMu.Lock()
	defer s.finishMu.Unlock()
	s.onFinish = fn
}

// Submit starts a batch for job unless one is already running for the same
// content id. Returns false when the job was rejected as a duplicate.
func (s *BatchScheduler) Submit(job engine.BatchJob) bool {
	s.mu.Lock()
	if s.inFlight[job.ContentID] {
		s.mu.Unlock()
		s.logger.Printf("[WARN] Batch already running for content %s, skipping", job.ContentID)
		return false
	}
	s.inFlight[job.ContentID] = true
	s.mu.Unlock()

	s.group.Go(func() error {
		defer func() {
			s.mu.Lock()
			delete(s.inFlight, job.ContentID)
			s.mu.Unlock()
		}()

		result := s.runner.Run(s.ctx, job)

		s.finishMu.Lock()
		fn := s.onFinish
		s.finishMu.Unlock()
		if fn != nil {
			fn(job, result)
		}
		return nil
	})
	return true
}

// Wait blocks until every submitted batch has finished.
func (s *BatchScheduler) Wait() {
	s.group.Wait()
}

// Stop cancels the scheduler context and waits for in-flight batches to
// observe it.
func (s *BatchScheduler) Stop() {
	s.cancel()
	s.group.Wait()
}
