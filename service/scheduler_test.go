package service

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tipote/autocomment/engine"
)

type slowRunner struct {
	mu      sync.Mutex
	started []string
	release chan struct{}
}

func newSlowRunner() *slowRunner {
	return &slowRunner{release: make(chan struct{})}
}

func (r *slowRunner) Run(ctx context.Context, job engine.BatchJob) engine.BatchResult {
	r.mu.Lock()
	r.started = append(r.started, job.ContentID)
	r.mu.Unlock()

	select {
	case <-r.release:
	case <-ctx.Done():
	}
	return engine.BatchResult{CommentsPosted: 1}
}

func (r *slowRunner) startedIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.started...)
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestSubmitRejectsDuplicateContent(t *testing.T) {
	runner := newSlowRunner()
	scheduler := NewBatchScheduler(runner, 0, testLogger())

	require.True(t, scheduler.Submit(engine.BatchJob{ContentID: "c1"}))

	// Wait for the batch to actually start before submitting the duplicate.
	require.Eventually(t, func() bool {
		return len(runner.startedIDs()) == 1
	}, time.Second, 5*time.Millisecond)

	assert.False(t, scheduler.Submit(engine.BatchJob{ContentID: "c1"}))
	assert.True(t, scheduler.Submit(engine.BatchJob{ContentID: "c2"}))

	close(runner.release)
	scheduler.Wait()

	// After completion the same content can run again.
	runner.release = make(chan struct{})
	assert.True(t, scheduler.Submit(engine.BatchJob{ContentID: "c1"}))
	close(runner.release)
	scheduler.Wait()
}

func TestOnFinishReceivesResults(t *testing.T) {
	runner := newSlowRunner()
	close(runner.release)

	scheduler := NewBatchScheduler(runner, 2, testLogger())

	var mu sync.Mutex
	finished := map[string]engine.BatchResult{}
	scheduler.OnFinish(func(job engine.BatchJob, result engine.BatchResult) {
		mu.Lock()
		finished[job.ContentID] = result
		mu.Unlock()
	})

	require.True(t, scheduler.Submit(engine.BatchJob{ContentID: "c1"}))
	require.True(t, scheduler.Submit(engine.BatchJob{ContentID: "c2"}))
	scheduler.Wait()

	assert.Len(t, finished, 2)
	assert.Equal(t, 1, finished["c1"].CommentsPosted)
}

func TestStopCancelsInFlightBatches(t *testing.T) {
	runner := newSlowRunner()
	scheduler := NewBatchScheduler(runner, 0, testLogger())

	require.True(t, scheduler.Submit(engine.BatchJob{ContentID: "c1"}))
	require.Eventually(t, func() bool {
		return len(runner.startedIDs()) == 1
	}, time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		scheduler.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after context cancellation")
	}
}
