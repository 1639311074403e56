package engine

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"

	"github.com/tipote/autocomment/generator"
	"github.com/tipote/autocomment/platforms"
	"github.com/tipote/autocomment/textutil"
)

// Content status values the runner is responsible for writing. Every other
// pipeline state belongs to the caller's workflow.
const (
	StatusBeforeDone = "before_done"
	StatusCompleted  = "completed"
)

// Comment log statuses.
const (
	LogStatusPublished = "published"
	LogStatusFailed    = "failed"
)

// Comment types: whether the batch runs before or after the user's own
// content is published. Only affects the terminal status value.
const (
	CommentTypeBefore = "before"
	CommentTypeAfter  = "after"
)

// Pacing windows. The long pause before each action and the short pause
// between like and comment keep the cadence human enough to avoid platform
// anti-spam heuristics.
const (
	preActionDelayMin   = 30 * time.Second
	preActionDelayMax   = 120 * time.Second
	interActionDelayMin = 3 * time.Second
	interActionDelayMax = 8 * time.Second

	searchOverhead = 5
)

// CommentGenerator produces one comment text, or "" for "skip".
type CommentGenerator interface {
	Generate(ctx context.Context, req generator.Request) (string, error)
}

// CommentLogEntry is one append-only row describing a comment attempt.
type CommentLogEntry struct {
	UserID        string
	ContentID     string
	Platform      platforms.Platform
	TargetPostID  string
	TargetPostURL string
	CommentText   string
	CommentType   string
	Angle         string
	Status        string
	ErrorMessage  string
	PublishedAt   time.Time
}

// Store is the persistence collaborator: an append-only comment log plus a
// single status field on the parent content record.
type Store interface {
	InsertCommentLog(ctx context.Context, entry CommentLogEntry) error
	UpdateContentStatus(ctx context.Context, contentID, status string) error
}

// Notifier receives the batch outcome. Implementations must be safe to fail;
// the runner never lets them interrupt the pipeline.
type Notifier interface {
	BatchFinished(job BatchJob, result BatchResult)
}

// BatchJob is one invocation of the runner for a single content item.
type BatchJob struct {
	UserID      string
	ContentID   string
	Platform    platforms.Platform
	Credentials platforms.Credentials
	Niche       string
	PostText    string
	StyleTone   string
	BrandTone   string
	CommentType string
	NbComments  int
	DryRun      bool
}

// CommentResult records one attempted comment action.
type CommentResult struct {
	Success       bool
	TargetPostID  string
	TargetPostURL string
	CommentText   string
	Angle         generator.Angle
	Err           string
}

// BatchResult aggregates one runner invocation.
type BatchResult struct {
	CommentsPosted int
	CommentsFailed int
	PostsFound     int
	Results        []CommentResult
}

// Runner orchestrates one auto-comment batch: search, generate, like,
// comment, log, advance the content status. It never returns an error; all
// failure is captured in the BatchResult and in side-effect logs.
type Runner struct {
	generator  CommentGenerator
	store      Store
	dispatcher *Dispatcher
	sleeper    Sleeper
	limiter    *rate.Limiter
	notifier   Notifier
	logger     *log.Logger
	progressTo io.Writer
}

// Option configures a Runner.
type Option func(*Runner)

// WithSleeper swaps the pacing sleeper (tests inject NoDelay).
func WithSleeper(s Sleeper) Option { return func(r *Runner) { r.sleeper = s } }

// WithRateLimiter swaps the pacing floor between comment posts.
func WithRateLimiter(l *rate.Limiter) Option { return func(r *Runner) { r.limiter = l } }

// WithDispatcher swaps the platform dispatcher.
func WithDispatcher(d *Dispatcher) Option { return func(r *Runner) { r.dispatcher = d } }

// WithNotifier registers a best-effort batch-outcome notifier.
func WithNotifier(n Notifier) Option { return func(r *Runner) { r.notifier = n } }

// WithLogger swaps the operational logger.
func WithLogger(l *log.Logger) Option { return func(r *Runner) { r.logger = l } }

// WithProgressWriter redirects the progress bar (tests use io.Discard).
func WithProgressWriter(w io.Writer) Option { return func(r *Runner) { r.progressTo = w } }

func NewRunner(gen CommentGenerator, store Store, opts ...Option) *Runner {
	r := &Runner{
		generator:  gen,
		store:      store,
		dispatcher: NewDispatcher(),
		sleeper:    NewRandomSleeper(),
		// Floor of 1 comment every 3 seconds regardless of the random pacing.
		limiter:    rate.NewLimiter(rate.Every(3*time.Second), 1),
		logger:     log.New(os.Stderr, "engine: ", log.LstdFlags),
		progressTo: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the batch. Every execution path, including total search
// failure, still performs the final status transition so a broken
// integration never leaves the content item stuck pre-publish.
func (r *Runner) Run(ctx context.Context, job BatchJob) BatchResult {
	r.logger.Printf("[INFO] Starting auto-comment batch: platform=%s content=%s requested=%d", job.Platform, job.ContentID, job.NbComments)

	result := BatchResult{}

	candidates, err := r.dispatcher.SearchRelevantPosts(ctx, job.Platform, job.Credentials, job.Niche, job.PostText, job.NbComments+searchOverhead)
	if err != nil {
		r.logger.Printf("[ERROR] Search failed for content %s: %v", job.ContentID, err)
		r.bestEffort("search failure log", func() error {
			return r.store.InsertCommentLog(ctx, r.logEntry(job, CommentResult{
				Err: fmt.Sprintf("search failed: %v", err),
			}))
		})
		r.finalize(ctx, job, &result)
		return result
	}

	if len(candidates) > job.NbComments {
		candidates = candidates[:job.NbComments]
	}
	result.PostsFound = len(candidates)

	if len(candidates) == 0 {
		keywords := textutil.ExtractKeywords(job.Niche, job.PostText)
		r.logger.Printf("[WARN] No posts found for content %s (keywords: %s)", job.ContentID, strings.Join(keywords, ", "))
		r.bestEffort("no-posts log", func() error {
			return r.store.InsertCommentLog(ctx, r.logEntry(job, CommentResult{
				Err: fmt.Sprintf("no posts found for keywords: %s", strings.Join(keywords, ", ")),
			}))
		})
		r.finalize(ctx, job, &result)
		return result
	}

	bar := progressbar.NewOptions(len(candidates),
		progressbar.OptionSetWriter(r.progressTo),
		progressbar.OptionSetWidth(15),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription(fmt.Sprintf("Commenting on %s", job.Platform)),
	)

	for i, candidate := range candidates {
		if i > 0 {
			r.sleeper.Pause(ctx, preActionDelayMin, preActionDelayMax)
		}

		commentResult := r.processCandidate(ctx, job, candidate, generator.AngleForIndex(i))
		result.Results = append(result.Results, commentResult)
		if commentResult.Success {
			result.CommentsPosted++
		} else {
			result.CommentsFailed++
		}

		r.bestEffort("comment log", func() error {
			return r.store.InsertCommentLog(ctx, r.logEntry(job, commentResult))
		})
		bar.Add(1)
	}
	bar.Finish()

	r.finalize(ctx, job, &result)
	return result
}

// processCandidate runs the generate/like/comment sequence for one candidate.
// Failures here are always local: a recovered panic or an error becomes a
// failed CommentResult and the batch continues with the next candidate.
func (r *Runner) processCandidate(ctx context.Context, job BatchJob, candidate platforms.Post, angle generator.Angle) (res CommentResult) {
	res = CommentResult{
		TargetPostID:  candidate.ID,
		TargetPostURL: candidate.URL,
		Angle:         angle,
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Printf("[ERROR] Candidate %s panicked: %v", candidate.ID, rec)
			res.Success = false
			res.Err = fmt.Sprintf("candidate processing panicked: %v", rec)
		}
	}()

	comment, err := r.generator.Generate(ctx, generator.Request{
		TargetPostText: candidate.Text,
		Angle:          angle,
		StyleTone:      job.StyleTone,
		Niche:          job.Niche,
		BrandTone:      job.BrandTone,
		Platform:       job.Platform,
		Language:       textutil.DetectContentLanguage(candidate.Text),
	})
	if err != nil {
		res.Err = fmt.Sprintf("comment generation failed: %v", err)
		return res
	}
	if comment == "" {
		res.Err = "Empty comment generated"
		return res
	}
	res.CommentText = comment

	if job.DryRun {
		r.logger.Printf("[INFO] Dry run, would comment on %s: %s", candidate.ID, comment)
		res.Success = true
		return res
	}

	// Like first, then comment, like a human reading the post would.
	r.dispatcher.LikePost(ctx, job.Platform, job.Credentials, candidate.ID)
	r.sleeper.Pause(ctx, interActionDelayMin, interActionDelayMax)

	if err := r.limiter.Wait(ctx); err != nil {
		res.Err = fmt.Sprintf("pacing interrupted: %v", err)
		return res
	}

	action := r.dispatcher.PostComment(ctx, job.Platform, job.Credentials, candidate.ID, comment)
	res.Success = action.OK
	res.Err = action.Err
	return res
}

// finalize performs the single status transition the runner owns, then
// notifies. Both are best-effort on every path.
func (r *Runner) finalize(ctx context.Context, job BatchJob, result *BatchResult) {
	status := StatusCompleted
	if job.CommentType == CommentTypeBefore {
		status = StatusBeforeDone
	}

	r.bestEffort("status update", func() error {
		return r.store.UpdateContentStatus(ctx, job.ContentID, status)
	})

	if r.notifier != nil {
		r.bestEffort("notification", func() error {
			r.notifier.BatchFinished(job, *result)
			return nil
		})
	}

	r.logger.Printf("[INFO] Batch done for content %s: posted=%d failed=%d found=%d status=%s",
		job.ContentID, result.CommentsPosted, result.CommentsFailed, result.PostsFound, status)
}

// bestEffort runs a side effect whose failure must never change control
// flow. The failure is only visible in the operational log.
func (r *Runner) bestEffort(op string, fn func() error) {
	if err := fn(); err != nil {
		r.logger.Printf("[WARN] Best-effort %s failed: %v", op, err)
	}
}

func (r *Runner) logEntry(job BatchJob, res CommentResult) CommentLogEntry {
	status := LogStatusFailed
	if res.Success {
		status = LogStatusPublished
	}
	return CommentLogEntry{
		UserID:        job.UserID,
		ContentID:     job.ContentID,
		Platform:      job.Platform,
		TargetPostID:  res.TargetPostID,
		TargetPostURL: res.TargetPostURL,
		CommentText:   res.CommentText,
		CommentType:   job.CommentType,
		Angle:         string(res.Angle),
		Status:        status,
		ErrorMessage:  res.Err,
		PublishedAt:   time.Now(),
	}
}
