package engine

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/tipote/autocomment/generator"
	"github.com/tipote/autocomment/platforms"
)

type fakeAdapter struct {
	name        platforms.Platform
	caps        platforms.Capabilities
	posts       []platforms.Post
	searchErr   error
	searchCalls int

	commentFn    func(postID string) platforms.ActionResult
	commentCalls []string
	likeCalls    []string
}

func (f *fakeAdapter) Name() platforms.Platform { return f.name }

func (f *fakeAdapter) Capabilities() platforms.Capabilities { return f.caps }

func (f *fakeAdapter) SearchPosts(ctx context.Context, creds platforms.Credentials, opts platforms.SearchOptions) ([]platforms.Post, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.posts, nil
}

func (f *fakeAdapter) PostComment(ctx context.Context, creds platforms.Credentials, postID, text string) platforms.ActionResult {
	f.commentCalls = append(f.commentCalls, postID)
	if f.commentFn != nil {
		return f.commentFn(postID)
	}
	return platforms.ActionResult{OK: true}
}

func (f *fakeAdapter) LikePost(ctx context.Context, creds platforms.Credentials, postID string) bool {
	f.likeCalls = append(f.likeCalls, postID)
	return true
}

type fakeStore struct {
	mu            sync.Mutex
	logs          []CommentLogEntry
	statusUpdates []string
	statusValues  []string
	logErr        error
	statusErr     error
}

func (s *fakeStore) InsertCommentLog(ctx context.Context, entry CommentLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.logErr != nil {
		return s.logErr
	}
	s.logs = append(s.logs, entry)
	return nil
}

func (s *fakeStore) UpdateContentStatus(ctx context.Context, contentID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statusErr != nil {
		return s.statusErr
	}
	s.statusUpdates = append(s.statusUpdates, contentID)
	s.statusValues = append(s.statusValues, status)
	return nil
}

type fakeGenerator struct {
	fn    func(req generator.Request) (string, error)
	calls int
}

func (g *fakeGenerator) Generate(ctx context.Context, req generator.Request) (string, error) {
	g.calls++
	if g.fn != nil {
		return g.fn(req)
	}
	return "Un commentaire pertinent sur le sujet.", nil
}

func testDispatcher(adapter platforms.Adapter) *Dispatcher {
	return &Dispatcher{Lookup: func(p platforms.Platform) (platforms.Adapter, bool) {
		if adapter != nil && p == adapter.Name() {
			return adapter, true
		}
		return nil, false
	}}
}

func testRunner(gen CommentGenerator, store Store, d *Dispatcher) *Runner {
	return NewRunner(gen, store,
		WithDispatcher(d),
		WithSleeper(NoDelay{}),
		WithRateLimiter(rate.NewLimiter(rate.Inf, 1)),
		WithLogger(log.New(io.Discard, "", 0)),
		WithProgressWriter(io.Discard),
	)
}

func marketingPosts(n int) []platforms.Post {
	posts := make([]platforms.Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, platforms.Post{
			ID:   fmt.Sprintf("post-%d", i),
			Text: fmt.Sprintf("Great marketing insight number %d", i),
			URL:  fmt.Sprintf("https://www.reddit.com/r/marketing/%d", i),
		})
	}
	return posts
}

func redditJob(nb int) BatchJob {
	return BatchJob{
		UserID:      "user-1",
		ContentID:   "content-1",
		Platform:    platforms.Reddit,
		Credentials: platforms.Credentials{AccessToken: "token"},
		Niche:       "marketing",
		PostText:    "lancer une campagne marketing performante",
		CommentType: CommentTypeAfter,
		NbComments:  nb,
	}
}

func TestRunConcreteRedditScenario(t *testing.T) {
	adapter := &fakeAdapter{
		name:  platforms.Reddit,
		caps:  platforms.Capabilities{Search: true, Comment: true},
		posts: marketingPosts(5),
		commentFn: func(postID string) platforms.ActionResult {
			if postID == "post-1" {
				return platforms.ActionResult{OK: false, Err: "reddit comment failed with status code 429: rate limited"}
			}
			return platforms.ActionResult{OK: true}
		},
	}
	store := &fakeStore{}
	gen := &fakeGenerator{fn: func(req generator.Request) (string, error) {
		return strings.Repeat("x", 120), nil
	}}

	result := testRunner(gen, store, testDispatcher(adapter)).Run(context.Background(), redditJob(3))

	assert.Equal(t, 2, result.CommentsPosted)
	assert.Equal(t, 1, result.CommentsFailed)
	assert.Equal(t, 3, result.PostsFound)
	assert.Len(t, result.Results, 3)

	require.Len(t, store.logs, 3)
	published, failed := 0, 0
	for _, entry := range store.logs {
		switch entry.Status {
		case LogStatusPublished:
			published++
		case LogStatusFailed:
			failed++
		}
	}
	assert.Equal(t, 2, published)
	assert.Equal(t, 1, failed)

	require.Len(t, store.statusUpdates, 1)
	assert.Equal(t, "content-1", store.statusUpdates[0])
	assert.Equal(t, StatusCompleted, store.statusValues[0])
}

func TestRunBatchAccountingIdentity(t *testing.T) {
	for _, found := range []int{0, 1, 3, 5, 10} {
		t.Run(fmt.Sprintf("found_%d", found), func(t *testing.T) {
			adapter := &fakeAdapter{
				name:  platforms.Reddit,
				caps:  platforms.Capabilities{Search: true, Comment: true},
				posts: marketingPosts(found),
			}
			store := &fakeStore{}
			gen := &fakeGenerator{}

			nb := 4
			result := testRunner(gen, store, testDispatcher(adapter)).Run(context.Background(), redditJob(nb))

			assert.Equal(t, result.CommentsPosted+result.CommentsFailed, len(result.Results))
			assert.Equal(t, min(nb, found), len(result.Results))
			assert.Equal(t, min(nb, found), result.PostsFound)
		})
	}
}

func TestRunFailOpenStatusTransition(t *testing.T) {
	tests := []struct {
		commentType string
		expected    string
	}{
		{CommentTypeBefore, StatusBeforeDone},
		{CommentTypeAfter, StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.commentType, func(t *testing.T) {
			adapter := &fakeAdapter{
				name:      platforms.Reddit,
				caps:      platforms.Capabilities{Search: true, Comment: true},
				searchErr: fmt.Errorf("reddit search failed with status code 503: upstream down"),
			}
			store := &fakeStore{}
			gen := &fakeGenerator{}

			job := redditJob(3)
			job.CommentType = tt.commentType
			result := testRunner(gen, store, testDispatcher(adapter)).Run(context.Background(), job)

			assert.Equal(t, BatchResult{}, result)
			assert.Zero(t, gen.calls)

			require.Len(t, store.statusUpdates, 1)
			assert.Equal(t, tt.expected, store.statusValues[0])

			require.Len(t, store.logs, 1)
			assert.Equal(t, LogStatusFailed, store.logs[0].Status)
			assert.Contains(t, store.logs[0].ErrorMessage, "search failed")
		})
	}
}

func TestRunNoPostsFoundStillTransitions(t *testing.T) {
	adapter := &fakeAdapter{
		name: platforms.Reddit,
		caps: platforms.Capabilities{Search: true, Comment: true},
	}
	store := &fakeStore{}

	result := testRunner(&fakeGenerator{}, store, testDispatcher(adapter)).Run(context.Background(), redditJob(3))

	assert.Zero(t, result.PostsFound)
	require.Len(t, store.logs, 1)
	assert.Contains(t, store.logs[0].ErrorMessage, "no posts found for keywords")
	assert.Contains(t, store.logs[0].ErrorMessage, "marketing")
	require.Len(t, store.statusUpdates, 1)
}

func TestRunEmptyGenerationSkipsActions(t *testing.T) {
	adapter := &fakeAdapter{
		name:  platforms.Reddit,
		caps:  platforms.Capabilities{Search: true, Comment: true},
		posts: marketingPosts(2),
	}
	store := &fakeStore{}
	gen := &fakeGenerator{fn: func(req generator.Request) (string, error) {
		return "", nil
	}}

	result := testRunner(gen, store, testDispatcher(adapter)).Run(context.Background(), redditJob(2))

	assert.Equal(t, 0, result.CommentsPosted)
	assert.Equal(t, 2, result.CommentsFailed)
	for _, res := range result.Results {
		assert.Equal(t, "Empty comment generated", res.Err)
	}
	assert.Empty(t, adapter.commentCalls)
	assert.Empty(t, adapter.likeCalls)
}

func TestRunGeneratorErrorIsolatedPerCandidate(t *testing.T) {
	adapter := &fakeAdapter{
		name:  platforms.Reddit,
		caps:  platforms.Capabilities{Search: true, Comment: true},
		posts: marketingPosts(3),
	}
	store := &fakeStore{}
	calls := 0
	gen := &fakeGenerator{fn: func(req generator.Request) (string, error) {
		calls++
		if calls == 2 {
			return "", fmt.Errorf("anthropic request: connection reset")
		}
		return "Un commentaire valable.", nil
	}}

	result := testRunner(gen, store, testDispatcher(adapter)).Run(context.Background(), redditJob(3))

	assert.Equal(t, 2, result.CommentsPosted)
	assert.Equal(t, 1, result.CommentsFailed)
	assert.Contains(t, result.Results[1].Err, "comment generation failed")
}

func TestRunPersistenceFailuresSwallowed(t *testing.T) {
	adapter := &fakeAdapter{
		name:  platforms.Reddit,
		caps:  platforms.Capabilities{Search: true, Comment: true},
		posts: marketingPosts(2),
	}
	store := &fakeStore{logErr: fmt.Errorf("disk full"), statusErr: fmt.Errorf("disk full")}

	result := testRunner(&fakeGenerator{}, store, testDispatcher(adapter)).Run(context.Background(), redditJob(2))

	assert.Equal(t, 2, result.CommentsPosted)
	assert.Len(t, result.Results, 2)
}

func TestRunAnglesCycle(t *testing.T) {
	adapter := &fakeAdapter{
		name:  platforms.Reddit,
		caps:  platforms.Capabilities{Search: true, Comment: true},
		posts: marketingPosts(7),
	}
	store := &fakeStore{}

	job := redditJob(7)
	result := testRunner(&fakeGenerator{}, store, testDispatcher(adapter)).Run(context.Background(), job)

	require.Len(t, result.Results, 7)
	assert.Equal(t, generator.AngleQuestion, result.Results[0].Angle)
	assert.Equal(t, generator.AngleAgree, result.Results[1].Angle)
	assert.Equal(t, generator.AngleExperience, result.Results[4].Angle)
	assert.Equal(t, generator.AngleQuestion, result.Results[5].Angle)
}

func TestRunDryRunPostsNothing(t *testing.T) {
	adapter := &fakeAdapter{
		name:  platforms.Reddit,
		caps:  platforms.Capabilities{Search: true, Comment: true},
		posts: marketingPosts(2),
	}
	store := &fakeStore{}

	job := redditJob(2)
	job.DryRun = true
	result := testRunner(&fakeGenerator{}, store, testDispatcher(adapter)).Run(context.Background(), job)

	assert.Equal(t, 2, result.CommentsPosted)
	assert.Empty(t, adapter.commentCalls)
	assert.Empty(t, adapter.likeCalls)
}
