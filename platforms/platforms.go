package platforms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Platform identifies a supported social network.
type Platform string

const (
	Twitter   Platform = "twitter"
	Reddit    Platform = "reddit"
	LinkedIn  Platform = "linkedin"
	Threads   Platform = "threads"
	Instagram Platform = "instagram"
	Facebook  Platform = "facebook"
)

// Capabilities describes what a platform adapter can actually do, so callers
// can check feasibility instead of discovering a gap through an error at
// call time.
type Capabilities struct {
	Search  bool
	Comment bool
	Like    bool
}

// Credentials carries the caller-supplied auth material. UserID is the
// platform-native account id; Twitter likes and Threads replies need it.
type Credentials struct {
	AccessToken string
	UserID      string
}

// Post is one candidate fetched from a platform's public search.
type Post struct {
	ID   string
	Text string
	URL  string
}

// SearchOptions parameterizes a platform search. Each adapter builds its
// native query from the keyword list.
type SearchOptions struct {
	Keywords   []string
	Language   string
	MaxResults int
}

// ActionResult is the soft outcome of a comment or like attempt. Write
// failures are recorded here rather than raised, so a batch can keep going.
type ActionResult struct {
	OK  bool
	Err string
}

// Adapter is implemented once per platform.
type Adapter interface {
	Name() Platform
	Capabilities() Capabilities
	SearchPosts(ctx context.Context, creds Credentials, opts SearchOptions) ([]Post, error)
	PostComment(ctx context.Context, creds Credentials, postID, text string) ActionResult
	LikePost(ctx context.Context, creds Credentials, postID string) bool
}

var registry = map[Platform]Adapter{
	Twitter:   NewTwitterAdapter(""),
	Reddit:    NewRedditAdapter(""),
	LinkedIn:  NewLinkedInAdapter(""),
	Threads:   NewThreadsAdapter(""),
	Instagram: NewInstagramAdapter(""),
	Facebook:  NewFacebookAdapter(),
}

// Lookup resolves a platform name to its adapter.
func Lookup(p Platform) (Adapter, bool) {
	adapter, ok := registry[p]
	return adapter, ok
}

// Supported lists every registered platform.
func Supported() []Platform {
	return []Platform{Twitter, Reddit, LinkedIn, Threads, Instagram, Facebook}
}

const errorBodyLimit = 300

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// apiError builds a diagnosable error from a non-2xx response, embedding the
// status code and a truncated body.
func apiError(platform Platform, op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit+1))
	text := string(body)
	if len(text) > errorBodyLimit {
		text = text[:errorBodyLimit]
	}
	return fmt.Errorf("%s %s failed with status code %d: %s", platform, op, resp.StatusCode, text)
}

func softFailure(platform Platform, op string, err error) ActionResult {
	return ActionResult{OK: false, Err: fmt.Sprintf("%s %s: %v", platform, op, err)}
}
