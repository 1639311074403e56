package platforms

import (
	"context"
	"fmt"
)

// ErrFacebookSearchUnavailable is permanent: the Meta Graph API does not
// expose public-post search at all.
var ErrFacebookSearchUnavailable = fmt.Errorf(
	"post search is not available on Facebook: the Meta Graph API exposes no public-post search endpoint")

// FacebookAdapter is registered so the platform name resolves, but every
// capability is off. Callers should consult Capabilities before dispatching.
type FacebookAdapter struct{}

func NewFacebookAdapter() *FacebookAdapter {
	return &FacebookAdapter{}
}

var _ Adapter = (*FacebookAdapter)(nil)

func (a *FacebookAdapter) Name() Platform { return Facebook }

func (a *FacebookAdapter) Capabilities() Capabilities {
	return Capabilities{}
}

func (a *FacebookAdapter) SearchPosts(ctx context.Context, creds Credentials, opts SearchOptions) ([]Post, error) {
	return nil, ErrFacebookSearchUnavailable
}

func (a *FacebookAdapter) PostComment(ctx context.Context, creds Credentials, postID, text string) ActionResult {
	return ActionResult{OK: false, Err: "commenting is not supported on Facebook"}
}

func (a *FacebookAdapter) LikePost(ctx context.Context, creds Credentials, postID string) bool {
	return false
}
