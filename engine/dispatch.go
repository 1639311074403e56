package engine

import (
	"context"
	"fmt"

	"github.com/tipote/autocomment/platforms"
)

// Dispatcher routes search/comment/like requests to platform adapters. The
// Lookup field exists so tests can substitute fake adapters; production code
// uses the platform registry.
type Dispatcher struct {
	Lookup func(platforms.Platform) (platforms.Adapter, bool)
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{Lookup: platforms.Lookup}
}

// PostComment routes a comment to the platform adapter. Unknown platforms
// produce a soft failure so the batch can record it and move on.
func (d *Dispatcher) PostComment(ctx context.Context, platform platforms.Platform, creds platforms.Credentials, postID, text string) platforms.ActionResult {
	adapter, ok := d.Lookup(platform)
	if !ok {
		return platforms.ActionResult{OK: false, Err: fmt.Sprintf("platform %q not supported", platform)}
	}
	return adapter.PostComment(ctx, creds, postID, text)
}

// LikePost routes a like to the platform adapter. Likes are best-effort
// everywhere, so anything unknown or unsupported is just false.
func (d *Dispatcher) LikePost(ctx context.Context, platform platforms.Platform, creds platforms.Credentials, postID string) bool {
	adapter, ok := d.Lookup(platform)
	if !ok {
		return false
	}
	if !adapter.Capabilities().Like {
		return false
	}
	return adapter.LikePost(ctx, creds, postID)
}
