package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultRedditBaseURL = "https://oauth.reddit.com"
	redditUserAgent      = "autocomment/1.0 (by /u/tipote)"
)

type RedditAdapter struct {
	BaseURL string
	client  *http.Client
}

func NewRedditAdapter(baseURL string) *RedditAdapter {
	if baseURL == "" {
		baseURL = defaultRedditBaseURL
	}
	return &RedditAdapter{BaseURL: baseURL, client: newHTTPClient()}
}

var _ Adapter = (*RedditAdapter)(nil)

func (a *RedditAdapter) Name() Platform { return Reddit }

func (a *RedditAdapter) Capabilities() Capabilities {
	return Capabilities{Search: true, Comment: true, Like: false}
}

type redditSearchResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				ID        string `json:"id"`
				Title     string `json:"title"`
				Selftext  string `json:"selftext"`
				Permalink string `json:"permalink"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// SearchPosts searches hot posts of the last week. Reddit requires a
// User-Agent or it throttles the client aggressively.
func (a *RedditAdapter) SearchPosts(ctx context.Context, creds Credentials, opts SearchOptions) ([]Post, error) {
	if len(opts.Keywords) == 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", strings.Join(opts.Keywords, " "))
	params.Set("sort", "hot")
	params.Set("t", "week")
	params.Set("limit", strconv.Itoa(opts.MaxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	req.Header.Set("User-Agent", redditUserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reddit search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(Reddit, "search", resp)
	}

	var result redditSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("reddit search decode: %w", err)
	}

	posts := make([]Post, 0, len(result.Data.Children))
	for _, child := range result.Data.Children {
		text := child.Data.Title
		if child.Data.Selftext != "" {
			text += "\n\n" + child.Data.Selftext
		}
		posts = append(posts, Post{
			ID:   child.Data.ID,
			Text: text,
			URL:  "https://www.reddit.com" + child.Data.Permalink,
		})
	}
	return posts, nil
}

// PostComment comments on a link; reddit addresses posts as t3_<id> things.
func (a *RedditAdapter) PostComment(ctx context.Context, creds Credentials, postID, text string) ActionResult {
	form := url.Values{}
	form.Set("thing_id", "t3_"+postID)
	form.Set("text", text)
	form.Set("api_type", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/api/comment", strings.NewReader(form.Encode()))
	if err != nil {
		return softFailure(Reddit, "comment", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	req.Header.Set("User-Agent", redditUserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return softFailure(Reddit, "comment", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ActionResult{OK: false, Err: apiError(Reddit, "comment", resp).Error()}
	}
	return ActionResult{OK: true}
}

// LikePost is not supported on Reddit (no public vote endpoint worth using
// for this flow).
func (a *RedditAdapter) LikePost(ctx context.Context, creds Credentials, postID string) bool {
	return false
}
