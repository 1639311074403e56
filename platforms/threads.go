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

const defaultThreadsBaseURL = "https://graph.threads.net"

type ThreadsAdapter struct {
	BaseURL string
	client  *http.Client
}

func NewThreadsAdapter(baseURL string) *ThreadsAdapter {
	if baseURL == "" {
		baseURL = defaultThreadsBaseURL
	}
	return &ThreadsAdapter{BaseURL: baseURL, client: newHTTPClient()}
}

var _ Adapter = (*ThreadsAdapter)(nil)

func (a *ThreadsAdapter) Name() Platform { return Threads }

func (a *ThreadsAdapter) Capabilities() Capabilities {
	return Capabilities{Search: true, Comment: true, Like: false}
}

type threadsSearchResponse struct {
	Data []struct {
		ID        string `json:"id"`
		Text      string `json:"text"`
		Permalink string `json:"permalink"`
	} `json:"data"`
}

// SearchPosts uses the keyword_search endpoint. The generic /search endpoint
// rejects these queries with a 400, keep it out of here.
func (a *ThreadsAdapter) SearchPosts(ctx context.Context, creds Credentials, opts SearchOptions) ([]Post, error) {
	if len(opts.Keywords) == 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", strings.Join(opts.Keywords, " "))
	params.Set("search_type", "TOP")
	params.Set("fields", "id,text,permalink")
	params.Set("limit", strconv.Itoa(opts.MaxResults))
	params.Set("access_token", creds.AccessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+"/v1.0/keyword_search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("threads search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(Threads, "search", resp)
	}

	var result threadsSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("threads search decode: %w", err)
	}

	posts := make([]Post, 0, len(result.Data))
	for _, item := range result.Data {
		posts = append(posts, Post{ID: item.ID, Text: item.Text, URL: item.Permalink})
	}
	return posts, nil
}

type threadsContainerResponse struct {
	ID string `json:"id"`
}

// PostComment replies in two steps: create a media container carrying
// reply_to_id, then publish it.
func (a *ThreadsAdapter) PostComment(ctx context.Context, creds Credentials, postID, text string) ActionResult {
	params := url.Values{}
	params.Set("media_type", "TEXT")
	params.Set("text", text)
	params.Set("reply_to_id", postID)
	params.Set("access_token", creds.AccessToken)

	createURL := fmt.Sprintf("%s/v1.0/%s/threads?%s", a.BaseURL, creds.UserID, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, createURL, nil)
	if err != nil {
		return softFailure(Threads, "comment", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return softFailure(Threads, "comment", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ActionResult{OK: false, Err: apiError(Threads, "comment container", resp).Error()}
	}

	var container threadsContainerResponse
	if err := json.NewDecoder(resp.Body).Decode(&container); err != nil {
		return softFailure(Threads, "comment container decode", err)
	}
	if container.ID == "" {
		return ActionResult{OK: false, Err: "threads comment: empty container id"}
	}

	publishParams := url.Values{}
	publishParams.Set("creation_id", container.ID)
	publishParams.Set("access_token", creds.AccessToken)

	publishURL := fmt.Sprintf("%s/v1.0/%s/threads_publish?%s", a.BaseURL, creds.UserID, publishParams.Encode())
	pubReq, err := http.NewRequestWithContext(ctx, http.MethodPost, publishURL, nil)
	if err != nil {
		return softFailure(Threads, "publish", err)
	}

	pubResp, err := a.client.Do(pubReq)
	if err != nil {
		return softFailure(Threads, "publish", err)
	}
	defer pubResp.Body.Close()

	if pubResp.StatusCode < 200 || pubResp.StatusCode > 299 {
		return ActionResult{OK: false, Err: apiError(Threads, "comment publish", pubResp).Error()}
	}
	return ActionResult{OK: true}
}

// LikePost is not supported: Threads exposes no public like endpoint.
func (a *ThreadsAdapter) LikePost(ctx context.Context, creds Credentials, postID string) bool {
	return false
}
