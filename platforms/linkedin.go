package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultLinkedInBaseURL = "https://api.linkedin.com"
	linkedInVersion        = "202401"
	restliProtocolVersion  = "2.0.0"
)

// ErrLinkedInSearchRestricted names the capability gap: both post-search
// endpoints require LinkedIn partner-program approval, so callers must treat
// this as a hard gap rather than a transient failure.
var ErrLinkedInSearchRestricted = fmt.Errorf(
	"linkedin post search requires Community Management API partner access; both /rest/posts and /v2/shares were rejected")

type LinkedInAdapter struct {
	BaseURL string
	client  *http.Client
}

func NewLinkedInAdapter(baseURL string) *LinkedInAdapter {
	if baseURL == "" {
		baseURL = defaultLinkedInBaseURL
	}
	return &LinkedInAdapter{BaseURL: baseURL, client: newHTTPClient()}
}

var _ Adapter = (*LinkedInAdapter)(nil)

func (a *LinkedInAdapter) Name() Platform { return LinkedIn }

func (a *LinkedInAdapter) Capabilities() Capabilities {
	return Capabilities{Search: true, Comment: true, Like: true}
}

func (a *LinkedInAdapter) setHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("LinkedIn-Version", linkedInVersion)
	req.Header.Set("X-Restli-Protocol-Version", restliProtocolVersion)
	req.Header.Set("Content-Type", "application/json")
}

type linkedInPostsResponse struct {
	Elements []struct {
		ID         string `json:"id"`
		Commentary string `json:"commentary"`
	} `json:"elements"`
}

type linkedInSharesResponse struct {
	Elements []struct {
		ID   string `json:"id"`
		Text struct {
			Text string `json:"text"`
		} `json:"text"`
	} `json:"elements"`
}

// SearchPosts tries the versioned REST endpoint first, then the legacy v2
// shares endpoint. Both require partner-program access, so in practice this
// raises ErrLinkedInSearchRestricted.
func (a *LinkedInAdapter) SearchPosts(ctx context.Context, creds Credentials, opts SearchOptions) ([]Post, error) {
	if len(opts.Keywords) == 0 {
		return nil, nil
	}
	query := strings.Join(opts.Keywords, " ")

	if posts, err := a.searchREST(ctx, creds.AccessToken, query, opts.MaxResults); err == nil {
		return posts, nil
	}
	if posts, err := a.searchLegacyShares(ctx, creds.AccessToken, query, opts.MaxResults); err == nil {
		return posts, nil
	}

	return nil, ErrLinkedInSearchRestricted
}

func (a *LinkedInAdapter) searchREST(ctx context.Context, token, query string, count int) ([]Post, error) {
	params := url.Values{}
	params.Set("q", "text")
	params.Set("keywords", query)
	params.Set("count", strconv.Itoa(count))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+"/rest/posts?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	a.setHeaders(req, token)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(LinkedIn, "search", resp)
	}

	var result linkedInPostsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(result.Elements))
	for _, el := range result.Elements {
		posts = append(posts, Post{
			ID:   el.ID,
			Text: el.Commentary,
			URL:  "https://www.linkedin.com/feed/update/" + el.ID,
		})
	}
	return posts, nil
}

func (a *LinkedInAdapter) searchLegacyShares(ctx context.Context, token, query string, count int) ([]Post, error) {
	params := url.Values{}
	params.Set("q", "text")
	params.Set("keywords", query)
	params.Set("count", strconv.Itoa(count))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+"/v2/shares?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	a.setHeaders(req, token)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(LinkedIn, "search", resp)
	}

	var result linkedInSharesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(result.Elements))
	for _, el := range result.Elements {
		posts = append(posts, Post{
			ID:   el.ID,
			Text: el.Text.Text,
			URL:  "https://www.linkedin.com/feed/update/" + el.ID,
		})
	}
	return posts, nil
}

// PostComment comments through the socialActions endpoint; postID is the
// activity URN.
func (a *LinkedInAdapter) PostComment(ctx context.Context, creds Credentials, postID, text string) ActionResult {
	payload := map[string]any{
		"actor": "urn:li:person:" + creds.UserID,
		"message": map[string]string{
			"text": text,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return softFailure(LinkedIn, "comment", err)
	}

	endpoint := fmt.Sprintf("%s/rest/socialActions/%s/comments", a.BaseURL, url.PathEscape(postID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return softFailure(LinkedIn, "comment", err)
	}
	a.setHeaders(req, creds.AccessToken)

	resp, err := a.client.Do(req)
	if err != nil {
		return softFailure(LinkedIn, "comment", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ActionResult{OK: false, Err: apiError(LinkedIn, "comment", resp).Error()}
	}
	return ActionResult{OK: true}
}

// LikePost reacts with LIKE through the socialActions endpoint. Best-effort.
func (a *LinkedInAdapter) LikePost(ctx context.Context, creds Credentials, postID string) bool {
	payload := map[string]any{
		"actor":        "urn:li:person:" + creds.UserID,
		"reactionType": "LIKE",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return false
	}

	endpoint := fmt.Sprintf("%s/rest/socialActions/%s/reactions", a.BaseURL, url.PathEscape(postID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return false
	}
	a.setHeaders(req, creds.AccessToken)

	resp, err := a.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}
