package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const defaultInstagramBaseURL = "https://graph.facebook.com"

var nonHashtagChars = regexp.MustCompile(`[^a-z0-9]`)

type InstagramAdapter struct {
	BaseURL string
	client  *http.Client
}

func NewInstagramAdapter(baseURL string) *InstagramAdapter {
	if baseURL == "" {
		baseURL = defaultInstagramBaseURL
	}
	return &InstagramAdapter{BaseURL: baseURL, client: newHTTPClient()}
}

var _ Adapter = (*InstagramAdapter)(nil)

func (a *InstagramAdapter) Name() Platform { return Instagram }

func (a *InstagramAdapter) Capabilities() Capabilities {
	return Capabilities{Search: true, Comment: true, Like: false}
}

type hashtagSearchResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

type recentMediaResponse struct {
	Data []struct {
		ID        string `json:"id"`
		Caption   string `json:"caption"`
		Permalink string `json:"permalink"`
	} `json:"data"`
}

// SearchPosts is hashtag based: resolve up to 2 keywords to hashtag ids,
// fetch their recent media, and keep captions that mention a keyword. The
// MaxResults cap is applied here because hashtag feeds cannot over-fetch
// usefully.
func (a *InstagramAdapter) SearchPosts(ctx context.Context, creds Credentials, opts SearchOptions) ([]Post, error) {
	keywords := opts.Keywords
	if len(keywords) > 2 {
		keywords = keywords[:2]
	}
	if len(keywords) == 0 {
		return nil, nil
	}

	var posts []Post
	seen := make(map[string]struct{})

	for _, keyword := range keywords {
		hashtag := nonHashtagChars.ReplaceAllString(strings.ToLower(keyword), "")
		if hashtag == "" {
			continue
		}

		hashtagID, err := a.resolveHashtag(ctx, creds, hashtag)
		if err != nil {
			return nil, err
		}
		if hashtagID == "" {
			continue
		}

		media, err := a.recentMedia(ctx, creds, hashtagID, opts.MaxResults)
		if err != nil {
			return nil, err
		}

		for _, item := range media {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			if !captionMatches(item.Text, opts.Keywords) {
				continue
			}
			seen[item.ID] = struct{}{}
			posts = append(posts, item)
			if len(posts) >= opts.MaxResults {
				return posts, nil
			}
		}
	}
	return posts, nil
}

func captionMatches(caption string, keywords []string) bool {
	lower := strings.ToLower(caption)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func (a *InstagramAdapter) resolveHashtag(ctx context.Context, creds Credentials, hashtag string) (string, error) {
	params := url.Values{}
	params.Set("user_id", creds.UserID)
	params.Set("q", hashtag)
	params.Set("access_token", creds.AccessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+"/v21.0/ig_hashtag_search?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("instagram hashtag search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError(Instagram, "hashtag search", resp)
	}

	var result hashtagSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("instagram hashtag search decode: %w", err)
	}
	if len(result.Data) == 0 {
		return "", nil
	}
	return result.Data[0].ID, nil
}

func (a *InstagramAdapter) recentMedia(ctx context.Context, creds Credentials, hashtagID string, limit int) ([]Post, error) {
	params := url.Values{}
	params.Set("user_id", creds.UserID)
	params.Set("fields", "id,caption,permalink")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("access_token", creds.AccessToken)

	endpoint := fmt.Sprintf("%s/v21.0/%s/recent_media?%s", a.BaseURL, hashtagID, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("instagram recent media request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(Instagram, "recent media", resp)
	}

	var result recentMediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("instagram recent media decode: %w", err)
	}

	posts := make([]Post, 0, len(result.Data))
	for _, item := range result.Data {
		posts = append(posts, Post{ID: item.ID, Text: item.Caption, URL: item.Permalink})
	}
	return posts, nil
}

// PostComment comments on a media item.
func (a *InstagramAdapter) PostComment(ctx context.Context, creds Credentials, postID, text string) ActionResult {
	form := url.Values{}
	form.Set("message", text)
	form.Set("access_token", creds.AccessToken)

	endpoint := fmt.Sprintf("%s/v21.0/%s/comments", a.BaseURL, postID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return softFailure(Instagram, "comment", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return softFailure(Instagram, "comment", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ActionResult{OK: false, Err: apiError(Instagram, "comment", resp).Error()}
	}
	return ActionResult{OK: true}
}

// LikePost is not supported: the Graph API has no media-like endpoint for
// third-party accounts.
func (a *InstagramAdapter) LikePost(ctx context.Context, creds Credentials, postID string) bool {
	return false
}
