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

const defaultTwitterBaseURL = "https://api.twitter.com"

type TwitterAdapter struct {
	BaseURL string
	client  *http.Client
}

func NewTwitterAdapter(baseURL string) *TwitterAdapter {
	if baseURL == "" {
		baseURL = defaultTwitterBaseURL
	}
	return &TwitterAdapter{BaseURL: baseURL, client: newHTTPClient()}
}

var _ Adapter = (*TwitterAdapter)(nil)

func (a *TwitterAdapter) Name() Platform { return Twitter }

func (a *TwitterAdapter) Capabilities() Capabilities {
	return Capabilities{Search: true, Comment: true, Like: true}
}

type tweetSearchResponse struct {
	Data []struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// SearchPosts queries the recent-search endpoint with an OR-query over the
// top 3 keywords, excluding retweets and replies.
func (a *TwitterAdapter) SearchPosts(ctx context.Context, creds Credentials, opts SearchOptions) ([]Post, error) {
	keywords := opts.Keywords
	if len(keywords) > 3 {
		keywords = keywords[:3]
	}
	if len(keywords) == 0 {
		return nil, nil
	}

	query := "(" + strings.Join(keywords, " OR ") + ") -is:retweet -is:reply"
	if opts.Language != "" {
		query += " lang:" + opts.Language
	}

	maxResults := opts.MaxResults
	if maxResults < 10 {
		maxResults = 10
	}
	if maxResults > 100 {
		maxResults = 100
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("tweet.fields", "id,text")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		a.BaseURL+"/2/tweets/search/recent?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twitter search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(Twitter, "search", resp)
	}

	var result tweetSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("twitter search decode: %w", err)
	}

	posts := make([]Post, 0, len(result.Data))
	for _, tweet := range result.Data {
		posts = append(posts, Post{
			ID:   tweet.ID,
			Text: tweet.Text,
			URL:  "https://twitter.com/i/web/status/" + tweet.ID,
		})
	}
	return posts, nil
}

// PostComment replies to a tweet.
func (a *TwitterAdapter) PostComment(ctx context.Context, creds Credentials, postID, text string) ActionResult {
	payload := map[string]any{
		"text": text,
		"reply": map[string]string{
			"in_reply_to_tweet_id": postID,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return softFailure(Twitter, "comment", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return softFailure(Twitter, "comment", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return softFailure(Twitter, "comment", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ActionResult{OK: false, Err: apiError(Twitter, "comment", resp).Error()}
	}
	return ActionResult{OK: true}
}

// LikePost likes a tweet on behalf of creds.UserID. Best-effort.
func (a *TwitterAdapter) LikePost(ctx context.Context, creds Credentials, postID string) bool {
	if creds.UserID == "" {
		return false
	}
	body, _ := json.Marshal(map[string]string{"tweet_id": postID})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/2/users/%s/likes", a.BaseURL, creds.UserID), bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}
