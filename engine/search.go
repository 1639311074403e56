package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/tipote/autocomment/platforms"
	"github.com/tipote/autocomment/textutil"
)

const queryKeywordCount = 5

// SearchRelevantPosts computes keywords from the niche and the content text,
// routes the search to the platform adapter with a 2x over-fetch to survive
// filtering, and applies the relevance filter. A content item that yields no
// keywords returns an empty list without any network call.
func (d *Dispatcher) SearchRelevantPosts(ctx context.Context, platform platforms.Platform, creds platforms.Credentials, niche, postText string, maxResults int) ([]platforms.Post, error) {
	adapter, ok := d.Lookup(platform)
	if !ok {
		return nil, fmt.Errorf("platform %q not supported", platform)
	}

	keywords := textutil.ExtractKeywords(niche, postText)
	if len(keywords) > queryKeywordCount {
		keywords = keywords[:queryKeywordCount]
	}
	if strings.TrimSpace(strings.Join(keywords, " ")) == "" {
		return nil, nil
	}

	sourceLanguage := textutil.DetectContentLanguage(postText)

	candidates, err := adapter.SearchPosts(ctx, creds, platforms.SearchOptions{
		Keywords:   keywords,
		Language:   sourceLanguage,
		MaxResults: maxResults * 2,
	})
	if err != nil {
		return nil, err
	}

	var relevant []platforms.Post
	for _, candidate := range candidates {
		if isRelevant(candidate.Text, keywords, sourceLanguage) {
			relevant = append(relevant, candidate)
		}
	}
	return relevant, nil
}

// isRelevant keeps a candidate when at least one keyword appears in its text
// and, for confidently detected source languages, when the candidate is not
// confidently written in a different one. Uncertainty on either side is
// never grounds for rejection.
func isRelevant(candidateText string, keywords []string, sourceLanguage string) bool {
	lower := strings.ToLower(candidateText)

	matched := false
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	if sourceLanguage != "" {
		candidateLanguage := textutil.DetectContentLanguage(candidateText)
		if candidateLanguage != "" && candidateLanguage != sourceLanguage {
			return false
		}
	}
	return true
}
