package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name     string
		niche    string
		postText string
		expected []string
	}{
		{
			"empty input",
			"", "",
			nil,
		},
		{
			"short and stop words dropped",
			"le la des pour avec",
			"a un et the and",
			nil,
		},
		{
			"frequency ordering",
			"marketing digital",
			"marketing automation beats manual marketing every time",
			[]string{"marketing", "digital", "automation", "beats", "manual", "every", "time"},
		},
		{
			"punctuation stripped",
			"coaching",
			"Coaching, coaching! COACHING? growth-hacking",
			[]string{"coaching", "growth", "hacking"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractKeywords(tt.niche, tt.postText)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestExtractKeywordsDeterministic(t *testing.T) {
	niche := "entrepreneuriat coaching business"
	post := "lancer son business en ligne demande une stratégie claire et du coaching régulier"

	first := ExtractKeywords(niche, post)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ExtractKeywords(niche, post))
	}

	assert.LessOrEqual(t, len(first), 8)
	for _, kw := range first {
		assert.Greater(t, len([]rune(kw)), 3, "keyword %q too short", kw)
		_, stop := stopWords[kw]
		assert.False(t, stop, "keyword %q is a stop word", kw)
	}
}

func TestExtractKeywordsCap(t *testing.T) {
	post := "alpha1 bravo2 charlie3 delta4 echo5 foxtrot6 golf7 hotel8 india9 juliet10"
	result := ExtractKeywords("", post)
	assert.Len(t, result, 8)
}
