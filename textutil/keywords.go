package textutil

import (
	"sort"
	"strings"
	"unicode"
)

const maxKeywords = 8

// stopWords covers French and English function words. Tokens of length <= 3
// are dropped before this list is consulted, so only the longer entries matter.
var stopWords = map[string]struct{}{
	// French
	"avec": {}, "pour": {}, "dans": {}, "cette": {}, "cela": {}, "mais": {},
	"plus": {}, "tout": {}, "tous": {}, "toutes": {}, "comme": {}, "elle": {},
	"elles": {}, "vous": {}, "nous": {}, "leur": {}, "leurs": {}, "sont": {},
	"être": {}, "avoir": {}, "fait": {}, "faire": {}, "très": {}, "bien": {},
	"aussi": {}, "donc": {}, "alors": {}, "quand": {}, "même": {}, "sans": {},
	"sous": {}, "entre": {}, "votre": {}, "notre": {}, "ceux": {}, "celles": {},
	"était": {}, "étaient": {}, "peut": {}, "peuvent": {}, "encore": {},
	// English
	"this": {}, "that": {}, "with": {}, "from": {}, "have": {}, "has": {},
	"been": {}, "were": {}, "they": {}, "them": {}, "their": {}, "there": {},
	"which": {}, "would": {}, "could": {}, "should": {}, "about": {},
	"into": {}, "your": {}, "what": {}, "when": {}, "where": {}, "will": {},
	"more": {}, "most": {}, "some": {}, "such": {}, "than": {}, "then": {},
	"these": {}, "those": {}, "only": {}, "also": {}, "just": {}, "very": {},
	"because": {}, "while": {}, "here": {}, "over": {}, "after": {}, "before": {},
}

// ExtractKeywords pulls up to 8 keywords out of a niche description and a
// post body, ranked by frequency. Ties keep first-seen order so the result
// is deterministic for a given input.
func ExtractKeywords(niche, postText string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(niche + " " + postText) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	counts := make(map[string]int)
	var order []string
	for _, token := range strings.Fields(b.String()) {
		if len([]rune(token)) <= 3 {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}
	return order
}
