package textutil

import (
	"regexp"
	"strings"
)

const (
	sampleSize     = 600
	scoreThreshold = 0.05
)

type languageProfile struct {
	code       string
	stopWords  []string
	diacritics *regexp.Regexp
}

var languageProfiles = []languageProfile{
	{
		code: "fr",
		stopWords: []string{
			"le", "la", "les", "des", "un", "une", "est", "et", "dans",
			"pour", "que", "qui", "avec", "sur", "pas", "ce", "cette",
			"vous", "nous", "mais", "plus", "son", "ses", "aux", "être",
		},
		diacritics: regexp.MustCompile(`[àâäéèêëîïôöùûüçœ]`),
	},
	{
		code: "es",
		stopWords: []string{
			"el", "la", "los", "las", "un", "una", "es", "y", "en",
			"que", "de", "por", "para", "con", "no", "se", "su", "al",
			"lo", "como", "más", "pero", "sus", "está", "muy",
		},
		diacritics: regexp.MustCompile(`[áéíóúüñ¿¡]`),
	},
	{
		code: "de",
		stopWords: []string{
			"der", "die", "das", "und", "ist", "ein", "eine", "nicht",
			"mit", "für", "auf", "den", "dem", "des", "sich", "auch",
			"von", "zu", "im", "werden", "sind", "wir", "sie", "aber",
		},
		diacritics: regexp.MustCompile(`[äöüß]`),
	},
	{
		code: "pt",
		stopWords: []string{
			"o", "a", "os", "as", "um", "uma", "é", "e", "em", "que",
			"de", "do", "da", "dos", "das", "para", "com", "não", "se",
			"por", "mais", "como", "seu", "sua", "são",
		},
		diacritics: regexp.MustCompile(`[ãõáéíóúâêôàç]`),
	},
}

// DetectContentLanguage guesses the language of a text among fr/es/de/pt.
// Returns "" when no profile scores above the confidence threshold, which
// downstream code treats permissively.
func DetectContentLanguage(text string) string {
	sample := []rune(strings.ToLower(text))
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}
	normalized := string(sample)

	words := strings.Fields(normalized)
	if len(words) == 0 {
		return ""
	}

	runeCount := len(sample)
	best := ""
	bestScore := 0.0

	for _, profile := range languageProfiles {
		stopSet := make(map[string]struct{}, len(profile.stopWords))
		for _, w := range profile.stopWords {
			stopSet[w] = struct{}{}
		}

		matches := 0
		distinct := make(map[string]struct{})
		for _, w := range words {
			w = strings.Trim(w, ".,;:!?'\"()")
			if _, ok := stopSet[w]; ok {
				matches++
				distinct[w] = struct{}{}
			}
		}
		// A single repeated stop word is not evidence: "no" appears in
		// English text too.
		stopRatio := 0.0
		if len(distinct) >= 2 {
			stopRatio = float64(matches) / float64(len(words))
		}
		diacriticRatio := float64(len(profile.diacritics.FindAllString(normalized, -1))) / float64(runeCount)

		score := stopRatio*3 + diacriticRatio*2
		if score > bestScore {
			bestScore = score
			best = profile.code
		}
	}

	if bestScore <= scoreThreshold {
		return ""
	}
	return best
}
