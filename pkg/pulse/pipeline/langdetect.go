package pipeline

import "strings"

// Indicator vocabularies for the languages the pipeline supports. Short
// function words dominate informal posts, which makes them reliable markers
// without a real language model.
var languageIndicators = []struct {
	lang  string
	words map[string]struct{}
}{
	{"en", wordSet("the", "and", "is", "are", "was", "were", "have", "has",
		"with", "for", "this", "that", "our", "your", "will", "would",
		"about", "from", "they", "been")},
	{"fr", wordSet("le", "la", "les", "et", "est", "sont", "avec", "pour",
		"dans", "nous", "vous", "une", "des", "que", "qui", "sur",
		"notre", "votre", "mais", "tres")},
	{"nl", wordSet("de", "het", "een", "en", "is", "zijn", "met", "voor",
		"van", "wij", "jullie", "dat", "die", "op", "niet", "ook",
		"onze", "naar", "maar", "bij")},
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

const languageThreshold = 2

// detectLanguage guesses the language of a text from indicator words.
// English is the default; another language wins only with at least two
// indicator hits and strictly more hits than every language listed before
// it.
func detectLanguage(text string) string {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return "en"
	}

	bestLang, bestHits := "en", 0
	for _, ind := range languageIndicators {
		hits := 0
		for _, w := range words {
			w = strings.Trim(w, ".,!?;:'\"()")
			if _, ok := ind.words[w]; ok {
				hits++
			}
		}
		if hits > bestHits {
			bestLang, bestHits = ind.lang, hits
		}
	}

	if bestLang != "en" && bestHits < languageThreshold {
		return "en"
	}
	return bestLang
}
