package topics

import (
	"regexp"
	"strings"
)

var (
	topicURLPattern   = regexp.MustCompile(`https?://\S+`)
	topicEmailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	nonLetterPattern  = regexp.MustCompile(`[^a-zA-Z\s]`)
	spaceRunPattern   = regexp.MustCompile(`\s+`)
)

// preprocess lowercases a text, strips URLs, emails, and non-letters, and
// collapses whitespace. Returns "" when nothing survives.
func preprocess(text string) string {
	text = strings.ToLower(text)
	text = topicURLPattern.ReplaceAllString(text, " ")
	text = topicEmailPattern.ReplaceAllString(text, " ")
	text = nonLetterPattern.ReplaceAllString(text, " ")
	text = spaceRunPattern.ReplaceAllString(strings.TrimSpace(text), " ")
	return text
}

// textKeywords returns up to max distinct keywords from a single text,
// ordered by in-text frequency. Only alphabetic tokens longer than two
// characters outside the stop lists count.
func (e *Extractor) textKeywords(text string, max int) []string {
	processed := preprocess(text)
	if processed == "" {
		return nil
	}

	counts := make(map[string]int)
	for _, word := range strings.Fields(processed) {
		if len(word) <= 2 {
			continue
		}
		if _, stop := e.stopwords[word]; stop {
			continue
		}
		counts[word]++
	}
	return topKeys(counts, max)
}

// generalStopwords is the common-English list shared by both methods.
var generalStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
	"has", "he", "in", "is", "it", "its", "of", "on", "that", "the",
	"to", "was", "will", "with", "we", "our", "us", "they", "their",
	"this", "these", "those", "have", "had", "been", "being", "do",
	"does", "did", "done", "can", "could", "should", "would", "may",
	"might", "must", "shall", "about", "after", "all", "also", "but",
	"each", "every", "how", "just", "more", "most", "much", "new",
	"no", "now", "only", "or", "other", "some", "such", "than",
	"them", "very", "what", "when", "where", "which", "who", "why",
}

// platformStopwords is boilerplate vocabulary of the posting platform itself,
// which says nothing about what a post discusses.
var platformStopwords = []string{
	"linkedin", "post", "share", "like", "comment", "follow", "connect",
	"network", "profile", "update", "article", "blog", "website",
	"link", "click", "view", "see", "read", "check", "visit",
}
