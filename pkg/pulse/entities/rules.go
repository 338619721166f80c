package entities

import (
	"strings"
	"unicode"
)

const ruleConfidence = 0.7

// Corporate suffixes that mark a capitalized run as an organization.
var orgSuffixes = map[string]struct{}{
	"inc":          {},
	"llc":          {},
	"corp":         {},
	"ltd":          {},
	"company":      {},
	"technologies": {},
	"solutions":    {},
	"group":        {},
	"labs":         {},
}

// Honorifics and role words that precede a person's name.
var personCues = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {},
	"ceo": {}, "cto": {}, "cfo": {}, "founder": {}, "president": {},
}

// extractRuleBased finds entities from runs of capitalized words. A run
// ending in a corporate suffix is an organization, a two-word run or one
// preceded by a person cue is a person, anything longer falls back to an
// organization.
func extractRuleBased(text string) []Entity {
	var out []Entity
	tokens := tokenizeWithOffsets(text)

	i := 0
	for i < len(tokens) {
		if !capitalizedWord(tokens[i].text) {
			i++
			continue
		}
		// Skip sentence-initial tokens unless the run continues, they are
		// usually just ordinary words after a period.
		if sentenceInitial(text, tokens[i].start) && (i+1 >= len(tokens) || !capitalizedWord(tokens[i+1].text)) {
			i++
			continue
		}

		j := i
		for j < len(tokens) && capitalizedWord(tokens[j].text) && j-i < 5 {
			j++
		}
		run := tokens[i:j]
		start, end := run[0].start, run[len(run)-1].end
		for end > start && strings.ContainsRune(".,;:!?", rune(text[end-1])) {
			end--
		}

		typ := classifyRun(run, tokens, i)
		if typ != "" {
			out = append(out, Entity{
				Text:       text[start:end],
				Type:       typ,
				Start:      start,
				End:        end,
				Confidence: ruleConfidence,
			})
		}
		i = j
	}
	return out
}

func classifyRun(run []spanToken, tokens []spanToken, runStart int) string {
	last := strings.ToLower(strings.Trim(run[len(run)-1].text, "."))
	if _, ok := orgSuffixes[last]; ok {
		return TypeOrganization
	}
	if runStart > 0 {
		prev := strings.ToLower(strings.Trim(tokens[runStart-1].text, ".,"))
		if _, ok := personCues[prev]; ok {
			return TypePerson
		}
	}
	switch len(run) {
	case 1:
		// Single capitalized words are too noisy on their own.
		return ""
	case 2:
		return TypePerson
	default:
		return TypeOrganization
	}
}

type spanToken struct {
	text  string
	start int
	end   int
}

func tokenizeWithOffsets(text string) []spanToken {
	var out []spanToken
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				out = append(out, spanToken{text: text[start:i], start: start, end: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, spanToken{text: text[start:], start: start, end: len(text)})
	}
	return out
}

func capitalizedWord(tok string) bool {
	tok = strings.TrimRight(tok, ".,;:!?")
	if len(tok) < 2 {
		return false
	}
	runes := []rune(tok)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLetter(r) && r != '&' && r != '\'' {
			return false
		}
	}
	return true
}

func sentenceInitial(text string, start int) bool {
	if start == 0 {
		return true
	}
	for i := start - 1; i >= 0; i-- {
		r := rune(text[i])
		if unicode.IsSpace(r) {
			continue
		}
		return r == '.' || r == '!' || r == '?'
	}
	return true
}
