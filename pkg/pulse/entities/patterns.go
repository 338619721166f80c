package entities

import "regexp"

// Entity type labels follow the usual NER tag set.
const (
	TypeOrganization = "ORG"
	TypePerson       = "PERSON"
	TypeLocation     = "GPE"
	TypeMoney        = "MONEY"
	TypePercent      = "PERCENT"
	TypeDate         = "DATE"
	TypeMisc         = "MISC"
)

// Organization name patterns. The suffix pattern is deliberately greedy
// across spaces so "Acme Data Systems Inc" matches as one span.
var orgPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-Z][A-Za-z&\s]+(?:Inc|LLC|Corp|Ltd|Company|Technologies|Solutions)\b`),
	regexp.MustCompile(`\b[A-Z][A-Za-z]+\.(?:com|io|ai|tech)\b`),
}

// Business value patterns: money, percentages, and reporting periods.
var (
	moneyPattern   = regexp.MustCompile(`\$[0-9][0-9,]*(?:\.[0-9]+)?(?:[BMK]\b|\s+(?:billion|million|thousand)\b)?`)
	percentPattern = regexp.MustCompile(`\b[0-9]+(?:\.[0-9]+)?%`)
	datePatterns   = []*regexp.Regexp{
		regexp.MustCompile(`\bQ[1-4]\s+[0-9]{4}\b`),
		regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+[0-9]{4}\b`),
		regexp.MustCompile(`\b(?:FY|H[12])\s?[0-9]{4}\b`),
	}
)

const (
	orgPatternConfidence      = 0.6
	businessPatternConfidence = 0.8
)

// extractOrgPatterns finds organization mentions by surface patterns.
func extractOrgPatterns(text string) []Entity {
	var out []Entity
	for _, p := range orgPatterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			out = append(out, Entity{
				Text:       text[loc[0]:loc[1]],
				Type:       TypeOrganization,
				Start:      loc[0],
				End:        loc[1],
				Confidence: orgPatternConfidence,
			})
		}
	}
	return out
}

// extractBusinessPatterns finds money, percent, and date mentions. These are
// merged into every extraction regardless of the requested method.
func extractBusinessPatterns(text string) []Entity {
	var out []Entity
	add := func(typ string, locs [][]int) {
		for _, loc := range locs {
			out = append(out, Entity{
				Text:       text[loc[0]:loc[1]],
				Type:       typ,
				Start:      loc[0],
				End:        loc[1],
				Confidence: businessPatternConfidence,
			})
		}
	}
	add(TypeMoney, moneyPattern.FindAllStringIndex(text, -1))
	add(TypePercent, percentPattern.FindAllStringIndex(text, -1))
	for _, p := range datePatterns {
		add(TypeDate, p.FindAllStringIndex(text, -1))
	}
	return out
}

// knownCompanies are widely recognized organizations whose mentions get a
// confidence boost.
var knownCompanies = map[string]struct{}{
	"microsoft":  {},
	"google":     {},
	"apple":      {},
	"amazon":     {},
	"meta":       {},
	"linkedin":   {},
	"salesforce": {},
	"oracle":     {},
	"ibm":        {},
	"netflix":    {},
	"tesla":      {},
	"nvidia":     {},
	"openai":     {},
	"anthropic":  {},
	"stripe":     {},
	"shopify":    {},
}
