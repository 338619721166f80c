package topics

import (
	"math"
	"sort"
	"strings"
)

const maxGroupMembers = 8

// extractWithFrequency is the degraded path: count stop-filtered keywords
// across all texts, group related words, and emit a topic per group.
func (e *Extractor) extractWithFrequency(texts []string) []Topic {
	counts := make(map[string]int)
	for _, t := range texts {
		for _, kw := range e.textKeywords(t, 20) {
			counts[kw]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	ordered := topKeys(counts, len(counts))
	groups := groupKeywords(ordered)

	var out []Topic
	for _, group := range groups {
		if len(out) >= e.nTopics {
			break
		}
		var total int
		for _, kw := range group {
			total += counts[kw]
		}
		relevance := math.Min(1, float64(total)/float64(len(texts)))
		out = append(out, Topic{
			Name:       topicName(group),
			Keywords:   group,
			Relevance:  relevance,
			Confidence: 0.8 * relevance,
			Method:     MethodFrequency,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Relevance > out[j].Relevance })
	return out
}

// groupKeywords greedily clusters an ordered keyword list: each seed absorbs
// later keywords sharing a 4-character root or a substring relation, up to
// maxGroupMembers per group.
func groupKeywords(keywords []string) [][]string {
	used := make(map[string]bool, len(keywords))
	var groups [][]string

	for _, seed := range keywords {
		if used[seed] {
			continue
		}
		group := []string{seed}
		used[seed] = true
		for _, cand := range keywords {
			if used[cand] || len(group) >= maxGroupMembers {
				continue
			}
			if relatedKeywords(seed, cand) {
				group = append(group, cand)
				used[cand] = true
			}
		}
		groups = append(groups, group)
	}
	return groups
}

func relatedKeywords(a, b string) bool {
	if len(a) >= 4 && len(b) >= 4 && a[:4] == b[:4] {
		return true
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
