package topics

import (
	"math"
	"math/rand"
	"sort"
	"strings"
)

// extractWithTFIDF builds a tf-idf weighted term-document matrix over
// unigrams and bigrams, clusters the documents, and emits one topic per
// cluster from the centroid's strongest terms.
func (e *Extractor) extractWithTFIDF(texts []string) []Topic {
	var processed []string
	for _, t := range texts {
		if p := preprocess(t); p != "" {
			processed = append(processed, p)
		}
	}
	// Clustering needs at least two documents to say anything.
	if len(processed) < 2 {
		return nil
	}

	matrix, terms := e.buildMatrix(processed)
	if len(terms) == 0 {
		return nil
	}

	k := e.nTopics
	if k > len(matrix) {
		k = len(matrix)
	}

	if k <= 1 {
		if topic, ok := e.corpusTopic(matrix, terms); ok {
			return []Topic{topic}
		}
		return nil
	}

	centroids, sizes := kmeans(matrix, k, e.seed)

	var out []Topic
	for c := range centroids {
		if sizes[c] == 0 {
			continue
		}
		if topic, ok := e.centroidTopic(centroids[c], terms); ok {
			out = append(out, topic)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Relevance > out[j].Relevance })
	return out
}

// buildMatrix tokenizes documents into stop-filtered unigrams and adjacent
// bigrams, prunes terms by document frequency, caps the vocabulary, and
// returns l2-normalized tf-idf rows plus the term list (alphabetical).
func (e *Extractor) buildMatrix(docs []string) ([][]float64, []string) {
	docTerms := make([]map[string]int, len(docs))
	df := make(map[string]int)
	corpusFreq := make(map[string]int)

	for i, doc := range docs {
		var tokens []string
		for _, word := range strings.Fields(doc) {
			if len(word) < 2 {
				continue
			}
			if _, stop := e.stopwords[word]; stop {
				continue
			}
			tokens = append(tokens, word)
		}

		counts := make(map[string]int)
		for _, tok := range tokens {
			counts[tok]++
		}
		for j := 0; j+1 < len(tokens); j++ {
			counts[tokens[j]+" "+tokens[j+1]]++
		}

		docTerms[i] = counts
		for term, c := range counts {
			df[term]++
			corpusFreq[term] += c
		}
	}

	n := len(docs)
	maxDF := e.maxDocFreq * float64(n)

	var kept []string
	for term, d := range df {
		if d >= e.minDocFreq && float64(d) <= maxDF {
			kept = append(kept, term)
		}
	}
	if len(kept) == 0 {
		return nil, nil
	}

	// Cap the vocabulary by corpus frequency, then fix an alphabetical
	// ordering so matrix columns are deterministic.
	sort.Slice(kept, func(i, j int) bool {
		if corpusFreq[kept[i]] != corpusFreq[kept[j]] {
			return corpusFreq[kept[i]] > corpusFreq[kept[j]]
		}
		return kept[i] < kept[j]
	})
	if len(kept) > e.maxFeatures {
		kept = kept[:e.maxFeatures]
	}
	sort.Strings(kept)

	index := make(map[string]int, len(kept))
	for i, term := range kept {
		index[term] = i
	}

	idf := make([]float64, len(kept))
	for i, term := range kept {
		idf[i] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	matrix := make([][]float64, n)
	for i, counts := range docTerms {
		row := make([]float64, len(kept))
		var norm float64
		for term, c := range counts {
			col, ok := index[term]
			if !ok {
				continue
			}
			w := float64(c) * idf[col]
			row[col] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for col := range row {
				row[col] /= norm
			}
		}
		matrix[i] = row
	}

	return matrix, kept
}

// centroidTopic ranks a centroid's terms and builds a topic from the
// positive-weight head of the ranking.
func (e *Extractor) centroidTopic(centroid []float64, terms []string) (Topic, bool) {
	ranked := rankTerms(centroid, terms, 10)
	var keywords []string
	var weights []float64
	for _, r := range ranked {
		if r.weight <= 0 {
			continue
		}
		keywords = append(keywords, r.term)
		weights = append(weights, r.weight)
	}
	if len(keywords) == 0 {
		return Topic{}, false
	}

	relevance := math.Min(1, meanHead(weights, 5)*2)
	confidence := math.Min(1, meanHead(weights, 5)*1.5)

	if len(keywords) > 8 {
		keywords = keywords[:8]
	}
	return Topic{
		Name:       topicName(keywords),
		Keywords:   keywords,
		Relevance:  relevance,
		Confidence: confidence,
		Method:     MethodTFIDF,
	}, true
}

// corpusTopic emits a single topic from the matrix column sums, used when
// only one cluster is possible.
func (e *Extractor) corpusTopic(matrix [][]float64, terms []string) (Topic, bool) {
	sums := make([]float64, len(terms))
	for _, row := range matrix {
		for col, w := range row {
			sums[col] += w
		}
	}

	ranked := rankTerms(sums, terms, 10)
	var keywords []string
	var weights []float64
	for _, r := range ranked {
		if r.weight <= 0 {
			continue
		}
		keywords = append(keywords, r.term)
		weights = append(weights, r.weight)
	}
	if len(keywords) == 0 {
		return Topic{}, false
	}

	relevance := math.Min(1, meanHead(weights, 5))
	if len(keywords) > 8 {
		keywords = keywords[:8]
	}
	return Topic{
		Name:       topicName(keywords),
		Keywords:   keywords,
		Relevance:  relevance,
		Confidence: relevance,
		Method:     MethodTFIDF,
	}, true
}

type rankedTerm struct {
	term   string
	weight float64
}

// rankTerms returns the top-n terms by weight, ties broken alphabetically.
func rankTerms(weights []float64, terms []string, n int) []rankedTerm {
	ranked := make([]rankedTerm, len(terms))
	for i, term := range terms {
		ranked[i] = rankedTerm{term: term, weight: weights[i]}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].weight != ranked[j].weight {
			return ranked[i].weight > ranked[j].weight
		}
		return ranked[i].term < ranked[j].term
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// meanHead averages up to the first n values.
func meanHead(values []float64, n int) float64 {
	if len(values) == 0 {
		return 0
	}
	if len(values) > n {
		values = values[:n]
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// kmeans clusters rows into k groups with a fixed seed so repeated
// extractions over identical input give identical topics. Returns the final
// centroids and the member count of each cluster.
func kmeans(rows [][]float64, k int, seed int64) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(seed))
	dims := len(rows[0])

	// k-means++ style seeding: first centroid uniform, the rest weighted by
	// squared distance to the nearest chosen centroid.
	centroids := make([][]float64, 0, k)
	first := rng.Intn(len(rows))
	centroids = append(centroids, append([]float64(nil), rows[first]...))

	dist := make([]float64, len(rows))
	for len(centroids) < k {
		var total float64
		for i, row := range rows {
			best := math.Inf(1)
			for _, c := range centroids {
				if d := sqDist(row, c); d < best {
					best = d
				}
			}
			dist[i] = best
			total += best
		}
		if total == 0 {
			// Remaining rows are duplicates of existing centroids.
			centroids = append(centroids, append([]float64(nil), rows[rng.Intn(len(rows))]...))
			continue
		}
		target := rng.Float64() * total
		var acc float64
		pick := len(rows) - 1
		for i, d := range dist {
			acc += d
			if acc >= target {
				pick = i
				break
			}
		}
		centroids = append(centroids, append([]float64(nil), rows[pick]...))
	}

	assign := make([]int, len(rows))
	sizes := make([]int, k)

	for iter := 0; iter < 25; iter++ {
		changed := false
		for i, row := range rows {
			best, bestDist := 0, math.Inf(1)
			for c := range centroids {
				if d := sqDist(row, centroids[c]); d < bestDist {
					best, bestDist = c, d
				}
			}
			if assign[i] != best || iter == 0 {
				if assign[i] != best {
					changed = true
				}
				assign[i] = best
			}
		}
		if iter > 0 && !changed {
			break
		}

		next := make([][]float64, k)
		for c := range next {
			next[c] = make([]float64, dims)
		}
		counts := make([]int, k)
		for i, row := range rows {
			c := assign[i]
			counts[c]++
			for d, v := range row {
				next[c][d] += v
			}
		}
		for c := range next {
			if counts[c] == 0 {
				// Keep the previous centroid for empty clusters.
				next[c] = centroids[c]
				continue
			}
			for d := range next[c] {
				next[c][d] /= float64(counts[c])
			}
		}
		centroids = next
		copy(sizes, counts)
	}

	return centroids, sizes
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
