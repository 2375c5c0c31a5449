package match

import (
	"math"
	"sort"
	"strings"
)

const maxFeatures = 5000

// stopWords are excluded from TF-IDF tokenization.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "have": true,
	"he": true, "in": true, "is": true, "it": true, "its": true, "of": true,
	"on": true, "or": true, "our": true, "that": true, "the": true, "their": true,
	"they": true, "this": true, "to": true, "was": true, "we": true, "were": true,
	"will": true, "with": true, "you": true, "your": true, "i": true, "not": true,
	"but": true, "if": true, "so": true, "all": true,
}

// tfidfCosine computes the cosine similarity of two documents under a
// shared TF-IDF vocabulary of unigrams and bigrams.
func tfidfCosine(a, b string) float64 {
	docs := [2][]string{ngrams(tokenize(a)), ngrams(tokenize(b))}
	if len(docs[0]) == 0 || len(docs[1]) == 0 {
		return 0
	}

	counts := [2]map[string]float64{{}, {}}
	totalFreq := map[string]float64{}
	df := map[string]int{}
	for i, terms := range docs {
		for _, t := range terms {
			counts[i][t]++
			totalFreq[t]++
		}
		for t := range counts[i] {
			df[t]++
		}
	}

	vocab := make([]string, 0, len(totalFreq))
	for t := range totalFreq {
		vocab = append(vocab, t)
	}
	sort.Slice(vocab, func(i, j int) bool {
		if totalFreq[vocab[i]] != totalFreq[vocab[j]] {
			return totalFreq[vocab[i]] > totalFreq[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	if len(vocab) > maxFeatures {
		vocab = vocab[:maxFeatures]
	}

	const nDocs = 2.0
	var dot, normA, normB float64
	for _, t := range vocab {
		idf := math.Log((1+nDocs)/(1+float64(df[t]))) + 1
		va := counts[0][t] * idf
		vb := counts[1][t] * idf
		dot += va * vb
		normA += va * va
		normB += vb * vb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func tokenize(s string) []string {
	var out []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			w := b.String()
			if !stopWords[w] && len(w) > 1 {
				out = append(out, w)
			}
			b.Reset()
		}
	}
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '+' || r == '#' {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return out
}

// ngrams returns unigrams followed by bigrams.
func ngrams(tokens []string) []string {
	out := make([]string, 0, len(tokens)*2)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// cosine32 is cosine similarity over float32 vectors.
func cosine32(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
