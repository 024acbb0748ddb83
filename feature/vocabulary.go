// Package feature implements the two text featurization strategies used by
// the comparison pipeline: a TF-IDF bag-of-words vectorizer and a dense
// LSA-style embedding vectorizer (counts + truncated SVD + L2 rows). Both are
// fitted once on a training corpus and reused verbatim for every later
// transform; a document full of unseen tokens transforms to a zero vector,
// never to an error.
package feature

import (
	"sort"
	"strings"
)

// minTokenLen mirrors the word tokenizer of the reference implementation:
// single-character tokens carry no signal and are dropped.
const minTokenLen = 2

// tokenize splits an already-cleaned document into unigram and bigram terms.
func tokenize(doc string) []string {
	words := strings.Fields(doc)
	kept := words[:0]
	for _, w := range words {
		if len(w) >= minTokenLen {
			kept = append(kept, w)
		}
	}

	terms := make([]string, 0, 2*len(kept))
	terms = append(terms, kept...)
	for i := 0; i+1 < len(kept); i++ {
		terms = append(terms, kept[i]+" "+kept[i+1])
	}
	return terms
}

// buildVocabulary selects the maxFeatures most frequent terms across the
// corpus (ties broken lexicographically) and assigns indices in alphabetical
// order. The result is fully deterministic for a given corpus and cap.
func buildVocabulary(tokenized [][]string, maxFeatures int) map[string]int {
	counts := make(map[string]int)
	for _, terms := range tokenized {
		for _, t := range terms {
			counts[t]++
		}
	}

	type termCount struct {
		term  string
		count int
	}
	all := make([]termCount, 0, len(counts))
	for t, c := range counts {
		all = append(all, termCount{term: t, count: c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].term < all[j].term
	})

	if maxFeatures > 0 && len(all) > maxFeatures {
		all = all[:maxFeatures]
	}

	selected := make([]string, len(all))
	for i, tc := range all {
		selected[i] = tc.term
	}
	sort.Strings(selected)

	vocab := make(map[string]int, len(selected))
	for i, t := range selected {
		vocab[t] = i
	}
	return vocab
}

// documentFrequencies counts, per vocabulary term, the number of documents
// containing it at least once.
func documentFrequencies(tokenized [][]string, vocab map[string]int) []int {
	df := make([]int, len(vocab))
	for _, terms := range tokenized {
		seen := make(map[int]bool, len(terms))
		for _, t := range terms {
			if idx, ok := vocab[t]; ok && !seen[idx] {
				df[idx]++
				seen[idx] = true
			}
		}
	}
	return df
}

// termCounts tallies the in-vocabulary term counts of one document.
func termCounts(terms []string, vocab map[string]int) map[int]float64 {
	counts := make(map[int]float64)
	for _, t := range terms {
		if idx, ok := vocab[t]; ok {
			counts[idx]++
		}
	}
	return counts
}
