package matching

import "RegistryLinker/pkg/normalize"

// tokenSet is a pre-split token set of one canonical name.
type tokenSet map[string]struct{}

func newTokenSet(name string) tokenSet {
	fields := normalize.Tokens(name)
	set := make(tokenSet, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// candidateIndex holds the right pool tokenized exactly once per run, so
// every left record is screened with a single pass over pre-built sets
// instead of re-tokenizing the full cross product.
type candidateIndex struct {
	sets []tokenSet
}

func buildCandidateIndex(names []string) *candidateIndex {
	idx := &candidateIndex{sets: make([]tokenSet, len(names))}
	for i, n := range names {
		idx.sets[i] = newTokenSet(n)
	}
	return idx
}

// screen returns the right-pool positions whose Jaccard token overlap with
// the query meets the threshold. An empty result ends the fuzzy phase
// early for this query.
func (idx *candidateIndex) screen(query tokenSet, threshold float64) []int {
	if len(query) == 0 {
		return nil
	}

	var out []int
	for i, set := range idx.sets {
		if jaccard(query, set) >= threshold {
			out = append(out, i)
		}
	}
	return out
}

func jaccard(a, b tokenSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	intersection := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
