package matching

import (
	"sort"

	"RegistryLinker/internal/domain"
)

// CandidatePair is a consensus-passing candidate pair awaiting global
// assignment. Left and Right address the fuzzy-phase pools.
type CandidatePair struct {
	Left   int
	Right  int
	Scores domain.ScoreBundle
}

// AssignmentPolicy resolves consensus-passing pairs into a 1:1 selection.
// Alternate strategies (e.g. optimal bipartite matching) can be swapped in
// without touching the scoring code.
type AssignmentPolicy interface {
	Name() string
	Resolve(pairs []CandidatePair) []CandidatePair
}

// GreedyDescending accepts pairs in descending order of the primary
// (alignment) metric, skipping pairs whose left or right record was
// already claimed. Ties keep their original enumeration order, which
// makes reruns byte-identical.
type GreedyDescending struct{}

// Name identifies the policy in logs and persisted run summaries.
func (GreedyDescending) Name() string { return "greedy_descending" }

// Resolve applies the greedy highest-score-first selection. The consumed
// sets are mutated only here, single-threaded, after the scoring barrier.
func (GreedyDescending) Resolve(pairs []CandidatePair) []CandidatePair {
	ordered := make([]CandidatePair, len(pairs))
	copy(ordered, pairs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Scores.Alignment > ordered[j].Scores.Alignment
	})

	usedLeft := make(map[int]struct{}, len(ordered))
	usedRight := make(map[int]struct{}, len(ordered))
	accepted := make([]CandidatePair, 0, len(ordered))
	for _, p := range ordered {
		if _, ok := usedLeft[p.Left]; ok {
			continue
		}
		if _, ok := usedRight[p.Right]; ok {
			continue
		}
		usedLeft[p.Left] = struct{}{}
		usedRight[p.Right] = struct{}{}
		accepted = append(accepted, p)
	}
	return accepted
}
