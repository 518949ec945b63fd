package report

import "RegistryLinker/internal/domain"

// Summary aggregates a run result into the counts the final report
// surfaces. Unmatched records are broken down by reason so the operator
// can tell prefilter misses (lower the jaccard threshold) from consensus
// failures (revisit the metric thresholds).
type Summary struct {
	Matched              int
	IdentifierMatches    int
	FuzzyMatches         int
	AmbiguousIdentifiers int
	UnmatchedLeft        map[domain.UnmatchedReason]int
	UnmatchedRight       map[domain.UnmatchedReason]int
}

// Summarize counts matches per origin and residuals per reason.
func Summarize(result *domain.Result) Summary {
	s := Summary{
		Matched:              len(result.Matches),
		AmbiguousIdentifiers: result.AmbiguousIdentifiers,
		UnmatchedLeft:        map[domain.UnmatchedReason]int{},
		UnmatchedRight:       map[domain.UnmatchedReason]int{},
	}
	for _, m := range result.Matches {
		if m.Origin == domain.OriginIdentifier {
			s.IdentifierMatches++
		} else {
			s.FuzzyMatches++
		}
	}
	for _, u := range result.UnmatchedLeft {
		s.UnmatchedLeft[u.Reason]++
	}
	for _, u := range result.UnmatchedRight {
		s.UnmatchedRight[u.Reason]++
	}
	return s
}
