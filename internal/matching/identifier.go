package matching

import "RegistryLinker/internal/domain"

// identifierPhase links records that carry the same standardized
// cross-registry code. Identifiers are authoritative: a unique value
// present on both sides produces a match regardless of how dissimilar
// the names are, with a sentinel perfect score bundle.
//
// Values duplicated on either side are ambiguous; those records are
// deferred to the fuzzy phase keyed by name alone and counted so the
// deferral stays observable.
func identifierPhase(left, right []domain.Record) (matches []domain.Match, restLeft, restRight []domain.Record, ambiguous int) {
	leftByID := groupByIdentifier(left)
	rightByID := groupByIdentifier(right)

	matchedLeft := make(map[int]struct{})
	matchedRight := make(map[int]struct{})
	countedAmbiguous := make(map[string]struct{})

	for _, l := range left {
		if l.Identifier == "" {
			continue
		}
		lGroup := leftByID[l.Identifier]
		rGroup := rightByID[l.Identifier]
		if len(rGroup) == 0 {
			continue
		}
		if len(lGroup) != 1 || len(rGroup) != 1 {
			if _, seen := countedAmbiguous[l.Identifier]; !seen {
				countedAmbiguous[l.Identifier] = struct{}{}
				ambiguous++
			}
			continue
		}
		r := rGroup[0]
		matches = append(matches, domain.Match{
			Left:   l,
			Right:  r,
			Origin: domain.OriginIdentifier,
			Scores: domain.PerfectScore(),
		})
		matchedLeft[l.Index] = struct{}{}
		matchedRight[r.Index] = struct{}{}
	}

	restLeft = make([]domain.Record, 0, len(left)-len(matches))
	for _, l := range left {
		if _, ok := matchedLeft[l.Index]; !ok {
			restLeft = append(restLeft, l)
		}
	}
	restRight = make([]domain.Record, 0, len(right)-len(matches))
	for _, r := range right {
		if _, ok := matchedRight[r.Index]; !ok {
			restRight = append(restRight, r)
		}
	}

	return matches, restLeft, restRight, ambiguous
}

func groupByIdentifier(records []domain.Record) map[string][]domain.Record {
	groups := make(map[string][]domain.Record)
	for _, rec := range records {
		if rec.Identifier == "" {
			continue
		}
		groups[rec.Identifier] = append(groups[rec.Identifier], rec)
	}
	return groups
}
