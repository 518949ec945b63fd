package matching

import (
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/agnivade/levenshtein"

	"RegistryLinker/internal/domain"
)

// Scorer computes the three-metric score bundle for a candidate pair and
// applies the consensus rule. All three metrics are always computed so
// the bundle stays complete for diagnostics even when only two drive the
// pass.
type Scorer struct {
	cfg       Config
	alignment *metrics.JaroWinkler
}

// NewScorer builds a scorer with run-scoped thresholds.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg, alignment: metrics.NewJaroWinkler()}
}

// Score computes the full bundle for one pair of canonical names.
func (s *Scorer) Score(a, b string) domain.ScoreBundle {
	return domain.ScoreBundle{
		Alignment: strutil.Similarity(a, b, s.alignment),
		TokenSet:  tokenSetRatio(a, b),
		EditRatio: editRatio(a, b),
	}
}

// Consensus reports whether at least ConsensusCount of the three metrics
// meet or exceed their thresholds.
func (s *Scorer) Consensus(bundle domain.ScoreBundle) bool {
	passed := 0
	if bundle.Alignment >= s.cfg.AlignmentThreshold {
		passed++
	}
	if bundle.TokenSet >= s.cfg.TokenSetThreshold {
		passed++
	}
	if bundle.EditRatio >= s.cfg.EditRatioThreshold {
		passed++
	}
	return passed >= s.cfg.ConsensusCount
}

// editRatio is the normalized edit-distance similarity on a [0,100]
// scale: 100 * (1 - distance/longerLength).
func editRatio(a, b string) float64 {
	if a == b {
		return 100
	}
	longer := len([]rune(a))
	if lb := len([]rune(b)); lb > longer {
		longer = lb
	}
	if longer == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(dist)/float64(longer))
}

// tokenSetRatio is an order-insensitive similarity on a [0,100] scale,
// tolerant of extra or missing descriptive tokens. Both token sets are
// decomposed into the shared core and the two difference tails; the
// result is the best edit ratio among the three recombinations, so a
// name fully contained in the other scores 100.
func tokenSetRatio(a, b string) float64 {
	aTokens := uniqueSorted(strings.Fields(a))
	bTokens := uniqueSorted(strings.Fields(b))

	if len(aTokens) == 0 && len(bTokens) == 0 {
		return 100
	}
	if len(aTokens) == 0 || len(bTokens) == 0 {
		return 0
	}

	inB := make(map[string]struct{}, len(bTokens))
	for _, t := range bTokens {
		inB[t] = struct{}{}
	}

	var core, diffA []string
	for _, t := range aTokens {
		if _, ok := inB[t]; ok {
			core = append(core, t)
		} else {
			diffA = append(diffA, t)
		}
	}
	inCore := make(map[string]struct{}, len(core))
	for _, t := range core {
		inCore[t] = struct{}{}
	}
	var diffB []string
	for _, t := range bTokens {
		if _, ok := inCore[t]; !ok {
			diffB = append(diffB, t)
		}
	}

	shared := strings.Join(core, " ")
	full1 := strings.TrimSpace(shared + " " + strings.Join(diffA, " "))
	full2 := strings.TrimSpace(shared + " " + strings.Join(diffB, " "))

	best := editRatio(full1, full2)
	if len(core) > 0 {
		if r := editRatio(shared, full1); r > best {
			best = r
		}
		if r := editRatio(shared, full2); r > best {
			best = r
		}
	}
	return best
}

func uniqueSorted(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
