package domain

// Side identifies which registry a record came from.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Record is a core entity describing one normalized drug entry from either
// registry. Records are produced once per run by the dataset readers and
// are never mutated by the matching engine.
type Record struct {
	// Index is the record position inside its source sequence; together
	// with Side it identifies the record for the whole run.
	Index         int
	RawName       string
	CanonicalName string
	// Identifier is an optional standardized cross-registry code
	// (e.g. an RxNorm concept ID). Empty when the registry has none.
	Identifier string
	Side       Side
	// Metadata carries opaque passthrough fields (approval date,
	// indication, sponsor). The matching logic never inspects it.
	Metadata map[string]string
}

// MatchOrigin tells which phase produced a match.
type MatchOrigin string

const (
	OriginIdentifier MatchOrigin = "identifier"
	OriginFuzzy      MatchOrigin = "fuzzy"
)

// ScoreBundle holds the three independent similarity metrics computed for
// a candidate pair. Alignment is on a [0,1] scale, TokenSet and EditRatio
// on [0,100].
type ScoreBundle struct {
	Alignment float64
	TokenSet  float64
	EditRatio float64
}

// PerfectScore is the sentinel bundle attached to identifier matches.
func PerfectScore() ScoreBundle {
	return ScoreBundle{Alignment: 1.0, TokenSet: 100, EditRatio: 100}
}

// Match is a finalized 1:1 correspondence between a left and a right record.
type Match struct {
	Left   Record
	Right  Record
	Origin MatchOrigin
	Scores ScoreBundle
}

// UnmatchedReason explains why a record ended the run without a partner.
type UnmatchedReason string

const (
	// ReasonMissingName marks records excluded before matching because the
	// reader produced no canonical name.
	ReasonMissingName UnmatchedReason = "missing_name"
	// ReasonNoCandidates means no opposite record survived the token
	// prefilter; tune the jaccard threshold downward to widen the net.
	ReasonNoCandidates UnmatchedReason = "no_candidates"
	// ReasonConsensusFailed means candidates existed but none reached the
	// 2-of-3 metric consensus; tune the metric thresholds instead.
	ReasonConsensusFailed UnmatchedReason = "consensus_failed"
	// ReasonOutscored means the record was part of at least one passing
	// pair that lost to a higher-scoring match during assignment.
	ReasonOutscored UnmatchedReason = "outscored"
	// ReasonNoMatch covers right records never claimed by any left record.
	ReasonNoMatch UnmatchedReason = "no_match"
	// ReasonUnscored marks left records the run never scored because it
	// was stopped early, e.g. by context cancellation.
	ReasonUnscored UnmatchedReason = "unscored"
)

// Unmatched pairs a residual record with its diagnostic reason.
type Unmatched struct {
	Record Record
	Reason UnmatchedReason
}

// Result is the sole output of a match run: the ordered match table plus
// both residual sequences, sufficient for counting, tabular output, and
// synonym mining downstream.
type Result struct {
	Matches        []Match
	UnmatchedLeft  []Unmatched
	UnmatchedRight []Unmatched
	// AmbiguousIdentifiers counts identifier values that were present on
	// both sides but duplicated on at least one; those records fell
	// through to the fuzzy phase.
	AmbiguousIdentifiers int
}
