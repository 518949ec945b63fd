package matching

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"RegistryLinker/internal/domain"
)

func newTestEngine(cfg Config) *Engine {
	return NewEngine(cfg, GreedyDescending{}, nil)
}

func TestEngineRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	e := newTestEngine(DefaultConfig())
	ctx := context.Background()

	_, err := e.Run(ctx, Input{Right: []domain.Record{rec(domain.SideRight, 0, "aspirin", "")}})
	var emptyErr *domain.EmptyInputError
	if !errors.As(err, &emptyErr) || emptyErr.Side != domain.SideLeft {
		t.Fatalf("expected left EmptyInputError, got %v", err)
	}

	_, err = e.Run(ctx, Input{Left: []domain.Record{rec(domain.SideLeft, 0, "aspirin", "")}})
	if !errors.As(err, &emptyErr) || emptyErr.Side != domain.SideRight {
		t.Fatalf("expected right EmptyInputError, got %v", err)
	}
}

func TestEngineRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.ConsensusCount = 5
	e := newTestEngine(cfg)

	_, err := e.Run(context.Background(), Input{
		Left:  []domain.Record{rec(domain.SideLeft, 0, "aspirin", "")},
		Right: []domain.Record{rec(domain.SideRight, 0, "aspirin", "")},
	})

	var cfgErr *domain.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

// An identifier match wins regardless of how dissimilar the names are.
func TestEngineIdentifierPrecedence(t *testing.T) {
	t.Parallel()

	e := newTestEngine(DefaultConfig())
	result, err := e.Run(context.Background(), Input{
		Left:  []domain.Record{rec(domain.SideLeft, 0, "foo", "RX12345")},
		Right: []domain.Record{rec(domain.SideRight, 0, "bar123", "RX12345")},
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(result.Matches))
	}
	m := result.Matches[0]
	if m.Origin != domain.OriginIdentifier {
		t.Fatalf("expected identifier origin, got %s", m.Origin)
	}
	if m.Scores != domain.PerfectScore() {
		t.Fatalf("expected sentinel perfect score, got %+v", m.Scores)
	}
}

func TestEngineFuzzyMatchWithSynonyms(t *testing.T) {
	t.Parallel()

	e := newTestEngine(DefaultConfig())
	result, err := e.Run(context.Background(), Input{
		Left:     []domain.Record{rec(domain.SideLeft, 0, "metformin hydrochloride", "")},
		Right:    []domain.Record{rec(domain.SideRight, 0, "metformin hcl", "")},
		Synonyms: map[string]string{"hcl": "hydrochloride"},
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d (unmatched left: %+v)", len(result.Matches), result.UnmatchedLeft)
	}
	m := result.Matches[0]
	if m.Origin != domain.OriginFuzzy {
		t.Fatalf("expected fuzzy origin, got %s", m.Origin)
	}
	if m.Left.RawName != "metformin hydrochloride" || m.Right.RawName != "metformin hcl" {
		t.Fatalf("unexpected pair: %q/%q", m.Left.RawName, m.Right.RawName)
	}
}

func TestEngineNoCandidates(t *testing.T) {
	t.Parallel()

	e := newTestEngine(DefaultConfig())
	result, err := e.Run(context.Background(), Input{
		Left:  []domain.Record{rec(domain.SideLeft, 0, "aspirin", "")},
		Right: []domain.Record{rec(domain.SideRight, 0, "chemotherapy agent x", "")},
	})
	if err != nil {
		t.Fatalf("no matches is a valid outcome, got error: %v", err)
	}

	if len(result.Matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(result.Matches))
	}
	if len(result.UnmatchedLeft) != 1 || result.UnmatchedLeft[0].Reason != domain.ReasonNoCandidates {
		t.Fatalf("expected no_candidates residual, got %+v", result.UnmatchedLeft)
	}
	if len(result.UnmatchedRight) != 1 || result.UnmatchedRight[0].Reason != domain.ReasonNoMatch {
		t.Fatalf("expected right no_match residual, got %+v", result.UnmatchedRight)
	}
}

func TestEngineConsensusFailed(t *testing.T) {
	t.Parallel()

	// One shared token gets the pair past the permissive prefilter, but
	// every metric stays far below its threshold.
	e := newTestEngine(DefaultConfig())
	result, err := e.Run(context.Background(), Input{
		Left:  []domain.Record{rec(domain.SideLeft, 0, "zinc acetate", "")},
		Right: []domain.Record{rec(domain.SideRight, 0, "chemotherapy zinc agent", "")},
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Matches) != 0 {
		t.Fatalf("expected no matches, got %+v", result.Matches)
	}
	if len(result.UnmatchedLeft) != 1 || result.UnmatchedLeft[0].Reason != domain.ReasonConsensusFailed {
		t.Fatalf("expected consensus_failed residual, got %+v", result.UnmatchedLeft)
	}
}

func TestEngineMissingNameExcludedNotFatal(t *testing.T) {
	t.Parallel()

	e := newTestEngine(DefaultConfig())
	result, err := e.Run(context.Background(), Input{
		Left: []domain.Record{
			rec(domain.SideLeft, 0, "", ""),
			rec(domain.SideLeft, 1, "aspirin", ""),
		},
		Right: []domain.Record{rec(domain.SideRight, 0, "aspirin", "")},
	})
	if err != nil {
		t.Fatalf("missing name must not abort the run: %v", err)
	}

	if len(result.Matches) != 1 {
		t.Fatalf("expected the valid record to match, got %d", len(result.Matches))
	}
	if len(result.UnmatchedLeft) != 1 || result.UnmatchedLeft[0].Reason != domain.ReasonMissingName {
		t.Fatalf("expected missing_name residual, got %+v", result.UnmatchedLeft)
	}
}

func TestEngineGlobalOneToOne(t *testing.T) {
	t.Parallel()

	e := newTestEngine(DefaultConfig())
	result, err := e.Run(context.Background(), Input{
		Left: []domain.Record{
			rec(domain.SideLeft, 0, "paracetamol", ""),
			rec(domain.SideLeft, 1, "paracetamol", ""),
			rec(domain.SideLeft, 2, "ibuprofen", "RX7"),
		},
		Right: []domain.Record{
			rec(domain.SideRight, 0, "paracetamol", ""),
			rec(domain.SideRight, 1, "ibuprofen", "RX7"),
		},
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(result.Matches))
	}

	seenLeft := map[int]bool{}
	seenRight := map[int]bool{}
	for _, m := range result.Matches {
		if seenLeft[m.Left.Index] {
			t.Fatalf("left record %d matched twice", m.Left.Index)
		}
		if seenRight[m.Right.Index] {
			t.Fatalf("right record %d matched twice", m.Right.Index)
		}
		seenLeft[m.Left.Index] = true
		seenRight[m.Right.Index] = true
	}

	// The duplicate left name loses its only partner to the first copy.
	if len(result.UnmatchedLeft) != 1 || result.UnmatchedLeft[0].Reason != domain.ReasonOutscored {
		t.Fatalf("expected outscored residual, got %+v", result.UnmatchedLeft)
	}
}

func TestEngineDeterministic(t *testing.T) {
	t.Parallel()

	input := Input{
		Left: []domain.Record{
			rec(domain.SideLeft, 0, "paracetamol", ""),
			rec(domain.SideLeft, 1, "paracetamol tablet", ""),
			rec(domain.SideLeft, 2, "insulin glargine", ""),
			rec(domain.SideLeft, 3, "aspirin", "RX1"),
		},
		Right: []domain.Record{
			rec(domain.SideRight, 0, "paracetamol", ""),
			rec(domain.SideRight, 1, "insulin glargine", ""),
			rec(domain.SideRight, 2, "acetylsalicylic acid", "RX1"),
		},
		Synonyms: map[string]string{"paracetamolum": "paracetamol"},
	}

	cfg := DefaultConfig()
	cfg.Workers = 8

	first, err := newTestEngine(cfg).Run(context.Background(), input)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := newTestEngine(cfg).Run(context.Background(), input)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reruns diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

// firstListedPolicy accepts passing pairs in plain enumeration order,
// ignoring scores. Exists to prove the assignment seam is swappable.
type firstListedPolicy struct{}

func (firstListedPolicy) Name() string { return "first_listed" }

func (firstListedPolicy) Resolve(pairs []CandidatePair) []CandidatePair {
	usedLeft := map[int]bool{}
	usedRight := map[int]bool{}
	accepted := make([]CandidatePair, 0, len(pairs))
	for _, p := range pairs {
		if usedLeft[p.Left] || usedRight[p.Right] {
			continue
		}
		usedLeft[p.Left] = true
		usedRight[p.Right] = true
		accepted = append(accepted, p)
	}
	return accepted
}

func TestEngineAcceptsAlternateAssignmentPolicy(t *testing.T) {
	t.Parallel()

	input := Input{
		Left: []domain.Record{rec(domain.SideLeft, 0, "paracetamol", "")},
		Right: []domain.Record{
			rec(domain.SideRight, 0, "paracetamol tab", ""),
			rec(domain.SideRight, 1, "paracetamol", ""),
		},
	}

	greedy, err := newTestEngine(DefaultConfig()).Run(context.Background(), input)
	if err != nil {
		t.Fatalf("greedy run failed: %v", err)
	}
	if len(greedy.Matches) != 1 || greedy.Matches[0].Right.Index != 1 {
		t.Fatalf("greedy must pick the exact name: %+v", greedy.Matches)
	}

	firstListed, err := NewEngine(DefaultConfig(), firstListedPolicy{}, nil).Run(context.Background(), input)
	if err != nil {
		t.Fatalf("first-listed run failed: %v", err)
	}
	if len(firstListed.Matches) != 1 || firstListed.Matches[0].Right.Index != 0 {
		t.Fatalf("custom policy not applied: %+v", firstListed.Matches)
	}
}

func TestEngineCancelledRunMarksUnscoredLefts(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestEngine(DefaultConfig())
	result, err := e.Run(ctx, Input{
		Left: []domain.Record{
			rec(domain.SideLeft, 0, "aspirin", ""),
			rec(domain.SideLeft, 1, "heparin", ""),
		},
		Right: []domain.Record{rec(domain.SideRight, 0, "aspirin", "")},
	})
	if err != nil {
		t.Fatalf("cancelled run still returns its partial result: %v", err)
	}

	if len(result.Matches) != 0 {
		t.Fatalf("nothing was scored, got %+v", result.Matches)
	}
	if len(result.UnmatchedLeft) != 2 {
		t.Fatalf("expected both lefts residual, got %+v", result.UnmatchedLeft)
	}
	for _, u := range result.UnmatchedLeft {
		if u.Reason != domain.ReasonUnscored {
			t.Fatalf("unscheduled left must be marked unscored, got %q", u.Reason)
		}
	}
	if len(result.UnmatchedRight) != 1 || result.UnmatchedRight[0].Reason != domain.ReasonNoMatch {
		t.Fatalf("unexpected right residuals: %+v", result.UnmatchedRight)
	}
}

func TestEngineAmbiguousIdentifierFallsThroughToFuzzy(t *testing.T) {
	t.Parallel()

	e := newTestEngine(DefaultConfig())
	result, err := e.Run(context.Background(), Input{
		Left: []domain.Record{
			rec(domain.SideLeft, 0, "enoxaparin sodium", "RX5"),
			rec(domain.SideLeft, 1, "enoxaparin", "RX5"),
		},
		Right: []domain.Record{
			rec(domain.SideRight, 0, "enoxaparin sodium", "RX5"),
		},
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.AmbiguousIdentifiers != 1 {
		t.Fatalf("expected 1 ambiguous identifier, got %d", result.AmbiguousIdentifiers)
	}
	if len(result.Matches) != 1 || result.Matches[0].Origin != domain.OriginFuzzy {
		t.Fatalf("deferred records must match by name: %+v", result.Matches)
	}
	if result.Matches[0].Right.Index != 0 {
		t.Fatalf("unexpected right record: %+v", result.Matches[0].Right)
	}
}
