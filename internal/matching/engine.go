package matching

import (
	"context"
	"log/slog"
	"sync"

	"RegistryLinker/internal/domain"
)

// Input carries everything a single match run consumes: the two
// normalized record sequences and the synonym table, all read-only for
// the duration of the run.
type Input struct {
	Left     []domain.Record
	Right    []domain.Record
	Synonyms map[string]string
}

// Engine sequences the matching phases: identifier linking, synonym
// harmonization, candidate prefiltering, consensus scoring, and global
// 1:1 assignment.
type Engine struct {
	cfg    Config
	scorer *Scorer
	policy AssignmentPolicy
	logger *slog.Logger
}

// NewEngine wires the scorer and assignment policy. A nil policy falls
// back to GreedyDescending.
func NewEngine(cfg Config, policy AssignmentPolicy, logger *slog.Logger) *Engine {
	if policy == nil {
		policy = GreedyDescending{}
	}
	return &Engine{
		cfg:    cfg,
		scorer: NewScorer(cfg),
		policy: policy,
		logger: logger,
	}
}

// scoringOutcome is the per-left-record result of the parallel phase.
type scoringOutcome struct {
	scored       bool
	hadCandidate bool
	passing      []CandidatePair
}

// Run executes one full match run. It aborts with a ConfigurationError or
// EmptyInputError before any matching; "no matches found" is a valid
// outcome, never an error.
func (e *Engine) Run(ctx context.Context, in Input) (*domain.Result, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	if len(in.Left) == 0 {
		return nil, &domain.EmptyInputError{Side: domain.SideLeft}
	}
	if len(in.Right) == 0 {
		return nil, &domain.EmptyInputError{Side: domain.SideRight}
	}

	result := &domain.Result{}

	left := e.excludeNameless(in.Left, &result.UnmatchedLeft)
	right := e.excludeNameless(in.Right, &result.UnmatchedRight)

	idMatches, restLeft, restRight, ambiguous := identifierPhase(left, right)
	result.Matches = append(result.Matches, idMatches...)
	result.AmbiguousIdentifiers = ambiguous
	e.debug("identifier phase done",
		"matches", len(idMatches),
		"ambiguous_identifiers", ambiguous,
		"left_remaining", len(restLeft),
		"right_remaining", len(restRight))

	harmonizer := NewHarmonizer(in.Synonyms)
	leftNames := harmonizeAll(harmonizer, restLeft)
	rightNames := harmonizeAll(harmonizer, restRight)

	outcomes := e.scoreAll(ctx, leftNames, rightNames)

	var provisional []CandidatePair
	rightSeen := make(map[int]struct{})
	for _, out := range outcomes {
		provisional = append(provisional, out.passing...)
		for _, p := range out.passing {
			rightSeen[p.Right] = struct{}{}
		}
	}

	accepted := e.policy.Resolve(provisional)
	e.debug("assignment done",
		"policy", e.policy.Name(),
		"provisional", len(provisional),
		"accepted", len(accepted))

	matchedLeft := make(map[int]struct{}, len(accepted))
	matchedRight := make(map[int]struct{}, len(accepted))
	for _, p := range accepted {
		result.Matches = append(result.Matches, domain.Match{
			Left:   restLeft[p.Left],
			Right:  restRight[p.Right],
			Origin: domain.OriginFuzzy,
			Scores: p.Scores,
		})
		matchedLeft[p.Left] = struct{}{}
		matchedRight[p.Right] = struct{}{}
	}

	for i, rec := range restLeft {
		if _, ok := matchedLeft[i]; ok {
			continue
		}
		result.UnmatchedLeft = append(result.UnmatchedLeft, domain.Unmatched{
			Record: rec,
			Reason: leftResidualReason(outcomes[i]),
		})
	}
	for i, rec := range restRight {
		if _, ok := matchedRight[i]; ok {
			continue
		}
		reason := domain.ReasonNoMatch
		if _, ok := rightSeen[i]; ok {
			reason = domain.ReasonOutscored
		}
		result.UnmatchedRight = append(result.UnmatchedRight, domain.Unmatched{Record: rec, Reason: reason})
	}

	e.debug("run done",
		"matches", len(result.Matches),
		"unmatched_left", len(result.UnmatchedLeft),
		"unmatched_right", len(result.UnmatchedRight))

	return result, nil
}

// scoreAll runs the candidate-generation-and-scoring unit for every left
// record across a worker pool. Workers read the shared right index and
// write only into their own outcome slot, so the phase needs no locking;
// the WaitGroup is the barrier before assignment.
func (e *Engine) scoreAll(ctx context.Context, leftNames, rightNames []string) []scoringOutcome {
	index := buildCandidateIndex(rightNames)
	outcomes := make([]scoringOutcome, len(leftNames))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < e.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = e.scoreOne(i, leftNames[i], rightNames, index)
			}
		}()
	}

	// A caller-level deadline stops scheduling further batches; work
	// already dispatched still completes.
	for i := range leftNames {
		if ctx.Err() != nil {
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

func (e *Engine) scoreOne(leftPos int, name string, rightNames []string, index *candidateIndex) scoringOutcome {
	out := scoringOutcome{scored: true}

	candidates := index.screen(newTokenSet(name), e.cfg.JaccardThreshold)
	if len(candidates) == 0 {
		return out
	}
	out.hadCandidate = true

	for _, rightPos := range candidates {
		bundle := e.scorer.Score(name, rightNames[rightPos])
		if !e.scorer.Consensus(bundle) {
			continue
		}
		out.passing = append(out.passing, CandidatePair{
			Left:   leftPos,
			Right:  rightPos,
			Scores: bundle,
		})
	}
	return out
}

func (e *Engine) excludeNameless(records []domain.Record, residuals *[]domain.Unmatched) []domain.Record {
	kept := make([]domain.Record, 0, len(records))
	for _, rec := range records {
		if rec.CanonicalName == "" {
			*residuals = append(*residuals, domain.Unmatched{Record: rec, Reason: domain.ReasonMissingName})
			e.debug("record excluded: missing canonical name", "side", rec.Side, "index", rec.Index, "raw", rec.RawName)
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

func harmonizeAll(h *Harmonizer, records []domain.Record) []string {
	names := make([]string, len(records))
	for i, rec := range records {
		names[i] = h.ApplyTokens(rec.CanonicalName)
	}
	return names
}

func leftResidualReason(out scoringOutcome) domain.UnmatchedReason {
	switch {
	case !out.scored:
		return domain.ReasonUnscored
	case !out.hadCandidate:
		return domain.ReasonNoCandidates
	case len(out.passing) == 0:
		return domain.ReasonConsensusFailed
	default:
		return domain.ReasonOutscored
	}
}

func (e *Engine) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
