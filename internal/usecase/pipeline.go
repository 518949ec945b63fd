package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"RegistryLinker/internal/domain"
	"RegistryLinker/internal/infrastructure/report"
	"RegistryLinker/internal/matching"
	"RegistryLinker/internal/ports"
)

// PipelineDeps wires all driven adapters into the linking pipeline.
type PipelineDeps struct {
	Source     ports.RecordSource
	Synonyms   ports.SynonymSource
	Engine     *matching.Engine
	Repository ports.MatchRepository
	Report     ports.ReportSink
	Logger     *slog.Logger
}

// Pipeline implements the registry-linking workflow: load both sides,
// run the match engine, persist, report.
type Pipeline struct {
	source     ports.RecordSource
	synonyms   ports.SynonymSource
	engine     *matching.Engine
	repository ports.MatchRepository
	report     ports.ReportSink
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:     deps.Source,
		synonyms:   deps.Synonyms,
		engine:     deps.Engine,
		repository: deps.Repository,
		report:     deps.Report,
		logger:     deps.Logger,
	}
}

// Run executes one full linking run and returns the result for callers
// that want programmatic access on top of the configured sinks.
func (p *Pipeline) Run(ctx context.Context) (*domain.Result, error) {
	if p.source == nil || p.engine == nil {
		return nil, fmt.Errorf("pipeline is missing source or engine")
	}

	left, err := p.source.Load(ctx, domain.SideLeft)
	if err != nil {
		return nil, fmt.Errorf("load left registry: %w", err)
	}

	right, err := p.source.Load(ctx, domain.SideRight)
	if err != nil {
		return nil, fmt.Errorf("load right registry: %w", err)
	}

	table := map[string]string{}
	if p.synonyms != nil {
		table, err = p.synonyms.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load synonyms: %w", err)
		}
	}

	p.info("matching", "left_records", len(left), "right_records", len(right), "synonyms", len(table))

	result, err := p.engine.Run(ctx, matching.Input{
		Left:     left,
		Right:    right,
		Synonyms: table,
	})
	if err != nil {
		return nil, fmt.Errorf("match run: %w", err)
	}

	summary := report.Summarize(result)
	p.info("run complete",
		"matched", summary.Matched,
		"identifier_matches", summary.IdentifierMatches,
		"fuzzy_matches", summary.FuzzyMatches,
		"ambiguous_identifiers", summary.AmbiguousIdentifiers,
		"left_no_candidates", summary.UnmatchedLeft[domain.ReasonNoCandidates],
		"left_consensus_failed", summary.UnmatchedLeft[domain.ReasonConsensusFailed],
		"left_outscored", summary.UnmatchedLeft[domain.ReasonOutscored],
		"left_missing_name", summary.UnmatchedLeft[domain.ReasonMissingName],
		"right_unmatched", len(result.UnmatchedRight))

	if p.repository != nil {
		if err := p.repository.SaveRun(ctx, result); err != nil {
			return nil, fmt.Errorf("persist run: %w", err)
		}
	}

	if p.report != nil {
		if err := p.report.Write(ctx, result); err != nil {
			return nil, fmt.Errorf("write report: %w", err)
		}
	}

	return result, nil
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}
