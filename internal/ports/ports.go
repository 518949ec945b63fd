package ports

import (
	"context"

	"RegistryLinker/internal/domain"
)

// RecordSource loads one side's normalized record sequence from a
// configured registry dataset.
type RecordSource interface {
	Load(ctx context.Context, side domain.Side) ([]domain.Record, error)
}

// SynonymSource supplies the curated alias table applied before fuzzy
// comparison. Loaded once per run, immutable afterwards.
type SynonymSource interface {
	Load(ctx context.Context) (map[string]string, error)
}

// MatchRepository persists run results for audit and later synonym mining.
type MatchRepository interface {
	SaveRun(ctx context.Context, result *domain.Result) error
}

// ReportSink renders the final match table and residuals for the user.
type ReportSink interface {
	Write(ctx context.Context, result *domain.Result) error
}
