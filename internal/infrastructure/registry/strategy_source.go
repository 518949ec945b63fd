package registry

import (
	"context"
	"fmt"
	"log/slog"

	"RegistryLinker/internal/config"
	"RegistryLinker/internal/dataset"
	"RegistryLinker/internal/domain"
	"RegistryLinker/internal/ports"
)

// StrategySource implements RecordSource via registered dataset readers.
type StrategySource struct {
	registry *dataset.Registry
	datasets config.DatasetsConfig
	logger   *slog.Logger
}

var _ ports.RecordSource = (*StrategySource)(nil)

// NewStrategySource wires the reader registry with config-defined datasets.
func NewStrategySource(reg *dataset.Registry, datasets config.DatasetsConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		datasets: datasets,
		logger:   log,
	}
}

// Load resolves the configured reader for one side and executes it.
func (s *StrategySource) Load(ctx context.Context, side domain.Side) ([]domain.Record, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("dataset registry is not configured")
	}

	cfg := s.datasets.Left
	if side == domain.SideRight {
		cfg = s.datasets.Right
	}

	reader, err := s.registry.Resolve(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", cfg.Name, err)
	}

	records, err := reader.Read(ctx, dataset.Request{
		Side:     side,
		Name:     cfg.Name,
		Location: cfg.Location,
		Options:  cfg.Options,
	})
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", cfg.Name, err)
	}

	s.debug("dataset loaded", "dataset", cfg.Name, "side", side, "records", len(records))
	return records, nil
}

func (s *StrategySource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
