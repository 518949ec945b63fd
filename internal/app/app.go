package app

import (
	"context"
	"log/slog"

	"RegistryLinker/internal/config"
	"RegistryLinker/internal/dataset"
	"RegistryLinker/internal/infrastructure/registry"
	"RegistryLinker/internal/infrastructure/report"
	"RegistryLinker/internal/infrastructure/storage"
	"RegistryLinker/internal/infrastructure/synonyms"
	"RegistryLinker/internal/logging"
	"RegistryLinker/internal/matching"
	"RegistryLinker/internal/ports"
	"RegistryLinker/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	readers := dataset.NewRegistry()
	readers.Register(registry.NewCSVReader())
	readers.Register(registry.NewHTMLReader(nil))

	source := registry.NewStrategySource(readers, cfg.Datasets, baseLogger.With("component", "source"))
	synonymSource := synonyms.NewYAMLSource(cfg.Synonyms.Path)

	engine := matching.NewEngine(
		cfg.Matching.Core(),
		matching.GreedyDescending{},
		baseLogger.With("component", "engine"),
	)

	var repository ports.MatchRepository
	if cfg.Database.DSN != "" {
		db, err := storage.Open(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		repository = storage.NewPostgresRepository(db)
	}

	var sink ports.ReportSink
	if cfg.Output.Path != "" {
		sink = report.NewCSVWriter(cfg.Output.Path)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Synonyms:   synonymSource,
		Engine:     engine,
		Repository: repository,
		Report:     sink,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, pipeline: pipeline}, nil
}

// Run performs a single linking run.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	_, err := a.pipeline.Run(ctx)
	return err
}
