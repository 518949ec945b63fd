package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"RegistryLinker/internal/domain"
	"RegistryLinker/internal/ports"
)

// PostgresRepository persists match runs into Postgres for audit and
// downstream synonym mining.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.MatchRepository = (*PostgresRepository)(nil)

// Open connects to Postgres and verifies the connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveRun inserts the run summary and one row per match in a single
// transaction.
func (r *PostgresRepository) SaveRun(ctx context.Context, result *domain.Result) error {
	if r.db == nil {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer tx.Rollback()

	var runID int64
	err = r.builder.
		Insert("match_runs").
		Columns("matched", "unmatched_left", "unmatched_right", "ambiguous_identifiers").
		Values(len(result.Matches), len(result.UnmatchedLeft), len(result.UnmatchedRight), result.AmbiguousIdentifiers).
		Suffix("RETURNING id").
		RunWith(tx).
		QueryRowContext(ctx).
		Scan(&runID)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, m := range result.Matches {
		insert := r.builder.
			Insert("drug_matches").
			Columns(
				"run_id", "origin",
				"left_raw_name", "left_canonical_name", "left_identifier",
				"right_raw_name", "right_canonical_name", "right_identifier",
				"alignment_score", "token_set_score", "edit_ratio_score",
			).
			Values(
				runID, string(m.Origin),
				m.Left.RawName, m.Left.CanonicalName, m.Left.Identifier,
				m.Right.RawName, m.Right.CanonicalName, m.Right.Identifier,
				m.Scores.Alignment, m.Scores.TokenSet, m.Scores.EditRatio,
			)
		if _, err := insert.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("insert match %q/%q: %w", m.Left.CanonicalName, m.Right.CanonicalName, err)
		}
	}

	for _, u := range result.UnmatchedLeft {
		if err := r.insertResidual(ctx, tx, runID, u); err != nil {
			return err
		}
	}
	for _, u := range result.UnmatchedRight {
		if err := r.insertResidual(ctx, tx, runID, u); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}

	return nil
}

func (r *PostgresRepository) insertResidual(ctx context.Context, tx *sql.Tx, runID int64, u domain.Unmatched) error {
	insert := r.builder.
		Insert("unmatched_records").
		Columns("run_id", "side", "raw_name", "canonical_name", "identifier", "reason").
		Values(runID, string(u.Record.Side), u.Record.RawName, u.Record.CanonicalName, u.Record.Identifier, string(u.Reason))
	if _, err := insert.RunWith(tx).ExecContext(ctx); err != nil {
		return fmt.Errorf("insert residual %q: %w", u.Record.CanonicalName, err)
	}
	return nil
}
