package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"traitvote/internal/consensus"
)

// ErrRunNotFound is returned when no run matches the requested identifier.
var ErrRunNotFound = errors.New("run not found")

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SaveRun records a finished aggregation and its verdicts in one transaction.
// Missing identifiers and timestamps are filled in; tier counts are always
// derived from verdicts.
func (s *Store) SaveRun(ctx context.Context, run Run, verdicts []consensus.Verdict) (Run, error) {
	ctx = ensureContext(ctx)
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.ItemCount = len(verdicts)
	run.High, run.Medium, run.Low = 0, 0, 0
	for _, v := range verdicts {
		switch v.Tier {
		case consensus.TierHigh:
			run.High++
		case consensus.TierMedium:
			run.Medium++
		default:
			run.Low++
		}
	}

	panelJSON, err := json.Marshal(run.Panel)
	if err != nil {
		return Run{}, fmt.Errorf("encode panel: %w", err)
	}

	err = retryOnBusy(ctx, func() error {
		return s.insertRun(ctx, run, string(panelJSON), verdicts)
	})
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

func (s *Store) insertRun(ctx context.Context, run Run, panelJSON string, verdicts []consensus.Verdict) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, phase, panel_json, source, item_count, high_count, medium_count, low_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.Phase), panelJSON, nullableString(run.Source),
		run.ItemCount, run.High, run.Medium, run.Low,
		run.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO verdicts (run_id, position, item, label, agreement, cast_count, tier, votes_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare verdict insert: %w", err)
	}
	defer stmt.Close()

	for i, v := range verdicts {
		votes := make([]storedVote, 0, len(v.Votes))
		for _, vote := range v.Votes {
			votes = append(votes, storedVote{Source: vote.Source, Label: vote.Label, Present: vote.Present})
		}
		votesJSON, err := json.Marshal(votes)
		if err != nil {
			return fmt.Errorf("encode votes for %q: %w", v.Item, err)
		}
		if _, err := stmt.ExecContext(ctx, run.ID, i, v.Item, v.Label, v.Agreement, v.Cast, v.Tier.String(), string(votesJSON)); err != nil {
			return fmt.Errorf("insert verdict %q: %w", v.Item, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

const runColumns = `id, phase, panel_json, source, item_count, high_count, medium_count, low_count, created_at`

// ListRuns returns the most recent runs first. A non-positive limit returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun fetches a run by identifier. A unique identifier prefix is accepted.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	ctx = ensureContext(ctx)
	id = strings.TrimSpace(id)
	if id == "" {
		return Run{}, fmt.Errorf("%w: empty id", ErrRunNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\' ORDER BY id LIMIT 2`,
		id, escapeLike(id)+"%")
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, err
		}
		if run.ID == id {
			return run, nil
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("iterate runs: %w", err)
	}
	switch len(matches) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return Run{}, fmt.Errorf("run id prefix %q is ambiguous", id)
	}
}

// Verdicts returns the verdicts recorded for a run in their original order.
func (s *Store) Verdicts(ctx context.Context, runID string) ([]consensus.Verdict, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT item, label, agreement, cast_count, tier, votes_json
		 FROM verdicts WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query verdicts: %w", err)
	}
	defer rows.Close()

	var verdicts []consensus.Verdict
	for rows.Next() {
		var (
			v         consensus.Verdict
			tier      string
			votesJSON string
		)
		if err := rows.Scan(&v.Item, &v.Label, &v.Agreement, &v.Cast, &tier, &votesJSON); err != nil {
			return nil, fmt.Errorf("scan verdict: %w", err)
		}
		if v.Tier, err = consensus.ParseTier(tier); err != nil {
			return nil, fmt.Errorf("verdict %q: %w", v.Item, err)
		}
		var votes []storedVote
		if err := json.Unmarshal([]byte(votesJSON), &votes); err != nil {
			return nil, fmt.Errorf("decode votes for %q: %w", v.Item, err)
		}
		for _, vote := range votes {
			v.Votes = append(v.Votes, consensus.SourceVote{Source: vote.Source, Label: vote.Label, Present: vote.Present})
		}
		verdicts = append(verdicts, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verdicts: %w", err)
	}
	return verdicts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run       Run
		phase     string
		panelJSON string
		source    sql.NullString
		created   string
	)
	if err := row.Scan(&run.ID, &phase, &panelJSON, &source, &run.ItemCount,
		&run.High, &run.Medium, &run.Low, &created); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Phase = consensus.Phase(phase)
	run.Source = source.String
	if err := json.Unmarshal([]byte(panelJSON), &run.Panel); err != nil {
		return Run{}, fmt.Errorf("decode panel for run %s: %w", run.ID, err)
	}
	ts, err := time.Parse(timeLayout, created)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at for run %s: %w", run.ID, err)
	}
	run.CreatedAt = ts
	return run, nil
}

func nullableString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

// escapeLike makes value match literally inside a LIKE pattern using '\' as
// the escape character.
func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
