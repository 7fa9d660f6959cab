package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aevon-lab/ledgerline/internal/core/reconciliation"
	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

func insertResults(ctx context.Context, q txQuerier, run reconciliation.Run) error {
	if len(run.Results) == 0 {
		return nil
	}
	stmt, err := q.PrepareContext(ctx, queryInsertReconciliationResult)
	if err != nil {
		return fmt.Errorf("append reconciliation results: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range run.Results {
		labels, err := marshalJSONMap(r.DimensionLabels)
		if err != nil {
			return err
		}
		notes, err := marshalJSONMap(r.Notes)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			run.RunID,
			run.ExecutedAt,
			run.RuleSetVersion,
			r.RuleID,
			string(r.Category),
			string(r.Status),
			r.Severity.String(),
			r.Identity.CIK,
			string(r.Identity.StatementType),
			r.Identity.FiscalYear,
			string(r.Identity.FiscalPeriod),
			r.Identity.VersionSequence,
			nullDecimal(r.ExpectedValue),
			nullDecimal(r.ActualValue),
			nullDecimal(r.Delta),
			nullString(r.DimensionKey),
			labels,
			notes,
		); err != nil {
			return fmt.Errorf("append reconciliation results: insert %s for %s: %w", r.RuleID, r.Identity, err)
		}
	}
	return nil
}

// AppendResults implements storage.ReconciliationLedger.
func (a *Adapter) AppendResults(ctx context.Context, run reconciliation.Run) error {
	if len(run.Results) == 0 {
		return nil
	}
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append reconciliation results: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := insertResults(ctx, tx, run); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append reconciliation results: commit: %w", err)
	}
	slog.Debug("[Postgres] Appended reconciliation results", "run_id", run.RunID, "results", len(run.Results))
	return nil
}

// AppendResultsWithCheckpoint appends run and advances checkpoint to cursor in
// the same transaction. The checkpoint row is locked first so an out-of-order
// writer cannot move it backwards.
func (a *Adapter) AppendResultsWithCheckpoint(ctx context.Context, run reconciliation.Run, checkpoint string, cursor int64) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append with checkpoint: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var durableCursor int64
	err = tx.QueryRowContext(ctx, querySelectCheckpointForUpdate, checkpoint).Scan(&durableCursor)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err = tx.ExecContext(ctx, queryInitCheckpointRow, checkpoint, a.now()); err != nil {
			return fmt.Errorf("append with checkpoint: init checkpoint row: %w", err)
		}
		err = tx.QueryRowContext(ctx, querySelectCheckpointForUpdate, checkpoint).Scan(&durableCursor)
		if err != nil {
			return fmt.Errorf("append with checkpoint: read initialized checkpoint for update: %w", err)
		}
	}
	if err != nil {
		return fmt.Errorf("append with checkpoint: read checkpoint for update: %w", err)
	}

	if cursor <= durableCursor {
		slog.Warn("[Postgres] Skipping stale reconciliation append",
			"checkpoint", checkpoint,
			"cursor", cursor,
			"durable_cursor", durableCursor,
			"results", len(run.Results))
		return nil
	}

	if err := insertResults(ctx, tx, run); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, queryUpdateCheckpoint, cursor, a.now(), checkpoint)
	if err != nil {
		return fmt.Errorf("append with checkpoint: write checkpoint: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("append with checkpoint: check checkpoint write: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("append with checkpoint: checkpoint row missing (name=%s)", checkpoint)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append with checkpoint: commit: %w", err)
	}

	slog.Info("[Postgres] Reconciliation results appended",
		"run_id", run.RunID,
		"results", len(run.Results),
		"checkpoint", checkpoint,
		"cursor", cursor)
	return nil
}

// ReadCheckpoint returns the durable cursor of checkpoint, or 0 when it was
// never written.
func (a *Adapter) ReadCheckpoint(ctx context.Context, checkpoint string) (int64, error) {
	var cursor int64
	err := a.db.QueryRowContext(ctx, queryReadCheckpoint, checkpoint).Scan(&cursor)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read checkpoint %s: %w", checkpoint, err)
	}
	return cursor, nil
}

// ListForStatement implements storage.ReconciliationLedger. A nil runID
// returns results from every run.
func (a *Adapter) ListForStatement(ctx context.Context, identity statement.Identity, runID *string, limit int) ([]reconciliation.Result, error) {
	args := append(identityArgs(identity), nullString(runID), limit)
	rows, err := a.stmtResultsStatement.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliation results: %w", err)
	}
	return collectResults(rows)
}

// ListForWindow implements storage.ReconciliationLedger.
func (a *Adapter) ListForWindow(ctx context.Context, cik string, statementType statement.StatementType, fiscalYearFrom, fiscalYearTo int, limit int) ([]reconciliation.Result, error) {
	rows, err := a.stmtResultsWindow.QueryContext(ctx, cik, string(statementType), fiscalYearFrom, fiscalYearTo, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliation window: %w", err)
	}
	return collectResults(rows)
}

func collectResults(rows rowIterator) ([]reconciliation.Result, error) {
	defer rows.Close()
	var out []reconciliation.Result
	for rows.Next() {
		r, err := scanResultRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconciliation results: %w", err)
	}
	return out, nil
}
