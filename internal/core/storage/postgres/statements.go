package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aevon-lab/ledgerline/internal/core/facts"
	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

// txQuerier is the subset of *sql.Tx the write helpers need.
type txQuerier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

func (a *Adapter) upsertVersion(ctx context.Context, q txQuerier, v *statement.StatementVersion) (int64, error) {
	var payloadJSON []byte
	if v.NormalizedPayload != nil {
		data, err := json.Marshal(v.NormalizedPayload)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal payload of %s: %w", v.Identity(), err)
		}
		payloadJSON = data
	}
	var ingestSeq int64
	err := q.QueryRowContext(ctx, queryUpsertStatementVersion,
		v.CIK,
		string(v.StatementType),
		string(v.AccountingStandard),
		v.StatementDate,
		v.FiscalYear,
		string(v.FiscalPeriod),
		v.Currency,
		v.VersionSequence,
		v.AccessionID,
		sql.NullString{String: v.PayloadVersion, Valid: v.PayloadVersion != ""},
		payloadJSON,
		a.now(),
	).Scan(&ingestSeq)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert statement version %s: %w", v.Identity(), err)
	}
	return ingestSeq, nil
}

// UpsertStatementVersions writes every version in one transaction and sets
// IngestSeq on each element of versions.
func (a *Adapter) UpsertStatementVersions(ctx context.Context, versions []statement.StatementVersion) error {
	if len(versions) == 0 {
		return nil
	}
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert statement versions: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	seqs := make([]int64, len(versions))
	for i := range versions {
		if seqs[i], err = a.upsertVersion(ctx, tx, &versions[i]); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert statement versions: commit: %w", err)
	}
	for i := range versions {
		versions[i].IngestSeq = seqs[i]
	}
	slog.Debug("[Postgres] Upserted statement versions", "count", len(versions))
	return nil
}

// ListStatementVersionsForCompany implements storage.StatementVersionStore.
func (a *Adapter) ListStatementVersionsForCompany(
	ctx context.Context,
	cik string,
	statementType statement.StatementType,
	fiscalYear int,
	fiscalPeriod *statement.FiscalPeriod,
) ([]statement.StatementVersion, error) {
	var period sql.NullString
	if fiscalPeriod != nil {
		period = sql.NullString{String: string(*fiscalPeriod), Valid: true}
	}
	rows, err := a.stmtVersionsCompany.QueryContext(ctx, cik, string(statementType), fiscalYear, period)
	if err != nil {
		return nil, fmt.Errorf("failed to query statement versions: %w", err)
	}
	return collectVersions(rows)
}

// ListStatementVersionsAfterCursor implements storage.StatementVersionStore.
func (a *Adapter) ListStatementVersionsAfterCursor(ctx context.Context, cursor int64, limit int) ([]statement.StatementVersion, error) {
	rows, err := a.stmtVersionsCursor.QueryContext(ctx, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query statement versions by cursor: %w", err)
	}
	return collectVersions(rows)
}

func collectVersions(rows rowIterator) ([]statement.StatementVersion, error) {
	defer rows.Close()
	var out []statement.StatementVersion
	for rows.Next() {
		v, err := scanVersionRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statement versions: %w", err)
	}
	return out, nil
}

// SaveNormalizedStatement upserts the version, replaces its facts and records
// the DQ run in one transaction. version.IngestSeq is set on success.
func (a *Adapter) SaveNormalizedStatement(ctx context.Context, version *statement.StatementVersion, fs []statement.NormalizedFact, dq facts.DQResult) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save normalized statement: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	seq, err := a.upsertVersion(ctx, tx, version)
	if err != nil {
		return err
	}
	if err := replaceFacts(ctx, tx, version.Identity(), fs); err != nil {
		return err
	}
	if err := saveDQ(ctx, tx, dq); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save normalized statement: commit: %w", err)
	}
	version.IngestSeq = seq

	slog.Debug("[Postgres] Saved normalized statement",
		"identity", version.Identity().String(),
		"facts", len(fs),
		"anomalies", len(dq.Anomalies),
		"ingest_seq", seq)
	return nil
}
