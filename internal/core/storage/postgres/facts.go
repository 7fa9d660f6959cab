package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/aevon-lab/ledgerline/internal/core/facts"
	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

func identityArgs(id statement.Identity) []interface{} {
	return []interface{}{id.CIK, string(id.StatementType), id.FiscalYear, string(id.FiscalPeriod), id.VersionSequence}
}

func replaceFacts(ctx context.Context, q txQuerier, id statement.Identity, fs []statement.NormalizedFact) error {
	for _, f := range fs {
		if f.Identity() != id {
			return statement.NewMappingError(map[string]interface{}{"identity": id.String(), "fact_identity": f.Identity().String(), "metric_code": f.MetricCode},
				"fact %s does not belong to statement %s", f.MetricCode, id)
		}
	}

	if _, err := q.ExecContext(ctx, queryDeleteFactsForStatement, identityArgs(id)...); err != nil {
		return fmt.Errorf("replace facts: delete %s: %w", id, err)
	}
	if len(fs) == 0 {
		return nil
	}

	stmt, err := q.PrepareContext(ctx, queryInsertFact)
	if err != nil {
		return fmt.Errorf("replace facts: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range fs {
		dims, err := marshalJSONMap(f.Dimensions)
		if err != nil {
			return err
		}
		if dims == nil {
			dims = []byte("{}")
		}
		if _, err := stmt.ExecContext(ctx,
			f.CIK,
			string(f.StatementType),
			string(f.AccountingStandard),
			f.StatementDate,
			f.FiscalYear,
			string(f.FiscalPeriod),
			f.VersionSequence,
			f.MetricCode,
			nullString(f.MetricLabel),
			f.Unit,
			nullTime(f.PeriodStart),
			f.PeriodEnd,
			f.Value,
			f.DimensionKey,
			dims,
			nullString(f.SourceLineItem),
		); err != nil {
			return fmt.Errorf("replace facts: insert %s/%s: %w", f.MetricCode, f.DimensionKey, err)
		}
	}
	return nil
}

// ReplaceFactsForStatement implements storage.FactStore.
func (a *Adapter) ReplaceFactsForStatement(ctx context.Context, identity statement.Identity, fs []statement.NormalizedFact) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace facts: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := replaceFacts(ctx, tx, identity, fs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace facts: commit: %w", err)
	}
	return nil
}

// ListFactsForStatement implements storage.FactStore.
func (a *Adapter) ListFactsForStatement(ctx context.Context, identity statement.Identity) ([]statement.NormalizedFact, error) {
	rows, err := a.stmtFactsStatement.QueryContext(ctx, identityArgs(identity)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query facts: %w", err)
	}
	return collectFacts(rows)
}

// ListFactHistory implements storage.FactStore.
func (a *Adapter) ListFactHistory(ctx context.Context, cik string, statementType statement.StatementType, before time.Time, limit int) ([]statement.NormalizedFact, error) {
	rows, err := a.stmtFactHistory.QueryContext(ctx, cik, string(statementType), before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fact history: %w", err)
	}
	return collectFacts(rows)
}

type rowIterator interface {
	scanner
	Next() bool
	Err() error
	Close() error
}

func collectFacts(rows rowIterator) ([]statement.NormalizedFact, error) {
	defer rows.Close()
	var out []statement.NormalizedFact
	for rows.Next() {
		f, err := scanFactRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating facts: %w", err)
	}
	return out, nil
}

func saveDQ(ctx context.Context, q txQuerier, dq facts.DQResult) error {
	run := dq.Run
	if _, err := q.ExecContext(ctx, queryInsertDQRun,
		run.RunID,
		run.Identity.CIK,
		string(run.Identity.StatementType),
		run.Identity.FiscalYear,
		string(run.Identity.FiscalPeriod),
		run.Identity.VersionSequence,
		run.RuleSetVersion,
		run.ScopeType,
		run.ExecutedAt,
	); err != nil {
		return fmt.Errorf("save dq run %s: %w", run.RunID, err)
	}

	if len(dq.FactQuality) > 0 {
		stmt, err := q.PrepareContext(ctx, queryInsertFactQuality)
		if err != nil {
			return fmt.Errorf("save dq run: prepare fact quality: %w", err)
		}
		defer stmt.Close()
		for _, fq := range dq.FactQuality {
			details, err := marshalJSONMap(fq.Details)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx,
				run.RunID,
				fq.MetricCode,
				fq.DimensionKey,
				fq.Severity.String(),
				fq.IsPresent,
				nullBool(fq.IsNonNegative),
				nullBool(fq.IsConsistentWithHistory),
				fq.HasKnownIssue,
				details,
			); err != nil {
				return fmt.Errorf("save dq run: fact quality %s/%s: %w", fq.MetricCode, fq.DimensionKey, err)
			}
		}
	}

	if len(dq.Anomalies) > 0 {
		stmt, err := q.PrepareContext(ctx, queryInsertAnomaly)
		if err != nil {
			return fmt.Errorf("save dq run: prepare anomaly: %w", err)
		}
		defer stmt.Close()
		for _, an := range dq.Anomalies {
			details, err := marshalJSONMap(an.Details)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx,
				run.RunID,
				an.MetricCode,
				nullString(an.DimensionKey),
				an.RuleCode,
				an.Severity.String(),
				an.Message,
				details,
			); err != nil {
				return fmt.Errorf("save dq run: anomaly %s/%s: %w", an.RuleCode, an.MetricCode, err)
			}
		}
	}
	return nil
}

// SaveDQResult implements storage.DQStore.
func (a *Adapter) SaveDQResult(ctx context.Context, result facts.DQResult) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save dq run: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := saveDQ(ctx, tx, result); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save dq run: commit: %w", err)
	}
	return nil
}

// ListAnomaliesForStatement returns the anomalies of the latest DQ run of
// identity.
func (a *Adapter) ListAnomaliesForStatement(ctx context.Context, identity statement.Identity) ([]facts.Anomaly, error) {
	rows, err := a.db.QueryContext(ctx, queryListLatestAnomalies, identityArgs(identity)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query anomalies: %w", err)
	}
	defer rows.Close()

	var out []facts.Anomaly
	for rows.Next() {
		an, err := scanAnomalyRow(rows)
		if err != nil {
			return nil, err
		}
		an.Identity = identity
		out = append(out, an)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating anomalies: %w", err)
	}
	return out, nil
}
