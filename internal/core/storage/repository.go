package storage

import (
	"context"
	"errors"
	"time"

	"github.com/aevon-lab/ledgerline/internal/core/facts"
	"github.com/aevon-lab/ledgerline/internal/core/reconciliation"
	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// StatementVersionStore persists statement versions.
type StatementVersionStore interface {
	// UpsertStatementVersions is idempotent per (cik, statement_type,
	// statement_date, version_sequence). IngestSeq is populated on each version.
	UpsertStatementVersions(ctx context.Context, versions []statement.StatementVersion) error

	// ListStatementVersionsForCompany returns versions ordered by fiscal period
	// then version sequence. A nil fiscalPeriod lists every period.
	ListStatementVersionsForCompany(
		ctx context.Context,
		cik string,
		statementType statement.StatementType,
		fiscalYear int,
		fiscalPeriod *statement.FiscalPeriod,
	) ([]statement.StatementVersion, error)

	// ListStatementVersionsAfterCursor fetches versions with ingest_seq > cursor
	// in strict ingest order. cursor=0 means "from the beginning".
	ListStatementVersionsAfterCursor(ctx context.Context, cursor int64, limit int) ([]statement.StatementVersion, error)
}

// FactStore persists normalized facts.
type FactStore interface {
	// ReplaceFactsForStatement drops every fact of identity and inserts facts.
	ReplaceFactsForStatement(ctx context.Context, identity statement.Identity, facts []statement.NormalizedFact) error
	ListFactsForStatement(ctx context.Context, identity statement.Identity) ([]statement.NormalizedFact, error)

	// ListFactHistory returns facts of earlier statements of the same company
	// and statement type, newest first, for DQ history checks.
	ListFactHistory(ctx context.Context, cik string, statementType statement.StatementType, before time.Time, limit int) ([]statement.NormalizedFact, error)
}

// DQStore persists data-quality runs.
type DQStore interface {
	SaveDQResult(ctx context.Context, result facts.DQResult) error
	ListAnomaliesForStatement(ctx context.Context, identity statement.Identity) ([]facts.Anomaly, error)
}

// NormalizedStatementWriter commits everything produced by one normalization
// in a single transaction.
type NormalizedStatementWriter interface {
	SaveNormalizedStatement(ctx context.Context, version *statement.StatementVersion, facts []statement.NormalizedFact, dq facts.DQResult) error
}

// ReconciliationLedger is the append-only store of reconciliation results.
// Listings are ordered by rule_category, rule_id, dimension_key NULLS LAST,
// check_id.
type ReconciliationLedger interface {
	AppendResults(ctx context.Context, run reconciliation.Run) error

	// AppendResultsWithCheckpoint appends run and advances the named checkpoint
	// to cursor in one transaction. A cursor at or behind the durable one is a
	// no-op.
	AppendResultsWithCheckpoint(ctx context.Context, run reconciliation.Run, checkpoint string, cursor int64) error

	// ReadCheckpoint returns 0 when the checkpoint was never written.
	ReadCheckpoint(ctx context.Context, checkpoint string) (int64, error)

	ListForStatement(ctx context.Context, identity statement.Identity, runID *string, limit int) ([]reconciliation.Result, error)
	ListForWindow(ctx context.Context, cik string, statementType statement.StatementType, fiscalYearFrom, fiscalYearTo int, limit int) ([]reconciliation.Result, error)
}
