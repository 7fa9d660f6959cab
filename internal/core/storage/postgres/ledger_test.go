package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/aevon-lab/ledgerline/internal/core/reconciliation"
	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

var ledgerIdentity = statement.Identity{
	CIK:             "0000320193",
	StatementType:   statement.CashFlowStatement,
	FiscalYear:      2024,
	FiscalPeriod:    statement.FY,
	VersionSequence: 1,
}

func resultRowColumns() []string {
	return []string{
		"rule_id", "rule_category", "status", "severity",
		"cik", "statement_type", "fiscal_year", "fiscal_period", "version_sequence",
		"expected_value", "actual_value", "delta", "dimension_key", "dimension_labels", "notes",
	}
}

func testRun() reconciliation.Run {
	expected := decimal.NewFromInt(50)
	actual := decimal.RequireFromString("50.25")
	delta := actual.Sub(expected)
	return reconciliation.Run{
		RunID:          "recon-1",
		ExecutedAt:     fixedNow,
		RuleSetVersion: "e11_v1",
		Results: []reconciliation.Result{{
			Identity:      ledgerIdentity,
			RuleID:        "CF_CASH_IDENTITY",
			Category:      reconciliation.CategoryIdentity,
			Status:        reconciliation.StatusFail,
			Severity:      statement.MaterialityMedium,
			ExpectedValue: &expected,
			ActualValue:   &actual,
			Delta:         &delta,
			Notes:         map[string]interface{}{"tolerance": "0.01"},
		}},
	}
}

func expectInsertResult(mock sqlmock.Sqlmock) {
	mock.ExpectPrepare(regexp.QuoteMeta(queryInsertReconciliationResult)).ExpectExec().
		WithArgs(
			"recon-1", fixedNow, "e11_v1", "CF_CASH_IDENTITY", "IDENTITY", "FAIL", "MEDIUM",
			"0000320193", "CASH_FLOW_STATEMENT", 2024, "FY", 1,
			"50", "50.25", "0.25", nil, []byte(nil), []byte(`{"tolerance":"0.01"}`),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
}

func TestAdapter_AppendResults(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	mock.ExpectBegin()
	expectInsertResult(mock)
	mock.ExpectCommit()

	require.NoError(t, adapter.AppendResults(context.Background(), testRun()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_AppendResultsEmptyRunIsNoop(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	require.NoError(t, adapter.AppendResults(context.Background(), reconciliation.Run{RunID: "recon-empty"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_AppendResultsWithCheckpointSkipsStaleCursor(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(querySelectCheckpointForUpdate)).
		WithArgs("sweep").
		WillReturnRows(sqlmock.NewRows([]string{"checkpoint_cursor"}).AddRow(int64(100)))
	mock.ExpectRollback()

	require.NoError(t, adapter.AppendResultsWithCheckpoint(context.Background(), testRun(), "sweep", 100))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_AppendResultsWithCheckpointInitializesRow(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(querySelectCheckpointForUpdate)).
		WithArgs("sweep").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(queryInitCheckpointRow)).
		WithArgs("sweep", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(querySelectCheckpointForUpdate)).
		WithArgs("sweep").
		WillReturnRows(sqlmock.NewRows([]string{"checkpoint_cursor"}).AddRow(int64(0)))
	expectInsertResult(mock)
	mock.ExpectExec(regexp.QuoteMeta(queryUpdateCheckpoint)).
		WithArgs(int64(17), fixedNow, "sweep").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, adapter.AppendResultsWithCheckpoint(context.Background(), testRun(), "sweep", 17))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_AppendResultsWithCheckpointMissingRow(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(querySelectCheckpointForUpdate)).
		WithArgs("sweep").
		WillReturnRows(sqlmock.NewRows([]string{"checkpoint_cursor"}).AddRow(int64(5)))
	mock.ExpectExec(regexp.QuoteMeta(queryUpdateCheckpoint)).
		WithArgs(int64(9), fixedNow, "sweep").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := adapter.AppendResultsWithCheckpoint(context.Background(), reconciliation.Run{RunID: "recon-empty"}, "sweep", 9)
	require.EqualError(t, err, "append with checkpoint: checkpoint row missing (name=sweep)")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_ReadCheckpoint(t *testing.T) {
	tests := []struct {
		name string
		rows *sqlmock.Rows
		err  error
		want int64
	}{
		{name: "existing", rows: sqlmock.NewRows([]string{"checkpoint_cursor"}).AddRow(int64(42)), want: 42},
		{name: "never written", err: sql.ErrNoRows, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, mock, db := newMockAdapter(t)
			defer db.Close()

			exp := mock.ExpectQuery(regexp.QuoteMeta(queryReadCheckpoint)).WithArgs("sweep")
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnRows(tt.rows)
			}

			got, err := adapter.ReadCheckpoint(context.Background(), "sweep")
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAdapter_ListForStatement(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	runID := "recon-1"
	mock.ExpectQuery(regexp.QuoteMeta(queryListResultsForStatement)).
		WithArgs("0000320193", "CASH_FLOW_STATEMENT", 2024, "FY", 1, "recon-1", 100).
		WillReturnRows(sqlmock.NewRows(resultRowColumns()).
			AddRow("CF_CASH_IDENTITY", "IDENTITY", "PASS", "NONE",
				"0000320193", "CASH_FLOW_STATEMENT", 2024, "FY", 1,
				"50", "50", "0", nil, nil, []byte(`{"tolerance":"0.01"}`)).
			AddRow("SEGMENT_REVENUE", "SEGMENT", "FAIL", "HIGH",
				"0000320193", "CASH_FLOW_STATEMENT", 2024, "FY", 1,
				"100", "90", "-10", "Segment=*", []byte(`{"Segment":"*"}`), nil))

	got, err := adapter.ListForStatement(context.Background(), ledgerIdentity, &runID, 100)
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Equal(t, reconciliation.StatusPass, got[0].Status)
	require.Equal(t, statement.MaterialityNone, got[0].Severity)
	require.Nil(t, got[0].DimensionKey)
	require.Equal(t, "0.01", got[0].Notes["tolerance"])

	require.Equal(t, reconciliation.CategorySegment, got[1].Category)
	require.Equal(t, ledgerIdentity, got[1].Identity)
	require.True(t, decimal.NewFromInt(-10).Equal(*got[1].Delta))
	require.Equal(t, "Segment=*", *got[1].DimensionKey)
	require.Equal(t, map[string]string{"Segment": "*"}, got[1].DimensionLabels)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_ListForStatementAllRuns(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryListResultsForStatement)).
		WithArgs("0000320193", "CASH_FLOW_STATEMENT", 2024, "FY", 1, nil, 10).
		WillReturnRows(sqlmock.NewRows(resultRowColumns()))

	got, err := adapter.ListForStatement(context.Background(), ledgerIdentity, nil, 10)
	require.NoError(t, err)
	require.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_ListForWindow(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryListResultsForWindow)).
		WithArgs("0000320193", "BALANCE_SHEET", 2022, 2024, 1000).
		WillReturnRows(sqlmock.NewRows(resultRowColumns()).
			AddRow("CALENDAR_FYE", "CALENDAR", "WARNING", "LOW",
				"0000320193", "BALANCE_SHEET", 2023, "FY", 2,
				nil, nil, nil, nil, nil, []byte(`{"fye_month":9}`)))

	got, err := adapter.ListForWindow(context.Background(), "0000320193", statement.BalanceSheet, 2022, 2024, 1000)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Nil(t, got[0].ExpectedValue)
	require.Equal(t, 2, got[0].Identity.VersionSequence)
	require.Equal(t, float64(9), got[0].Notes["fye_month"])
	require.NoError(t, mock.ExpectationsWereMet())
}
