package reconciliation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	corerec "github.com/aevon-lab/ledgerline/internal/core/reconciliation"
	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

func newTestSweep(f *fixture, batchSize, workers int) *Sweep {
	s := NewSweep(f.svc, SweepOptions{Interval: time.Hour, BatchSize: batchSize, WorkerCount: workers})
	s.newID = func() string { return "sweep-run" }
	s.now = func() time.Time { return fixedNow }
	return s
}

// expectEmptyTypes answers every income and cash flow lookup with no versions.
func expectEmptyTypes(f *fixture) {
	for _, st := range []statement.StatementType{statement.IncomeStatement, statement.CashFlowStatement} {
		f.versions.EXPECT().ListStatementVersionsForCompany(mock.Anything, mock.Anything, st, mock.Anything, mock.Anything).Return(nil, nil)
	}
}

func TestSweepRunOnce_ReconcilesPerCompany(t *testing.T) {
	f := newFixture(t)
	s := newTestSweep(f, 10, 3)
	fy := statement.FY

	a1 := balanceVersion(t, "0000000001", 2024, 1, "300", 11)
	b1 := balanceVersion(t, "0000000002", 2024, 1, "300", 12)
	a2 := balanceVersion(t, "0000000001", 2024, 2, "350", 13)

	f.ledger.EXPECT().ReadCheckpoint(mock.Anything, SweepCheckpoint).Return(int64(10), nil)
	f.versions.EXPECT().ListStatementVersionsAfterCursor(mock.Anything, int64(10), 10).
		Return([]statement.StatementVersion{a1, b1, a2}, nil)
	f.ruleSets.EXPECT().GetRuleSet(mock.Anything, testRuleSetID).Return(balanceRuleSet(), nil)

	expectEmptyTypes(f)
	f.versions.EXPECT().ListStatementVersionsForCompany(mock.Anything, "0000000001", statement.BalanceSheet, 2024, &fy).
		Return([]statement.StatementVersion{a1, a2}, nil).Once()
	f.versions.EXPECT().ListStatementVersionsForCompany(mock.Anything, "0000000002", statement.BalanceSheet, 2024, &fy).
		Return([]statement.StatementVersion{b1}, nil).Once()

	var committed corerec.Run
	f.ledger.EXPECT().AppendResultsWithCheckpoint(mock.Anything, mock.Anything, SweepCheckpoint, int64(13)).
		Run(func(_ context.Context, run corerec.Run, _ string, _ int64) { committed = run }).
		Return(nil)

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, n)

	require.Equal(t, "sweep-run", committed.RunID)
	require.Equal(t, fixedNow, committed.ExecutedAt)
	require.Equal(t, "test_v1", committed.RuleSetVersion)
	require.Len(t, committed.Results, 2)

	require.Equal(t, "0000000001", committed.Results[0].Identity.CIK)
	require.Equal(t, 2, committed.Results[0].Identity.VersionSequence)
	require.Equal(t, corerec.StatusFail, committed.Results[0].Status)
	require.Equal(t, "0000000002", committed.Results[1].Identity.CIK)
	require.Equal(t, corerec.StatusPass, committed.Results[1].Status)

	require.Equal(t, float64(13), testutil.ToFloat64(f.metrics.SweepCursor))
	require.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ReconciliationResults.WithLabelValues("IDENTITY", "FAIL")))
	require.Equal(t, 1, testutil.CollectAndCount(f.metrics.SweepDuration))
}

func TestSweepRunOnce_NoBacklog(t *testing.T) {
	f := newFixture(t)
	s := newTestSweep(f, 10, 2)

	f.ledger.EXPECT().ReadCheckpoint(mock.Anything, SweepCheckpoint).Return(int64(42), nil)
	f.versions.EXPECT().ListStatementVersionsAfterCursor(mock.Anything, int64(42), 10).Return(nil, nil)

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestSweepRunOnce_UnnormalizedVersionsStillAdvanceCursor(t *testing.T) {
	f := newFixture(t)
	s := newTestSweep(f, 10, 2)

	raw := balanceVersion(t, "0000000001", 2024, 1, "300", 5)
	raw.NormalizedPayload = nil

	f.ledger.EXPECT().ReadCheckpoint(mock.Anything, SweepCheckpoint).Return(int64(0), nil)
	f.versions.EXPECT().ListStatementVersionsAfterCursor(mock.Anything, int64(0), 10).
		Return([]statement.StatementVersion{raw}, nil)
	f.ruleSets.EXPECT().GetRuleSet(mock.Anything, testRuleSetID).Return(balanceRuleSet(), nil)
	f.versions.EXPECT().ListStatementVersionsForCompany(mock.Anything, "0000000001", mock.Anything, 2024, mock.Anything).
		Return([]statement.StatementVersion{raw}, nil)
	f.ledger.EXPECT().AppendResultsWithCheckpoint(mock.Anything, mock.MatchedBy(func(run corerec.Run) bool {
		return len(run.Results) == 0
	}), SweepCheckpoint, int64(5)).Return(nil)

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestSweepRunOnce_Failures(t *testing.T) {
	t.Run("store error keeps cursor", func(t *testing.T) {
		f := newFixture(t)
		s := newTestSweep(f, 10, 2)

		f.ledger.EXPECT().ReadCheckpoint(mock.Anything, SweepCheckpoint).Return(int64(3), nil)
		f.versions.EXPECT().ListStatementVersionsAfterCursor(mock.Anything, int64(3), 10).
			Return([]statement.StatementVersion{balanceVersion(t, "0000000001", 2024, 1, "300", 4)}, nil)
		f.ruleSets.EXPECT().GetRuleSet(mock.Anything, testRuleSetID).Return(balanceRuleSet(), nil)
		f.versions.EXPECT().ListStatementVersionsForCompany(mock.Anything, "0000000001", mock.Anything, 2024, mock.Anything).
			Return(nil, errors.New("timeout"))

		_, err := s.RunOnce(context.Background())
		require.ErrorContains(t, err, "timeout")
		require.Zero(t, testutil.ToFloat64(f.metrics.SweepCursor))
	})

	t.Run("checkpoint commit error", func(t *testing.T) {
		f := newFixture(t)
		s := newTestSweep(f, 10, 2)
		v := balanceVersion(t, "0000000001", 2024, 1, "300", 4)

		f.ledger.EXPECT().ReadCheckpoint(mock.Anything, SweepCheckpoint).Return(int64(3), nil)
		f.versions.EXPECT().ListStatementVersionsAfterCursor(mock.Anything, int64(3), 10).
			Return([]statement.StatementVersion{v}, nil)
		f.ruleSets.EXPECT().GetRuleSet(mock.Anything, testRuleSetID).Return(balanceRuleSet(), nil)
		expectEmptyTypes(f)
		f.versions.EXPECT().ListStatementVersionsForCompany(mock.Anything, "0000000001", statement.BalanceSheet, 2024, mock.Anything).
			Return([]statement.StatementVersion{v}, nil)
		f.ledger.EXPECT().AppendResultsWithCheckpoint(mock.Anything, mock.Anything, SweepCheckpoint, int64(4)).
			Return(errors.New("serialization failure"))

		_, err := s.RunOnce(context.Background())
		require.ErrorContains(t, err, "append results")
		require.Zero(t, testutil.ToFloat64(f.metrics.SweepCursor))
		require.Zero(t, testutil.ToFloat64(f.metrics.ReconciliationResults.WithLabelValues("IDENTITY", "PASS")))
	})

	t.Run("checkpoint read error", func(t *testing.T) {
		f := newFixture(t)
		s := newTestSweep(f, 10, 2)
		f.ledger.EXPECT().ReadCheckpoint(mock.Anything, SweepCheckpoint).Return(int64(0), errors.New("down"))

		_, err := s.RunOnce(context.Background())
		require.ErrorContains(t, err, "read checkpoint")
	})
}

func TestSweepDrainBacklog_ContinuesWhileBatchesAreFull(t *testing.T) {
	f := newFixture(t)
	s := newTestSweep(f, 2, 1)

	raw := func(cik string, seq int64) statement.StatementVersion {
		v := balanceVersion(t, cik, 2024, 1, "300", seq)
		v.NormalizedPayload = nil
		return v
	}

	f.ruleSets.EXPECT().GetRuleSet(mock.Anything, testRuleSetID).Return(balanceRuleSet(), nil)
	f.versions.EXPECT().ListStatementVersionsForCompany(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	f.ledger.EXPECT().ReadCheckpoint(mock.Anything, SweepCheckpoint).Return(int64(0), nil).Once()
	f.versions.EXPECT().ListStatementVersionsAfterCursor(mock.Anything, int64(0), 2).
		Return([]statement.StatementVersion{raw("1", 1), raw("2", 2)}, nil).Once()
	f.ledger.EXPECT().AppendResultsWithCheckpoint(mock.Anything, mock.Anything, SweepCheckpoint, int64(2)).Return(nil).Once()

	f.ledger.EXPECT().ReadCheckpoint(mock.Anything, SweepCheckpoint).Return(int64(2), nil).Once()
	f.versions.EXPECT().ListStatementVersionsAfterCursor(mock.Anything, int64(2), 2).
		Return([]statement.StatementVersion{raw("3", 3)}, nil).Once()
	f.ledger.EXPECT().AppendResultsWithCheckpoint(mock.Anything, mock.Anything, SweepCheckpoint, int64(3)).Return(nil).Once()

	s.drainBacklog(context.Background())

	require.Equal(t, float64(3), testutil.ToFloat64(f.metrics.SweepCursor))
}

func TestSweepDrainBacklog_StopsOnError(t *testing.T) {
	f := newFixture(t)
	s := newTestSweep(f, 2, 1)
	f.ledger.EXPECT().ReadCheckpoint(mock.Anything, SweepCheckpoint).Return(int64(0), errors.New("down")).Once()

	s.drainBacklog(context.Background())
}

func TestSweepStart_FinalDrainAfterCancel(t *testing.T) {
	f := newFixture(t)
	s := newTestSweep(f, 10, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.ledger.EXPECT().ReadCheckpoint(mock.Anything, SweepCheckpoint).Return(int64(7), nil).Once()
	f.versions.EXPECT().ListStatementVersionsAfterCursor(mock.Anything, int64(7), 10).Return(nil, nil).Once()

	require.NoError(t, s.Start(ctx))
}

func TestGroupTargets(t *testing.T) {
	q1 := balanceVersion(t, "1", 2024, 1, "1", 1)
	q1.FiscalPeriod = statement.Q1
	out := groupTargets([]statement.StatementVersion{
		balanceVersion(t, "1", 2024, 1, "1", 2),
		balanceVersion(t, "1", 2024, 2, "1", 3),
		q1,
		balanceVersion(t, "2", 2023, 1, "1", 4),
	})

	require.Len(t, out, 2)
	require.Len(t, out["1"], 2)
	require.Equal(t, statement.FY, *out["1"][0].fiscalPeriod)
	require.Equal(t, statement.Q1, *out["1"][1].fiscalPeriod)
	require.Equal(t, 2023, out["2"][0].fiscalYear)
}
