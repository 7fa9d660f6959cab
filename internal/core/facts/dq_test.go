package facts

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

var dqIdentity = statement.Identity{
	CIK:             "0000123456",
	StatementType:   statement.IncomeStatement,
	FiscalYear:      2024,
	FiscalPeriod:    statement.FY,
	VersionSequence: 1,
}

func fact(metric string, value string, date time.Time, version int) statement.NormalizedFact {
	return statement.NormalizedFact{
		CIK:             dqIdentity.CIK,
		StatementType:   dqIdentity.StatementType,
		StatementDate:   date,
		FiscalYear:      date.Year(),
		FiscalPeriod:    statement.FY,
		VersionSequence: version,
		MetricCode:      metric,
		Value:           decimal.RequireFromString(value),
		DimensionKey:    DefaultDimensionKey,
	}
}

func newTestEngine() *DQEngine {
	fixed := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	return NewDQEngine(DefaultDQConfig(),
		WithClock(func() time.Time { return fixed }),
		WithIDFunc(func() string { return "run-1" }),
	)
}

func yearEnd(y int) time.Time { return time.Date(y, 12, 31, 0, 0, 0, 0, time.UTC) }

func TestDQ_MissingKeyMetric(t *testing.T) {
	res := newTestEngine().Evaluate(dqIdentity, []statement.NormalizedFact{fact("REVENUE", "100", yearEnd(2024), 1)}, nil, nil)

	require.Equal(t, "run-1", res.Run.RunID)
	require.Equal(t, "STATEMENT", res.Run.ScopeType)
	require.Equal(t, "v1", res.Run.RuleSetVersion)
	require.Equal(t, time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC), res.Run.ExecutedAt)

	require.Len(t, res.Anomalies, 1)
	a := res.Anomalies[0]
	require.Equal(t, RuleMissingKeyMetric, a.RuleCode)
	require.Equal(t, "NET_INCOME", a.MetricCode)
	require.Nil(t, a.DimensionKey)
	require.Equal(t, statement.MaterialityHigh, a.Severity)

	require.Len(t, res.FactQuality, 1)
	fq := res.FactQuality[0]
	require.Equal(t, "REVENUE", fq.MetricCode)
	require.True(t, *fq.IsNonNegative)
	require.Nil(t, fq.IsConsistentWithHistory)
	require.False(t, fq.HasKnownIssue)
}

func TestDQ_NegativeValue(t *testing.T) {
	res := newTestEngine().Evaluate(dqIdentity, []statement.NormalizedFact{
		fact("REVENUE", "-5", yearEnd(2024), 1),
		fact("NET_INCOME", "-5", yearEnd(2024), 1),
	}, nil, nil)

	require.Len(t, res.Anomalies, 1)
	require.Equal(t, RuleNegativeValue, res.Anomalies[0].RuleCode)

	byMetric := map[string]FactQuality{}
	for _, fq := range res.FactQuality {
		byMetric[fq.MetricCode] = fq
	}
	require.False(t, *byMetric["REVENUE"].IsNonNegative)
	require.True(t, byMetric["REVENUE"].HasKnownIssue)
	require.Equal(t, statement.MaterialityHigh, byMetric["REVENUE"].Severity)
	require.Nil(t, byMetric["NET_INCOME"].IsNonNegative)
	require.Equal(t, statement.MaterialityNone, byMetric["NET_INCOME"].Severity)
}

func TestDQ_HistoryOutliers(t *testing.T) {
	history := []statement.NormalizedFact{
		fact("REVENUE", "100", yearEnd(2023), 1),
		fact("REVENUE", "90", yearEnd(2022), 1),
		fact("NET_INCOME", "10", yearEnd(2022), 1),
	}

	tests := []struct {
		name       string
		value      string
		rule       string
		consistent *bool
	}{
		{name: "within band", value: "150", consistent: boolPtr(true)},
		{name: "spike", value: "1001", rule: RuleHistoryOutlierHigh, consistent: boolPtr(false)},
		{name: "collapse", value: "9", rule: RuleHistoryOutlierLow, consistent: boolPtr(false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTestEngine().Evaluate(dqIdentity, []statement.NormalizedFact{
				fact("REVENUE", tt.value, yearEnd(2024), 1),
				fact("NET_INCOME", "500", yearEnd(2024), 1),
			}, history, nil)

			var rev, ni FactQuality
			for _, fq := range res.FactQuality {
				switch fq.MetricCode {
				case "REVENUE":
					rev = fq
				case "NET_INCOME":
					ni = fq
				}
			}
			require.Equal(t, tt.consistent, rev.IsConsistentWithHistory)
			// one NET_INCOME observation is below the minimum
			require.Nil(t, ni.IsConsistentWithHistory)

			if tt.rule == "" {
				require.Empty(t, res.Anomalies)
				return
			}
			require.Len(t, res.Anomalies, 1)
			require.Equal(t, tt.rule, res.Anomalies[0].RuleCode)
			require.Equal(t, statement.MaterialityMedium, res.Anomalies[0].Severity)
			require.Equal(t, "100", res.Anomalies[0].Details["previous_value"])
			require.Equal(t, statement.MaterialityMedium, rev.Severity)
			require.Equal(t, 1, rev.Details["anomaly_count"])
		})
	}
}

func TestDQ_ZeroPreviousValueSkipsHistory(t *testing.T) {
	history := []statement.NormalizedFact{
		fact("REVENUE", "50", yearEnd(2022), 1),
		fact("REVENUE", "0", yearEnd(2023), 1),
	}
	res := newTestEngine().Evaluate(dqIdentity, []statement.NormalizedFact{
		fact("REVENUE", "100", yearEnd(2024), 1),
		fact("NET_INCOME", "1", yearEnd(2024), 1),
	}, history, nil)

	require.Empty(t, res.Anomalies)
	for _, fq := range res.FactQuality {
		require.Nil(t, fq.IsConsistentWithHistory)
	}
}

func TestDQ_ExecutedAtOverride(t *testing.T) {
	at := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	res := newTestEngine().Evaluate(dqIdentity, nil, nil, &at)
	require.Equal(t, at, res.Run.ExecutedAt)
	require.Len(t, res.Anomalies, 2)
	require.Equal(t, statement.MaterialityHigh, res.MaxSeverity())
}

func boolPtr(b bool) *bool { return &b }
