package facts

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

func payload(t *testing.T, period statement.FiscalPeriod, core map[statement.Metric]decimal.Decimal, extra map[string]decimal.Decimal, dims map[string]string) *statement.Payload {
	t.Helper()
	p, err := statement.NewPayload(statement.PayloadParams{
		CIK:                   "0000123456",
		StatementType:         statement.IncomeStatement,
		AccountingStandard:    statement.USGAAP,
		StatementDate:         time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		FiscalYear:            2024,
		FiscalPeriod:          period,
		Currency:              "USD",
		CoreMetrics:           core,
		ExtraMetrics:          extra,
		Dimensions:            dims,
		SourceTaxonomy:        "US_GAAP_2024",
		SourceVersionSequence: 3,
	})
	require.NoError(t, err)
	return p
}

func TestBuildDimensionKey(t *testing.T) {
	require.Equal(t, "default", BuildDimensionKey(nil))
	require.Equal(t, "default", BuildDimensionKey(map[string]string{}))
	require.Equal(t, "geo=US|segment=Cloud", BuildDimensionKey(map[string]string{"segment": "Cloud", "geo": "US"}))

	for i := 0; i < 20; i++ {
		require.Equal(t, "a=1|b=2|c=3", BuildDimensionKey(map[string]string{"c": "3", "a": "1", "b": "2"}))
	}
}

func TestPayloadToFacts(t *testing.T) {
	p := payload(t, statement.Q2,
		map[statement.Metric]decimal.Decimal{
			statement.Revenue:   decimal.NewFromInt(100),
			statement.NetIncome: decimal.NewFromInt(10),
		},
		map[string]decimal.Decimal{"acme:Widgets": decimal.NewFromInt(5)},
		map[string]string{"consolidation": "CONSOLIDATED"},
	)

	facts, err := PayloadToFacts(p, 3, DefaultDerivationConfig())
	require.NoError(t, err)
	require.Len(t, facts, 3)
	require.Equal(t, "NET_INCOME", facts[0].MetricCode)
	require.Equal(t, "REVENUE", facts[1].MetricCode)
	require.Equal(t, "acme:Widgets", facts[2].MetricCode)

	f := facts[1]
	require.Equal(t, "consolidation=CONSOLIDATED", f.DimensionKey)
	require.Equal(t, "USD", f.Unit)
	require.Equal(t, p.StatementDate(), f.PeriodEnd)
	require.Nil(t, f.PeriodStart)
	require.Equal(t, 3, f.VersionSequence)
	require.Equal(t, "REVENUE", *f.SourceLineItem)

	noExtra, err := PayloadToFacts(p, 3, DerivationConfig{PeriodStartStrategy: PeriodStartNone})
	require.NoError(t, err)
	require.Len(t, noExtra, 2)
}

func TestPayloadToFacts_PeriodStartStrategy(t *testing.T) {
	tests := []struct {
		period statement.FiscalPeriod
		want   *time.Time
	}{
		{statement.FY, ptrDate(2024, time.January, 1)},
		{statement.Q1, ptrDate(2024, time.January, 1)},
		{statement.Q2, ptrDate(2024, time.April, 1)},
		{statement.Q3, ptrDate(2024, time.July, 1)},
		{statement.Q4, ptrDate(2024, time.October, 1)},
		{statement.H1, nil},
	}
	cfg := DerivationConfig{PeriodStartStrategy: PeriodStartFiscalYearStart}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			p := payload(t, tt.period, map[statement.Metric]decimal.Decimal{statement.Revenue: decimal.NewFromInt(1)}, nil, nil)
			facts, err := PayloadToFacts(p, 1, cfg)
			require.NoError(t, err)
			require.Len(t, facts, 1)
			require.Equal(t, "default", facts[0].DimensionKey)
			require.Equal(t, tt.want, facts[0].PeriodStart)
		})
	}
}

func ptrDate(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
