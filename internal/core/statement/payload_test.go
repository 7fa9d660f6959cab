package statement

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func validParams() PayloadParams {
	return PayloadParams{
		CIK:                "0000320193",
		StatementType:      IncomeStatement,
		AccountingStandard: USGAAP,
		StatementDate:      time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		FiscalYear:         2024,
		FiscalPeriod:       FY,
		Currency:           "USD",
		CoreMetrics: map[Metric]decimal.Decimal{
			Revenue:   decimal.RequireFromString("100.50"),
			NetIncome: decimal.RequireFromString("10"),
		},
		ExtraMetrics:          map[string]decimal.Decimal{"custom:Thing": decimal.NewFromInt(3)},
		Dimensions:            map[string]string{"consolidation": "CONSOLIDATED"},
		SourceAccessionID:     "0000320193-25-000001",
		SourceTaxonomy:        "US_GAAP_2024",
		SourceVersionSequence: 1,
	}
}

func TestNewPayload_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PayloadParams)
		field  string
	}{
		{name: "blank cik", mutate: func(p *PayloadParams) { p.CIK = "  " }, field: "cik"},
		{name: "bad statement type", mutate: func(p *PayloadParams) { p.StatementType = "EQUITY" }, field: "statement_type"},
		{name: "bad standard", mutate: func(p *PayloadParams) { p.AccountingStandard = "JGAAP" }, field: "accounting_standard"},
		{name: "zero date", mutate: func(p *PayloadParams) { p.StatementDate = time.Time{} }, field: "statement_date"},
		{name: "fiscal year zero", mutate: func(p *PayloadParams) { p.FiscalYear = 0 }, field: "fiscal_year"},
		{name: "bad period", mutate: func(p *PayloadParams) { p.FiscalPeriod = "Q5" }, field: "fiscal_period"},
		{name: "blank currency", mutate: func(p *PayloadParams) { p.Currency = "" }, field: "currency"},
		{name: "negative multiplier", mutate: func(p *PayloadParams) { p.UnitMultiplier = -1 }, field: "unit_multiplier"},
		{name: "version zero", mutate: func(p *PayloadParams) { p.SourceVersionSequence = 0 }, field: "source_version_sequence"},
		{name: "unknown core metric", mutate: func(p *PayloadParams) {
			p.CoreMetrics = map[Metric]decimal.Decimal{"EBITDA": decimal.NewFromInt(1)}
		}, field: "core_metrics"},
		{name: "blank extra key", mutate: func(p *PayloadParams) {
			p.ExtraMetrics = map[string]decimal.Decimal{"": decimal.NewFromInt(1)}
		}, field: "extra_metrics"},
		{name: "blank dimension value", mutate: func(p *PayloadParams) {
			p.Dimensions = map[string]string{"segment": ""}
		}, field: "dimensions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)
			_, err := NewPayload(params)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrMapping))

			var mapErr *MappingError
			require.True(t, errors.As(err, &mapErr))
			require.Equal(t, tt.field, mapErr.Details()["field"])
		})
	}
}

func TestPayload_IsImmutable(t *testing.T) {
	params := validParams()
	p, err := NewPayload(params)
	require.NoError(t, err)

	params.CoreMetrics[Revenue] = decimal.NewFromInt(999)
	got, ok := p.CoreMetric(Revenue)
	require.True(t, ok)
	require.Equal(t, "100.5", got.String())

	copied := p.CoreMetrics()
	copied[TotalAssets] = decimal.NewFromInt(1)
	_, ok = p.CoreMetric(TotalAssets)
	require.False(t, ok)

	dims := p.Dimensions()
	dims["segment"] = "X"
	require.Len(t, p.Dimensions(), 1)
}

func TestPayload_JSONRoundTripRevalidates(t *testing.T) {
	p, err := NewPayload(validParams())
	require.NoError(t, err)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	require.Contains(t, string(data), `"statement_date":"2024-12-31"`)
	require.Contains(t, string(data), `"REVENUE":"100.5"`)

	var decoded Payload
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.True(t, p.Equal(&decoded))

	bad := []byte(`{"cik":"1","statement_type":"INCOME_STATEMENT","accounting_standard":"US_GAAP","statement_date":"2024-01-01","fiscal_year":0,"fiscal_period":"FY","currency":"USD","source_version_sequence":1}`)
	err = json.Unmarshal(bad, &decoded)
	require.ErrorIs(t, err, ErrMapping)
}

func TestIdentity_UsableAsMapKey(t *testing.T) {
	p, err := NewPayload(validParams())
	require.NoError(t, err)

	seen := map[Identity]int{p.Identity(): 1}
	same := Identity{CIK: "0000320193", StatementType: IncomeStatement, FiscalYear: 2024, FiscalPeriod: FY, VersionSequence: 1}
	require.Equal(t, 1, seen[same])
	require.Equal(t, "0000320193/INCOME_STATEMENT/2024/FY/v1", same.String())
}

func TestMaterialityClass_Ordering(t *testing.T) {
	require.True(t, MaterialityNone < MaterialityLow)
	require.True(t, MaterialityMedium < MaterialityHigh)
	require.Equal(t, MaterialityHigh, MaterialityLow.Max(MaterialityHigh))

	data, err := json.Marshal(MaterialityMedium)
	require.NoError(t, err)
	require.Equal(t, `"MEDIUM"`, string(data))

	var m MaterialityClass
	require.NoError(t, json.Unmarshal([]byte(`"high"`), &m))
	require.Equal(t, MaterialityHigh, m)
}

func TestParseEnums(t *testing.T) {
	st, err := ParseStatementType("balance_sheet")
	require.NoError(t, err)
	require.Equal(t, BalanceSheet, st)

	_, err = ParseFiscalPeriod("Q9")
	require.ErrorIs(t, err, ErrMapping)

	m, ok := ParseMetric("net_income")
	require.True(t, ok)
	require.Equal(t, NetIncome, m)
}
