package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aevon-lab/ledgerline/internal/core/overrides"
	"github.com/aevon-lab/ledgerline/internal/core/statement"
	"github.com/aevon-lab/ledgerline/internal/core/taxonomy"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func str(s string) *string { return &s }

func intp(i int) *int { return &i }

func incomeRequest(facts ...taxonomy.Fact) Request {
	return Request{
		CIK:                "0000123456",
		StatementType:      statement.IncomeStatement,
		AccountingStandard: statement.USGAAP,
		StatementDate:      time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		FiscalYear:         2024,
		FiscalPeriod:       statement.FY,
		Currency:           "USD",
		AccessionID:        "0000123456-25-000010",
		Taxonomy:           "US_GAAP_2024",
		VersionSequence:    1,
		Facts:              facts,
		Contexts: map[string]taxonomy.Context{
			"FY24":     {ID: "FY24", StartDate: day(2024, 1, 1), EndDate: day(2024, 12, 31)},
			"FY24_SEG": {ID: "FY24_SEG", StartDate: day(2024, 1, 1), EndDate: day(2024, 12, 31), Dimensions: map[string]string{"segment": "Cloud"}},
			"I24":      {ID: "I24", Instant: day(2024, 12, 31)},
		},
		Units: map[string]taxonomy.Unit{
			"usd":    {ID: "usd", Measure: "iso4217:USD"},
			"eur":    {ID: "eur", Measure: "iso4217:EUR"},
			"shares": {ID: "shares", Measure: "xbrli:shares"},
		},
	}
}

func newNormalizer() *Normalizer {
	return NewNormalizer(taxonomy.NewGAAPTaxonomy(), overrides.NewEngine())
}

func TestNormalize_MapsCoreAndExtra(t *testing.T) {
	req := incomeRequest(
		taxonomy.Fact{ID: "f1", Concept: "us-gaap:Revenues", ContextRef: "FY24", UnitRef: str("usd"), Value: "1000"},
		taxonomy.Fact{ID: "f2", Concept: "us-gaap:NetIncomeLoss", ContextRef: "FY24", UnitRef: str("usd"), Value: "120.456", Decimals: intp(2)},
		taxonomy.Fact{ID: "f3", Concept: "acme:WidgetsShipped", ContextRef: "FY24", UnitRef: str("shares"), Value: "42"},
	)

	res, err := newNormalizer().Normalize(req)
	require.NoError(t, err)
	require.Equal(t, PayloadVersion, res.PayloadVersion)
	require.Empty(t, res.Warnings)

	p := res.Payload
	require.Equal(t, 0, p.UnitMultiplier())
	require.Equal(t, map[string]string{"consolidation": "CONSOLIDATED"}, p.Dimensions())

	rev, ok := p.CoreMetric(statement.Revenue)
	require.True(t, ok)
	require.Equal(t, "1000", rev.String())

	ni, ok := p.CoreMetric(statement.NetIncome)
	require.True(t, ok)
	require.Equal(t, "120.46", ni.String())

	extra := p.ExtraMetrics()
	require.Len(t, extra, 1)
	require.Equal(t, "42", extra["acme:WidgetsShipped"].String())

	rec := res.MetricRecords[statement.Revenue]
	require.Equal(t, "USD", rec.Unit)
	require.Equal(t, ConfidenceHigh, rec.Confidence)
	require.Equal(t, []string{"f1"}, rec.SourceFactIDs)
}

func TestNormalize_CompanySuppressionClosesBothMaps(t *testing.T) {
	req := incomeRequest(
		taxonomy.Fact{ID: "f1", Concept: "us-gaap:Revenues", ContextRef: "FY24", UnitRef: str("usd"), Value: "1000"},
	)
	req.OverrideRules = []overrides.Rule{{
		RuleID:        "suppress-revenue",
		Scope:         overrides.ScopeCompany,
		SourceConcept: "us-gaap:Revenues",
		MatchCIK:      str("0000123456"),
		IsSuppression: true,
	}}

	res, err := newNormalizer().Normalize(req)
	require.NoError(t, err)
	require.Empty(t, res.Payload.CoreMetrics())
	require.Empty(t, res.Payload.ExtraMetrics())
	require.Equal(t, 1, res.Overrides.SuppressionCount)
	require.Len(t, res.Overrides.Decisions, 1)
}

func TestNormalize_RemapToNonCanonicalTarget(t *testing.T) {
	req := incomeRequest(
		taxonomy.Fact{ID: "f1", Concept: "us-gaap:Revenues", ContextRef: "FY24", UnitRef: str("usd"), Value: "1000"},
	)
	req.OverrideRules = []overrides.Rule{{
		RuleID:        "to-custom",
		Scope:         overrides.ScopeGlobal,
		SourceConcept: "us-gaap:Revenues",
		TargetMetric:  str("acme:GrossBookings"),
	}}
	req.EnableOverrideTrace = true

	res, err := newNormalizer().Normalize(req)
	require.NoError(t, err)
	require.Empty(t, res.Payload.CoreMetrics())
	require.Equal(t, "1000", res.Payload.ExtraMetrics()["acme:GrossBookings"].String())
	require.Equal(t, 1, res.Overrides.RemapCount)
	require.Len(t, res.Overrides.Traces, 1)
}

func TestNormalize_SkipsUnusableFacts(t *testing.T) {
	req := incomeRequest(
		taxonomy.Fact{ID: "bad-ctx", Concept: "us-gaap:Revenues", ContextRef: "NOPE", Value: "1"},
		taxonomy.Fact{ID: "bad-unit", Concept: "us-gaap:Revenues", ContextRef: "FY24", UnitRef: str("yen"), Value: "1"},
		taxonomy.Fact{ID: "bad-period", Concept: "us-gaap:Revenues", ContextRef: "I24", UnitRef: str("usd"), Value: "1"},
		taxonomy.Fact{ID: "bad-currency", Concept: "us-gaap:NetIncomeLoss", ContextRef: "FY24", UnitRef: str("eur"), Value: "1"},
		taxonomy.Fact{ID: "bad-value", Concept: "us-gaap:OperatingIncomeLoss", ContextRef: "FY24", UnitRef: str("usd"), Value: "n/a"},
	)

	res, err := newNormalizer().Normalize(req)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 5)
	require.Empty(t, res.Payload.CoreMetrics())
	require.Empty(t, res.Payload.ExtraMetrics())
}

func TestNormalize_LastWriteWinsIsPinned(t *testing.T) {
	a := taxonomy.Fact{ID: "a", Concept: "us-gaap:Revenues", ContextRef: "FY24", UnitRef: str("usd"), Value: "100"}
	b := taxonomy.Fact{ID: "b", Concept: "us-gaap:Revenues", ContextRef: "FY24_SEG", UnitRef: str("usd"), Value: "40"}

	first, err := newNormalizer().Normalize(incomeRequest(a, b))
	require.NoError(t, err)
	second, err := newNormalizer().Normalize(incomeRequest(b, a))
	require.NoError(t, err)

	require.True(t, first.Payload.Equal(second.Payload))
	rev, _ := first.Payload.CoreMetric(statement.Revenue)
	require.Equal(t, "40", rev.String())
	require.Len(t, first.Warnings, 1)
}

func TestNormalize_Idempotent(t *testing.T) {
	req := incomeRequest(
		taxonomy.Fact{ID: "f1", Concept: "us-gaap:Revenues", ContextRef: "FY24", UnitRef: str("usd"), Value: "1000.10"},
		taxonomy.Fact{ID: "f2", Concept: "us-gaap:ProfitLoss", ContextRef: "FY24", UnitRef: str("usd"), Value: "-5"},
		taxonomy.Fact{ID: "f3", Concept: "acme:Other", ContextRef: "FY24", Value: "7"},
	)

	n := newNormalizer()
	first, err := n.Normalize(req)
	require.NoError(t, err)
	second, err := n.Normalize(req)
	require.NoError(t, err)
	require.True(t, first.Payload.Equal(second.Payload))
}

func TestNormalize_ValidatesRequest(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{name: "cik", mutate: func(r *Request) { r.CIK = " " }},
		{name: "currency", mutate: func(r *Request) { r.Currency = "" }},
		{name: "fiscal year", mutate: func(r *Request) { r.FiscalYear = 0 }},
		{name: "taxonomy", mutate: func(r *Request) { r.Taxonomy = "" }},
		{name: "version", mutate: func(r *Request) { r.VersionSequence = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := incomeRequest()
			tt.mutate(&req)
			_, err := newNormalizer().Normalize(req)
			require.ErrorIs(t, err, statement.ErrMapping)
		})
	}
}

func TestNormalize_EmptyFactsProduceEmptyPayload(t *testing.T) {
	res, err := newNormalizer().Normalize(incomeRequest())
	require.NoError(t, err)
	require.Empty(t, res.Payload.CoreMetrics())
	require.Empty(t, res.Payload.ExtraMetrics())
}

func TestCanonicalUnit(t *testing.T) {
	tests := map[string]string{
		"iso4217:USD":        "USD",
		"US$":                "USD",
		"xbrli:shares":       "SHARE",
		"xbrli:pure":         "RATIO",
		"iso4217:USD/shares": "USD/SHARE",
		"iso4217:eur":        "EUR",
	}
	for in, want := range tests {
		require.Equal(t, want, CanonicalUnit(in), in)
	}
}

func TestParseValue_Quantization(t *testing.T) {
	v, err := parseValue("2.345", intp(2))
	require.NoError(t, err)
	require.Equal(t, "2.34", v.String())

	v, err = parseValue("1234567", intp(-3))
	require.NoError(t, err)
	require.Equal(t, "1234567", v.String())

	_, err = parseValue("abc", nil)
	require.ErrorIs(t, err, statement.ErrMapping)
}
