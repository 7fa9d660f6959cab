package reconciliation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	v1 "github.com/aevon-lab/ledgerline/internal/api/v1"
	httperr "github.com/aevon-lab/ledgerline/internal/core/errors"
	corerec "github.com/aevon-lab/ledgerline/internal/core/reconciliation"
	"github.com/aevon-lab/ledgerline/internal/core/statement"
	"github.com/aevon-lab/ledgerline/internal/metrics"
	reconciliationmocks "github.com/aevon-lab/ledgerline/internal/mocks/reconciliation"
	storagemocks "github.com/aevon-lab/ledgerline/internal/mocks/storage"
)

const testRuleSetID = "RS_TEST"

var fixedNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	ruleSets *reconciliationmocks.RuleSetStore
	versions *storagemocks.StatementVersionStore
	facts    *storagemocks.FactStore
	ledger   *storagemocks.ReconciliationLedger
	metrics  *metrics.Metrics
	svc      *Service
	router   *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := &fixture{
		ruleSets: reconciliationmocks.NewRuleSetStore(t),
		versions: storagemocks.NewStatementVersionStore(t),
		facts:    storagemocks.NewFactStore(t),
		ledger:   storagemocks.NewReconciliationLedger(t),
		metrics:  metrics.New(prometheus.NewRegistry()),
	}
	f.svc = NewService(f.ruleSets, Stores{Versions: f.versions, Facts: f.facts, Ledger: f.ledger}, Options{
		DefaultRuleSetID: testRuleSetID,
		Engine:           corerec.DefaultConfig(),
		EngineOptions: []corerec.Option{
			corerec.WithClock(func() time.Time { return fixedNow }),
			corerec.WithIDFunc(func() string { return "run-1" }),
		},
	}, f.metrics)
	f.router = gin.New()
	f.svc.RegisterRoutes(f.router)
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), out), resp.Body.String())
	}
	return resp.Code
}

func balanceRuleSet() corerec.RuleSet {
	return corerec.RuleSet{
		ID:      testRuleSetID,
		Version: "test_v1",
		Rules: []corerec.Rule{{
			RuleID:                   "BS_IDENTITY",
			Name:                     "Assets equal liabilities plus equity",
			Category:                 corerec.CategoryIdentity,
			Severity:                 statement.MaterialityHigh,
			Enabled:                  true,
			ApplicableStatementTypes: []statement.StatementType{statement.BalanceSheet},
			Identity: &corerec.IdentitySpec{
				LHS: []statement.Metric{statement.TotalAssets},
				RHS: []statement.Metric{statement.TotalLiabilities, statement.TotalEquity},
			},
		}},
	}
}

func balanceVersion(t *testing.T, cik string, fy int, seq int, assets string, ingestSeq int64) statement.StatementVersion {
	t.Helper()
	p, err := statement.NewPayload(statement.PayloadParams{
		CIK:                cik,
		StatementType:      statement.BalanceSheet,
		AccountingStandard: statement.USGAAP,
		StatementDate:      time.Date(fy, 12, 31, 0, 0, 0, 0, time.UTC),
		FiscalYear:         fy,
		FiscalPeriod:       statement.FY,
		Currency:           "USD",
		CoreMetrics: map[statement.Metric]decimal.Decimal{
			statement.TotalAssets:      decimal.RequireFromString(assets),
			statement.TotalLiabilities: decimal.NewFromInt(100),
			statement.TotalEquity:      decimal.NewFromInt(200),
		},
		SourceVersionSequence: seq,
	})
	require.NoError(t, err)
	v := statement.VersionFromPayload(p, "v1")
	v.IngestSeq = ingestSeq
	return v
}

func TestHandleRun_Success(t *testing.T) {
	f := newFixture(t)
	f.ruleSets.EXPECT().GetRuleSet(mock.Anything, testRuleSetID).Return(balanceRuleSet(), nil)

	raw := balanceVersion(t, "0000123456", 2024, 3, "300", 9)
	raw.NormalizedPayload = nil
	f.versions.EXPECT().
		ListStatementVersionsForCompany(mock.Anything, "0000123456", statement.BalanceSheet, 2024, (*statement.FiscalPeriod)(nil)).
		Return([]statement.StatementVersion{
			balanceVersion(t, "0000123456", 2024, 1, "310", 4),
			balanceVersion(t, "0000123456", 2024, 2, "300", 7),
			raw,
		}, nil)

	var appended corerec.Run
	f.ledger.EXPECT().AppendResults(mock.Anything, mock.Anything).
		Run(func(_ context.Context, run corerec.Run) { appended = run }).
		Return(nil)

	var resp v1.ReconciliationRunResponse
	code := f.do(t, http.MethodPost, "/v1/reconciliation/runs", map[string]interface{}{
		"cik":             "0000123456",
		"fiscal_year":     2024,
		"statement_types": []string{"balance_sheet"},
	}, &resp)

	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, "run-1", resp.RunID)
	require.Equal(t, testRuleSetID, resp.RuleSetID)
	require.Equal(t, "test_v1", resp.RuleSetVersion)
	require.Equal(t, fixedNow, resp.ExecutedAt.UTC())
	require.Equal(t, 1, resp.StatementCount)
	require.Equal(t, map[string]int{"PASS": 1, "WARNING": 0, "FAIL": 0}, resp.Counts)
	require.Len(t, resp.Results, 1)
	require.Equal(t, 2, resp.Results[0].Identity.VersionSequence)
	require.Equal(t, "BS_IDENTITY", resp.Results[0].RuleID)

	require.Equal(t, "run-1", appended.RunID)
	require.Equal(t, "test_v1", appended.RuleSetVersion)
	require.Len(t, appended.Results, 1)
	require.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ReconciliationResults.WithLabelValues("IDENTITY", "PASS")))
}

func TestHandleRun_DefaultScopeAndPeriod(t *testing.T) {
	f := newFixture(t)
	f.ruleSets.EXPECT().GetRuleSet(mock.Anything, "OTHER").Return(balanceRuleSet(), nil)

	fy := statement.FY
	for _, st := range []statement.StatementType{statement.IncomeStatement, statement.CashFlowStatement} {
		f.versions.EXPECT().ListStatementVersionsForCompany(mock.Anything, "0000123456", st, 2024, &fy).Return(nil, nil)
	}
	f.versions.EXPECT().ListStatementVersionsForCompany(mock.Anything, "0000123456", statement.BalanceSheet, 2024, &fy).
		Return([]statement.StatementVersion{balanceVersion(t, "0000123456", 2024, 1, "500", 1)}, nil)
	f.ledger.EXPECT().AppendResults(mock.Anything, mock.Anything).Return(nil)

	var resp v1.ReconciliationRunResponse
	code := f.do(t, http.MethodPost, "/v1/reconciliation/runs", map[string]interface{}{
		"cik":           " 0000123456 ",
		"fiscal_year":   2024,
		"fiscal_period": "fy",
		"rule_set_id":   "OTHER",
	}, &resp)

	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, map[string]int{"PASS": 0, "WARNING": 0, "FAIL": 1}, resp.Counts)
	require.Equal(t, "-200", *resp.Results[0].Delta)
	require.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ReconciliationResults.WithLabelValues("IDENTITY", "FAIL")))
}

func TestHandleRun_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		body      interface{}
		wantCode  int
		wantError string
	}{
		{name: "malformed json", body: "{", wantCode: http.StatusBadRequest, wantError: httperr.HttpInvalidRequestError},
		{name: "missing fiscal year", body: map[string]interface{}{"cik": "1"}, wantCode: http.StatusBadRequest, wantError: httperr.HttpInvalidRequestError},
		{name: "non digit cik", body: map[string]interface{}{"cik": "ABC", "fiscal_year": 2024}, wantCode: http.StatusUnprocessableEntity, wantError: httperr.HttpMappingError},
		{name: "unknown period", body: map[string]interface{}{"cik": "1", "fiscal_year": 2024, "fiscal_period": "Q9"}, wantCode: http.StatusUnprocessableEntity, wantError: httperr.HttpMappingError},
		{name: "unknown statement type", body: map[string]interface{}{"cik": "1", "fiscal_year": 2024, "statement_types": []string{"EQUITY"}}, wantCode: http.StatusUnprocessableEntity, wantError: httperr.HttpMappingError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			var body httperr.ErrorResponse
			code := f.do(t, http.MethodPost, "/v1/reconciliation/runs", tt.body, &body)
			require.Equal(t, tt.wantCode, code)
			require.Equal(t, tt.wantError, body.ErrorType)
		})
	}
}

func TestHandleRun_UnknownRuleSet(t *testing.T) {
	f := newFixture(t)
	f.ruleSets.EXPECT().GetRuleSet(mock.Anything, "MISSING").
		Return(corerec.RuleSet{}, statement.NewNotFoundError(nil, "rule set %q not found", "MISSING"))

	var body httperr.ErrorResponse
	code := f.do(t, http.MethodPost, "/v1/reconciliation/runs", map[string]interface{}{
		"cik": "1", "fiscal_year": 2024, "rule_set_id": "MISSING",
	}, &body)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, httperr.HttpNotFoundError, body.ErrorType)
}

func TestHandleRun_NoNormalizedStatements(t *testing.T) {
	f := newFixture(t)
	f.ruleSets.EXPECT().GetRuleSet(mock.Anything, testRuleSetID).Return(balanceRuleSet(), nil)
	f.versions.EXPECT().ListStatementVersionsForCompany(mock.Anything, "1", mock.Anything, 2024, mock.Anything).Return(nil, nil)

	var body httperr.ErrorResponse
	code := f.do(t, http.MethodPost, "/v1/reconciliation/runs", map[string]interface{}{"cik": "1", "fiscal_year": 2024}, &body)
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, httperr.HttpInsufficientData, body.ErrorType)
	require.Equal(t, "1", body.Details.(map[string]interface{})["cik"])
}

func TestHandleRun_LedgerFailure(t *testing.T) {
	f := newFixture(t)
	f.ruleSets.EXPECT().GetRuleSet(mock.Anything, testRuleSetID).Return(balanceRuleSet(), nil)
	f.versions.EXPECT().ListStatementVersionsForCompany(mock.Anything, "1", statement.BalanceSheet, 2024, mock.Anything).
		Return([]statement.StatementVersion{balanceVersion(t, "1", 2024, 1, "300", 1)}, nil)
	f.ledger.EXPECT().AppendResults(mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	var body httperr.ErrorResponse
	code := f.do(t, http.MethodPost, "/v1/reconciliation/runs", map[string]interface{}{
		"cik": "1", "fiscal_year": 2024, "statement_types": []string{"BALANCE_SHEET"},
	}, &body)
	require.Equal(t, http.StatusInternalServerError, code)
	require.Equal(t, msgRunFailed, body.Message)
	require.Equal(t, float64(0), testutil.ToFloat64(f.metrics.ReconciliationResults.WithLabelValues("IDENTITY", "PASS")))
}

func TestRun_SegmentRulesLoadFacts(t *testing.T) {
	f := newFixture(t)
	rs := corerec.RuleSet{ID: testRuleSetID, Version: "seg_v1", Rules: []corerec.Rule{{
		RuleID:   "SEG_REVENUE",
		Category: corerec.CategorySegment,
		Severity: statement.MaterialityMedium,
		Enabled:  true,
		Segment: &corerec.SegmentSpec{
			ParentMetric:    statement.TotalAssets,
			ChildMetric:     statement.TotalAssets,
			RollupDimension: "segment",
		},
	}}}
	f.ruleSets.EXPECT().GetRuleSet(mock.Anything, testRuleSetID).Return(rs, nil)

	v := balanceVersion(t, "1", 2024, 1, "300", 1)
	f.versions.EXPECT().ListStatementVersionsForCompany(mock.Anything, "1", statement.BalanceSheet, 2024, mock.Anything).
		Return([]statement.StatementVersion{v}, nil)
	f.facts.EXPECT().ListFactsForStatement(mock.Anything, v.Identity()).Return([]statement.NormalizedFact{}, nil)
	f.ledger.EXPECT().AppendResults(mock.Anything, mock.Anything).Return(nil)

	resp, err := f.svc.Run(context.Background(), &v1.ReconciliationRunRequest{
		CIK: "1", FiscalYear: 2024, StatementTypes: []string{"BALANCE_SHEET"},
	})
	require.NoError(t, err)
	require.Equal(t, "seg_v1", resp.RuleSetVersion)
	require.Equal(t, 1, resp.StatementCount)
}

func TestHandleRuleSets(t *testing.T) {
	f := newFixture(t)
	other := corerec.RuleSet{ID: "ALT", Version: "alt_v1", Fingerprint: "abc", Rules: []corerec.Rule{
		{RuleID: "A", Category: corerec.CategoryCalendar, Enabled: false},
	}}
	f.ruleSets.EXPECT().ListRuleSets(mock.Anything).Return([]corerec.RuleSet{other, balanceRuleSet()}, nil)

	var resp v1.RuleSetsResponse
	code := f.do(t, http.MethodGet, "/v1/reconciliation/rule-sets", nil, &resp)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 2, resp.Count)

	require.Equal(t, "ALT", resp.RuleSets[0].ID)
	require.False(t, resp.RuleSets[0].Default)
	require.Equal(t, 0, resp.RuleSets[0].EnabledCount)
	require.Equal(t, map[string]int{"CALENDAR": 1}, resp.RuleSets[0].Categories)

	require.True(t, resp.RuleSets[1].Default)
	require.Equal(t, 1, resp.RuleSets[1].RuleCount)
	require.Equal(t, 1, resp.RuleSets[1].EnabledCount)
}

func TestLatestNormalized(t *testing.T) {
	q1 := balanceVersion(t, "1", 2024, 1, "1", 1)
	q1.FiscalPeriod = statement.Q1
	fy1 := balanceVersion(t, "1", 2024, 1, "2", 2)
	fy3 := balanceVersion(t, "1", 2024, 3, "3", 3)
	fy4 := balanceVersion(t, "1", 2024, 4, "4", 4)
	fy4.NormalizedPayload = nil

	out := latestNormalized([]statement.StatementVersion{fy3, q1, fy4, fy1})
	require.Len(t, out, 2)
	// FY sorts before Q1
	require.Equal(t, "3", out[0].CoreMetrics()[statement.TotalAssets].String())
	require.Equal(t, "1", out[1].CoreMetrics()[statement.TotalAssets].String())
}
