package v1

import (
	"strings"
	"time"

	"github.com/aevon-lab/ledgerline/internal/core/facts"
	"github.com/aevon-lab/ledgerline/internal/core/normalize"
	"github.com/aevon-lab/ledgerline/internal/core/quality"
	"github.com/aevon-lab/ledgerline/internal/core/statement"
	"github.com/aevon-lab/ledgerline/internal/core/taxonomy"
)

// DefaultTaxonomy is assumed when a request omits taxonomy.
const DefaultTaxonomy = "US_GAAP"

// NormalizeStatementRequest is the body of POST /v1/statements/normalize.
type NormalizeStatementRequest struct {
	CIK                 string                      `json:"cik" binding:"required"`
	StatementType       string                      `json:"statement_type" binding:"required"`
	AccountingStandard  string                      `json:"accounting_standard"`
	StatementDate       string                      `json:"statement_date" binding:"required"`
	FiscalYear          int                         `json:"fiscal_year" binding:"required,gt=0"`
	FiscalPeriod        string                      `json:"fiscal_period" binding:"required"`
	Currency            string                      `json:"currency" binding:"required"`
	AccessionID         string                      `json:"accession_id"`
	Taxonomy            string                      `json:"taxonomy"`
	VersionSequence     int                         `json:"version_sequence" binding:"required,gt=0"`
	IndustryCode        *string                     `json:"industry_code,omitempty"`
	AnalystProfileID    *string                     `json:"analyst_profile_id,omitempty"`
	EnableOverrideTrace bool                        `json:"enable_override_trace"`
	Facts               []taxonomy.Fact             `json:"facts" binding:"dive"`
	Contexts            map[string]taxonomy.Context `json:"contexts"`
	Units               map[string]taxonomy.Unit    `json:"units"`
}

// ToRequest parses the enumerations and date of r. Override rules are resolved
// by the caller.
func (r *NormalizeStatementRequest) ToRequest() (normalize.Request, error) {
	st, err := statement.ParseStatementType(r.StatementType)
	if err != nil {
		return normalize.Request{}, err
	}
	std := statement.USGAAP
	if strings.TrimSpace(r.AccountingStandard) != "" {
		if std, err = statement.ParseAccountingStandard(r.AccountingStandard); err != nil {
			return normalize.Request{}, err
		}
	}
	fp, err := statement.ParseFiscalPeriod(r.FiscalPeriod)
	if err != nil {
		return normalize.Request{}, err
	}
	date, err := time.Parse(statement.DateLayout, r.StatementDate)
	if err != nil {
		return normalize.Request{}, statement.NewMappingError(map[string]interface{}{"field": "statement_date", "value": r.StatementDate},
			"statement_date must be YYYY-MM-DD")
	}
	tax := r.Taxonomy
	if strings.TrimSpace(tax) == "" {
		tax = DefaultTaxonomy
	}
	return normalize.Request{
		CIK:                 strings.TrimSpace(r.CIK),
		StatementType:       st,
		AccountingStandard:  std,
		StatementDate:       date,
		FiscalYear:          r.FiscalYear,
		FiscalPeriod:        fp,
		Currency:            strings.ToUpper(strings.TrimSpace(r.Currency)),
		AccessionID:         r.AccessionID,
		Taxonomy:            tax,
		VersionSequence:     r.VersionSequence,
		Facts:               r.Facts,
		Contexts:            r.Contexts,
		Units:               r.Units,
		IndustryCode:        r.IndustryCode,
		AnalystProfileID:    r.AnalystProfileID,
		EnableOverrideTrace: r.EnableOverrideTrace,
	}, nil
}

// DQSummary condenses the DQ run of one normalization.
type DQSummary struct {
	RunID        string                     `json:"dq_run_id"`
	FactCount    int                        `json:"fact_count"`
	AnomalyCount int                        `json:"anomaly_count"`
	MaxSeverity  statement.MaterialityClass `json:"max_severity"`
	Anomalies    []facts.Anomaly            `json:"anomalies"`
}

func NewDQSummary(res facts.DQResult) DQSummary {
	return DQSummary{
		RunID:        res.Run.RunID,
		FactCount:    len(res.FactQuality),
		AnomalyCount: len(res.Anomalies),
		MaxSeverity:  res.MaxSeverity(),
		Anomalies:    res.Anomalies,
	}
}

// NormalizeStatementResponse is returned by POST /v1/statements/normalize.
type NormalizeStatementResponse struct {
	Identity       statement.Identity                          `json:"statement_identity"`
	IngestSeq      int64                                       `json:"ingest_seq"`
	Payload        *statement.Payload                          `json:"payload"`
	PayloadVersion string                                      `json:"payload_version"`
	MetricRecords  map[statement.Metric]normalize.MetricRecord `json:"metric_records"`
	Warnings       []string                                    `json:"warnings"`
	Overrides      normalize.OverrideSummary                   `json:"overrides"`
	DQ             DQSummary                                   `json:"dq"`
	Quality        quality.Report                              `json:"quality"`
}

// ReconciliationRunRequest is the body of POST /v1/reconciliation/runs.
type ReconciliationRunRequest struct {
	CIK            string   `json:"cik" binding:"required"`
	FiscalYear     int      `json:"fiscal_year" binding:"required,gt=0"`
	FiscalPeriod   *string  `json:"fiscal_period,omitempty"`
	StatementTypes []string `json:"statement_types,omitempty"`
	RuleSetID      string   `json:"rule_set_id,omitempty"`
}

// Scope parses the optional filters of r. Without statement types every type
// is reconciled.
func (r *ReconciliationRunRequest) Scope() ([]statement.StatementType, *statement.FiscalPeriod, error) {
	var period *statement.FiscalPeriod
	if r.FiscalPeriod != nil {
		fp, err := statement.ParseFiscalPeriod(*r.FiscalPeriod)
		if err != nil {
			return nil, nil, err
		}
		period = &fp
	}
	if len(r.StatementTypes) == 0 {
		return []statement.StatementType{statement.IncomeStatement, statement.BalanceSheet, statement.CashFlowStatement}, period, nil
	}
	types := make([]statement.StatementType, 0, len(r.StatementTypes))
	seen := make(map[statement.StatementType]bool, len(r.StatementTypes))
	for _, raw := range r.StatementTypes {
		st, err := statement.ParseStatementType(raw)
		if err != nil {
			return nil, nil, err
		}
		if !seen[st] {
			seen[st] = true
			types = append(types, st)
		}
	}
	return types, period, nil
}

// ReconciliationRunResponse is returned by POST /v1/reconciliation/runs.
type ReconciliationRunResponse struct {
	RunID          string                     `json:"reconciliation_run_id"`
	RuleSetID      string                     `json:"rule_set_id"`
	RuleSetVersion string                     `json:"rule_set_version"`
	ExecutedAt     time.Time                  `json:"executed_at"`
	StatementCount int                        `json:"statement_count"`
	Counts         map[string]int             `json:"counts"`
	Results        []ReconciliationResultItem `json:"results"`
}

// ReconciliationResultItem is the wire form of one ledger row.
type ReconciliationResultItem struct {
	Identity        statement.Identity         `json:"statement_identity"`
	RuleID          string                     `json:"rule_id"`
	Category        string                     `json:"rule_category"`
	Status          string                     `json:"status"`
	Severity        statement.MaterialityClass `json:"severity"`
	ExpectedValue   *string                    `json:"expected_value,omitempty"`
	ActualValue     *string                    `json:"actual_value,omitempty"`
	Delta           *string                    `json:"delta,omitempty"`
	DimensionKey    *string                    `json:"dimension_key,omitempty"`
	DimensionLabels map[string]string          `json:"dimension_labels,omitempty"`
	Notes           map[string]interface{}     `json:"notes,omitempty"`
}

// ReconciliationResultsResponse lists ledger rows for a statement or window.
type ReconciliationResultsResponse struct {
	Count   int                        `json:"count"`
	Results []ReconciliationResultItem `json:"results"`
}

// StatementVersionsResponse lists the stored versions of a company's statement.
type StatementVersionsResponse struct {
	Count    int                          `json:"count"`
	Versions []statement.StatementVersion `json:"versions"`
}
