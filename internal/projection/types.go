package projection

import (
	"strings"

	"github.com/aevon-lab/ledgerline/internal/core/facts"
	"github.com/aevon-lab/ledgerline/internal/core/overrides"
	"github.com/aevon-lab/ledgerline/internal/core/quality"
	"github.com/aevon-lab/ledgerline/internal/core/restatement"
	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

// StatementPeriod addresses every version of one statement period.
type StatementPeriod struct {
	CIK           string
	StatementType statement.StatementType
	FiscalYear    int
	FiscalPeriod  statement.FiscalPeriod
}

type periodURI struct {
	CIK           string `uri:"cik" binding:"required"`
	StatementType string `uri:"statement_type" binding:"required"`
	FiscalYear    int    `uri:"fiscal_year" binding:"required,gt=0"`
	FiscalPeriod  string `uri:"fiscal_period" binding:"required"`
}

func (u periodURI) parse() (StatementPeriod, error) {
	st, err := statement.ParseStatementType(u.StatementType)
	if err != nil {
		return StatementPeriod{}, err
	}
	fp, err := statement.ParseFiscalPeriod(u.FiscalPeriod)
	if err != nil {
		return StatementPeriod{}, err
	}
	return StatementPeriod{CIK: u.CIK, StatementType: st, FiscalYear: u.FiscalYear, FiscalPeriod: fp}, nil
}

type versionURI struct {
	periodURI
	Version int `uri:"version" binding:"required,gt=0"`
}

func (u versionURI) identity() (statement.Identity, error) {
	p, err := u.periodURI.parse()
	if err != nil {
		return statement.Identity{}, err
	}
	return statement.Identity{
		CIK:             p.CIK,
		StatementType:   p.StatementType,
		FiscalYear:      p.FiscalYear,
		FiscalPeriod:    p.FiscalPeriod,
		VersionSequence: u.Version,
	}, nil
}

type deltaQuery struct {
	From    *int   `form:"from"`
	To      *int   `form:"to"`
	Metrics string `form:"metrics"` // comma separated
}

// parseMetrics turns a comma separated list into canonical metrics. An empty
// list means every metric.
func parseMetrics(raw string) ([]statement.Metric, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []statement.Metric
	for _, part := range strings.Split(raw, ",") {
		m, ok := statement.ParseMetric(part)
		if !ok {
			return nil, statement.NewMappingError(map[string]interface{}{"metric": part}, "unknown metric %q", strings.TrimSpace(part))
		}
		out = append(out, m)
	}
	return out, nil
}

// LedgerResponse is returned by GET .../restatements/ledger.
type LedgerResponse struct {
	CIK           string                  `json:"cik"`
	StatementType statement.StatementType `json:"statement_type"`
	FiscalYear    int                     `json:"fiscal_year"`
	FiscalPeriod  statement.FiscalPeriod  `json:"fiscal_period"`
	HopCount      int                     `json:"hop_count"`
	Hops          []restatement.LedgerHop `json:"hops"`
}

// QualityResponse is returned by GET .../quality.
type QualityResponse struct {
	Identity         statement.Identity  `json:"statement_identity"`
	PreviousIdentity *statement.Identity `json:"previous_statement_identity,omitempty"`
	Report           quality.Report      `json:"report"`
}

// FactsResponse lists the stored facts of one statement version.
type FactsResponse struct {
	Identity statement.Identity         `json:"statement_identity"`
	Count    int                        `json:"count"`
	Facts    []statement.NormalizedFact `json:"facts"`
}

// AnomaliesResponse lists the latest DQ anomalies of one statement version.
type AnomaliesResponse struct {
	Identity  statement.Identity `json:"statement_identity"`
	Count     int                `json:"count"`
	Anomalies []facts.Anomaly    `json:"anomalies"`
}

// RulesResponse lists the override rules of one concept.
type RulesResponse struct {
	Concept  string           `json:"concept"`
	Taxonomy *string          `json:"taxonomy,omitempty"`
	Count    int              `json:"count"`
	Rules    []overrides.Rule `json:"rules"`
}
