// Package quality scores a canonical statement for modeling readiness.
package quality

import (
	"github.com/shopspring/decimal"

	"github.com/aevon-lab/ledgerline/internal/core/statement"
)

// Severity of a statement-level issue.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Issue codes.
const (
	CodeMissingCoreMetrics  = "MISSING_CORE_METRICS"
	CodeNegativeRevenue     = "NEGATIVE_REVENUE"
	CodeNegativeTotalAssets = "NEGATIVE_TOTAL_ASSETS"
	CodeCurrencyMismatch    = "CURRENCY_MISMATCH"
	CodeExtremeVolatility   = "EXTREME_VOLATILITY"
)

const (
	maxScore         = 100
	errorDeduction   = 20
	warningDeduction = 10
	safeScore        = 80
)

// volatilityThreshold is the absolute period-over-period change ratio above
// which a core metric is flagged.
var volatilityThreshold = decimal.NewFromInt(3)

type Issue struct {
	Code     string                 `json:"code"`
	Message  string                 `json:"message"`
	Severity Severity               `json:"severity"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

type Report struct {
	CIK            string                  `json:"cik"`
	StatementType  statement.StatementType `json:"statement_type"`
	FiscalYear     int                     `json:"fiscal_year"`
	FiscalPeriod   statement.FiscalPeriod  `json:"fiscal_period"`
	Score          int                     `json:"score"`
	IsModelingSafe bool                    `json:"is_modeling_safe"`
	Issues         []Issue                 `json:"issues"`
}

var requiredMetrics = map[statement.StatementType][]statement.Metric{
	statement.IncomeStatement: {statement.Revenue, statement.NetIncome},
	statement.BalanceSheet:    {statement.TotalAssets, statement.TotalLiabilities, statement.TotalEquity},
	statement.CashFlowStatement: {
		statement.NetCashFromOperating,
		statement.NetCashFromInvesting,
		statement.NetCashFromFinancing,
	},
}

// Evaluate scores p. previous is the prior-period payload and may be nil.
func Evaluate(p *statement.Payload, previous *statement.Payload) Report {
	issues := []Issue{}
	issues = append(issues, checkPresence(p)...)
	issues = append(issues, checkSigns(p)...)
	if previous != nil {
		issues = append(issues, checkCurrency(p, previous)...)
		issues = append(issues, checkVolatility(p, previous)...)
	}

	score := maxScore
	hasError := false
	for _, is := range issues {
		switch is.Severity {
		case SeverityError:
			score -= errorDeduction
			hasError = true
		case SeverityWarning:
			score -= warningDeduction
		}
	}
	if score < 0 {
		score = 0
	}

	return Report{
		CIK:            p.CIK(),
		StatementType:  p.StatementType(),
		FiscalYear:     p.FiscalYear(),
		FiscalPeriod:   p.FiscalPeriod(),
		Score:          score,
		IsModelingSafe: !hasError && score >= safeScore,
		Issues:         issues,
	}
}

func checkPresence(p *statement.Payload) []Issue {
	var missing []string
	for _, m := range requiredMetrics[p.StatementType()] {
		if _, ok := p.CoreMetric(m); !ok {
			missing = append(missing, string(m))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return []Issue{{
		Code:     CodeMissingCoreMetrics,
		Message:  "Missing core metrics for statement type.",
		Severity: SeverityError,
		Details: map[string]interface{}{
			"statement_type":  string(p.StatementType()),
			"missing_metrics": missing,
		},
	}}
}

func checkSigns(p *statement.Payload) []Issue {
	var out []Issue
	if rev, ok := p.CoreMetric(statement.Revenue); ok && rev.IsNegative() {
		out = append(out, Issue{
			Code:     CodeNegativeRevenue,
			Message:  "Revenue is negative, which is usually a data issue.",
			Severity: SeverityWarning,
			Details:  map[string]interface{}{"revenue": rev.String()},
		})
	}
	if assets, ok := p.CoreMetric(statement.TotalAssets); ok && assets.IsNegative() {
		out = append(out, Issue{
			Code:     CodeNegativeTotalAssets,
			Message:  "Total assets is negative, which is usually a data issue.",
			Severity: SeverityError,
			Details:  map[string]interface{}{"total_assets": assets.String()},
		})
	}
	return out
}

func checkCurrency(p, previous *statement.Payload) []Issue {
	if p.Currency() == previous.Currency() {
		return nil
	}
	return []Issue{{
		Code:     CodeCurrencyMismatch,
		Message:  "Currency differs from previous-period statement.",
		Severity: SeverityWarning,
		Details: map[string]interface{}{
			"current_currency":  p.Currency(),
			"previous_currency": previous.Currency(),
		},
	}}
}

func checkVolatility(p, previous *statement.Payload) []Issue {
	var out []Issue
	for _, m := range []statement.Metric{statement.Revenue, statement.NetIncome} {
		cur, ok := p.CoreMetric(m)
		if !ok {
			continue
		}
		prev, ok := previous.CoreMetric(m)
		if !ok || prev.IsZero() {
			continue
		}
		change := cur.Sub(prev).DivRound(prev, 16)
		if change.Abs().GreaterThan(volatilityThreshold) {
			out = append(out, Issue{
				Code:     CodeExtremeVolatility,
				Message:  "Metric exhibits extreme period-over-period change.",
				Severity: SeverityWarning,
				Details: map[string]interface{}{
					"metric":       string(m),
					"previous":     prev.String(),
					"current":      cur.String(),
					"change_ratio": change.String(),
				},
			})
		}
	}
	return out
}

// PreviousPeriod returns the fiscal period a statement is compared against.
// Quarters step back one quarter, Q1 rolls into the prior year's Q4, FY and H1
// compare with the prior year. OTHER has no previous period.
func PreviousPeriod(fiscalYear int, fp statement.FiscalPeriod) (int, statement.FiscalPeriod, bool) {
	switch fp {
	case statement.FY, statement.H1:
		return fiscalYear - 1, fp, true
	case statement.Q1:
		return fiscalYear - 1, statement.Q4, true
	case statement.Q2:
		return fiscalYear, statement.Q1, true
	case statement.Q3:
		return fiscalYear, statement.Q2, true
	case statement.Q4:
		return fiscalYear, statement.Q3, true
	}
	return 0, "", false
}
