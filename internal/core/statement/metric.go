package statement

import "strings"

// Metric is a code from the canonical (Tier-1) metric vocabulary.
type Metric string

const (
	Revenue                      Metric = "REVENUE"
	CostOfRevenue                Metric = "COST_OF_REVENUE"
	GrossProfit                  Metric = "GROSS_PROFIT"
	OperatingExpenses            Metric = "OPERATING_EXPENSES"
	OperatingIncome              Metric = "OPERATING_INCOME"
	InterestExpense              Metric = "INTEREST_EXPENSE"
	IncomeTaxExpense             Metric = "INCOME_TAX_EXPENSE"
	NetIncome                    Metric = "NET_INCOME"
	BasicEPS                     Metric = "BASIC_EPS"
	DilutedEPS                   Metric = "DILUTED_EPS"
	WeightedAverageSharesBasic   Metric = "WEIGHTED_AVERAGE_SHARES_BASIC"
	WeightedAverageSharesDiluted Metric = "WEIGHTED_AVERAGE_SHARES_DILUTED"
	TotalAssets                  Metric = "TOTAL_ASSETS"
	TotalCurrentAssets           Metric = "TOTAL_CURRENT_ASSETS"
	TotalLiabilities             Metric = "TOTAL_LIABILITIES"
	TotalCurrentLiabilities      Metric = "TOTAL_CURRENT_LIABILITIES"
	TotalEquity                  Metric = "TOTAL_EQUITY"
	CashAndCashEquivalents       Metric = "CASH_AND_CASH_EQUIVALENTS"
	NetCashFromOperating         Metric = "NET_CASH_FROM_OPERATING_ACTIVITIES"
	NetCashFromInvesting         Metric = "NET_CASH_FROM_INVESTING_ACTIVITIES"
	NetCashFromFinancing         Metric = "NET_CASH_FROM_FINANCING_ACTIVITIES"
	NetIncreaseDecreaseInCash    Metric = "NET_INCREASE_DECREASE_IN_CASH"
	CapitalExpenditures          Metric = "CAPITAL_EXPENDITURES"
	FreeCashFlow                 Metric = "FREE_CASH_FLOW"
	CashBeginningOfPeriod        Metric = "CASH_BEGINNING_OF_PERIOD"
	CashEndOfPeriod              Metric = "CASH_END_OF_PERIOD"
)

var canonicalMetrics = map[Metric]struct{}{
	Revenue: {}, CostOfRevenue: {}, GrossProfit: {}, OperatingExpenses: {}, OperatingIncome: {},
	InterestExpense: {}, IncomeTaxExpense: {}, NetIncome: {}, BasicEPS: {}, DilutedEPS: {},
	WeightedAverageSharesBasic: {}, WeightedAverageSharesDiluted: {},
	TotalAssets: {}, TotalCurrentAssets: {}, TotalLiabilities: {}, TotalCurrentLiabilities: {},
	TotalEquity: {}, CashAndCashEquivalents: {},
	NetCashFromOperating: {}, NetCashFromInvesting: {}, NetCashFromFinancing: {},
	NetIncreaseDecreaseInCash: {}, CapitalExpenditures: {}, FreeCashFlow: {},
	CashBeginningOfPeriod: {}, CashEndOfPeriod: {},
}

// Valid reports whether m belongs to the canonical vocabulary.
func (m Metric) Valid() bool {
	_, ok := canonicalMetrics[m]
	return ok
}

// ParseMetric returns the canonical metric for s and whether it is recognized.
func ParseMetric(s string) (Metric, bool) {
	m := Metric(strings.ToUpper(strings.TrimSpace(s)))
	return m, m.Valid()
}

// MetricPtr is a convenience for optional metric fields.
func MetricPtr(m Metric) *Metric { return &m }
