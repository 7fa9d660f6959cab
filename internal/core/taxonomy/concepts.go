package taxonomy

import "github.com/aevon-lab/ledgerline/internal/core/statement"

// ConceptMetadata describes one curated concept.
type ConceptMetadata struct {
	QName      string           `json:"qname" yaml:"qname"`
	Metric     statement.Metric `json:"metric" yaml:"metric"`
	PeriodType PeriodType       `json:"period_type" yaml:"period_type"`
	// UnitSuffix is matched case-insensitively against the unit measure. Empty skips the check.
	UnitSuffix string `json:"unit_suffix" yaml:"unit_suffix"`
}

func duration(qname string, m statement.Metric, unit string) ConceptMetadata {
	return ConceptMetadata{QName: qname, Metric: m, PeriodType: PeriodDuration, UnitSuffix: unit}
}

func instant(qname string, m statement.Metric, unit string) ConceptMetadata {
	return ConceptMetadata{QName: qname, Metric: m, PeriodType: PeriodInstant, UnitSuffix: unit}
}

// gaapConcepts is the curated Tier-1 US GAAP registry.
var gaapConcepts = []ConceptMetadata{
	duration("us-gaap:Revenues", statement.Revenue, "USD"),
	duration("us-gaap:SalesRevenueNet", statement.Revenue, "USD"),
	duration("us-gaap:RevenuesNetOfInterestExpense", statement.Revenue, "USD"),
	duration("us-gaap:RevenueFromContractWithCustomerExcludingAssessedTax", statement.Revenue, "USD"),
	duration("us-gaap:CostOfRevenue", statement.CostOfRevenue, "USD"),
	duration("us-gaap:GrossProfit", statement.GrossProfit, "USD"),
	duration("us-gaap:OperatingExpenses", statement.OperatingExpenses, "USD"),
	duration("us-gaap:OperatingIncomeLoss", statement.OperatingIncome, "USD"),
	duration("us-gaap:InterestExpense", statement.InterestExpense, "USD"),
	duration("us-gaap:IncomeTaxExpenseBenefit", statement.IncomeTaxExpense, "USD"),
	duration("us-gaap:NetIncomeLoss", statement.NetIncome, "USD"),
	duration("us-gaap:ProfitLoss", statement.NetIncome, "USD"),
	duration("us-gaap:EarningsPerShareBasic", statement.BasicEPS, "shares"),
	duration("us-gaap:EarningsPerShareDiluted", statement.DilutedEPS, "shares"),
	duration("us-gaap:WeightedAverageNumberOfSharesOutstandingBasic", statement.WeightedAverageSharesBasic, "shares"),
	duration("us-gaap:WeightedAverageNumberOfDilutedSharesOutstanding", statement.WeightedAverageSharesDiluted, "shares"),
	instant("us-gaap:Assets", statement.TotalAssets, "USD"),
	instant("us-gaap:AssetsCurrent", statement.TotalCurrentAssets, "USD"),
	instant("us-gaap:Liabilities", statement.TotalLiabilities, "USD"),
	instant("us-gaap:LiabilitiesCurrent", statement.TotalCurrentLiabilities, "USD"),
	instant("us-gaap:StockholdersEquity", statement.TotalEquity, "USD"),
	instant("us-gaap:StockholdersEquityIncludingPortionAttributableToNoncontrollingInterest", statement.TotalEquity, "USD"),
	instant("us-gaap:Equity", statement.TotalEquity, "USD"),
	instant("us-gaap:CashAndCashEquivalentsAtCarryingValue", statement.CashAndCashEquivalents, "USD"),
	instant("us-gaap:CashCashEquivalentsAndShortTermInvestments", statement.CashAndCashEquivalents, "USD"),
	duration("us-gaap:NetCashProvidedByUsedInOperatingActivities", statement.NetCashFromOperating, "USD"),
	duration("us-gaap:NetCashProvidedByUsedInOperatingActivitiesContinuingOperations", statement.NetCashFromOperating, "USD"),
	duration("us-gaap:NetCashProvidedByUsedInInvestingActivities", statement.NetCashFromInvesting, "USD"),
	duration("us-gaap:NetCashProvidedByUsedInInvestingActivitiesContinuingOperations", statement.NetCashFromInvesting, "USD"),
	duration("us-gaap:NetCashProvidedByUsedInFinancingActivities", statement.NetCashFromFinancing, "USD"),
	duration("us-gaap:NetCashProvidedByUsedInFinancingActivitiesContinuingOperations", statement.NetCashFromFinancing, "USD"),
	duration("us-gaap:CashAndCashEquivalentsPeriodIncreaseDecrease", statement.NetIncreaseDecreaseInCash, "USD"),
	duration("us-gaap:PaymentsToAcquirePropertyPlantAndEquipment", statement.CapitalExpenditures, "USD"),
}
