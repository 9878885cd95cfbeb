package models

import "github.com/guregu/null/v6"

// StatementPeriod holds one fiscal period of normalized statement line items.
// Fields the provider did not report stay invalid (null) rather than zero.
type StatementPeriod struct {
	// Income statement
	Revenue         null.Float `json:"revenue"`
	GrossProfit     null.Float `json:"gross_profit"`
	OperatingIncome null.Float `json:"operating_income"`
	NetIncome       null.Float `json:"net_income"`
	EPS             null.Float `json:"eps"`
	InterestExpense null.Float `json:"interest_expense"`
	EBIT            null.Float `json:"ebit"`

	// Balance sheet
	TotalAssets        null.Float `json:"total_assets"`
	TotalEquity        null.Float `json:"total_equity"`
	TotalDebt          null.Float `json:"total_debt"`
	CashAndEquivalents null.Float `json:"cash_and_equivalents"`
	CurrentAssets      null.Float `json:"current_assets"`
	CurrentLiabilities null.Float `json:"current_liabilities"`

	// Cash flow
	OperatingCashFlow  null.Float `json:"operating_cash_flow"`
	CapitalExpenditure null.Float `json:"capital_expenditure"`
	FreeCashFlow       null.Float `json:"free_cash_flow"`
}

// FinancialStatements groups the three statement period lists for one ticker,
// each ordered most-recent first.
type FinancialStatements struct {
	Income   []StatementPeriod `json:"income_statement"`
	Balance  []StatementPeriod `json:"balance_sheet"`
	CashFlow []StatementPeriod `json:"cash_flow"`
}

// GrowthMetrics covers revenue/EPS growth rates.
type GrowthMetrics struct {
	RevenueCAGR3Y null.Float `json:"revenue_cagr_3y"`
	EPSCAGR3Y     null.Float `json:"eps_cagr_3y"`
	RevenueYoY    null.Float `json:"revenue_yoy"`
	EPSYoY        null.Float `json:"eps_yoy"`
	GrowthTrend   string     `json:"growth_trend"`
}

// ProfitabilityMetrics covers margins and returns.
type ProfitabilityMetrics struct {
	GrossMargin        null.Float `json:"gross_margin"`
	OperatingMargin    null.Float `json:"operating_margin"`
	NetMargin          null.Float `json:"net_margin"`
	ROE                null.Float `json:"roe"`
	ROA                null.Float `json:"roa"`
	ProfitabilityLevel string     `json:"profitability_level"`
}

// FinancialHealthMetrics covers balance-sheet strength ratios.
type FinancialHealthMetrics struct {
	DebtEquity           null.Float `json:"debt_equity"`
	InterestCoverage     null.Float `json:"interest_coverage"`
	CashToDebt           null.Float `json:"cash_to_debt"`
	CurrentRatio         null.Float `json:"current_ratio"`
	BalanceSheetStrength string     `json:"balance_sheet_strength"`
}

// FundamentalMetrics is the output record of the fundamental calculator.
type FundamentalMetrics struct {
	Growth          GrowthMetrics          `json:"growth"`
	Profitability   ProfitabilityMetrics   `json:"profitability"`
	FinancialHealth FinancialHealthMetrics `json:"financial_health"`
}

// Growth trend labels.
const (
	GrowthAccelerating = "accelerating"
	GrowthStable       = "stable"
	GrowthSlowing      = "slowing"
)

// Profitability levels.
const (
	ProfitabilityHigh   = "high"
	ProfitabilityMedium = "medium"
	ProfitabilityLow    = "low"
)

// Balance-sheet strength labels.
const (
	BalanceStrong     = "strong"
	BalanceAcceptable = "acceptable"
	BalanceWeak       = "weak"
)

// LabelUnknown is used when the metric driving a label is null.
const LabelUnknown = "unknown"
