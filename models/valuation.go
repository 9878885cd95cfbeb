package models

import "github.com/guregu/null/v6"

// InfoSnapshot is the fixed internal schema for a live market snapshot.
// Provider field availability varies, so every field is optional.
type InfoSnapshot struct {
	Symbol            string     `json:"symbol"`
	Sector            string     `json:"sector"`
	CurrentPrice      null.Float `json:"current_price"`
	MarketCap         null.Float `json:"market_cap"`
	EnterpriseValue   null.Float `json:"enterprise_value"`
	SharesOutstanding null.Float `json:"shares_outstanding"`

	TrailingPE   null.Float `json:"trailing_pe"`
	ForwardPE    null.Float `json:"forward_pe"`
	PEGRatio     null.Float `json:"peg_ratio"`
	PriceToBook  null.Float `json:"price_to_book"`
	PriceToSales null.Float `json:"price_to_sales"`
	EVToEBITDA   null.Float `json:"ev_to_ebitda"`
	EVToRevenue  null.Float `json:"ev_to_revenue"`

	FreeCashFlow      null.Float `json:"free_cash_flow"`
	OperatingCashFlow null.Float `json:"operating_cash_flow"`

	DividendYield null.Float `json:"dividend_yield"`
	PayoutRatio   null.Float `json:"payout_ratio"`
}

// ValuationMetrics is the extended valuation panel plus a 0-100 score.
type ValuationMetrics struct {
	Symbol          string     `json:"symbol"`
	CurrentPrice    null.Float `json:"current_price"`
	MarketCap       null.Float `json:"market_cap"`
	EnterpriseValue null.Float `json:"enterprise_value"`

	TrailingPE   null.Float `json:"pe_ttm"`
	ForwardPE    null.Float `json:"pe_forward"`
	PEGRatio     null.Float `json:"peg_ratio"`
	PriceToBook  null.Float `json:"price_to_book"`
	PriceToSales null.Float `json:"price_to_sales"`

	EVToEBITDA  null.Float `json:"ev_to_ebitda"`
	EVToRevenue null.Float `json:"ev_to_revenue"`
	EVToFCF     null.Float `json:"ev_to_fcf"`

	FreeCashFlow  null.Float `json:"free_cash_flow"`
	FCFYield      null.Float `json:"fcf_yield"`
	FCFPerShare   null.Float `json:"fcf_per_share"`
	PriceToFCF    null.Float `json:"price_to_fcf"`
	EarningsYield null.Float `json:"earnings_yield"`

	DividendYield null.Float `json:"dividend_yield"`
	PayoutRatio   null.Float `json:"payout_ratio"`

	ValuationScore float64 `json:"valuation_score"`
	ValuationLabel string  `json:"valuation_label"`
}

// Valuation labels.
const (
	ValuationUndervalued = "Undervalued"
	ValuationFairValue   = "Fair Value"
	ValuationOvervalued  = "Overvalued"
	ValuationUnknown     = "Unknown"
)

// SectorComparison is one metric compared against its sector median.
type SectorComparison struct {
	Metric         string  `json:"metric"`
	Value          float64 `json:"value"`
	SectorMedian   float64 `json:"sector_median"`
	PremiumPercent float64 `json:"premium_percent"`
	Assessment     string  `json:"assessment"`
}

// Sector comparison assessments.
const (
	AssessmentPremium  = "Premium"
	AssessmentDiscount = "Discount"
	AssessmentInLine   = "In-line"
)
