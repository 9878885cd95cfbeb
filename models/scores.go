package models

// SectorBenchmark holds static median ratios for one sector peer group.
type SectorBenchmark struct {
	Sector                string  `json:"sector"`
	PEMedian              float64 `json:"pe_median"`
	ForwardPEMedian       float64 `json:"forward_pe_median"`
	PEGMedian             float64 `json:"peg_median"`
	PSMedian              float64 `json:"ps_median"`
	GrossMarginMedian     float64 `json:"gross_margin_median"`
	OperatingMarginMedian float64 `json:"operating_margin_median"`
	NetMarginMedian       float64 `json:"net_margin_median"`
	Source                string  `json:"source"`
}

// FactorScores is the final output of the scoring engine. Every score is
// clamped to [0,100]. A rerun produces a fresh value, nothing is mutated.
type FactorScores struct {
	ValuationScore       float64 `json:"valuation_score"`
	GrowthScore          float64 `json:"growth_score"`
	ProfitabilityScore   float64 `json:"profitability_score"`
	FinancialHealthScore float64 `json:"financial_health_score"`
	TechnicalScore       float64 `json:"technical_score"`

	CompositeScore      float64 `json:"composite_score"`
	SentimentAdjustment float64 `json:"sentiment_adjustment"`
	FinalScore          float64 `json:"final_score"`
	Rating              string  `json:"rating"`
}

// Ratings, strongest first.
const (
	RatingStrongBuy = "STRONG BUY"
	RatingBuy       = "BUY"
	RatingHold      = "HOLD"
	RatingReduce    = "REDUCE"
	RatingSell      = "SELL"
)
