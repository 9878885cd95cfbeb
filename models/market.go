package models

import "time"

// PriceBar is one daily OHLCV record. Series are sorted ascending by date.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// TechnicalIndicators is the full indicator set computed from a price series.
// Computed fresh per request, never mutated afterwards.
type TechnicalIndicators struct {
	// Moving averages
	SMA20  float64 `json:"sma20"`
	SMA50  float64 `json:"sma50"`
	SMA200 float64 `json:"sma200"`

	// Oscillators
	RSI14      float64 `json:"rsi14"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	MACDHist   float64 `json:"macd_hist"`
	StochK     float64 `json:"stoch_k"`
	StochD     float64 `json:"stoch_d"`

	// Volatility and risk
	Volatility30D float64 `json:"volatility_30d"`
	MaxDrawdown1Y float64 `json:"max_drawdown_1y"`
	ATR14         float64 `json:"atr14"`
	ATRPercent    float64 `json:"atr_percent"`

	// Bollinger Bands (20, 2)
	BBUpper   float64 `json:"bb_upper"`
	BBMiddle  float64 `json:"bb_middle"`
	BBLower   float64 `json:"bb_lower"`
	BBWidth   float64 `json:"bb_width"`
	BBPercent float64 `json:"bb_percent"`

	// 52-week range
	Week52High     float64 `json:"week_52_high"`
	Week52Low      float64 `json:"week_52_low"`
	Week52Position float64 `json:"week_52_position"`

	// Categorical labels
	TrendLabel      string `json:"trend_label"`
	MomentumLabel   string `json:"momentum_label"`
	VolatilityLabel string `json:"volatility_label"`
	BBSignal        string `json:"bb_signal"`
}

// Trend labels.
const (
	TrendUptrend   = "uptrend"
	TrendDowntrend = "downtrend"
	TrendSideways  = "sideways"
)

// Momentum labels.
const (
	MomentumBullish = "bullish"
	MomentumBearish = "bearish"
	MomentumNeutral = "neutral"
)

// Volatility labels.
const (
	VolatilityHigh     = "high"
	VolatilityModerate = "moderate"
	VolatilityLow      = "low"
)

// Bollinger Band signals.
const (
	BBOverbought = "overbought"
	BBOversold   = "oversold"
	BBSqueeze    = "squeeze"
	BBNeutral    = "neutral"
)
