// Package scoring fuses fundamental, technical, and valuation inputs into
// five factor scores, a weighted composite, and a final rating. The engine
// is stateless and deterministic; missing inputs score the neutral midpoint.
package scoring

import (
	"github.com/guregu/null/v6"

	"github.com/factorgo/factorgo/config"
	"github.com/factorgo/factorgo/models"
)

// neutral is the midpoint score used whenever an input is missing.
const neutral = 50.0

// Inputs carries everything one scoring run consumes. Any pointer may be
// nil and any field null; the engine degrades to neutral sub-scores.
type Inputs struct {
	Fundamentals *models.FundamentalMetrics
	Technicals   *models.TechnicalIndicators
	Benchmark    *models.SectorBenchmark

	// Valuation ratios from the live snapshot.
	TrailingPE null.Float
	ForwardPE  null.Float
	PEGRatio   null.Float

	// SentimentAdjustment is clamped to the configured range.
	SentimentAdjustment float64
}

// Engine computes factor scores under a fixed weight/threshold configuration.
type Engine struct {
	cfg config.ScoringConfig
}

func NewEngine(cfg config.ScoringConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Score runs one full scoring pass. Pure: no state survives the call.
func (e *Engine) Score(in Inputs) models.FactorScores {
	s := models.FactorScores{
		ValuationScore: e.valuationScore(in),
		TechnicalScore: technicalScore(in.Technicals),
	}

	if fm := in.Fundamentals; fm != nil {
		s.GrowthScore = growthScore(fm.Growth)
		s.ProfitabilityScore = profitabilityScore(fm.Profitability)
		s.FinancialHealthScore = healthScore(fm.FinancialHealth)
	} else {
		s.GrowthScore = neutral
		s.ProfitabilityScore = neutral
		s.FinancialHealthScore = neutral
	}

	w := e.cfg.Weights
	s.CompositeScore = w.Valuation*s.ValuationScore +
		w.Growth*s.GrowthScore +
		w.Profitability*s.ProfitabilityScore +
		w.FinancialHealth*s.FinancialHealthScore +
		w.Technical*s.TechnicalScore

	s.SentimentAdjustment = clamp(in.SentimentAdjustment, -e.cfg.SentimentClamp, e.cfg.SentimentClamp)
	s.FinalScore = clamp(s.CompositeScore+s.SentimentAdjustment, 0, 100)
	s.Rating = e.rating(s.FinalScore)

	return s
}

func (e *Engine) rating(final float64) string {
	switch {
	case final >= e.cfg.StrongBuyThreshold:
		return models.RatingStrongBuy
	case final >= e.cfg.BuyThreshold:
		return models.RatingBuy
	case final >= e.cfg.HoldThreshold:
		return models.RatingHold
	case final >= e.cfg.ReduceThreshold:
		return models.RatingReduce
	default:
		return models.RatingSell
	}
}

// valuationScore buckets the P/E, then nudges it by the sector-relative
// ratio and the PEG ratio.
func (e *Engine) valuationScore(in Inputs) float64 {
	// Forward P/E is preferred as the more forward-looking multiple.
	pe := in.ForwardPE
	if !pe.Valid {
		pe = in.TrailingPE
	}
	if !pe.Valid {
		return neutral
	}
	if pe.Float64 <= 0 {
		// Unprofitable company: fixed low band, not an error.
		return 25
	}

	var score float64
	switch v := pe.Float64; {
	case v < 10:
		score = 85
	case v < 15:
		score = 75
	case v < 20:
		score = 65
	case v < 25:
		score = 55
	case v < 35:
		score = 40
	default:
		score = 25
	}

	if in.Benchmark != nil && in.Benchmark.PEMedian > 0 {
		switch ratio := pe.Float64 / in.Benchmark.PEMedian; {
		case ratio < 0.7:
			score += 15
		case ratio < 0.9:
			score += 8
		case ratio > 1.3:
			score -= 15
		case ratio > 1.1:
			score -= 8
		}
	}

	if in.PEGRatio.Valid && in.PEGRatio.Float64 > 0 {
		switch peg := in.PEGRatio.Float64; {
		case peg < 1.0:
			score += 10
		case peg < 1.5:
			score += 5
		case peg > 2.5:
			score -= 10
		case peg > 2.0:
			score -= 5
		}
	}

	return clamp(score, 0, 100)
}

func growthScore(g models.GrowthMetrics) float64 {
	// EPS bands are more generous than revenue bands: per-share growth is
	// harder to sustain.
	revScore := neutral
	if g.RevenueCAGR3Y.Valid {
		switch cagr := g.RevenueCAGR3Y.Float64; {
		case cagr >= 0.20:
			revScore = 95
		case cagr >= 0.12:
			revScore = 80
		case cagr >= 0.06:
			revScore = 65
		case cagr >= 0:
			revScore = 45
		default:
			revScore = 25
		}
	}

	epsScore := neutral
	if g.EPSCAGR3Y.Valid {
		switch cagr := g.EPSCAGR3Y.Float64; {
		case cagr >= 0.25:
			epsScore = 95
		case cagr >= 0.15:
			epsScore = 80
		case cagr >= 0.08:
			epsScore = 65
		case cagr >= 0:
			epsScore = 45
		default:
			epsScore = 20
		}
	}

	score := (revScore + epsScore) / 2

	// Acceleration signal: YoY above the 3-year trend earns a bonus,
	// below it a penalty.
	if g.RevenueYoY.Valid {
		trend := 0.0
		if g.RevenueCAGR3Y.Valid {
			trend = g.RevenueCAGR3Y.Float64
		}
		if g.RevenueYoY.Float64 > trend {
			score += 5
		} else if g.RevenueYoY.Float64 < trend {
			score -= 5
		}
	}

	return clamp(score, 0, 100)
}

func profitabilityScore(p models.ProfitabilityMetrics) float64 {
	roeScore := neutral
	if p.ROE.Valid {
		switch roe := p.ROE.Float64; {
		case roe >= 0.25:
			roeScore = 95
		case roe >= 0.15:
			roeScore = 80
		case roe >= 0.10:
			roeScore = 65
		case roe >= 0.05:
			roeScore = 45
		default:
			roeScore = 25
		}
	}

	marginScore := neutral
	if p.OperatingMargin.Valid {
		switch m := p.OperatingMargin.Float64; {
		case m >= 0.30:
			marginScore = 95
		case m >= 0.20:
			marginScore = 80
		case m >= 0.10:
			marginScore = 60
		case m >= 0:
			marginScore = 40
		default:
			marginScore = 20
		}
	}

	return clamp((roeScore+marginScore)/2, 0, 100)
}

func healthScore(h models.FinancialHealthMetrics) float64 {
	// Lower debt/equity is better.
	deScore := neutral
	if h.DebtEquity.Valid {
		switch de := h.DebtEquity.Float64; {
		case de <= 0.3:
			deScore = 95
		case de <= 0.6:
			deScore = 80
		case de <= 1.0:
			deScore = 60
		case de <= 2.0:
			deScore = 40
		default:
			deScore = 20
		}
	}

	// Higher interest coverage is better.
	icScore := neutral
	if h.InterestCoverage.Valid {
		switch ic := h.InterestCoverage.Float64; {
		case ic >= 10:
			icScore = 95
		case ic >= 6:
			icScore = 80
		case ic >= 3:
			icScore = 60
		case ic >= 1:
			icScore = 35
		default:
			icScore = 15
		}
	}

	return clamp((deScore+icScore)/2, 0, 100)
}

func technicalScore(t *models.TechnicalIndicators) float64 {
	if t == nil {
		return neutral
	}

	// The 40-60 RSI zone scores highest: healthy, neither stretched nor
	// distressed.
	var rsiScore float64
	switch rsi := t.RSI14; {
	case rsi >= 40 && rsi <= 60:
		rsiScore = 80
	case rsi > 60 && rsi <= 70:
		rsiScore = 70
	case rsi >= 30 && rsi < 40:
		rsiScore = 55
	case rsi > 70:
		rsiScore = 40
	default:
		rsiScore = 35
	}

	var trendScore float64
	switch t.TrendLabel {
	case models.TrendUptrend:
		trendScore = 85
	case models.TrendSideways:
		trendScore = 55
	case models.TrendDowntrend:
		trendScore = 25
	default:
		trendScore = neutral
	}

	var ddScore float64
	switch dd := -t.MaxDrawdown1Y; {
	case dd < 0.10:
		ddScore = 90
	case dd < 0.20:
		ddScore = 70
	case dd < 0.35:
		ddScore = 45
	default:
		ddScore = 25
	}

	return clamp((rsiScore+trendScore+ddScore)/3, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
