// Package valuation derives the extended valuation panel from a live market
// snapshot and condenses it into a 0-100 valuation score. Absent provider
// fields are excluded from the score rather than defaulted.
package valuation

import (
	"math"

	"github.com/guregu/null/v6"

	"github.com/factorgo/factorgo/models"
)

// Thresholds are the valuation label cut points.
type Thresholds struct {
	Undervalued float64
	FairValue   float64
}

// DefaultThresholds matches the configuration defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{Undervalued: 70, FairValue: 45}
}

// neutralScore is used when no valuation metric is available at all.
const neutralScore = 50.0

// Compute builds the valuation metrics record. It has no minimum-data
// precondition: a fully empty snapshot produces a neutral, "Unknown" result.
func Compute(snap models.InfoSnapshot, th Thresholds) *models.ValuationMetrics {
	m := &models.ValuationMetrics{
		Symbol:          snap.Symbol,
		CurrentPrice:    snap.CurrentPrice,
		MarketCap:       snap.MarketCap,
		EnterpriseValue: snap.EnterpriseValue,

		TrailingPE:   snap.TrailingPE,
		ForwardPE:    snap.ForwardPE,
		PEGRatio:     snap.PEGRatio,
		PriceToBook:  snap.PriceToBook,
		PriceToSales: snap.PriceToSales,

		EVToEBITDA:  snap.EVToEBITDA,
		EVToRevenue: snap.EVToRevenue,

		FreeCashFlow: snap.FreeCashFlow,
	}

	// FCF yield = FCF / market cap, as a percentage.
	m.FCFYield = scale(div(snap.FreeCashFlow, positive(snap.MarketCap)), 100)
	m.FCFPerShare = div(snap.FreeCashFlow, positive(snap.SharesOutstanding))
	m.PriceToFCF = div(snap.CurrentPrice, positive(m.FCFPerShare))
	m.EVToFCF = div(snap.EnterpriseValue, positive(snap.FreeCashFlow))

	// Earnings yield is the inverse P/E, as a percentage.
	if snap.TrailingPE.Valid && snap.TrailingPE.Float64 > 0 {
		m.EarningsYield = null.FloatFrom(1 / snap.TrailingPE.Float64 * 100)
	}

	m.DividendYield = scale(snap.DividendYield, 100)
	m.PayoutRatio = scale(snap.PayoutRatio, 100)

	m.ValuationScore, m.ValuationLabel = assess(m, th)
	return m
}

// assess buckets each available metric independently and averages the
// bucket scores without weighting.
func assess(m *models.ValuationMetrics, th Thresholds) (float64, string) {
	var scores []float64

	if pe, ok := positiveValue(m.TrailingPE); ok {
		scores = append(scores, bucket(pe,
			band{10, 90}, band{15, 75}, band{20, 60}, band{25, 50}, band{35, 35}, rest(20)))
	}
	if fpe, ok := positiveValue(m.ForwardPE); ok {
		scores = append(scores, bucket(fpe,
			band{12, 85}, band{18, 70}, band{25, 50}, rest(30)))
	}
	if peg, ok := positiveValue(m.PEGRatio); ok {
		scores = append(scores, bucket(peg,
			band{0.5, 95}, band{1.0, 80}, band{1.5, 60}, band{2.0, 40}, rest(20)))
	}
	if ev, ok := positiveValue(m.EVToEBITDA); ok {
		scores = append(scores, bucket(ev,
			band{8, 85}, band{12, 70}, band{16, 55}, band{20, 40}, rest(25)))
	}
	if m.FCFYield.Valid && m.FCFYield.Float64 != 0 {
		// Higher FCF yield is better; negative FCF lands in the bottom
		// band, while an exact zero is treated as absent.
		switch y := m.FCFYield.Float64; {
		case y > 8:
			scores = append(scores, 90)
		case y > 5:
			scores = append(scores, 75)
		case y > 3:
			scores = append(scores, 60)
		case y > 1:
			scores = append(scores, 45)
		case y > 0:
			scores = append(scores, 35)
		default:
			scores = append(scores, 20)
		}
	}
	if pb, ok := positiveValue(m.PriceToBook); ok {
		scores = append(scores, bucket(pb,
			band{1, 90}, band{2, 70}, band{4, 50}, rest(30)))
	}

	if len(scores) == 0 {
		return neutralScore, models.ValuationUnknown
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	score := sum / float64(len(scores))

	switch {
	case score >= th.Undervalued:
		return score, models.ValuationUndervalued
	case score >= th.FairValue:
		return score, models.ValuationFairValue
	default:
		return score, models.ValuationOvervalued
	}
}

// CompareToSector reports premium/discount of the stock's multiples against
// the sector medians, flagged at +/-10%.
func CompareToSector(m *models.ValuationMetrics, bench models.SectorBenchmark) []models.SectorComparison {
	var out []models.SectorComparison

	add := func(metric string, value null.Float, median float64) {
		if !value.Valid || median <= 0 {
			return
		}
		premium := (value.Float64/median - 1) * 100
		assessment := models.AssessmentInLine
		if premium > 10 {
			assessment = models.AssessmentPremium
		} else if premium < -10 {
			assessment = models.AssessmentDiscount
		}
		out = append(out, models.SectorComparison{
			Metric:         metric,
			Value:          value.Float64,
			SectorMedian:   median,
			PremiumPercent: premium,
			Assessment:     assessment,
		})
	}

	add("pe_ttm", m.TrailingPE, bench.PEMedian)
	add("pe_forward", m.ForwardPE, bench.ForwardPEMedian)
	add("peg_ratio", m.PEGRatio, bench.PEGMedian)
	add("price_to_sales", m.PriceToSales, bench.PSMedian)
	return out
}

// band is a "< Upper scores Score" step in a bucket table.
type band struct {
	Upper float64
	Score float64
}

func rest(score float64) band {
	return band{Upper: math.Inf(1), Score: score}
}

func bucket(v float64, bands ...band) float64 {
	for _, b := range bands {
		if v < b.Upper {
			return b.Score
		}
	}
	return bands[len(bands)-1].Score
}

func positiveValue(v null.Float) (float64, bool) {
	if v.Valid && v.Float64 > 0 {
		return v.Float64, true
	}
	return 0, false
}

func positive(v null.Float) null.Float {
	if v.Valid && v.Float64 > 0 {
		return v
	}
	return null.Float{}
}

func div(num, den null.Float) null.Float {
	if !num.Valid || !den.Valid || den.Float64 == 0 {
		return null.Float{}
	}
	return null.FloatFrom(num.Float64 / den.Float64)
}

func scale(v null.Float, by float64) null.Float {
	if !v.Valid {
		return null.Float{}
	}
	return null.FloatFrom(v.Float64 * by)
}
