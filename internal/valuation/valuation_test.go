package valuation

import (
	"math"
	"testing"

	"github.com/guregu/null/v6"

	"github.com/factorgo/factorgo/models"
)

func f(v float64) null.Float { return null.FloatFrom(v) }

func TestEmptySnapshotIsNeutralUnknown(t *testing.T) {
	m := Compute(models.InfoSnapshot{Symbol: "XYZ"}, DefaultThresholds())
	if m.ValuationScore != 50 {
		t.Fatalf("expected neutral score 50, got %.1f", m.ValuationScore)
	}
	if m.ValuationLabel != models.ValuationUnknown {
		t.Fatalf("expected Unknown label, got %s", m.ValuationLabel)
	}
	if m.FCFYield.Valid || m.EarningsYield.Valid || m.PriceToFCF.Valid {
		t.Errorf("derived fields must stay null on empty snapshot: %+v", m)
	}
}

func TestDerivedCashFlowFields(t *testing.T) {
	snap := models.InfoSnapshot{
		Symbol:            "ACME",
		CurrentPrice:      f(50),
		MarketCap:         f(1000),
		EnterpriseValue:   f(1200),
		SharesOutstanding: f(100),
		FreeCashFlow:      f(80),
		TrailingPE:        f(20),
	}
	m := Compute(snap, DefaultThresholds())

	if !m.FCFYield.Valid || math.Abs(m.FCFYield.Float64-8) > 1e-9 {
		t.Errorf("expected FCF yield 8%%, got %+v", m.FCFYield)
	}
	if !m.FCFPerShare.Valid || math.Abs(m.FCFPerShare.Float64-0.8) > 1e-9 {
		t.Errorf("expected FCF/share 0.8, got %+v", m.FCFPerShare)
	}
	if !m.PriceToFCF.Valid || math.Abs(m.PriceToFCF.Float64-62.5) > 1e-9 {
		t.Errorf("expected price/FCF 62.5, got %+v", m.PriceToFCF)
	}
	if !m.EVToFCF.Valid || math.Abs(m.EVToFCF.Float64-15) > 1e-9 {
		t.Errorf("expected EV/FCF 15, got %+v", m.EVToFCF)
	}
	if !m.EarningsYield.Valid || math.Abs(m.EarningsYield.Float64-5) > 1e-9 {
		t.Errorf("expected earnings yield 5%%, got %+v", m.EarningsYield)
	}
}

func TestCheapStockScoresUndervalued(t *testing.T) {
	snap := models.InfoSnapshot{
		Symbol:       "CHEAP",
		TrailingPE:   f(8),   // 90
		ForwardPE:    f(9),   // 85
		PEGRatio:     f(0.8), // 80
		EVToEBITDA:   f(6),   // 85
		MarketCap:    f(1000),
		FreeCashFlow: f(90), // yield 9 -> 90
		PriceToBook:  f(0.9), // 90
	}
	m := Compute(snap, DefaultThresholds())

	want := (90.0 + 85 + 80 + 85 + 90 + 90) / 6
	if math.Abs(m.ValuationScore-want) > 1e-9 {
		t.Fatalf("expected score %.2f, got %.2f", want, m.ValuationScore)
	}
	if m.ValuationLabel != models.ValuationUndervalued {
		t.Fatalf("expected Undervalued, got %s", m.ValuationLabel)
	}
}

func TestExpensiveStockScoresOvervalued(t *testing.T) {
	snap := models.InfoSnapshot{
		Symbol:      "SPICY",
		TrailingPE:  f(60),  // 20
		ForwardPE:   f(45),  // 30
		PEGRatio:    f(3.5), // 20
		PriceToBook: f(12),  // 30
	}
	m := Compute(snap, DefaultThresholds())
	if m.ValuationLabel != models.ValuationOvervalued {
		t.Fatalf("expected Overvalued at %.1f, got %s", m.ValuationScore, m.ValuationLabel)
	}
}

func TestNegativePEExcludedFromScore(t *testing.T) {
	snap := models.InfoSnapshot{
		Symbol:     "LOSSY",
		TrailingPE: f(-14), // unprofitable: excluded, not crashed on
		PEGRatio:   f(1.2), // 60
	}
	m := Compute(snap, DefaultThresholds())
	if math.Abs(m.ValuationScore-60) > 1e-9 {
		t.Fatalf("expected only PEG to score (60), got %.1f", m.ValuationScore)
	}
}

func TestNegativeFCFBottomBand(t *testing.T) {
	snap := models.InfoSnapshot{
		Symbol:       "BURN",
		MarketCap:    f(1000),
		FreeCashFlow: f(-50),
	}
	m := Compute(snap, DefaultThresholds())
	if !m.FCFYield.Valid || m.FCFYield.Float64 != -5 {
		t.Fatalf("expected FCF yield -5, got %+v", m.FCFYield)
	}
	if m.ValuationScore != 20 {
		t.Fatalf("expected bottom band 20 for negative FCF, got %.1f", m.ValuationScore)
	}
}

func TestZeroFCFYieldExcludedFromScore(t *testing.T) {
	snap := models.InfoSnapshot{
		Symbol:       "FLAT",
		TrailingPE:   f(12), // 75
		MarketCap:    f(1000),
		FreeCashFlow: f(0), // yield exactly 0: excluded, not bottom-banded
	}
	m := Compute(snap, DefaultThresholds())
	if !m.FCFYield.Valid || m.FCFYield.Float64 != 0 {
		t.Fatalf("expected FCF yield 0, got %+v", m.FCFYield)
	}
	if math.Abs(m.ValuationScore-75) > 1e-9 {
		t.Fatalf("expected only P/E to score (75), got %.1f", m.ValuationScore)
	}
}

func TestValuationBucketEdges(t *testing.T) {
	// P/E exactly 10 falls in the second band, not the first.
	m := Compute(models.InfoSnapshot{TrailingPE: f(10)}, DefaultThresholds())
	if m.ValuationScore != 75 {
		t.Errorf("P/E 10: expected 75, got %.1f", m.ValuationScore)
	}
	m = Compute(models.InfoSnapshot{TrailingPE: f(9.999)}, DefaultThresholds())
	if m.ValuationScore != 90 {
		t.Errorf("P/E 9.999: expected 90, got %.1f", m.ValuationScore)
	}
	m = Compute(models.InfoSnapshot{TrailingPE: f(35)}, DefaultThresholds())
	if m.ValuationScore != 20 {
		t.Errorf("P/E 35: expected 20, got %.1f", m.ValuationScore)
	}
}

func TestCompareToSector(t *testing.T) {
	m := Compute(models.InfoSnapshot{TrailingPE: f(28), PriceToSales: f(3)}, DefaultThresholds())
	bench := models.SectorBenchmark{
		Sector: "Technology", PEMedian: 32, ForwardPEMedian: 27, PEGMedian: 1.9, PSMedian: 7.5,
	}

	comps := CompareToSector(m, bench)
	if len(comps) != 2 {
		t.Fatalf("expected 2 comparisons, got %d", len(comps))
	}

	pe := comps[0]
	if pe.Metric != "pe_ttm" {
		t.Fatalf("expected pe_ttm first, got %s", pe.Metric)
	}
	if math.Abs(pe.PremiumPercent-(-12.5)) > 1e-9 {
		t.Errorf("expected -12.5%% premium, got %.2f", pe.PremiumPercent)
	}
	if pe.Assessment != models.AssessmentDiscount {
		t.Errorf("expected Discount, got %s", pe.Assessment)
	}

	ps := comps[1]
	if ps.Assessment != models.AssessmentDiscount {
		t.Errorf("expected P/S Discount, got %s", ps.Assessment)
	}
}
