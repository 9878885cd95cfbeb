package report

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/guregu/null/v6"

	"github.com/factorgo/factorgo/config"
	"github.com/factorgo/factorgo/internal/analyzer"
	"github.com/factorgo/factorgo/internal/sectors"
	"github.com/factorgo/factorgo/models"
)

func sampleResult() *analyzer.Result {
	return &analyzer.Result{
		Symbol:      "AAPL",
		GeneratedAt: time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC),
		Sector:      "Technology",
		Benchmark:   sectors.Resolve("Technology"),
		Valuation: &models.ValuationMetrics{
			TrailingPE:     null.FloatFrom(28),
			FCFYield:       null.FloatFrom(3.5),
			ValuationScore: 55,
			ValuationLabel: models.ValuationFairValue,
		},
		Fundamentals: &models.FundamentalMetrics{
			Growth: models.GrowthMetrics{
				RevenueYoY:  null.FloatFrom(0.08),
				GrowthTrend: models.GrowthStable,
			},
		},
		Technicals: &models.TechnicalIndicators{
			RSI14:      55,
			TrendLabel: models.TrendUptrend,
		},
		Scores: models.FactorScores{
			ValuationScore: 55,
			FinalScore:     62.5,
			Rating:         models.RatingHold,
		},
	}
}

func TestRenderCompleteResult(t *testing.T) {
	md := Render(sampleResult())

	for _, want := range []string{
		"# AAPL Factor Analysis",
		"## Rating: HOLD",
		"**62.5**",
		"Fair Value",
		"Revenue YoY | 8.0%",
		"FCF Yield | 3.5%",
		"Trend: **uptrend**",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if strings.Contains(md, "data unavailable") {
		t.Error("complete result must not render placeholders")
	}
}

func TestRenderMissingSections(t *testing.T) {
	res := sampleResult()
	res.Valuation = nil
	res.Fundamentals = nil
	res.Technicals = nil
	res.Errors = map[string]string{"snapshot": "provider down"}

	md := Render(res)

	if got := strings.Count(md, "_data unavailable_"); got != 3 {
		t.Errorf("placeholder count = %d, want 3", got)
	}
	// Section headers survive so every report has the same shape.
	for _, header := range []string{"## Valuation", "## Fundamentals", "## Technicals", "## Data Issues"} {
		if !strings.Contains(md, header) {
			t.Errorf("report missing header %q", header)
		}
	}
	if !strings.Contains(md, "provider down") {
		t.Error("report missing the section error reason")
	}
}

func TestRenderDataIssuesDeterministicOrder(t *testing.T) {
	res := sampleResult()
	res.Errors = map[string]string{
		"statements":    "statements down",
		"price_history": "history down",
		"snapshot":      "snapshot down",
	}

	first := Render(res)
	idxHistory := strings.Index(first, "**price_history**")
	idxSnapshot := strings.Index(first, "**snapshot**")
	idxStatements := strings.Index(first, "**statements**")
	if idxHistory < 0 || idxSnapshot < 0 || idxStatements < 0 {
		t.Fatal("report missing a data-issue entry")
	}
	if !(idxHistory < idxSnapshot && idxSnapshot < idxStatements) {
		t.Errorf("data issues not sorted by section: %d/%d/%d",
			idxHistory, idxSnapshot, idxStatements)
	}
	for i := 0; i < 10; i++ {
		if Render(res) != first {
			t.Fatal("identical results must render identical reports")
		}
	}
}

func TestRenderNullMetricsShowNA(t *testing.T) {
	res := sampleResult()
	res.Fundamentals = &models.FundamentalMetrics{}

	md := Render(res)
	if !strings.Contains(md, "| Revenue YoY | n/a |") {
		t.Error("null metrics should render as n/a")
	}
}

func TestWriteReportFile(t *testing.T) {
	cfg := config.DefaultConfigWithRoot(t.TempDir())
	res := sampleResult()

	path, err := Write(cfg, res)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(path, "AAPL") || !strings.HasSuffix(path, ".md") {
		t.Errorf("unexpected report path %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "# AAPL Factor Analysis") {
		t.Error("written report missing title")
	}
}
