// Package report renders an analysis result as a Markdown document and
// writes it into the results directory.
package report

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/guregu/null/v6"

	"github.com/factorgo/factorgo/config"
	"github.com/factorgo/factorgo/internal/analyzer"
)

const unavailable = "_data unavailable_"

// Render produces the full Markdown report for one result. Sections whose
// inputs were missing are rendered with a placeholder instead of being
// dropped, so every report has the same shape.
func Render(res *analyzer.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s Factor Analysis\n\n", res.Symbol)
	fmt.Fprintf(&b, "Generated: %s  \n", res.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Sector: %s\n\n", res.Sector)

	writeScores(&b, res)
	writeValuation(&b, res)
	writeFundamentals(&b, res)
	writeTechnicals(&b, res)

	if len(res.Errors) > 0 {
		b.WriteString("## Data Issues\n\n")
		sections := make([]string, 0, len(res.Errors))
		for section := range res.Errors {
			sections = append(sections, section)
		}
		sort.Strings(sections)
		for _, section := range sections {
			fmt.Fprintf(&b, "- **%s**: %s\n", section, res.Errors[section])
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeScores(b *strings.Builder, res *analyzer.Result) {
	s := res.Scores

	fmt.Fprintf(b, "## Rating: %s\n\n", s.Rating)
	b.WriteString("| Factor | Score |\n|---|---|\n")
	fmt.Fprintf(b, "| Valuation | %.1f |\n", s.ValuationScore)
	fmt.Fprintf(b, "| Growth | %.1f |\n", s.GrowthScore)
	fmt.Fprintf(b, "| Profitability | %.1f |\n", s.ProfitabilityScore)
	fmt.Fprintf(b, "| Financial Health | %.1f |\n", s.FinancialHealthScore)
	fmt.Fprintf(b, "| Technical | %.1f |\n", s.TechnicalScore)
	fmt.Fprintf(b, "| **Composite** | **%.1f** |\n", s.CompositeScore)
	fmt.Fprintf(b, "| Sentiment Adjustment | %+.1f |\n", s.SentimentAdjustment)
	fmt.Fprintf(b, "| **Final** | **%.1f** |\n\n", s.FinalScore)
}

func writeValuation(b *strings.Builder, res *analyzer.Result) {
	b.WriteString("## Valuation\n\n")
	v := res.Valuation
	if v == nil {
		b.WriteString(unavailable + "\n\n")
		return
	}

	fmt.Fprintf(b, "Assessment: **%s** (score %.1f)\n\n", v.ValuationLabel, v.ValuationScore)
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(b, "| P/E (TTM) | %s |\n", fmtRatio(v.TrailingPE))
	fmt.Fprintf(b, "| P/E (forward) | %s |\n", fmtRatio(v.ForwardPE))
	fmt.Fprintf(b, "| PEG | %s |\n", fmtRatio(v.PEGRatio))
	fmt.Fprintf(b, "| P/B | %s |\n", fmtRatio(v.PriceToBook))
	fmt.Fprintf(b, "| P/S | %s |\n", fmtRatio(v.PriceToSales))
	fmt.Fprintf(b, "| EV/EBITDA | %s |\n", fmtRatio(v.EVToEBITDA))
	fmt.Fprintf(b, "| FCF Yield | %s |\n", fmtPercentValue(v.FCFYield))
	fmt.Fprintf(b, "| Earnings Yield | %s |\n\n", fmtPercentValue(v.EarningsYield))

	if len(res.SectorComparisons) > 0 {
		fmt.Fprintf(b, "### vs. %s Sector\n\n", res.Sector)
		b.WriteString("| Metric | Value | Sector Median | Premium | Assessment |\n|---|---|---|---|---|\n")
		for _, c := range res.SectorComparisons {
			fmt.Fprintf(b, "| %s | %.2f | %.2f | %+.1f%% | %s |\n",
				c.Metric, c.Value, c.SectorMedian, c.PremiumPercent, c.Assessment)
		}
		b.WriteString("\n")
	}
}

func writeFundamentals(b *strings.Builder, res *analyzer.Result) {
	b.WriteString("## Fundamentals\n\n")
	fm := res.Fundamentals
	if fm == nil {
		b.WriteString(unavailable + "\n\n")
		return
	}

	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(b, "| Revenue YoY | %s |\n", fmtPercent(fm.Growth.RevenueYoY))
	fmt.Fprintf(b, "| Revenue CAGR (3y) | %s |\n", fmtPercent(fm.Growth.RevenueCAGR3Y))
	fmt.Fprintf(b, "| EPS CAGR (3y) | %s |\n", fmtPercent(fm.Growth.EPSCAGR3Y))
	fmt.Fprintf(b, "| Growth Trend | %s |\n", fm.Growth.GrowthTrend)
	fmt.Fprintf(b, "| Gross Margin | %s |\n", fmtPercent(fm.Profitability.GrossMargin))
	fmt.Fprintf(b, "| Operating Margin | %s |\n", fmtPercent(fm.Profitability.OperatingMargin))
	fmt.Fprintf(b, "| ROE | %s |\n", fmtPercent(fm.Profitability.ROE))
	fmt.Fprintf(b, "| Profitability | %s |\n", fm.Profitability.ProfitabilityLevel)
	fmt.Fprintf(b, "| Debt/Equity | %s |\n", fmtRatio(fm.FinancialHealth.DebtEquity))
	fmt.Fprintf(b, "| Interest Coverage | %s |\n", fmtRatio(fm.FinancialHealth.InterestCoverage))
	fmt.Fprintf(b, "| Current Ratio | %s |\n", fmtRatio(fm.FinancialHealth.CurrentRatio))
	fmt.Fprintf(b, "| Balance Sheet | %s |\n\n", fm.FinancialHealth.BalanceSheetStrength)
}

func writeTechnicals(b *strings.Builder, res *analyzer.Result) {
	b.WriteString("## Technicals\n\n")
	t := res.Technicals
	if t == nil {
		b.WriteString(unavailable + "\n\n")
		return
	}

	fmt.Fprintf(b, "Trend: **%s** · Momentum: **%s** · Volatility: **%s**\n\n",
		t.TrendLabel, t.MomentumLabel, t.VolatilityLabel)
	b.WriteString("| Indicator | Value |\n|---|---|\n")
	fmt.Fprintf(b, "| SMA 20 / 50 / 200 | %.2f / %.2f / %.2f |\n", t.SMA20, t.SMA50, t.SMA200)
	fmt.Fprintf(b, "| RSI (14) | %.1f |\n", t.RSI14)
	fmt.Fprintf(b, "| MACD | %.3f (signal %.3f) |\n", t.MACD, t.MACDSignal)
	fmt.Fprintf(b, "| Stochastic %%K/%%D | %.1f / %.1f |\n", t.StochK, t.StochD)
	fmt.Fprintf(b, "| Volatility (30d, ann.) | %.1f%% |\n", t.Volatility30D*100)
	fmt.Fprintf(b, "| Max Drawdown (1y) | %.1f%% |\n", t.MaxDrawdown1Y*100)
	fmt.Fprintf(b, "| ATR (14) | %.2f (%.1f%%) |\n", t.ATR14, t.ATRPercent)
	fmt.Fprintf(b, "| Bollinger %%B | %.2f (%s) |\n", t.BBPercent, t.BBSignal)
	fmt.Fprintf(b, "| 52w Position | %.1f%% |\n\n", t.Week52Position)
}

// Write renders the report and saves it under the results directory as
// results/<SYMBOL>/<date>.md.
func Write(cfg *config.Config, res *analyzer.Result) (string, error) {
	dir := filepath.Join(cfg.ResultsDir, res.Symbol)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create report directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, res.GeneratedAt.Format("2006-01-02_150405")+".md")
	if err := os.WriteFile(path, []byte(Render(res)), 0644); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}
	log.Printf("Report written to %s", path)
	return path, nil
}

func fmtRatio(v null.Float) string {
	if !v.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v.Float64)
}

// fmtPercent renders a fraction (0.15 -> 15.0%).
func fmtPercent(v null.Float) string {
	if !v.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", v.Float64*100)
}

// fmtPercentValue renders an already-scaled percentage (15.0 -> 15.0%).
func fmtPercentValue(v null.Float) string {
	if !v.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", v.Float64)
}
