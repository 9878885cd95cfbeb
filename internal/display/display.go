// Package display renders analysis results to the terminal.
package display

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guregu/null/v6"

	"github.com/factorgo/factorgo/internal/analyzer"
	"github.com/factorgo/factorgo/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(1, 2).
			Width(72)

	strongBuyStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	buyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399"))
	holdStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	reduceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FB923C"))
	sellStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))

	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
)

func ratingStyle(rating string) lipgloss.Style {
	switch rating {
	case models.RatingStrongBuy:
		return strongBuyStyle
	case models.RatingBuy:
		return buyStyle
	case models.RatingHold:
		return holdStyle
	case models.RatingReduce:
		return reduceStyle
	case models.RatingSell:
		return sellStyle
	default:
		return dimStyle
	}
}

// DisplayResult prints the full scorecard for one symbol.
func DisplayResult(res *analyzer.Result) {
	header := fmt.Sprintf("%s · %s sector", res.Symbol, res.Sector)
	fmt.Println(titleStyle.Render(header))

	var b strings.Builder
	s := res.Scores

	fmt.Fprintf(&b, "Rating: %s   Final Score: %.1f\n\n",
		ratingStyle(s.Rating).Render(s.Rating), s.FinalScore)

	b.WriteString(scoreLine("Valuation", s.ValuationScore))
	b.WriteString(scoreLine("Growth", s.GrowthScore))
	b.WriteString(scoreLine("Profitability", s.ProfitabilityScore))
	b.WriteString(scoreLine("Financial Health", s.FinancialHealthScore))
	b.WriteString(scoreLine("Technical", s.TechnicalScore))
	fmt.Fprintf(&b, "\nComposite %.1f  %+.1f sentiment\n", s.CompositeScore, s.SentimentAdjustment)

	if res.Valuation != nil {
		fmt.Fprintf(&b, "\nValuation: %s (P/E %s, PEG %s)\n",
			res.Valuation.ValuationLabel,
			fmtNull(res.Valuation.TrailingPE),
			fmtNull(res.Valuation.PEGRatio))
	}
	if res.Technicals != nil {
		fmt.Fprintf(&b, "Trend: %s, momentum %s, RSI %.0f\n",
			res.Technicals.TrendLabel, res.Technicals.MomentumLabel, res.Technicals.RSI14)
	}

	if len(res.Errors) > 0 {
		b.WriteString("\n")
		sections := make([]string, 0, len(res.Errors))
		for section := range res.Errors {
			sections = append(sections, section)
		}
		sort.Strings(sections)
		for _, section := range sections {
			b.WriteString(dimStyle.Render(fmt.Sprintf("%s: data unavailable (%s)", section, res.Errors[section])) + "\n")
		}
	}

	fmt.Println(panelStyle.Render(strings.TrimRight(b.String(), "\n")))
}

// scoreLine renders one factor with a 20-cell bar.
func scoreLine(name string, score float64) string {
	filled := int(score / 5)
	if filled < 0 {
		filled = 0
	}
	if filled > 20 {
		filled = 20
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 20-filled)
	return fmt.Sprintf("%-17s %s %5.1f\n", name, bar, score)
}

// DisplayBatchSummary prints a compact table for several results.
func DisplayBatchSummary(results []*analyzer.Result) {
	var b strings.Builder

	fmt.Fprintf(&b, "%-8s %-12s %7s %7s\n", "SYMBOL", "RATING", "FINAL", "VAL")
	for _, res := range results {
		if res.Errors != nil && res.Errors["analysis"] != "" {
			fmt.Fprintf(&b, "%-8s %s\n", res.Symbol, dimStyle.Render("failed: "+res.Errors["analysis"]))
			continue
		}
		fmt.Fprintf(&b, "%-8s %-12s %7.1f %7.1f\n",
			res.Symbol,
			ratingStyle(res.Scores.Rating).Render(res.Scores.Rating),
			res.Scores.FinalScore,
			res.Scores.ValuationScore)
	}

	fmt.Println(panelStyle.Render(strings.TrimRight(b.String(), "\n")))
}

// DisplayError shows an error message.
func DisplayError(err error) {
	fmt.Println(errorStyle.Render("Error: " + err.Error()))
}

// DisplayInfo shows an informational message.
func DisplayInfo(message string) {
	fmt.Println(infoStyle.Render(message))
}

// DisplaySuccess shows a success message.
func DisplaySuccess(message string) {
	fmt.Println(okStyle.Render(message))
}

func fmtNull(v null.Float) string {
	if !v.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v.Float64)
}
