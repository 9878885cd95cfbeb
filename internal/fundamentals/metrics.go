// Package fundamentals derives growth, profitability, and balance-sheet
// health metrics from normalized financial statements. Individual missing
// line items degrade to null metrics; only a shortage of whole periods is
// an error.
package fundamentals

import (
	"errors"
	"fmt"
	"math"

	"github.com/guregu/null/v6"

	"github.com/factorgo/factorgo/models"
)

// Minimum periods needed to compute anything at all.
const (
	MinIncomePeriods  = 2
	MinBalancePeriods = 1
	// cagrPeriods periods span three fiscal years.
	cagrPeriods = 4
	cagrYears   = 3
)

// ErrInsufficientPeriods means too few statement periods were supplied.
var ErrInsufficientPeriods = errors.New("insufficient fundamental data")

// Compute produces the fundamental metrics set. Statements must be ordered
// most-recent first.
func Compute(stmts models.FinancialStatements) (*models.FundamentalMetrics, error) {
	if len(stmts.Income) < MinIncomePeriods || len(stmts.Balance) < MinBalancePeriods {
		return nil, fmt.Errorf("%w: need %d income and %d balance periods, got %d and %d",
			ErrInsufficientPeriods, MinIncomePeriods, MinBalancePeriods,
			len(stmts.Income), len(stmts.Balance))
	}

	latestInc := stmts.Income[0]
	prevInc := stmts.Income[1]
	latestBal := stmts.Balance[0]

	return &models.FundamentalMetrics{
		Growth:          growthMetrics(stmts.Income, latestInc, prevInc),
		Profitability:   profitabilityMetrics(latestInc, latestBal),
		FinancialHealth: healthMetrics(latestInc, latestBal),
	}, nil
}

func growthMetrics(income []models.StatementPeriod, latest, prev models.StatementPeriod) models.GrowthMetrics {
	g := models.GrowthMetrics{
		RevenueCAGR3Y: cagrOverPeriods(income, func(p models.StatementPeriod) null.Float { return p.Revenue }),
		EPSCAGR3Y:     cagrOverPeriods(income, func(p models.StatementPeriod) null.Float { return p.EPS }),
		RevenueYoY:    safeDiv(sub(latest.Revenue, prev.Revenue), prev.Revenue),
		GrowthTrend:   models.LabelUnknown,
	}

	// EPS YoY tolerates a sign flip in the base year by dividing by |prev|.
	g.EPSYoY = safeDiv(sub(latest.EPS, prev.EPS), absNonZero(prev.EPS))

	if g.RevenueYoY.Valid {
		switch yoy := g.RevenueYoY.Float64; {
		case yoy > 0.10:
			g.GrowthTrend = models.GrowthAccelerating
		case yoy > 0.03:
			g.GrowthTrend = models.GrowthStable
		default:
			g.GrowthTrend = models.GrowthSlowing
		}
	}
	return g
}

func profitabilityMetrics(inc, bal models.StatementPeriod) models.ProfitabilityMetrics {
	p := models.ProfitabilityMetrics{
		GrossMargin:        safeDiv(inc.GrossProfit, inc.Revenue),
		OperatingMargin:    safeDiv(inc.OperatingIncome, inc.Revenue),
		NetMargin:          safeDiv(inc.NetIncome, inc.Revenue),
		ROE:                safeDiv(inc.NetIncome, bal.TotalEquity),
		ROA:                safeDiv(inc.NetIncome, bal.TotalAssets),
		ProfitabilityLevel: models.LabelUnknown,
	}

	if p.ROE.Valid {
		switch roe := p.ROE.Float64; {
		case roe >= 0.20:
			p.ProfitabilityLevel = models.ProfitabilityHigh
		case roe >= 0.10:
			p.ProfitabilityLevel = models.ProfitabilityMedium
		default:
			p.ProfitabilityLevel = models.ProfitabilityLow
		}
	}
	return p
}

func healthMetrics(inc, bal models.StatementPeriod) models.FinancialHealthMetrics {
	h := models.FinancialHealthMetrics{
		DebtEquity:           safeDiv(bal.TotalDebt, bal.TotalEquity),
		CashToDebt:           safeDiv(bal.CashAndEquivalents, bal.TotalDebt),
		CurrentRatio:         safeDiv(bal.CurrentAssets, bal.CurrentLiabilities),
		InterestCoverage:     safeDiv(inc.EBIT, absNonZero(inc.InterestExpense)),
		BalanceSheetStrength: models.LabelUnknown,
	}

	if h.DebtEquity.Valid {
		switch de := h.DebtEquity.Float64; {
		case de <= 0.5:
			h.BalanceSheetStrength = models.BalanceStrong
		case de <= 1.0:
			h.BalanceSheetStrength = models.BalanceAcceptable
		default:
			h.BalanceSheetStrength = models.BalanceWeak
		}
	}
	return h
}

// CAGR returns (end/start)^(1/years)-1, null when start or end is zero/null
// or years is non-positive.
func CAGR(start, end null.Float, years float64) null.Float {
	if !start.Valid || !end.Valid || start.Float64 == 0 || end.Float64 == 0 || years <= 0 {
		return null.Float{}
	}
	ratio := end.Float64 / start.Float64
	if ratio <= 0 {
		return null.Float{}
	}
	return null.FloatFrom(math.Pow(ratio, 1/years) - 1)
}

// cagrOverPeriods computes the 3-year CAGR from the newest and oldest of the
// four most recent periods carrying the metric. Fewer than four yields null.
func cagrOverPeriods(income []models.StatementPeriod, pick func(models.StatementPeriod) null.Float) null.Float {
	values := make([]null.Float, 0, cagrPeriods)
	for _, p := range income {
		if v := pick(p); v.Valid {
			values = append(values, v)
			if len(values) == cagrPeriods {
				break
			}
		}
	}
	if len(values) < cagrPeriods {
		return null.Float{}
	}
	return CAGR(values[cagrPeriods-1], values[0], cagrYears)
}

// safeDiv returns numerator/denominator, null on null or zero denominator.
func safeDiv(num, den null.Float) null.Float {
	if !num.Valid || !den.Valid || den.Float64 == 0 {
		return null.Float{}
	}
	return null.FloatFrom(num.Float64 / den.Float64)
}

func sub(a, b null.Float) null.Float {
	if !a.Valid || !b.Valid {
		return null.Float{}
	}
	return null.FloatFrom(a.Float64 - b.Float64)
}

// absNonZero maps zero to null so the caller's division nulls out.
func absNonZero(v null.Float) null.Float {
	if !v.Valid || v.Float64 == 0 {
		return null.Float{}
	}
	return null.FloatFrom(math.Abs(v.Float64))
}
