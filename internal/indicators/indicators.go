// Package indicators computes the technical indicator set for a daily
// OHLCV price series. All functions are pure: same series in, same
// indicator record out, no I/O and no shared state.
package indicators

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/factorgo/factorgo/models"
)

// MinRows is the minimum series length for full indicator computation.
// SMA200 is the binding constraint.
const MinRows = 200

// yearWindow approximates one trading year of daily bars.
const yearWindow = 252

var (
	// ErrInsufficientData means the series is shorter than MinRows.
	ErrInsufficientData = errors.New("insufficient price data")
	// ErrInvalidSeries means a bar has missing fields or dates are not ascending.
	ErrInvalidSeries = errors.New("invalid price series")
)

// Compute produces the full technical indicator set from an ascending daily
// series of at least MinRows bars.
func Compute(bars []models.PriceBar) (*models.TechnicalIndicators, error) {
	if len(bars) < MinRows {
		return nil, fmt.Errorf("%w: need at least %d rows, got %d", ErrInsufficientData, MinRows, len(bars))
	}
	if err := validate(bars); err != nil {
		return nil, err
	}

	closes := make([]float64, len(bars))
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
	}
	lastClose := closes[len(closes)-1]

	ind := &models.TechnicalIndicators{
		SMA20:  smaLast(closes, 20),
		SMA50:  smaLast(closes, 50),
		SMA200: smaLast(closes, 200),
	}

	ind.RSI14 = rsi(closes, 14)

	macdLine, signalLine := macd(closes, 12, 26, 9)
	ind.MACD = macdLine
	ind.MACDSignal = signalLine
	ind.MACDHist = macdLine - signalLine

	ind.Volatility30D = annualizedVolatility(closes, 30)
	ind.MaxDrawdown1Y = maxDrawdown(tail(closes, yearWindow))

	bbStd := stat.StdDev(tail(closes, 20), nil)
	ind.BBMiddle = ind.SMA20
	ind.BBUpper = ind.BBMiddle + 2*bbStd
	ind.BBLower = ind.BBMiddle - 2*bbStd
	if ind.BBMiddle > 0 {
		ind.BBWidth = (ind.BBUpper - ind.BBLower) / ind.BBMiddle
	}
	// %B is reported raw: values outside [0,1] signal a band breakout.
	if band := ind.BBUpper - ind.BBLower; band > 0 {
		ind.BBPercent = (lastClose - ind.BBLower) / band
	} else {
		ind.BBPercent = 0.5
	}

	ind.ATR14 = atr(highs, lows, closes, 14)
	if lastClose > 0 {
		ind.ATRPercent = ind.ATR14 / lastClose * 100
	}

	ind.StochK, ind.StochD = stochastic(highs, lows, closes, 14, 3, 3)

	yearCloses := tail(closes, yearWindow)
	ind.Week52High = max64(yearCloses)
	ind.Week52Low = min64(yearCloses)
	if r := ind.Week52High - ind.Week52Low; r > 0 {
		ind.Week52Position = (lastClose - ind.Week52Low) / r * 100
	} else {
		ind.Week52Position = 50
	}

	ind.TrendLabel = trendLabel(lastClose, ind.SMA200)
	ind.MomentumLabel = momentumLabel(ind.RSI14, ind.MACD, ind.MACDSignal)
	ind.VolatilityLabel = volatilityLabel(ind.ATRPercent, ind.BBWidth)
	ind.BBSignal = bollingerSignal(ind.BBPercent, ind.BBWidth)

	return ind, nil
}

func validate(bars []models.PriceBar) error {
	for i, b := range bars {
		if b.Date.IsZero() || b.High <= 0 || b.Low <= 0 || b.Close <= 0 || b.Open <= 0 {
			return fmt.Errorf("%w: bar %d has missing fields", ErrInvalidSeries, i)
		}
		if i > 0 && !bars[i-1].Date.Before(b.Date) {
			return fmt.Errorf("%w: dates not strictly ascending at row %d", ErrInvalidSeries, i)
		}
	}
	return nil
}

// smaLast is the arithmetic mean of the trailing window.
func smaLast(xs []float64, period int) float64 {
	return stat.Mean(tail(xs, period), nil)
}

// rsi uses rolling-mean average gain/loss over the trailing window.
// A zero average loss yields RSI=100 by policy (RS would be infinite).
func rsi(closes []float64, period int) float64 {
	deltas := tail(diff(closes), period)

	var avgGain, avgLoss float64
	for _, d := range deltas {
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// ema computes the exponential moving average series seeded with the first
// value, multiplier 2/(span+1).
func ema(xs []float64, span int) []float64 {
	mult := 2.0 / (float64(span) + 1.0)
	out := make([]float64, len(xs))
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = xs[i]*mult + out[i-1]*(1-mult)
	}
	return out
}

func macd(closes []float64, fast, slow, signal int) (line, sig float64) {
	emaFast := ema(closes, fast)
	emaSlow := ema(closes, slow)

	macdSeries := make([]float64, len(closes))
	for i := range closes {
		macdSeries[i] = emaFast[i] - emaSlow[i]
	}
	signalSeries := ema(macdSeries, signal)

	return macdSeries[len(macdSeries)-1], signalSeries[len(signalSeries)-1]
}

// annualizedVolatility is the sample standard deviation of the trailing
// daily returns, annualized by sqrt(252).
func annualizedVolatility(closes []float64, window int) float64 {
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	return stat.StdDev(tail(returns, window), nil) * math.Sqrt(252)
}

// maxDrawdown is the worst peak-to-trough decline, always <= 0.
func maxDrawdown(closes []float64) float64 {
	runningMax := closes[0]
	worst := 0.0
	for _, c := range closes {
		if c > runningMax {
			runningMax = c
		}
		if dd := (c - runningMax) / runningMax; dd < worst {
			worst = dd
		}
	}
	return worst
}

func atr(highs, lows, closes []float64, period int) float64 {
	trueRanges := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		tr := math.Max(highs[i]-lows[i],
			math.Max(math.Abs(highs[i]-closes[i-1]), math.Abs(lows[i]-closes[i-1])))
		trueRanges = append(trueRanges, tr)
	}
	return stat.Mean(tail(trueRanges, period), nil)
}

// stochastic computes smoothed %K and %D. A flat high/low window yields the
// neutral midpoint 50 for that raw value.
func stochastic(highs, lows, closes []float64, lookback, smoothK, smoothD int) (k, d float64) {
	// %D needs smoothD means of smoothK-means of the raw oscillator.
	rawNeeded := smoothK + smoothD - 1
	raw := make([]float64, 0, rawNeeded)
	for i := len(closes) - rawNeeded; i < len(closes); i++ {
		lo := min64(lows[i-lookback+1 : i+1])
		hi := max64(highs[i-lookback+1 : i+1])
		if hi == lo {
			raw = append(raw, 50)
			continue
		}
		raw = append(raw, 100*(closes[i]-lo)/(hi-lo))
	}

	smoothed := make([]float64, 0, smoothD)
	for i := smoothK; i <= len(raw); i++ {
		smoothed = append(smoothed, stat.Mean(raw[i-smoothK:i], nil))
	}

	k = smoothed[len(smoothed)-1]
	d = stat.Mean(tail(smoothed, smoothD), nil)
	return k, d
}

func trendLabel(lastClose, sma200 float64) string {
	switch {
	case lastClose > sma200*1.02:
		return models.TrendUptrend
	case lastClose < sma200*0.98:
		return models.TrendDowntrend
	default:
		return models.TrendSideways
	}
}

func momentumLabel(rsi14, macdLine, signalLine float64) string {
	switch {
	case rsi14 >= 60 && macdLine > signalLine:
		return models.MomentumBullish
	case rsi14 <= 40 && macdLine < signalLine:
		return models.MomentumBearish
	default:
		return models.MomentumNeutral
	}
}

func volatilityLabel(atrPercent, bbWidth float64) string {
	switch {
	case atrPercent > 3 || bbWidth > 0.15:
		return models.VolatilityHigh
	case atrPercent < 1.5 && bbWidth < 0.08:
		return models.VolatilityLow
	default:
		return models.VolatilityModerate
	}
}

func bollingerSignal(bbPercent, bbWidth float64) string {
	switch {
	case bbPercent > 1:
		return models.BBOverbought
	case bbPercent < 0:
		return models.BBOversold
	case bbWidth < 0.06:
		return models.BBSqueeze
	default:
		return models.BBNeutral
	}
}

// Helpers

func tail(xs []float64, n int) []float64 {
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}

func diff(xs []float64) []float64 {
	out := make([]float64, len(xs)-1)
	for i := 1; i < len(xs); i++ {
		out[i-1] = xs[i] - xs[i-1]
	}
	return out
}

func max64(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func min64(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}
