// Package analyzer orchestrates one full scoring run: concurrent data
// fetches, the calculator pipeline, and the final factor scores.
package analyzer

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/factorgo/factorgo/config"
	"github.com/factorgo/factorgo/internal/dataflows"
	"github.com/factorgo/factorgo/internal/fundamentals"
	"github.com/factorgo/factorgo/internal/indicators"
	"github.com/factorgo/factorgo/internal/scoring"
	"github.com/factorgo/factorgo/internal/sectors"
	"github.com/factorgo/factorgo/internal/valuation"
	"github.com/factorgo/factorgo/models"
)

// batchConcurrency caps parallel symbol analyses in RunBatch.
const batchConcurrency = 4

// Provider supplies the three raw inputs for one symbol.
type Provider interface {
	History(ctx context.Context, symbol string, days int) ([]models.PriceBar, error)
	Snapshot(ctx context.Context, symbol string) (*models.InfoSnapshot, error)
	Statements(ctx context.Context, symbol string) (*models.FinancialStatements, error)
}

// Result is one completed analysis. Sections whose inputs were unavailable
// are nil, with the reason recorded under Errors by section name.
type Result struct {
	Symbol      string    `json:"symbol"`
	GeneratedAt time.Time `json:"generated_at"`

	Sector    string                 `json:"sector"`
	Benchmark models.SectorBenchmark `json:"benchmark"`

	Snapshot     *models.InfoSnapshot        `json:"snapshot,omitempty"`
	Technicals   *models.TechnicalIndicators `json:"technicals,omitempty"`
	Fundamentals *models.FundamentalMetrics  `json:"fundamentals,omitempty"`
	Valuation    *models.ValuationMetrics    `json:"valuation,omitempty"`

	SectorComparisons []models.SectorComparison `json:"sector_comparisons,omitempty"`

	Scores models.FactorScores `json:"scores"`

	// Errors maps a section name to why its data is unavailable.
	Errors map[string]string `json:"errors,omitempty"`
}

type Analyzer struct {
	provider Provider
	cfgSrc   config.Source
}

func New(provider Provider, cfgSrc config.Source) *Analyzer {
	return &Analyzer{
		provider: provider,
		cfgSrc:   cfgSrc,
	}
}

// Analyze fetches all inputs for one symbol concurrently and scores them.
// Individual section failures degrade that section to neutral; only a
// symbol with no data at all is an error.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, sentiment float64) (*Result, error) {
	if err := dataflows.ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = dataflows.NormalizeSymbol(symbol)

	// One consistent snapshot per run; the source is safe to read while
	// the watcher applies a reload.
	cfg := a.cfgSrc.Get()

	var (
		bars     []models.PriceBar
		snap     *models.InfoSnapshot
		stmts    *models.FinancialStatements
		barsErr  error
		snapErr  error
		stmtsErr error
	)

	// Fetches are independent; one failing must not cancel the others.
	var g errgroup.Group
	g.Go(func() error {
		bars, barsErr = a.provider.History(ctx, symbol, cfg.HistoryDays)
		return nil
	})
	g.Go(func() error {
		snap, snapErr = a.provider.Snapshot(ctx, symbol)
		return nil
	})
	g.Go(func() error {
		stmts, stmtsErr = a.provider.Statements(ctx, symbol)
		return nil
	})
	g.Wait()

	if barsErr != nil && snapErr != nil && stmtsErr != nil {
		return nil, fmt.Errorf("no data available for %s: %w", symbol, snapErr)
	}

	res := &Result{
		Symbol:      symbol,
		GeneratedAt: time.Now(),
		Errors:      make(map[string]string),
	}

	if barsErr != nil {
		res.Errors["price_history"] = barsErr.Error()
	} else if tech, err := indicators.Compute(bars); err != nil {
		res.Errors["technical"] = err.Error()
	} else {
		res.Technicals = tech
	}

	if stmtsErr != nil {
		res.Errors["statements"] = stmtsErr.Error()
	} else if fm, err := fundamentals.Compute(*stmts); err != nil {
		res.Errors["fundamentals"] = err.Error()
	} else {
		res.Fundamentals = fm
	}

	sector := cfg.Scoring.DefaultSector
	if snapErr != nil {
		res.Errors["snapshot"] = snapErr.Error()
	} else {
		res.Snapshot = snap
		if sectors.Known(snap.Sector) {
			sector = snap.Sector
		} else if snap.Sector != "" {
			log.Printf("Unknown sector %q for %s, using %s benchmarks", snap.Sector, symbol, sector)
		}

		thresholds := valuation.Thresholds{
			Undervalued: cfg.Scoring.UndervaluedThreshold,
			FairValue:   cfg.Scoring.FairValueThreshold,
		}
		res.Valuation = valuation.Compute(*snap, thresholds)
	}

	res.Sector = sector
	res.Benchmark = sectors.ResolveWithDefault(sector, cfg.Scoring.DefaultSector)

	if res.Valuation != nil {
		res.SectorComparisons = valuation.CompareToSector(res.Valuation, res.Benchmark)
	}

	in := scoring.Inputs{
		Fundamentals:        res.Fundamentals,
		Technicals:          res.Technicals,
		Benchmark:           &res.Benchmark,
		SentimentAdjustment: sentiment,
	}
	if res.Snapshot != nil {
		in.TrailingPE = res.Snapshot.TrailingPE
		in.ForwardPE = res.Snapshot.ForwardPE
		in.PEGRatio = res.Snapshot.PEGRatio
	}
	// The engine is rebuilt per run so config edits picked up by the
	// watcher apply without restarting.
	res.Scores = scoring.NewEngine(cfg.Scoring).Score(in)

	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	return res, nil
}

// RunBatch analyzes several symbols with bounded concurrency. A failing
// symbol yields a Result carrying only the failure; the batch continues.
func (a *Analyzer) RunBatch(ctx context.Context, symbols []string, sentiment float64) ([]*Result, error) {
	results := make([]*Result, len(symbols))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for i, symbol := range symbols {
		g.Go(func() error {
			res, err := a.Analyze(ctx, symbol, sentiment)
			if err != nil {
				res = &Result{
					Symbol:      dataflows.NormalizeSymbol(symbol),
					GeneratedAt: time.Now(),
					Errors:      map[string]string{"analysis": err.Error()},
				}
			}
			results[i] = res
			return ctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
