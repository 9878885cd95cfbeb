package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"

	"github.com/factorgo/factorgo/config"
	"github.com/factorgo/factorgo/models"
)

const quoteSummaryBase = "https://query1.finance.yahoo.com"

// YahooClient fetches price history, snapshot info, and financial
// statements from Yahoo Finance.
type YahooClient struct {
	http  *resty.Client
	cache *Cache
	retry *RetryConfig
}

func NewYahooClient(cfg *config.Config) *YahooClient {
	client := resty.New()
	client.SetBaseURL(quoteSummaryBase)
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; factorgo)")

	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	cache := NewCache(filepath.Join(cfg.DataCacheDir, "yahoo"), ttl, cfg.CacheEnabled)

	return &YahooClient{
		http:  client,
		cache: cache,
		retry: DefaultRetryConfig(),
	}
}

// Cache exposes the client's cache for invalidation by callers.
func (yc *YahooClient) Cache() *Cache {
	return yc.cache
}

// History returns daily bars for the trailing window, ordered oldest first.
func (yc *YahooClient) History(ctx context.Context, symbol string, days int) ([]models.PriceBar, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	end := time.Now()
	start := end.AddDate(0, 0, -days)
	cacheKey := map[string]any{
		"symbol": symbol,
		"start":  start.Format("2006-01-02"),
		"end":    end.Format("2006-01-02"),
	}

	var cached []models.PriceBar
	if yc.cache.Get("yahoo", "history", cacheKey, &cached) {
		return cached, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var bars []models.PriceBar
	err := WithRetry(yc.retry, func() error {
		params := &chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
		}

		iter := chart.Get(params)

		bars = bars[:0]
		for iter.Next() {
			b := iter.Bar()
			// Yahoo pads charts with zeroed rows on halted days.
			if b.Close.LessThanOrEqual(decimal.Zero) {
				continue
			}
			bars = append(bars, models.PriceBar{
				Date:   time.Unix(int64(b.Timestamp), 0),
				Open:   b.Open.InexactFloat64(),
				High:   b.High.InexactFloat64(),
				Low:    b.Low.InexactFloat64(),
				Close:  b.Close.InexactFloat64(),
				Volume: int64(b.Volume),
			})
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("fetch history for %s: %w", symbol, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	yc.cache.Set("yahoo", "history", cacheKey, bars)
	return bars, nil
}

// Snapshot returns the normalized live info record. The equity quote
// supplies the core ratios; the quoteSummary endpoint fills in sector,
// PEG, enterprise-value ratios, and cash-flow figures.
func (yc *YahooClient) Snapshot(ctx context.Context, symbol string) (*models.InfoSnapshot, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var cached models.InfoSnapshot
	if yc.cache.Get("yahoo", "snapshot", symbol, &cached) {
		return &cached, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := RawRecord{}

	err := WithRetry(yc.retry, func() error {
		q, err := equity.Get(symbol)
		if err != nil {
			return fmt.Errorf("fetch quote for %s: %w", symbol, err)
		}

		setNonZero(raw, "regularMarketPrice", q.RegularMarketPrice)
		setNonZero(raw, "marketCap", float64(q.MarketCap))
		setNonZero(raw, "sharesOutstanding", float64(q.SharesOutstanding))
		setNonZero(raw, "trailingPE", q.TrailingPE)
		setNonZero(raw, "forwardPE", q.ForwardPE)
		setNonZero(raw, "priceToBook", q.PriceToBook)
		setNonZero(raw, "dividendYield", q.TrailingAnnualDividendYield)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The summary modules are best-effort: a snapshot without sector or
	// PEG still scores, just with fewer inputs.
	modules, err := yc.quoteSummary(ctx, symbol,
		"assetProfile", "summaryDetail", "defaultKeyStatistics", "financialData")
	if err == nil {
		for _, module := range modules {
			var fields RawRecord
			if json.Unmarshal(module, &fields) != nil {
				continue
			}
			for k, v := range fields {
				raw[k] = v
			}
		}
	}

	snap := NormalizeSnapshot(symbol, raw)
	yc.cache.Set("yahoo", "snapshot", symbol, snap)
	return &snap, nil
}

// Statements returns normalized annual financial statements, most-recent
// period first.
func (yc *YahooClient) Statements(ctx context.Context, symbol string) (*models.FinancialStatements, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var cached models.FinancialStatements
	if yc.cache.Get("yahoo", "statements", symbol, &cached) {
		return &cached, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	modules, err := yc.quoteSummary(ctx, symbol,
		"incomeStatementHistory", "balanceSheetHistory", "cashflowStatementHistory")
	if err != nil {
		return nil, fmt.Errorf("fetch statements for %s: %w", symbol, err)
	}

	raw := RawStatements{
		Income:   statementList(modules["incomeStatementHistory"], "incomeStatementHistory"),
		Balance:  statementList(modules["balanceSheetHistory"], "balanceSheetStatements"),
		CashFlow: statementList(modules["cashflowStatementHistory"], "cashflowStatements"),
		Source:   "yahoo",
		AsOf:     time.Now(),
	}

	stmts := NormalizeStatements(raw)
	yc.cache.Set("yahoo", "statements", symbol, stmts)
	return &stmts, nil
}

type quoteSummaryEnvelope struct {
	QuoteSummary struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// quoteSummary fetches the named modules and returns them keyed by module
// name, still as raw JSON.
func (yc *YahooClient) quoteSummary(ctx context.Context, symbol string, moduleNames ...string) (map[string]json.RawMessage, error) {
	moduleParam := ""
	for i, name := range moduleNames {
		if i > 0 {
			moduleParam += ","
		}
		moduleParam += name
	}

	var envelope quoteSummaryEnvelope
	err := WithRetry(yc.retry, func() error {
		resp, err := yc.http.R().
			SetContext(ctx).
			SetQueryParam("modules", moduleParam).
			Get("/v10/finance/quoteSummary/" + symbol)
		if err != nil {
			return fmt.Errorf("quote summary request for %s: %w", symbol, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("quote summary API error %d for %s", resp.StatusCode(), symbol)
		}
		if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
			return fmt.Errorf("parse quote summary for %s: %w", symbol, err)
		}
		if e := envelope.QuoteSummary.Error; e != nil {
			return fmt.Errorf("quote summary for %s: %s (%s)", symbol, e.Description, e.Code)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(envelope.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no quote summary data for %s", symbol)
	}
	return envelope.QuoteSummary.Result[0], nil
}

// statementList extracts the period records nested under listKey.
func statementList(module json.RawMessage, listKey string) []RawRecord {
	if module == nil {
		return nil
	}
	var wrapper map[string]json.RawMessage
	if json.Unmarshal(module, &wrapper) != nil {
		return nil
	}
	var records []RawRecord
	if json.Unmarshal(wrapper[listKey], &records) != nil {
		return nil
	}
	return records
}

func setNonZero(rec RawRecord, key string, v float64) {
	if v != 0 {
		rec[key] = v
	}
}
