package dataflows

import (
	"encoding/json"
	"strconv"

	"github.com/guregu/null/v6"

	"github.com/factorgo/factorgo/models"
)

// Candidate key lists per logical field. The title-case names come from
// historical statement tables, the camelCase ones from the quoteSummary
// endpoint; both appear in the wild depending on provider version.
var (
	revenueKeys         = []string{"Total Revenue", "Revenue", "totalRevenue"}
	grossProfitKeys     = []string{"Gross Profit", "grossProfit"}
	operatingIncomeKeys = []string{"Operating Income", "Operating Income or Loss", "operatingIncome"}
	netIncomeKeys       = []string{"Net Income", "Net Income Common Stockholders", "netIncome"}
	epsKeys             = []string{"Diluted EPS", "Basic EPS", "dilutedEPS", "basicEPS"}
	interestExpenseKeys = []string{"Interest Expense", "interestExpense"}
	ebitKeys            = []string{"EBIT", "ebit"}

	totalAssetsKeys = []string{"Total Assets", "totalAssets"}
	totalEquityKeys = []string{"Total Stockholder Equity", "Stockholders Equity", "totalStockholderEquity"}
	totalDebtKeys   = []string{"Total Debt", "totalDebt"}
	cashKeys        = []string{"Cash And Cash Equivalents", "Cash", "cash"}
	currAssetsKeys  = []string{"Total Current Assets", "totalCurrentAssets"}
	currLiabsKeys   = []string{"Total Current Liabilities", "totalCurrentLiabilities"}

	opCashFlowKeys = []string{"Total Cash From Operating Activities", "Operating Cash Flow", "totalCashFromOperatingActivities"}
	capexKeys      = []string{"Capital Expenditures", "capitalExpenditures"}
	fcfKeys        = []string{"Free Cash Flow", "freeCashflow"}
)

// NormalizeStatements maps raw provider statement records onto the fixed
// internal schema. Missing or non-numeric values stay null.
func NormalizeStatements(raw RawStatements) models.FinancialStatements {
	out := models.FinancialStatements{
		Income:   make([]models.StatementPeriod, len(raw.Income)),
		Balance:  make([]models.StatementPeriod, len(raw.Balance)),
		CashFlow: make([]models.StatementPeriod, len(raw.CashFlow)),
	}

	for i, rec := range raw.Income {
		out.Income[i] = models.StatementPeriod{
			Revenue:         pickFloat(rec, revenueKeys...),
			GrossProfit:     pickFloat(rec, grossProfitKeys...),
			OperatingIncome: pickFloat(rec, operatingIncomeKeys...),
			NetIncome:       pickFloat(rec, netIncomeKeys...),
			EPS:             pickFloat(rec, epsKeys...),
			InterestExpense: pickFloat(rec, interestExpenseKeys...),
			EBIT:            pickFloat(rec, ebitKeys...),
		}
	}

	for i, rec := range raw.Balance {
		out.Balance[i] = models.StatementPeriod{
			TotalAssets:        pickFloat(rec, totalAssetsKeys...),
			TotalEquity:        pickFloat(rec, totalEquityKeys...),
			TotalDebt:          pickFloat(rec, totalDebtKeys...),
			CashAndEquivalents: pickFloat(rec, cashKeys...),
			CurrentAssets:      pickFloat(rec, currAssetsKeys...),
			CurrentLiabilities: pickFloat(rec, currLiabsKeys...),
		}
	}

	for i, rec := range raw.CashFlow {
		out.CashFlow[i] = models.StatementPeriod{
			OperatingCashFlow:  pickFloat(rec, opCashFlowKeys...),
			CapitalExpenditure: pickFloat(rec, capexKeys...),
			FreeCashFlow:       pickFloat(rec, fcfKeys...),
		}
	}

	return out
}

// NormalizeSnapshot maps a raw info record onto the snapshot schema.
func NormalizeSnapshot(symbol string, raw RawRecord) models.InfoSnapshot {
	sector, _ := raw["sector"].(string)

	return models.InfoSnapshot{
		Symbol:            symbol,
		Sector:            sector,
		CurrentPrice:      pickFloat(raw, "currentPrice", "regularMarketPrice"),
		MarketCap:         pickFloat(raw, "marketCap"),
		EnterpriseValue:   pickFloat(raw, "enterpriseValue"),
		SharesOutstanding: pickFloat(raw, "sharesOutstanding"),

		TrailingPE:   pickFloat(raw, "trailingPE"),
		ForwardPE:    pickFloat(raw, "forwardPE"),
		PEGRatio:     pickFloat(raw, "pegRatio", "trailingPegRatio"),
		PriceToBook:  pickFloat(raw, "priceToBook"),
		PriceToSales: pickFloat(raw, "priceToSalesTrailing12Months"),
		EVToEBITDA:   pickFloat(raw, "enterpriseToEbitda"),
		EVToRevenue:  pickFloat(raw, "enterpriseToRevenue"),

		FreeCashFlow:      pickFloat(raw, "freeCashflow"),
		OperatingCashFlow: pickFloat(raw, "operatingCashflow"),

		DividendYield: pickFloat(raw, "dividendYield"),
		PayoutRatio:   pickFloat(raw, "payoutRatio"),
	}
}

// pickFloat returns the first candidate key holding a usable numeric value.
func pickFloat(rec RawRecord, keys ...string) null.Float {
	for _, key := range keys {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		if f, ok := coerceFloat(v); ok {
			return null.FloatFrom(f)
		}
	}
	return null.Float{}
}

func coerceFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	case map[string]any:
		// quoteSummary wraps numbers as {"raw": n, "fmt": "..."}.
		if raw, ok := t["raw"]; ok {
			return coerceFloat(raw)
		}
	}
	return 0, false
}
