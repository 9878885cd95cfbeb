// Package dataflows fetches market data from Yahoo Finance and normalizes
// the provider's loosely-keyed records into the fixed internal schema.
package dataflows

import "time"

// RawRecord is one provider record before normalization. Keys vary by
// provider version, so lookups go through candidate lists in normalize.go.
type RawRecord map[string]any

// RawStatements groups the three raw statement record lists for one ticker,
// each ordered most-recent first.
type RawStatements struct {
	Income   []RawRecord `json:"income_statement"`
	Balance  []RawRecord `json:"balance_sheet"`
	CashFlow []RawRecord `json:"cash_flow"`

	Source string    `json:"source"`
	AsOf   time.Time `json:"as_of"`
}
