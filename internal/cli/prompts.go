package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

var tickerPattern = regexp.MustCompile(`^[A-Z0-9.-]+$`)

// PromptForTicker asks for a stock ticker symbol.
func PromptForTicker() (string, error) {
	var ticker string
	prompt := &survey.Input{
		Message: "Enter the stock ticker symbol (e.g., AAPL, MSFT, GOOGL):",
		Help:    "The symbol is scored across valuation, growth, profitability, health, and technicals",
	}

	err := survey.AskOne(prompt, &ticker, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(strings.ToUpper(val.(string)))
		if len(str) == 0 {
			return fmt.Errorf("ticker symbol cannot be empty")
		}
		if len(str) > 10 {
			return fmt.Errorf("ticker symbol too long (max 10 characters)")
		}
		if !tickerPattern.MatchString(str) {
			return fmt.Errorf("invalid ticker format (use letters, numbers, dots, and hyphens only)")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(strings.ToUpper(ticker)), nil
}

// PromptForSentiment asks for an optional sentiment adjustment.
func PromptForSentiment(clamp float64) (float64, error) {
	var raw string
	prompt := &survey.Input{
		Message: fmt.Sprintf("Sentiment adjustment (-%.0f to +%.0f, Enter for 0):", clamp, clamp),
		Help:    "A manual nudge applied to the composite score, clamped to the configured range",
		Default: "0",
	}

	err := survey.AskOne(prompt, &raw, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(val.(string))
		if str == "" {
			return nil
		}
		if _, err := strconv.ParseFloat(str, 64); err != nil {
			return fmt.Errorf("enter a number")
		}
		return nil
	}))
	if err != nil {
		return 0, err
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

// PromptSaveReport asks whether to write the Markdown report.
func PromptSaveReport() (bool, error) {
	save := true
	prompt := &survey.Confirm{
		Message: "Save the Markdown report?",
		Default: true,
	}
	if err := survey.AskOne(prompt, &save); err != nil {
		return false, err
	}
	return save, nil
}
