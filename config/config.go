package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings. Scoring thresholds live here rather
// than as package constants: they are hand-tuned defaults, not invariants.
type Config struct {
	ProjectDir   string `json:"project_dir"`
	ResultsDir   string `json:"results_dir"`
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	CacheEnabled    bool `json:"cache_enabled"`
	CacheTTLMinutes int  `json:"cache_ttl_minutes"`

	// HistoryDays is the price-history lookback requested from the provider.
	// The indicator calculator needs at least 200 rows.
	HistoryDays int `json:"history_days"`

	ServerAddr string `json:"server_addr"`
	Debug      bool   `json:"debug"`

	Scoring ScoringConfig `json:"scoring"`
}

// ScoringConfig carries the factor weights and decision thresholds.
type ScoringConfig struct {
	Weights FactorWeights `json:"weights"`

	// Rating thresholds, inclusive at the higher tier.
	StrongBuyThreshold float64 `json:"strong_buy_threshold"`
	BuyThreshold       float64 `json:"buy_threshold"`
	HoldThreshold      float64 `json:"hold_threshold"`
	ReduceThreshold    float64 `json:"reduce_threshold"`

	// Valuation label thresholds.
	UndervaluedThreshold float64 `json:"undervalued_threshold"`
	FairValueThreshold   float64 `json:"fair_value_threshold"`

	// Sentiment adjustment is clamped to [-SentimentClamp, +SentimentClamp].
	SentimentClamp float64 `json:"sentiment_clamp"`

	// DefaultSector is the benchmark fallback for unrecognized sectors.
	DefaultSector string `json:"default_sector"`
}

// FactorWeights must sum to 1.0.
type FactorWeights struct {
	Valuation       float64 `json:"valuation"`
	Growth          float64 `json:"growth"`
	Profitability   float64 `json:"profitability"`
	FinancialHealth float64 `json:"financial_health"`
	Technical       float64 `json:"technical"`
}

// Sum returns the total of all factor weights.
func (w FactorWeights) Sum() float64 {
	return w.Valuation + w.Growth + w.Profitability + w.FinancialHealth + w.Technical
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()
	cfg := DefaultConfigWithRoot(currentDir)

	// Load environment variables from .env file
	_ = godotenv.Load()
	cfg.loadFromEnv()

	return cfg
}

// DefaultConfigWithRoot builds the defaults anchored at the given directory
// without consulting the environment.
func DefaultConfigWithRoot(root string) *Config {
	return &Config{
		ProjectDir:   root,
		ResultsDir:   filepath.Join(root, "results"),
		DataDir:      filepath.Join(root, "data"),
		DataCacheDir: filepath.Join(root, "data", "cache"),

		CacheEnabled:    true,
		CacheTTLMinutes: 30,
		HistoryDays:     365,

		ServerAddr: ":8470",
		Debug:      false,

		Scoring: ScoringConfig{
			Weights: FactorWeights{
				Valuation:       0.25,
				Growth:          0.25,
				Profitability:   0.15,
				FinancialHealth: 0.15,
				Technical:       0.20,
			},
			StrongBuyThreshold:   80,
			BuyThreshold:         65,
			HoldThreshold:        45,
			ReduceThreshold:      30,
			UndervaluedThreshold: 70,
			FairValueThreshold:   45,
			SentimentClamp:       5,
			DefaultSector:        "Technology",
		},
	}
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("FACTORGO_PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("FACTORGO_RESULTS_DIR"); val != "" {
		c.ResultsDir = val
	}
	if val := os.Getenv("FACTORGO_DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("FACTORGO_DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}
	if val := os.Getenv("FACTORGO_SERVER_ADDR"); val != "" {
		c.ServerAddr = val
	}

	if val := os.Getenv("FACTORGO_CACHE_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = enabled
		}
	}
	if val := os.Getenv("FACTORGO_CACHE_TTL_MINUTES"); val != "" {
		if v, err := strconv.Atoi(val); err == nil && v > 0 {
			c.CacheTTLMinutes = v
		}
	}
	if val := os.Getenv("FACTORGO_HISTORY_DAYS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil && v > 0 {
			c.HistoryDays = v
		}
	}
	if val := os.Getenv("FACTORGO_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
	if val := os.Getenv("FACTORGO_DEFAULT_SECTOR"); val != "" {
		c.Scoring.DefaultSector = val
	}
}

// Validate rejects configurations the scoring engine cannot honor.
func (c *Config) Validate() error {
	if sum := c.Scoring.Weights.Sum(); math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("factor weights must sum to 1.0, got %.4f", sum)
	}
	s := c.Scoring
	if !(s.StrongBuyThreshold > s.BuyThreshold &&
		s.BuyThreshold > s.HoldThreshold &&
		s.HoldThreshold > s.ReduceThreshold &&
		s.ReduceThreshold > 0) {
		return fmt.Errorf("rating thresholds must be strictly descending and positive")
	}
	if s.UndervaluedThreshold <= s.FairValueThreshold {
		return fmt.Errorf("undervalued threshold must exceed fair-value threshold")
	}
	if s.SentimentClamp < 0 {
		return fmt.Errorf("sentiment clamp must be non-negative")
	}
	if c.CacheTTLMinutes <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ResultsDir, c.DataDir, c.DataCacheDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
