package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/factorgo/factorgo/config"
	"github.com/factorgo/factorgo/internal/analyzer"
	"github.com/factorgo/factorgo/internal/dataflows"
	"github.com/factorgo/factorgo/internal/display"
	"github.com/factorgo/factorgo/internal/report"
	"github.com/factorgo/factorgo/internal/sectors"
)

const version = "1.0.0"

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "factorgo",
		Short: "FactorGo - Quantitative factor scoring for stocks",
		Long: `FactorGo scores stocks across five factors - valuation, growth,
profitability, financial health, and technicals - against sector benchmarks
and produces a 0-100 composite with a five-tier rating.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return cfg.EnsureDirectories()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cfg)
		},
	}

	rootCmd.AddCommand(newAnalyzeCmd(cfg))
	rootCmd.AddCommand(newSectorsCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")

	return rootCmd
}

func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	var (
		sentiment  float64
		saveReport bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze SYMBOL [SYMBOL...]",
		Short: "Score one or more stock symbols",
		Long: `Fetch market data and score each symbol.
Example: factorgo analyze AAPL MSFT --sentiment=2 --report`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newAnalyzer(cfg)
			ctx := cmd.Context()

			if len(args) == 1 {
				return analyzeOne(ctx, cfg, a, args[0], sentiment, saveReport, asJSON)
			}
			return analyzeBatch(ctx, cfg, a, args, sentiment, saveReport, asJSON)
		},
	}

	cmd.Flags().Float64Var(&sentiment, "sentiment", 0, "Sentiment adjustment applied to the composite score")
	cmd.Flags().BoolVar(&saveReport, "report", false, "Write a Markdown report to the results directory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw result as JSON")

	return cmd
}

func newSectorsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "sectors [SECTOR]",
		Short: "List sector benchmarks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				name := args[0]
				if !sectors.Known(name) {
					return fmt.Errorf("unknown sector %q (see `factorgo sectors`)", name)
				}
				return printJSON(sectors.Resolve(name))
			}

			fmt.Printf("%-24s %8s %8s %8s %8s\n", "SECTOR", "P/E", "FWD P/E", "PEG", "P/S")
			for _, name := range sectors.Names() {
				b := sectors.Resolve(name)
				marker := " "
				if name == cfg.Scoring.DefaultSector {
					marker = "*"
				}
				fmt.Printf("%-23s%s %8.1f %8.1f %8.1f %8.1f\n",
					name, marker, b.PEMedian, b.ForwardPEMedian, b.PEGMedian, b.PSMedian)
			}
			fmt.Println("\n* default sector for unrecognized classifications")
			return nil
		},
	}
}

func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			display.DisplaySuccess("Configuration is valid")
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := config.NewManager(config.WithInitialConfig(cfg))
			if err != nil {
				return err
			}
			display.DisplaySuccess("Configuration written to " + mgr.Path())
			return nil
		},
	})

	return configCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("FactorGo v%s\n", version)
			fmt.Println("Quantitative factor scoring engine")
		},
	}
}

func newAnalyzer(cfg *config.Config) *analyzer.Analyzer {
	return analyzer.New(dataflows.NewYahooClient(cfg), config.Static(*cfg))
}

// runInteractive drives the prompt-based flow used when no subcommand is
// given.
func runInteractive(cfg *config.Config) error {
	symbol, err := PromptForTicker()
	if err != nil {
		return err
	}
	sentiment, err := PromptForSentiment(cfg.Scoring.SentimentClamp)
	if err != nil {
		return err
	}

	a := newAnalyzer(cfg)
	display.DisplayInfo("Fetching data and scoring " + symbol + "...")

	res, err := a.Analyze(context.Background(), symbol, sentiment)
	if err != nil {
		display.DisplayError(err)
		return err
	}
	display.DisplayResult(res)

	save, err := PromptSaveReport()
	if err != nil || !save {
		return err
	}
	path, err := report.Write(cfg, res)
	if err != nil {
		return err
	}
	display.DisplaySuccess("Report saved to " + path)
	return nil
}

func analyzeOne(ctx context.Context, cfg *config.Config, a *analyzer.Analyzer, symbol string, sentiment float64, saveReport, asJSON bool) error {
	res, err := a.Analyze(ctx, symbol, sentiment)
	if err != nil {
		return err
	}

	if asJSON {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		display.DisplayResult(res)
	}

	if saveReport {
		path, err := report.Write(cfg, res)
		if err != nil {
			return err
		}
		display.DisplaySuccess("Report saved to " + path)
	}
	return nil
}

func analyzeBatch(ctx context.Context, cfg *config.Config, a *analyzer.Analyzer, symbols []string, sentiment float64, saveReport, asJSON bool) error {
	results, err := a.RunBatch(ctx, symbols, sentiment)
	if err != nil {
		return err
	}

	if asJSON {
		if err := printJSON(results); err != nil {
			return err
		}
	} else {
		display.DisplayBatchSummary(results)
	}

	if saveReport {
		for _, res := range results {
			if res.Errors != nil && res.Errors["analysis"] != "" {
				continue
			}
			if _, err := report.Write(cfg, res); err != nil {
				return err
			}
		}
		display.DisplaySuccess("Reports saved to " + cfg.ResultsDir)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
