// Package sectors resolves a sector name to static median benchmark ratios.
// Values approximate S&P 500 sector medians and are hand-maintained.
package sectors

import (
	"log"
	"sort"

	"github.com/factorgo/factorgo/models"
)

// DefaultSector is used when a sector name is empty or unrecognized.
const DefaultSector = "Technology"

const benchmarkSource = "static_v1"

var benchmarks = map[string]models.SectorBenchmark{
	"Technology": {
		PEMedian: 32.0, ForwardPEMedian: 27.0, PEGMedian: 1.9, PSMedian: 7.5,
		GrossMarginMedian: 0.58, OperatingMarginMedian: 0.26, NetMarginMedian: 0.21,
	},
	"Healthcare": {
		PEMedian: 20.0, ForwardPEMedian: 17.0, PEGMedian: 1.8, PSMedian: 4.0,
		GrossMarginMedian: 0.62, OperatingMarginMedian: 0.22, NetMarginMedian: 0.16,
	},
	"Financial Services": {
		PEMedian: 14.0, ForwardPEMedian: 12.5, PEGMedian: 1.3, PSMedian: 3.5,
		GrossMarginMedian: 0.50, OperatingMarginMedian: 0.32, NetMarginMedian: 0.24,
	},
	"Consumer Cyclical": {
		PEMedian: 22.0, ForwardPEMedian: 19.0, PEGMedian: 1.5, PSMedian: 1.8,
		GrossMarginMedian: 0.38, OperatingMarginMedian: 0.12, NetMarginMedian: 0.07,
	},
	"Industrials": {
		PEMedian: 22.0, ForwardPEMedian: 19.0, PEGMedian: 1.6, PSMedian: 2.2,
		GrossMarginMedian: 0.32, OperatingMarginMedian: 0.14, NetMarginMedian: 0.09,
	},
	"Energy": {
		PEMedian: 12.0, ForwardPEMedian: 10.5, PEGMedian: 1.0, PSMedian: 1.3,
		GrossMarginMedian: 0.35, OperatingMarginMedian: 0.18, NetMarginMedian: 0.11,
	},
	"Utilities": {
		PEMedian: 18.0, ForwardPEMedian: 16.5, PEGMedian: 2.8, PSMedian: 2.5,
		GrossMarginMedian: 0.42, OperatingMarginMedian: 0.22, NetMarginMedian: 0.14,
	},
	"Communication Services": {
		PEMedian: 20.0, ForwardPEMedian: 17.0, PEGMedian: 1.4, PSMedian: 3.8,
		GrossMarginMedian: 0.55, OperatingMarginMedian: 0.24, NetMarginMedian: 0.16,
	},
	"Basic Materials": {
		PEMedian: 15.0, ForwardPEMedian: 13.0, PEGMedian: 1.2, PSMedian: 1.8,
		GrossMarginMedian: 0.28, OperatingMarginMedian: 0.14, NetMarginMedian: 0.09,
	},
	// P/E is distorted by depreciation for REITs; FFO multiples would be
	// better but providers rarely expose them.
	"Real Estate": {
		PEMedian: 38.0, ForwardPEMedian: 34.0, PEGMedian: 3.0, PSMedian: 9.0,
		GrossMarginMedian: 0.58, OperatingMarginMedian: 0.38, NetMarginMedian: 0.22,
	},
	"Consumer Defensive": {
		PEMedian: 24.0, ForwardPEMedian: 21.0, PEGMedian: 2.5, PSMedian: 2.8,
		GrossMarginMedian: 0.36, OperatingMarginMedian: 0.14, NetMarginMedian: 0.09,
	},
}

// Resolve maps a sector name to its benchmark record. Unknown or empty
// sectors fall back to the default sector rather than failing.
func Resolve(sector string) models.SectorBenchmark {
	return ResolveWithDefault(sector, DefaultSector)
}

// ResolveWithDefault is Resolve with a configurable fallback sector. An
// unrecognized fallback uses DefaultSector.
func ResolveWithDefault(sector, fallback string) models.SectorBenchmark {
	if _, ok := benchmarks[fallback]; !ok {
		fallback = DefaultSector
	}
	if sector == "" {
		sector = fallback
	}
	b, ok := benchmarks[sector]
	if !ok {
		log.Printf("sector %q not in benchmark table, using %s", sector, fallback)
		sector = fallback
		b = benchmarks[sector]
	}
	b.Sector = sector
	b.Source = benchmarkSource
	return b
}

// Known reports whether a sector name has a benchmark entry.
func Known(sector string) bool {
	_, ok := benchmarks[sector]
	return ok
}

// Names returns all benchmark sector names, sorted.
func Names() []string {
	names := make([]string, 0, len(benchmarks))
	for name := range benchmarks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
