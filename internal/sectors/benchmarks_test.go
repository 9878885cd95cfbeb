package sectors

import "testing"

func TestResolveKnownSector(t *testing.T) {
	b := Resolve("Energy")
	if b.Sector != "Energy" {
		t.Fatalf("expected Energy, got %s", b.Sector)
	}
	if b.PEMedian != 12.0 {
		t.Errorf("expected Energy P/E median 12, got %.1f", b.PEMedian)
	}
	if b.Source == "" {
		t.Error("expected source to be set")
	}
}

func TestResolveUnknownFallsBack(t *testing.T) {
	b := Resolve("Quantum Widgets")
	if b.Sector != DefaultSector {
		t.Fatalf("expected fallback to %s, got %s", DefaultSector, b.Sector)
	}

	b = ResolveWithDefault("", "Healthcare")
	if b.Sector != "Healthcare" {
		t.Fatalf("expected Healthcare fallback, got %s", b.Sector)
	}

	// A broken fallback still resolves.
	b = ResolveWithDefault("nope", "also nope")
	if b.Sector != DefaultSector {
		t.Fatalf("expected %s, got %s", DefaultSector, b.Sector)
	}
}

func TestNamesCoversElevenSectors(t *testing.T) {
	names := Names()
	if len(names) != 11 {
		t.Fatalf("expected 11 sectors, got %d: %v", len(names), names)
	}
	for _, name := range names {
		if !Known(name) {
			t.Errorf("Names returned unknown sector %q", name)
		}
		b := Resolve(name)
		if b.PEMedian <= 0 || b.GrossMarginMedian <= 0 {
			t.Errorf("sector %s has incomplete benchmarks: %+v", name, b)
		}
	}
}
