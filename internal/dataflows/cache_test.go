package dataflows

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type cachedPayload struct {
	Symbol string  `json:"symbol"`
	Score  float64 `json:"score"`
}

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache(t.TempDir(), time.Minute, true)

	in := cachedPayload{Symbol: "AAPL", Score: 72.5}
	if err := c.Set("yahoo", "snapshot", "AAPL", in); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var out cachedPayload
	if !c.Get("yahoo", "snapshot", "AAPL", &out) {
		t.Fatal("expected cache hit")
	}
	if out != in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestCacheMissOnDifferentParams(t *testing.T) {
	c := NewCache(t.TempDir(), time.Minute, true)

	c.Set("yahoo", "snapshot", "AAPL", cachedPayload{Symbol: "AAPL"})

	var out cachedPayload
	if c.Get("yahoo", "snapshot", "MSFT", &out) {
		t.Fatal("expected cache miss for different params")
	}
	if c.Get("yahoo", "history", "AAPL", &out) {
		t.Fatal("expected cache miss for different method")
	}
}

func TestCacheDisabled(t *testing.T) {
	c := NewCache(t.TempDir(), time.Minute, false)

	if err := c.Set("yahoo", "snapshot", "AAPL", cachedPayload{}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var out cachedPayload
	if c.Get("yahoo", "snapshot", "AAPL", &out) {
		t.Fatal("disabled cache must never hit")
	}
}

func TestCacheExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(dir, time.Minute, true)

	c.Set("yahoo", "snapshot", "AAPL", cachedPayload{Symbol: "AAPL"})

	// Age the file past the TTL and drop the memory tier.
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one cache file, got %d (err %v)", len(entries), err)
	}
	old := time.Now().Add(-2 * time.Minute)
	path := filepath.Join(dir, entries[0].Name())
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}
	c.Clear()
	// Clear removed the file too; recreate it as an expired entry.
	c.Set("yahoo", "snapshot", "AAPL", cachedPayload{Symbol: "AAPL"})
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}
	fresh := NewCache(dir, time.Minute, true)

	var out cachedPayload
	if fresh.Get("yahoo", "snapshot", "AAPL", &out) {
		t.Fatal("expected miss on expired file cache")
	}
}

func TestCacheFileTierSurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	first := NewCache(dir, time.Minute, true)
	first.Set("yahoo", "snapshot", "AAPL", cachedPayload{Symbol: "AAPL", Score: 1})

	second := NewCache(dir, time.Minute, true)
	var out cachedPayload
	if !second.Get("yahoo", "snapshot", "AAPL", &out) {
		t.Fatal("expected file-tier hit from a fresh cache instance")
	}
	if second.Len() != 1 {
		t.Fatalf("memory tier len = %d, want 1 after promotion", second.Len())
	}
}

func TestCacheInvalidateAndClear(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(dir, time.Minute, true)

	c.Set("yahoo", "snapshot", "AAPL", cachedPayload{Symbol: "AAPL"})
	c.Set("yahoo", "snapshot", "MSFT", cachedPayload{Symbol: "MSFT"})

	c.Invalidate("yahoo", "snapshot", "AAPL")
	var out cachedPayload
	if c.Get("yahoo", "snapshot", "AAPL", &out) {
		t.Fatal("expected miss after Invalidate")
	}
	if !c.Get("yahoo", "snapshot", "MSFT", &out) {
		t.Fatal("Invalidate must not touch other entries")
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("memory tier len = %d after Clear, want 0", c.Len())
	}
	files, _ := os.ReadDir(dir)
	if len(files) != 0 {
		t.Fatalf("%d cache files remain after Clear, want 0", len(files))
	}
}
