package dataflows

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Cache is a two-tier (memory + JSON file) response cache. Callers hold
// their own instance; there is no process-wide singleton, so tests and
// parallel analyzers can use isolated cache directories.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool

	mu  sync.RWMutex
	mem map[string]memEntry
}

type memEntry struct {
	data     []byte
	storedAt time.Time
}

func NewCache(dir string, ttl time.Duration, enabled bool) *Cache {
	return &Cache{
		dir:     dir,
		ttl:     ttl,
		enabled: enabled,
		mem:     make(map[string]memEntry),
	}
}

// key derives a stable filename from the request parameters.
func (c *Cache) key(source, method string, params any) string {
	data, _ := json.Marshal(params)
	hash := md5.Sum(data)
	return fmt.Sprintf("%s_%s_%x.json", source, method, hash)
}

// Get unmarshals a cached response into result and reports whether a fresh
// entry was found. Expired entries are evicted on the way.
func (c *Cache) Get(source, method string, params any, result any) bool {
	if !c.enabled {
		return false
	}

	key := c.key(source, method, params)

	c.mu.RLock()
	entry, ok := c.mem[key]
	c.mu.RUnlock()
	if ok {
		if time.Since(entry.storedAt) <= c.ttl {
			return json.Unmarshal(entry.data, result) == nil
		}
		c.mu.Lock()
		delete(c.mem, key)
		c.mu.Unlock()
	}

	path := filepath.Join(c.dir, key)
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if time.Since(info.ModTime()) > c.ttl {
		os.Remove(path)
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if json.Unmarshal(data, result) != nil {
		return false
	}

	// Promote to the memory tier with the file's age preserved.
	c.mu.Lock()
	c.mem[key] = memEntry{data: data, storedAt: info.ModTime()}
	c.mu.Unlock()

	return true
}

// Set stores a response in both tiers.
func (c *Cache) Set(source, method string, params any, data any) error {
	if !c.enabled {
		return nil
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	key := c.key(source, method, params)

	c.mu.Lock()
	c.mem[key] = memEntry{data: jsonData, storedAt: time.Now()}
	c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), jsonData, 0644)
}

// Invalidate drops one entry from both tiers.
func (c *Cache) Invalidate(source, method string, params any) {
	key := c.key(source, method, params)

	c.mu.Lock()
	delete(c.mem, key)
	c.mu.Unlock()

	os.Remove(filepath.Join(c.dir, key))
}

// Clear drops the memory tier and removes all cache files.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.mem = make(map[string]memEntry)
	c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of entries in the memory tier.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.mem)
}
