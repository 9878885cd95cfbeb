package config

// Source yields the current configuration. Manager implements it with a
// lock-guarded copy, so readers on request goroutines never observe a
// half-applied reload.
type Source interface {
	Get() Config
}

// Static wraps a fixed snapshot for callers that run without a watcher.
func Static(cfg Config) Source {
	return staticSource{cfg: cfg}
}

type staticSource struct {
	cfg Config
}

func (s staticSource) Get() Config {
	return s.cfg
}
