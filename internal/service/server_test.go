package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/guregu/null/v6"

	"github.com/factorgo/factorgo/config"
	"github.com/factorgo/factorgo/internal/analyzer"
	"github.com/factorgo/factorgo/models"
)

type fakeProvider struct {
	fail bool
}

func (f *fakeProvider) History(ctx context.Context, symbol string, days int) ([]models.PriceBar, error) {
	if f.fail {
		return nil, errors.New("provider down")
	}
	bars := make([]models.PriceBar, 210)
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		price := 100 + 0.1*float64(i)
		bars[i] = models.PriceBar{
			Date: start.AddDate(0, 0, i),
			Open: price, High: price + 1, Low: price - 1, Close: price,
			Volume: 1_000_000,
		}
	}
	return bars, nil
}

func (f *fakeProvider) Snapshot(ctx context.Context, symbol string) (*models.InfoSnapshot, error) {
	if f.fail {
		return nil, errors.New("provider down")
	}
	return &models.InfoSnapshot{
		Symbol:       symbol,
		Sector:       "Technology",
		CurrentPrice: null.FloatFrom(120),
		TrailingPE:   null.FloatFrom(18),
	}, nil
}

func (f *fakeProvider) Statements(ctx context.Context, symbol string) (*models.FinancialStatements, error) {
	if f.fail {
		return nil, errors.New("provider down")
	}
	p := models.StatementPeriod{
		Revenue:   null.FloatFrom(1000),
		NetIncome: null.FloatFrom(100),
	}
	return &models.FinancialStatements{
		Income:  []models.StatementPeriod{p, p},
		Balance: []models.StatementPeriod{p},
	}, nil
}

func newTestServer(fail bool) *Server {
	src := config.Static(*config.DefaultConfigWithRoot("/tmp"))
	a := analyzer.New(&fakeProvider{fail: fail}, src)
	return NewServer(src, a)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(false)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestSectorsEndpoint(t *testing.T) {
	srv := newTestServer(false)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sectors", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Sectors       []string `json:"sectors"`
		DefaultSector string   `json:"default_sector"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Sectors) != 11 {
		t.Errorf("got %d sectors, want 11", len(body.Sectors))
	}
	if body.DefaultSector != "Technology" {
		t.Errorf("default sector = %q", body.DefaultSector)
	}
}

func TestSectorEndpoint(t *testing.T) {
	srv := newTestServer(false)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sectors/Energy", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Benchmark models.SectorBenchmark `json:"benchmark"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Benchmark.PEMedian != 12 {
		t.Errorf("Energy PEMedian = %v, want 12", body.Benchmark.PEMedian)
	}

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sectors/Cryptocurrency", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d for unknown sector, want 404", rec.Code)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv := newTestServer(false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze",
		strings.NewReader(`{"symbol":"aapl","sentiment":2}`))
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var res analyzer.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Symbol != "AAPL" {
		t.Errorf("symbol = %q, want AAPL", res.Symbol)
	}
	if res.Scores.Rating == "" {
		t.Error("missing rating")
	}
	if res.Scores.SentimentAdjustment != 2 {
		t.Errorf("sentiment adjustment = %v, want 2", res.Scores.SentimentAdjustment)
	}
}

func TestAnalyzeEndpointValidation(t *testing.T) {
	srv := newTestServer(false)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/analyze",
		strings.NewReader(`{"sentiment":1}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d for missing symbol, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/analyze",
		strings.NewReader(`not json`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d for bad body, want 400", rec.Code)
	}
}

func TestAnalyzeEndpointProviderDown(t *testing.T) {
	srv := newTestServer(true)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/analyze",
		strings.NewReader(`{"symbol":"AAPL"}`)))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d when provider is down, want 502", rec.Code)
	}
}

func TestScoreEndpointPure(t *testing.T) {
	srv := newTestServer(true) // provider down must not matter

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/score",
		strings.NewReader(`{"sentiment":10}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var scores models.FactorScores
	if err := json.Unmarshal(rec.Body.Bytes(), &scores); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if scores.CompositeScore != 50 {
		t.Errorf("composite = %v, want neutral 50 for empty inputs", scores.CompositeScore)
	}
	if scores.SentimentAdjustment != 5 {
		t.Errorf("sentiment adjustment = %v, want clamped 5", scores.SentimentAdjustment)
	}
	if scores.FinalScore != 55 {
		t.Errorf("final = %v, want 55", scores.FinalScore)
	}
}

// Handlers read the config through the manager per request, so a reload
// applied while requests are in flight must neither race nor require a
// restart to take effect.
func TestScoreEndpointDuringConfigReload(t *testing.T) {
	dir := t.TempDir()
	mgr, err := config.NewManager(
		config.WithConfigDir(dir),
		config.WithInitialConfig(config.DefaultConfigWithRoot(dir)),
	)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	a := analyzer.New(&fakeProvider{fail: true}, mgr)
	srv := NewServer(mgr, a)
	router := srv.Router()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/score",
					strings.NewReader(`{"sentiment":10}`)))
				if rec.Code != http.StatusOK {
					t.Errorf("status = %d mid-reload: %s", rec.Code, rec.Body.String())
					return
				}
				var scores models.FactorScores
				if err := json.Unmarshal(rec.Body.Bytes(), &scores); err != nil {
					t.Errorf("unmarshal: %v", err)
					return
				}
				if scores.SentimentAdjustment != 5 && scores.SentimentAdjustment != 3 {
					t.Errorf("adjustment = %v, want a full clamp from one config or the other",
						scores.SentimentAdjustment)
					return
				}
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			cfg := mgr.Get()
			if i%2 == 0 {
				cfg.Scoring.SentimentClamp = 3
			} else {
				cfg.Scoring.SentimentClamp = 5
			}
			if err := mgr.Update(cfg); err != nil {
				t.Errorf("Update failed: %v", err)
				return
			}
		}
	}()
	wg.Wait()

	final := mgr.Get()
	final.Scoring.SentimentClamp = 3
	if err := mgr.Update(final); err != nil {
		t.Fatalf("final Update failed: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/score",
		strings.NewReader(`{"sentiment":10}`)))
	var scores models.FactorScores
	if err := json.Unmarshal(rec.Body.Bytes(), &scores); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if scores.SentimentAdjustment != 3 {
		t.Fatalf("adjustment = %v after reload, want new clamp 3", scores.SentimentAdjustment)
	}
}
