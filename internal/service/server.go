// Package service exposes the analyzer over HTTP.
package service

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/factorgo/factorgo/config"
	"github.com/factorgo/factorgo/internal/analyzer"
	"github.com/factorgo/factorgo/internal/scoring"
	"github.com/factorgo/factorgo/internal/sectors"
	"github.com/factorgo/factorgo/models"
)

type Server struct {
	cfgSrc   config.Source
	analyzer *analyzer.Analyzer
}

// NewServer wires the handlers to a config source. Handlers read the
// source per request, so a watcher-driven reload applies immediately.
func NewServer(cfgSrc config.Source, a *analyzer.Analyzer) *Server {
	return &Server{
		cfgSrc:   cfgSrc,
		analyzer: a,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/sectors", s.handleSectors)
		r.Get("/sectors/{sector}", s.handleSector)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/score", s.handleScore)
	})

	return r
}

// HTTPServer wraps the router in a server with sane timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:           s.cfgSrc.Get().ServerAddr,
		Handler:        s.Router(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   90 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSectors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sectors":        sectors.Names(),
		"default_sector": s.cfgSrc.Get().Scoring.DefaultSector,
	})
}

func (s *Server) handleSector(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "sector")
	if !sectors.Known(name) {
		writeError(w, http.StatusNotFound, "unknown sector: "+name)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sector":    name,
		"benchmark": sectors.Resolve(name),
	})
}

// AnalyzeRequest is the body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	Symbol    string  `json:"symbol"`
	Sentiment float64 `json:"sentiment"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	res, err := s.analyzer.Analyze(r.Context(), req.Symbol, req.Sentiment)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ScoreRequest is the body of POST /api/v1/score. It scores caller-supplied
// inputs without touching any data provider.
type ScoreRequest struct {
	Fundamentals *models.FundamentalMetrics  `json:"fundamentals,omitempty"`
	Technicals   *models.TechnicalIndicators `json:"technicals,omitempty"`
	Snapshot     *models.InfoSnapshot        `json:"snapshot,omitempty"`
	Sector       string                      `json:"sector,omitempty"`
	Sentiment    float64                     `json:"sentiment"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	cfg := s.cfgSrc.Get()
	benchmark := sectors.ResolveWithDefault(req.Sector, cfg.Scoring.DefaultSector)

	in := scoring.Inputs{
		Fundamentals:        req.Fundamentals,
		Technicals:          req.Technicals,
		Benchmark:           &benchmark,
		SentimentAdjustment: req.Sentiment,
	}
	if req.Snapshot != nil {
		in.TrailingPE = req.Snapshot.TrailingPE
		in.ForwardPE = req.Snapshot.ForwardPE
		in.PEGRatio = req.Snapshot.PEGRatio
	}

	writeJSON(w, http.StatusOK, scoring.NewEngine(cfg.Scoring).Score(in))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
