// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/gorilla/mux"

	service "github.com/okian/copa/internal/app"
	"github.com/okian/copa/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CountryDependencies
	TitleDependencies
}

// Server wires HTTP routes for the statistics API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	countriesHandler *CountriesHandler
	titlesHandler    *TitlesHandler
}

// NewServer creates a new API server with all handlers. maxScorerLimit caps
// the limit query parameter of the scorer route.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxScorerLimit int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		countriesHandler: NewCountriesHandler(deps, maxScorerLimit),
		titlesHandler:    NewTitlesHandler(deps),
	}
}

// Register attaches all HTTP routes to router.
func (s *Server) Register(_ context.Context, router *mux.Router) {
	get := func(path, endpoint string, h http.HandlerFunc) {
		router.HandleFunc(path, MetricsMiddleware(h, endpoint)).Methods(http.MethodGet)
	}

	get("/healthz", "healthz", s.healthHandler.HandleHealth)
	get("/stats", "stats", s.statsHandler.HandleStats)
	get("/countries", "countries", s.countriesHandler.HandleList)
	get("/countries/{country}/stats", "country_stats", s.countriesHandler.HandleStats)
	get("/countries/{country}/scorers", "country_scorers", s.countriesHandler.HandleScorers)
	get("/titles", "titles", s.titlesHandler.HandleTitles)
	get("/titles/map", "titles_map", s.titlesHandler.HandleMapTitles)
	get("/normalization", "normalization", s.titlesHandler.HandleNormalization)
}

type countriesResponse struct {
	Countries []string `json:"countries"`
}

type titlesResponse struct {
	Titles []model.TitleCount `json:"titles"`
}

type normalizationResponse struct {
	Mappings map[string]string `json:"mappings"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON uses the std-compatible sonic config so map keys come out sorted.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = sonic.ConfigStd.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeQueryError maps service errors: an unstarted service is 503,
// everything else 500.
func writeQueryError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNotStarted) {
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err)
}
