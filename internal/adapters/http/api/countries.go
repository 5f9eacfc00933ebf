package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/okian/copa/internal/domain/model"
)

// CountryDependencies defines the per-country queries.
type CountryDependencies interface {
	Countries(ctx context.Context) ([]string, error)
	Stats(ctx context.Context, country string) (model.CountryStats, error)
	TopScorers(ctx context.Context, country string, limit int) (model.ScorerRanking, error)
}

// CountriesHandler handles the /countries routes.
type CountriesHandler struct {
	deps     CountryDependencies
	maxLimit int
}

// NewCountriesHandler creates a new countries handler.
func NewCountriesHandler(deps CountryDependencies, maxLimit int) *CountriesHandler {
	return &CountriesHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleList handles GET /countries requests.
func (h *CountriesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	countries, err := h.deps.Countries(r.Context())
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countriesResponse{Countries: countries})
}

// HandleStats handles GET /countries/{country}/stats requests. Countries
// without matches get zero figures, not 404.
func (h *CountriesHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.deps.Stats(r.Context(), mux.Vars(r)["country"])
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleScorers handles GET /countries/{country}/scorers?limit=N requests.
// The ranking's status field tells apart missing codes and missing goals;
// all three outcomes are 200.
func (h *CountriesHandler) HandleScorers(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", badRequest("limit must be a non-negative integer, got %q", raw))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", badRequest("limit must not exceed %d", h.maxLimit))
			return
		}
		limit = n
	}

	ranking, err := h.deps.TopScorers(r.Context(), mux.Vars(r)["country"], limit)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}
