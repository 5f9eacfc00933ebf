package api

import (
	"context"
	"net/http"

	"github.com/okian/copa/internal/domain/model"
)

// TitleDependencies defines the global title queries.
type TitleDependencies interface {
	Titles(ctx context.Context) ([]model.TitleCount, error)
	MapTitles(ctx context.Context) ([]model.TitleCount, error)
	Normalization() map[string]string
}

// TitlesHandler handles title and name-table requests.
type TitlesHandler struct {
	deps TitleDependencies
}

// NewTitlesHandler creates a new titles handler.
func NewTitlesHandler(deps TitleDependencies) *TitlesHandler {
	return &TitlesHandler{deps: deps}
}

// HandleTitles handles GET /titles requests.
func (h *TitlesHandler) HandleTitles(w http.ResponseWriter, r *http.Request) {
	h.writeTitles(w, r, h.deps.Titles)
}

// HandleMapTitles handles GET /titles/map requests. Names are the ones a
// world map service expects, e.g. United Kingdom for England.
func (h *TitlesHandler) HandleMapTitles(w http.ResponseWriter, r *http.Request) {
	h.writeTitles(w, r, h.deps.MapTitles)
}

func (h *TitlesHandler) writeTitles(w http.ResponseWriter, r *http.Request, query func(context.Context) ([]model.TitleCount, error)) {
	counts, err := query(r.Context())
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, titlesResponse{Titles: counts})
}

// HandleNormalization handles GET /normalization requests.
func (h *TitlesHandler) HandleNormalization(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, normalizationResponse{Mappings: h.deps.Normalization()})
}
