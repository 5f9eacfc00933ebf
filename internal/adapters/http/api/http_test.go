package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/gorilla/mux"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/copa/internal/adapters/http/api"
	service "github.com/okian/copa/internal/app"
	"github.com/okian/copa/internal/domain/model"
)

// Mock implementations for testing
type mockDeps struct {
	err       error
	lastLimit int
	lastQuery string
}

func (m *mockDeps) Countries(context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []string{"Brazil", "Czech Republic", "Germany"}, nil
}

func (m *mockDeps) Stats(_ context.Context, country string) (model.CountryStats, error) {
	m.lastQuery = country
	if m.err != nil {
		return model.CountryStats{}, m.err
	}
	if country != "Brazil" {
		return model.CountryStats{Country: country}, nil
	}
	return model.CountryStats{Country: "Brazil", Titles: 5, MatchesPlayed: 2, Wins: 1, Draws: 1}, nil
}

func (m *mockDeps) TopScorers(_ context.Context, country string, limit int) (model.ScorerRanking, error) {
	m.lastQuery = country
	m.lastLimit = limit
	if m.err != nil {
		return model.ScorerRanking{}, m.err
	}
	switch country {
	case "Brazil":
		return model.ScorerRanking{
			Country: country, TeamCode: "BRA", Status: model.ScorerStatusOK,
			Scorers: []model.Scorer{{PlayerName: "RONALDO", Goals: 15}},
		}, nil
	case "Yugoslavia":
		return model.ScorerRanking{Country: country, TeamCode: "YUG", Status: model.ScorerStatusNoGoalRecords, Scorers: []model.Scorer{}}, nil
	default:
		return model.ScorerRanking{Country: country, Status: model.ScorerStatusCodeNotFound, Scorers: []model.Scorer{}}, nil
	}
}

func (m *mockDeps) Titles(context.Context) ([]model.TitleCount, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []model.TitleCount{{Country: "Brazil", Titles: 5}, {Country: "England", Titles: 1}}, nil
}

func (m *mockDeps) MapTitles(context.Context) ([]model.TitleCount, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []model.TitleCount{{Country: "Brazil", Titles: 5}, {Country: "United Kingdom", Titles: 1}}, nil
}

func (m *mockDeps) Normalization() map[string]string {
	return map[string]string{"Zaire": "DR Congo", "Germany FR": "Germany"}
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newRouter(deps *mockDeps) *mux.Router {
	router := mux.NewRouter()
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true, "countries": 3}}, 20)
	server.Register(context.Background(), router)
	return router
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		router := newRouter(&mockDeps{})

		Convey("Then the health endpoint should expose metrics", func() {
			w := get(router, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then the stats endpoint should return service info", func() {
			w := get(router, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
			So(w.Body.String(), ShouldContainSubstring, `"countries":3`)
		})

		Convey("Then non-GET methods should be rejected", func() {
			req := httptest.NewRequest(http.MethodPost, "/countries", http.NoBody)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("Then unknown paths should be 404", func() {
			So(get(router, "/players").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestCountriesHandler(t *testing.T) {
	Convey("Given the countries routes", t, func() {
		deps := &mockDeps{}
		router := newRouter(deps)

		Convey("When listing countries", func() {
			w := get(router, "/countries")

			Convey("Then the sorted list should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Countries []string `json:"countries"`
				}
				So(sonic.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Countries, ShouldResemble, []string{"Brazil", "Czech Republic", "Germany"})
			})
		})

		Convey("When requesting stats for a country with spaces in its name", func() {
			w := get(router, "/countries/Czech%20Republic/stats")

			Convey("Then the decoded name should reach the service", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastQuery, ShouldEqual, "Czech Republic")
			})
		})

		Convey("When requesting Brazil's stats", func() {
			w := get(router, "/countries/Brazil/stats")

			Convey("Then the summary should be encoded", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var s model.CountryStats
				So(sonic.Unmarshal(w.Body.Bytes(), &s), ShouldBeNil)
				So(s.Titles, ShouldEqual, 5)
				So(s.Wins, ShouldEqual, 1)
				So(s.Draws, ShouldEqual, 1)
			})
		})

		Convey("When requesting stats for an unknown country", func() {
			w := get(router, "/countries/Atlantis/stats")

			Convey("Then zeros should come back with 200", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"matches_played":0`)
			})
		})
	})
}

func TestCountriesHandler_Scorers(t *testing.T) {
	Convey("Given the scorer route", t, func() {
		deps := &mockDeps{}
		router := newRouter(deps)

		Convey("When no limit is specified", func() {
			w := get(router, "/countries/Brazil/scorers")

			Convey("Then the service default should apply", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastLimit, ShouldEqual, 0)
				var r model.ScorerRanking
				So(sonic.Unmarshal(w.Body.Bytes(), &r), ShouldBeNil)
				So(r.Status, ShouldEqual, model.ScorerStatusOK)
				So(r.Scorers, ShouldHaveLength, 1)
			})
		})

		Convey("When a valid limit is given", func() {
			w := get(router, "/countries/Brazil/scorers?limit=5")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastLimit, ShouldEqual, 5)
		})

		Convey("When the limit is not a number", func() {
			w := get(router, "/countries/Brazil/scorers?limit=ten")

			Convey("Then it should return 400 Bad Request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, `"code":"bad_request"`)
			})
		})

		Convey("When the limit is negative", func() {
			So(get(router, "/countries/Brazil/scorers?limit=-1").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the limit exceeds the maximum", func() {
			w := get(router, "/countries/Brazil/scorers?limit=21")

			Convey("Then it should return 400 with limit_exceeded", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, `"code":"limit_exceeded"`)
			})
		})

		Convey("When the country has no code or no goals", func() {
			missing := get(router, "/countries/Sweden/scorers")
			empty := get(router, "/countries/Yugoslavia/scorers")

			Convey("Then both should be 200 with a status field", func() {
				So(missing.Code, ShouldEqual, http.StatusOK)
				So(missing.Body.String(), ShouldContainSubstring, `"status":"code_not_found"`)
				So(missing.Body.String(), ShouldContainSubstring, `"scorers":[]`)
				So(empty.Code, ShouldEqual, http.StatusOK)
				So(empty.Body.String(), ShouldContainSubstring, `"status":"no_goal_records"`)
			})
		})
	})
}

func TestTitlesHandler(t *testing.T) {
	Convey("Given the title routes", t, func() {
		router := newRouter(&mockDeps{})

		Convey("When listing titles", func() {
			w := get(router, "/titles")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `{"country":"England","titles":1}`)
		})

		Convey("When listing map titles", func() {
			w := get(router, "/titles/map")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `{"country":"United Kingdom","titles":1}`)
			So(w.Body.String(), ShouldNotContainSubstring, "England")
		})

		Convey("When reading the normalization table", func() {
			w := get(router, "/normalization")

			Convey("Then keys should be sorted", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `{"mappings":{"Germany FR":"Germany","Zaire":"DR Congo"}}`)
			})
		})
	})
}

func TestQueryErrors(t *testing.T) {
	Convey("Given a service that has not started", t, func() {
		router := newRouter(&mockDeps{err: service.ErrNotStarted})

		Convey("Then every query route should answer 503", func() {
			for _, path := range []string{"/countries", "/countries/Brazil/stats", "/countries/Brazil/scorers", "/titles", "/titles/map"} {
				w := get(router, path)
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(w.Body.String(), ShouldContainSubstring, `"code":"not_ready"`)
			}
		})
	})

	Convey("Given a service that fails unexpectedly", t, func() {
		router := newRouter(&mockDeps{err: errors.New("boom")})

		Convey("Then queries should answer 500", func() {
			w := get(router, "/titles")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(w.Body.String(), ShouldContainSubstring, "boom")
		})
	})
}

func TestCORS(t *testing.T) {
	Convey("Given a router wrapped with CORS", t, func() {
		h := api.CORS(newRouter(&mockDeps{}), []string{"https://stats.example"})

		Convey("When an allowed origin calls the API", func() {
			req := httptest.NewRequest(http.MethodGet, "/titles", http.NoBody)
			req.Header.Set("Origin", "https://stats.example")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then the allow-origin header should be set", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "https://stats.example")
			})
		})

		Convey("When another origin calls the API", func() {
			req := httptest.NewRequest(http.MethodGet, "/titles", http.NoBody)
			req.Header.Set("Origin", "https://evil.example")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then no allow-origin header should be set", func() {
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldBeEmpty)
			})
		})
	})
}

func TestBadRequestKind(t *testing.T) {
	Convey("ErrBadRequest should be a stable sentinel", t, func() {
		So(api.ErrBadRequest.Error(), ShouldEqual, "bad request")
	})
}
