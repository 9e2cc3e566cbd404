package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/fieldday/internal/adapters/http/api"
	app "github.com/okian/fieldday/internal/app"
	"github.com/okian/fieldday/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// harness runs the full API over a started service.
type harness struct {
	svc *app.Service
	mux *http.ServeMux
}

func newHarness(ctx context.Context) *harness {
	svc := app.New()
	if err := svc.Start(ctx); err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)
	return &harness{svc: svc, mux: mux}
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	h.mux.ServeHTTP(rr, req)
	return rr
}

func decode[T any](rr *httptest.ResponseRecorder) T {
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		panic(fmt.Sprintf("decode response: %v: %s", err, rr.Body.String()))
	}
	return v
}

const createCompetitionBody = `{
	"name": "Field Day 2026",
	"teams": [
		{"name": "Red", "captain": "Avery", "participants": ["Avery", "Blake"]},
		{"name": "Blue", "captain": "Casey", "participants": ["Casey", "Drew"]}
	]
}`

// bootstrap creates a competition and returns its view.
func (h *harness) bootstrap() app.CompetitionView {
	rr := h.do(http.MethodPost, "/competitions", createCompetitionBody)
	if rr.Code != http.StatusCreated {
		panic("bootstrap failed: " + rr.Body.String())
	}
	return decode[app.CompetitionView](rr)
}

func teamID(view app.CompetitionView, name string) string {
	for _, t := range view.Teams {
		if t.Name == name {
			return t.ID
		}
	}
	return ""
}

func TestCompetitionEndpoints(t *testing.T) {
	ctx := context.Background()

	Convey("Given the API over a fresh service", t, func() {
		h := newHarness(ctx)
		defer h.svc.Stop()

		Convey("When creating a competition", func() {
			rr := h.do(http.MethodPost, "/competitions", createCompetitionBody)

			Convey("Then it returns 201 with the full view", func() {
				So(rr.Code, ShouldEqual, http.StatusCreated)
				view := decode[app.CompetitionView](rr)
				So(view.Competition.Name, ShouldEqual, "Field Day 2026")
				So(view.Teams, ShouldHaveLength, 2)
				So(view.Participants, ShouldHaveLength, 4)
			})

			Convey("Then the competition is readable", func() {
				view := decode[app.CompetitionView](rr)
				got := h.do(http.MethodGet, "/competitions/"+view.Competition.ID, "")
				So(got.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When creating with one team", func() {
			rr := h.do(http.MethodPost, "/competitions", `{"name": "Solo", "teams": [{"name": "Red"}]}`)
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When creating with a malformed body", func() {
			rr := h.do(http.MethodPost, "/competitions", `{"name": `)
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When reading an unknown competition", func() {
			rr := h.do(http.MethodGet, "/competitions/ghost", "")
			So(rr.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestActivityEndpoints(t *testing.T) {
	ctx := context.Background()

	Convey("Given a bootstrapped competition", t, func() {
		h := newHarness(ctx)
		defer h.svc.Stop()
		view := h.bootstrap()
		base := "/competitions/" + view.Competition.ID

		Convey("When creating a team activity", func() {
			rr := h.do(http.MethodPost, base+"/activities", `{"name": "Tug of War", "type": "team"}`)

			Convey("Then it returns 201 and appears in the listing", func() {
				So(rr.Code, ShouldEqual, http.StatusCreated)

				list := h.do(http.MethodGet, base+"/activities", "")
				So(list.Code, ShouldEqual, http.StatusOK)
				So(list.Body.String(), ShouldContainSubstring, "Tug of War")
			})
		})

		Convey("When creating with an invalid type", func() {
			rr := h.do(http.MethodPost, base+"/activities", `{"name": "Relay", "type": "relay"}`)
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When creating without a name", func() {
			rr := h.do(http.MethodPost, base+"/activities", `{"type": "team"}`)
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When deleting an activity", func() {
			created := h.do(http.MethodPost, base+"/activities", `{"name": "Tug of War", "type": "team"}`)
			var activity struct {
				ID string `json:"id"`
			}
			So(json.Unmarshal(created.Body.Bytes(), &activity), ShouldBeNil)

			rr := h.do(http.MethodDelete, base+"/activities/"+activity.ID, "")

			Convey("Then it returns 204 and the listing is empty", func() {
				So(rr.Code, ShouldEqual, http.StatusNoContent)
				list := h.do(http.MethodGet, base+"/activities", "")
				So(list.Body.String(), ShouldNotContainSubstring, "Tug of War")
			})
		})

		Convey("When deleting an unknown activity", func() {
			rr := h.do(http.MethodDelete, base+"/activities/ghost", "")
			So(rr.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestScoreAndReadEndpoints(t *testing.T) {
	ctx := context.Background()

	Convey("Given a competition with a team activity", t, func() {
		h := newHarness(ctx)
		defer h.svc.Stop()
		view := h.bootstrap()
		base := "/competitions/" + view.Competition.ID

		created := h.do(http.MethodPost, base+"/activities", `{"name": "Tug of War", "type": "team"}`)
		var activity struct {
			ID string `json:"id"`
		}
		So(json.Unmarshal(created.Body.Bytes(), &activity), ShouldBeNil)
		scoresPath := base + "/activities/" + activity.ID + "/scores"

		Convey("When saving a win/loss result", func() {
			body := fmt.Sprintf(`{"mode": "win_loss", "winning_team_id": %q}`, teamID(view, "Red"))
			rr := h.do(http.MethodPut, scoresPath, body)

			Convey("Then the save succeeds and standings update", func() {
				So(rr.Code, ShouldEqual, http.StatusOK)
				result := decode[app.ScoreResult](rr)
				So(result.WinnerName, ShouldEqual, "Red")

				standings := h.do(http.MethodGet, base+"/standings", "")
				So(standings.Code, ShouldEqual, http.StatusOK)
				entries := decode[[]app.StandingsEntry](standings)
				So(entries[0].Name, ShouldEqual, "Red")
				So(entries[0].TotalScore, ShouldEqual, 50)
			})

			Convey("Then results name the winner", func() {
				rr := h.do(http.MethodGet, base+"/results", "")
				So(rr.Code, ShouldEqual, http.StatusOK)
				results := decode[[]app.ActivityResult](rr)
				So(results, ShouldHaveLength, 1)
				So(results[0].WinnerName, ShouldEqual, "Red")
			})
		})

		Convey("When saving win/loss without a winner", func() {
			rr := h.do(http.MethodPut, scoresPath, `{"mode": "win_loss"}`)
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When mixing win/loss mode with team scores", func() {
			rr := h.do(http.MethodPut, scoresPath, `{"mode": "win_loss", "team_scores": {"x": 1}}`)
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When saving with an unknown mode", func() {
			rr := h.do(http.MethodPut, scoresPath, `{"mode": "sudden_death"}`)
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When saving custom team scores", func() {
			body := fmt.Sprintf(`{"mode": "team_score", "team_scores": {%q: 42, %q: 17}}`,
				teamID(view, "Red"), teamID(view, "Blue"))
			rr := h.do(http.MethodPut, scoresPath, body)

			Convey("Then entered values become the points", func() {
				So(rr.Code, ShouldEqual, http.StatusOK)
				standings := h.do(http.MethodGet, base+"/standings", "")
				entries := decode[[]app.StandingsEntry](standings)
				So(entries[0].TotalScore, ShouldEqual, 42)
				So(entries[1].TotalScore, ShouldEqual, 17)
			})
		})
	})
}

func TestMVPEndpoint(t *testing.T) {
	ctx := context.Background()

	Convey("Given a competition with no individual activities", t, func() {
		h := newHarness(ctx)
		defer h.svc.Stop()
		view := h.bootstrap()

		Convey("When asking for the MVP", func() {
			rr := h.do(http.MethodGet, "/competitions/"+view.Competition.ID+"/mvp", "")

			Convey("Then the MVP is null, not an error", func() {
				So(rr.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					MVP *app.MVPView `json:"mvp"`
				}
				So(json.Unmarshal(rr.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.MVP, ShouldBeNil)
			})
		})
	})
}

func TestRulesEndpoints(t *testing.T) {
	ctx := context.Background()

	Convey("Given a bootstrapped competition", t, func() {
		h := newHarness(ctx)
		defer h.svc.Stop()
		view := h.bootstrap()
		rulesPath := "/competitions/" + view.Competition.ID + "/rules"

		Convey("When reading the rules", func() {
			rr := h.do(http.MethodGet, rulesPath, "")

			Convey("Then the defaults come back", func() {
				So(rr.Code, ShouldEqual, http.StatusOK)
				So(rr.Body.String(), ShouldContainSubstring, `"team_win":50`)
			})
		})

		Convey("When replacing the rules", func() {
			rr := h.do(http.MethodPut, rulesPath,
				`{"team_win": 100, "team_loss": -10, "first_place": 20, "second_place": 5, "last_place": -5}`)

			Convey("Then the new rules are stored", func() {
				So(rr.Code, ShouldEqual, http.StatusOK)
				got := h.do(http.MethodGet, rulesPath, "")
				So(got.Body.String(), ShouldContainSubstring, `"team_win":100`)
			})
		})

		Convey("When sending a fractional point value", func() {
			rr := h.do(http.MethodPut, rulesPath, `{"team_win": 12.5}`)
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When sending an unknown field", func() {
			rr := h.do(http.MethodPut, rulesPath, `{"team_win": 10, "bonus": 1}`)
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When updating rules of an unknown competition", func() {
			rr := h.do(http.MethodPut, "/competitions/ghost/rules", `{"team_win": 10}`)
			So(rr.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHealthAndStats(t *testing.T) {
	ctx := context.Background()

	Convey("Given the API", t, func() {
		h := newHarness(ctx)
		defer h.svc.Stop()

		Convey("When probing /healthz", func() {
			rr := h.do(http.MethodGet, "/healthz", "")
			So(rr.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When reading /stats", func() {
			rr := h.do(http.MethodGet, "/stats", "")

			Convey("Then service statistics are reported as JSON", func() {
				So(rr.Code, ShouldEqual, http.StatusOK)
				var stats map[string]any
				So(json.Unmarshal(rr.Body.Bytes(), &stats), ShouldBeNil)
				So(stats["started"], ShouldEqual, true)
			})
		})
	})
}
