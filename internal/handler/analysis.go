package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/xtding233/luck-curve/internal/analysis"
	"github.com/xtding233/luck-curve/internal/drop"
	"github.com/xtding233/luck-curve/internal/luck"
	"github.com/xtding233/luck-curve/internal/metrics"
	"github.com/xtding233/luck-curve/internal/rarity"
	"github.com/xtding233/luck-curve/internal/sim"
)

// BonusResponse is the output of GET /bonus.
type BonusResponse struct {
	Formula      string  `json:"formula"`
	Level        int     `json:"level"`
	BonusPercent float64 `json:"bonus_percent"`
	Multiplier   float64 `json:"multiplier"`
}

// ExpectedResponse is the output of GET /expected.
type ExpectedResponse struct {
	Rate     float64 `json:"rate"`
	Trials   int     `json:"trials"`
	Expected float64 `json:"expected"`
}

// AtLeastOneResponse is the output of GET /at-least-one.
type AtLeastOneResponse struct {
	Rate        float64  `json:"rate"`
	Trials      int      `json:"trials"`
	Probability float64  `json:"probability"`
	Confidence  *float64 `json:"confidence,omitempty"`
	TrialsNeed  *int     `json:"trials_for_confidence,omitempty"`
}

// fail routes validation errors to per-field 400s and everything else by sentinel.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		respondValidation(w, err)
		return
	}
	respondServiceError(w, r, err)
}

// HandleBonus returns the bonus percent of a formula at a level.
func (h *Handler) HandleBonus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc := h.scenarios.Current()
		q := newQuery(r.URL.Query())
		req := formulaRequest{
			Formula:   q.str("formula"),
			Level:     deref(q.int("level"), 0),
			Character: q.str("character"),
		}
		if err := q.err(); err != nil {
			fail(w, r, err)
			return
		}
		if err := GetValidator().ValidateStruct(req); err != nil {
			fail(w, r, err)
			return
		}
		start, err := sc.StartLevel(req.Character)
		if err != nil {
			fail(w, r, err)
			return
		}
		f, err := resolveFormula(sc, req.Formula, q)
		if err == nil {
			err = q.err()
		}
		if err != nil {
			fail(w, r, err)
			return
		}
		level := req.Level + start
		bonus, err := luck.Compute(level, f)
		if err != nil {
			fail(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, BonusResponse{
			Formula:      analysis.Describe(f),
			Level:        level,
			BonusPercent: bonus,
			Multiplier:   luck.Multiplier(bonus),
		})
	}
}

// HandleProjection returns the full pipeline row for a formula level or an explicit bonus.
func (h *Handler) HandleProjection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc := h.scenarios.Current()
		t, err := parseTarget(sc, newQuery(r.URL.Query()))
		if err != nil {
			fail(w, r, err)
			return
		}
		row, err := h.evaluate(sc, t)
		if err != nil {
			fail(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, row)
	}
}

// HandleRarity returns the reweighted rarity distribution.
func (h *Handler) HandleRarity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc := h.scenarios.Current()
		t, err := parseTarget(sc, newQuery(r.URL.Query()))
		if err != nil {
			fail(w, r, err)
			return
		}
		bonus := t.bonus
		if t.formula != nil {
			if bonus, err = luck.Compute(t.level, t.formula); err != nil {
				fail(w, r, err)
				return
			}
		}
		d, err := rarity.Reweight(sc.Model.Weights, bonus, sc.Model.Rarity)
		if err != nil {
			fail(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, d)
	}
}

type expectedRequest struct {
	Rate   float64 `validate:"gte=0"`
	Trials int     `validate:"min=0"`
}

// HandleExpected returns rate × trials.
func (h *Handler) HandleExpected() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := newQuery(r.URL.Query())
		rate, trials := q.float("rate"), q.int("trials")
		if err := q.err(); err != nil {
			fail(w, r, err)
			return
		}
		if rate == nil || trials == nil {
			respondError(w, http.StatusBadRequest, "rate and trials are required")
			return
		}
		req := expectedRequest{Rate: *rate, Trials: *trials}
		if err := GetValidator().ValidateStruct(req); err != nil {
			fail(w, r, err)
			return
		}
		ev, err := drop.ExpectedValue(req.Rate, req.Trials)
		if err != nil {
			fail(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, ExpectedResponse{Rate: req.Rate, Trials: req.Trials, Expected: ev})
	}
}

type atLeastOneRequest struct {
	Rate       float64  `validate:"probability"`
	Trials     int      `validate:"min=0"`
	Confidence *float64 `validate:"omitempty,gt=0,lt=1"`
}

// HandleAtLeastOne returns 1-(1-rate)^trials, and optionally the kills needed for a confidence.
func (h *Handler) HandleAtLeastOne() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := newQuery(r.URL.Query())
		rate, trials := q.float("rate"), q.int("trials")
		conf := q.float("confidence")
		if err := q.err(); err != nil {
			fail(w, r, err)
			return
		}
		if rate == nil || trials == nil {
			respondError(w, http.StatusBadRequest, "rate and trials are required")
			return
		}
		req := atLeastOneRequest{Rate: *rate, Trials: *trials, Confidence: conf}
		if err := GetValidator().ValidateStruct(req); err != nil {
			fail(w, r, err)
			return
		}
		p, err := drop.AtLeastOne(req.Rate, req.Trials)
		if err != nil {
			fail(w, r, err)
			return
		}
		resp := AtLeastOneResponse{Rate: req.Rate, Trials: req.Trials, Probability: p}
		if req.Confidence != nil {
			n, err := drop.TrialsForConfidence(req.Rate, *req.Confidence)
			if err != nil {
				fail(w, r, err)
				return
			}
			resp.Confidence = req.Confidence
			resp.TrialsNeed = &n
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

// HandleSweep evaluates a formula across levels (default: the scenario levels).
func (h *Handler) HandleSweep() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc := h.scenarios.Current()
		q := newQuery(r.URL.Query())
		levels := q.ints("levels")
		if len(levels) == 0 {
			levels = sc.Levels
		}
		req := formulaRequest{Formula: q.str("formula"), Character: q.str("character")}
		if err := q.err(); err != nil {
			fail(w, r, err)
			return
		}
		if err := GetValidator().ValidateStruct(req); err != nil {
			fail(w, r, err)
			return
		}
		start, err := sc.StartLevel(req.Character)
		if err != nil {
			fail(w, r, err)
			return
		}
		f, err := resolveFormula(sc, req.Formula, q)
		if err == nil {
			err = q.err()
		}
		if err != nil {
			fail(w, r, err)
			return
		}

		rows := make([]analysis.Row, 0, len(levels))
		for _, lv := range analysis.WithStart(levels, start) {
			row, err := h.evaluate(sc, evalTarget{label: req.Formula, level: lv, formula: f})
			if err != nil {
				fail(w, r, err)
				return
			}
			rows = append(rows, row)
		}
		respondJSON(w, http.StatusOK, rows)
	}
}

// HandleAssess judges one named formula, or every scenario formula, against the targets.
func (h *Handler) HandleAssess() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc := h.scenarios.Current()
		q := newQuery(r.URL.Query())
		name := q.str("formula")

		var out []analysis.Assessment
		if name != "" {
			f, err := resolveFormula(sc, name, q)
			if err == nil {
				err = q.err()
			}
			if err != nil {
				fail(w, r, err)
				return
			}
			a, err := analysis.Assess(sc.Model, name, f)
			if err != nil {
				fail(w, r, err)
				return
			}
			out = append(out, a)
		} else {
			for _, nf := range sc.Formulas {
				a, err := analysis.Assess(sc.Model, nf.Name, nf.Formula)
				if err != nil {
					fail(w, r, err)
					return
				}
				out = append(out, a)
			}
		}
		respondJSON(w, http.StatusOK, out)
	}
}

// HandleStages projects the scenario stages under a formula.
func (h *Handler) HandleStages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc := h.scenarios.Current()
		q := newQuery(r.URL.Query())
		req := formulaRequest{Formula: q.str("formula")}
		if err := GetValidator().ValidateStruct(req); err != nil {
			fail(w, r, err)
			return
		}
		f, err := resolveFormula(sc, req.Formula, q)
		if err == nil {
			err = q.err()
		}
		if err != nil {
			fail(w, r, err)
			return
		}
		rows, err := analysis.ProjectStages(sc.Model, req.Formula, f, sc.Stages)
		if err != nil {
			fail(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, rows)
	}
}

// Simulation limits for /verify.
const (
	DefaultVerifyKills  = 500
	DefaultVerifyTrials = 1000
	MaxVerifyWork       = 5_000_000 // kills × trials
)

type verifyRequest struct {
	Kills  int `validate:"min=1,max=100000"`
	Trials int `validate:"min=1,max=100000"`
}

// VerifyResponse pairs the evaluated row with its simulation.
type VerifyResponse struct {
	Row          analysis.Row     `json:"row"`
	Verification sim.Verification `json:"verification"`
}

// HandleVerify simulates kills and compares the observed drop rate with the projection.
func (h *Handler) HandleVerify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc := h.scenarios.Current()
		q := newQuery(r.URL.Query())
		req := verifyRequest{
			Kills:  deref(q.int("kills"), DefaultVerifyKills),
			Trials: deref(q.int("trials"), DefaultVerifyTrials),
		}
		seed := q.uint64("seed")
		if err := q.err(); err != nil {
			fail(w, r, err)
			return
		}
		if err := GetValidator().ValidateStruct(req); err != nil {
			fail(w, r, err)
			return
		}
		if req.Kills*req.Trials > MaxVerifyWork {
			respondError(w, http.StatusBadRequest, "kills × trials is too large")
			return
		}

		t, err := parseTarget(sc, q)
		if err != nil {
			fail(w, r, err)
			return
		}
		row, err := h.evaluate(sc, t)
		if err != nil {
			fail(w, r, err)
			return
		}
		proj, err := drop.Project(sc.Model.Rates, row.BonusPercent)
		if err != nil {
			fail(w, r, err)
			return
		}
		v, err := sim.VerifyProjection(proj, req.Kills, req.Trials, h.rng(seed))
		if err != nil {
			fail(w, r, err)
			return
		}
		metrics.SimulatedTrials.Add(float64(req.Kills * req.Trials))
		respondJSON(w, http.StatusOK, VerifyResponse{Row: row, Verification: v})
	}
}

type levelForRequest struct {
	Formula  string  `validate:"required"`
	Percent  float64 `validate:"gte=0"`
	MaxLevel int     `validate:"min=0,max=10000"`
}

// LevelForResponse is the output of GET /level-for.
type LevelForResponse struct {
	Formula   string  `json:"formula"`
	Percent   float64 `json:"percent"`
	MaxLevel  int     `json:"max_level"`
	Level     int     `json:"level"`
	Reachable bool    `json:"reachable"`
}

// HandleLevelFor returns the first level whose total rare drop percent meets a goal
// (default: the scenario target percent).
func (h *Handler) HandleLevelFor() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc := h.scenarios.Current()
		q := newQuery(r.URL.Query())
		req := levelForRequest{
			Formula:  q.str("formula"),
			Percent:  deref(q.float("percent"), sc.Model.Targets.TargetPercent),
			MaxLevel: deref(q.int("max_level"), analysis.MaxSearchLevel),
		}
		if err := q.err(); err != nil {
			fail(w, r, err)
			return
		}
		if err := GetValidator().ValidateStruct(req); err != nil {
			fail(w, r, err)
			return
		}
		f, err := resolveFormula(sc, req.Formula, q)
		if err == nil {
			err = q.err()
		}
		if err != nil {
			fail(w, r, err)
			return
		}
		lv, ok, err := analysis.LevelForPercent(sc.Model, f, req.Percent, req.MaxLevel)
		if err != nil {
			fail(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, LevelForResponse{
			Formula:   req.Formula,
			Percent:   req.Percent,
			MaxLevel:  req.MaxLevel,
			Level:     lv,
			Reachable: ok,
		})
	}
}
