// Package handler serves the luck analysis over HTTP/JSON.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/xtding233/luck-curve/internal/analysis"
	"github.com/xtding233/luck-curve/internal/logger"
	"github.com/xtding233/luck-curve/internal/luck"
	"github.com/xtding233/luck-curve/internal/metrics"
	"github.com/xtding233/luck-curve/internal/scenario"
	"github.com/xtding233/luck-curve/internal/sim"
)

// ScenarioSource supplies the active scenario and can re-read it.
type ScenarioSource interface {
	Current() *scenario.Scenario
	Reload() error
}

// Handler holds the shared state of the API handlers.
type Handler struct {
	scenarios ScenarioSource
	cache     *analysis.Cache
	rng       func(seed *uint64) sim.Source
}

// New creates the handler set. cache may be nil.
func New(src ScenarioSource, cache *analysis.Cache) *Handler {
	return &Handler{
		scenarios: src,
		cache:     cache,
		rng: func(seed *uint64) sim.Source {
			if seed != nil {
				return sim.Seeded(*seed)
			}
			return sim.Unseeded()
		},
	}
}

func logFor(r *http.Request) *slog.Logger {
	return logger.FromContext(r.Context())
}

// evalTarget is what one request evaluates: a formula at a level or an explicit bonus.
type evalTarget struct {
	label   string
	level   int
	formula luck.Formula // nil for an explicit bonus
	bonus   float64
}

func (t evalTarget) kind() string {
	if t.formula == nil {
		return metrics.KindExplicit
	}
	return string(t.formula.Kind())
}

// formulaRequest selects a formula and a level.
type formulaRequest struct {
	Formula   string `validate:"required"`
	Level     int    `validate:"min=0"`
	Character string
}

// bonusRequest is either an explicit bonus or a formulaRequest.
type bonusRequest struct {
	Bonus     *float64 `validate:"omitempty,gte=0"`
	Formula   string   `validate:"required_without=Bonus"`
	Level     int      `validate:"min=0"`
	Character string
}

// resolveFormula finds a formula by scenario name first, then by kind. Query
// parameter overrides are layered on top of whichever one matched.
func resolveFormula(sc *scenario.Scenario, name string, q *query) (luck.Formula, error) {
	p := q.params()
	f, err := sc.Formula(name)
	if err == nil {
		if p.IsZero() {
			return f, nil
		}
		return luck.Apply(f, p)
	}
	for _, k := range luck.Kinds {
		if string(k) == name {
			return luck.New(k, p)
		}
	}
	return nil, err
}

// parseTarget reads bonus or formula/level/character from the query.
func parseTarget(sc *scenario.Scenario, q *query) (evalTarget, error) {
	req := bonusRequest{
		Bonus:     q.float("bonus"),
		Formula:   q.str("formula"),
		Level:     deref(q.int("level"), 0),
		Character: q.str("character"),
	}
	if err := q.err(); err != nil {
		return evalTarget{}, err
	}
	if err := GetValidator().ValidateStruct(req); err != nil {
		return evalTarget{}, err
	}

	start, err := sc.StartLevel(req.Character)
	if err != nil {
		return evalTarget{}, err
	}
	t := evalTarget{level: req.Level + start}
	if req.Bonus != nil {
		t.label = "explicit"
		t.bonus = *req.Bonus
		return t, nil
	}
	f, err := resolveFormula(sc, req.Formula, q)
	if err != nil {
		return evalTarget{}, err
	}
	if err := q.err(); err != nil {
		return evalTarget{}, err
	}
	t.label = req.Formula
	t.formula = f
	return t, nil
}

// evaluate runs the pipeline for t, through the cache when a formula is involved.
func (h *Handler) evaluate(sc *scenario.Scenario, t evalTarget) (analysis.Row, error) {
	var (
		row analysis.Row
		err error
	)
	switch {
	case t.formula == nil:
		row, err = analysis.EvaluateBonus(sc.Model, t.label, t.level, t.bonus)
	case h.cache != nil:
		var hit bool
		row, hit, err = h.cache.Evaluate(sc.Model, t.label, t.level, t.formula)
		metrics.RecordCacheLookup(hit)
		if hit {
			return row, err
		}
	default:
		row, err = analysis.Evaluate(sc.Model, t.label, t.level, t.formula)
	}
	if err != nil {
		return analysis.Row{}, err
	}
	metrics.RecordEvaluation(t.kind(), row.Exceeded)
	if row.Exceeded {
		slog.Warn("Projected drop rate exceeds 1", "label", t.label, "level", t.level, "overflow", row.Overflow)
	}
	return row, nil
}
