package handler

import (
	"errors"
	"net/http"

	"github.com/xtding233/luck-curve/internal/analysis"
	"github.com/xtding233/luck-curve/internal/scenario"
)

// HealthResponse is the output of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Profile string `json:"profile"`
	Version string `json:"version,omitempty"`
}

// HandleHealthz reports liveness and the active scenario.
func (h *Handler) HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc := h.scenarios.Current()
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Profile: sc.Profile, Version: sc.Version})
	}
}

// FormulaInfo describes one configured formula.
type FormulaInfo struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Formula string `json:"formula"`
}

// ScenarioResponse is the output of GET /scenario.
type ScenarioResponse struct {
	Profile    string         `json:"profile"`
	Version    string         `json:"version,omitempty"`
	Model      analysis.Model `json:"model"`
	Levels     []int          `json:"levels"`
	Formulas   []FormulaInfo  `json:"formulas"`
	Characters map[string]int `json:"characters"`
}

// HandleScenario lists what the active scenario contains.
func (h *Handler) HandleScenario() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc := h.scenarios.Current()
		resp := ScenarioResponse{
			Profile:    sc.Profile,
			Version:    sc.Version,
			Model:      sc.Model,
			Levels:     sc.Levels,
			Characters: sc.Characters,
		}
		for _, nf := range sc.Formulas {
			resp.Formulas = append(resp.Formulas, FormulaInfo{
				Name:    nf.Name,
				Kind:    string(nf.Formula.Kind()),
				Formula: analysis.Describe(nf.Formula),
			})
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

// HandleReload re-reads the scenario files. A bad file keeps the old scenario.
func (h *Handler) HandleReload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.scenarios.Reload(); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, scenario.ErrInvalidConfig) || errors.Is(err, scenario.ErrNotFound) {
				status = http.StatusUnprocessableEntity
			}
			logFor(r).Warn("Reload rejected", "error", err)
			respondJSON(w, status, ErrorResponse{Error: ErrMsgReloadFailed, Fields: map[string]string{"reason": err.Error()}})
			return
		}
		sc := h.scenarios.Current()
		logFor(r).Info("Scenario reloaded via API", "profile", sc.Profile, "version", sc.Version)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "reloaded " + sc.Profile})
	}
}
