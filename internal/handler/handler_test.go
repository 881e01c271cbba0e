package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/luck-curve/internal/analysis"
	"github.com/xtding233/luck-curve/internal/luck"
	"github.com/xtding233/luck-curve/internal/rarity"
	"github.com/xtding233/luck-curve/internal/scenario"
	"github.com/xtding233/luck-curve/internal/sim"
)

type fakeSource struct {
	sc        *scenario.Scenario
	reloadErr error
	reloads   int
}

func (f *fakeSource) Current() *scenario.Scenario { return f.sc }
func (f *fakeSource) Reload() error {
	f.reloads++
	return f.reloadErr
}

func newTestHandler(t *testing.T) (*Handler, *fakeSource) {
	t.Helper()
	sc, err := scenario.Resolve("test", scenario.RawConfig{
		Version: "7",
		Formulas: []scenario.FormulaConfig{
			{Name: "shipped", Kind: string(luck.KindTwoStage)},
			{Name: "hybrid", Kind: string(luck.KindHybrid)},
		},
		Characters: map[string]int{"aurum": 10},
	})
	require.NoError(t, err)
	src := &fakeSource{sc: sc}
	return New(src, analysis.NewCache(64, 0)), src
}

func get(t *testing.T, h http.HandlerFunc, url string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHandleBonus(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name      string
		url       string
		wantLevel int
		wantBonus float64
	}{
		{"named formula", "/bonus?formula=shipped&level=15", 15, 225},
		{"past breakpoint", "/bonus?formula=shipped&level=16", 16, 245},
		{"character start", "/bonus?formula=shipped&level=5&character=aurum", 15, 225},
		{"kind with override", "/bonus?formula=sqrt&level=25&scale=10", 25, 50},
		{"kind defaults", "/bonus?formula=sqrt&level=25", 25, 250},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h.HandleBonus(), tt.url)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			resp := decode[BonusResponse](t, rec)
			assert.Equal(t, tt.wantLevel, resp.Level)
			assert.InDelta(t, tt.wantBonus, resp.BonusPercent, 1e-9)
			assert.InDelta(t, 1+tt.wantBonus/100, resp.Multiplier, 1e-9)
		})
	}
}

func TestHandleBonusErrors(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := get(t, h.HandleBonus(), "/bonus?level=3")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "This field is required", resp.Fields["formula"])

	rec = get(t, h.HandleBonus(), "/bonus?formula=cubic&level=3")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, h.HandleBonus(), "/bonus?formula=shipped&level=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, h.HandleBonus(), "/bonus?formula=shipped&level=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid level")

	rec = get(t, h.HandleBonus(), "/bonus?formula=power&level=3&exponent=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, h.HandleBonus(), "/bonus?formula=shipped&level=3&character=nobody")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleProjection(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := get(t, h.HandleProjection(), "/projection?formula=shipped&level=30")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	row := decode[analysis.Row](t, rec)
	assert.InDelta(t, 525, row.BonusPercent, 1e-9)
	assert.InDelta(t, 6.25, row.Multiplier, 1e-9)
	assert.InDelta(t, 5.625, row.TotalRarePercent, 1e-9)
	assert.True(t, row.TargetMet)
	assert.False(t, row.Exceeded)

	// second call is served from the cache
	rec = get(t, h.HandleProjection(), "/projection?formula=shipped&level=30")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, h.cache.Len())

	rec = get(t, h.HandleProjection(), "/projection?bonus=450")
	require.Equal(t, http.StatusOK, rec.Code)
	row = decode[analysis.Row](t, rec)
	assert.InDelta(t, 4.95, row.TotalRarePercent, 1e-9)
	assert.Equal(t, "explicit", row.Label)

	rec = get(t, h.HandleProjection(), "/projection?bonus=-5")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, h.HandleProjection(), "/projection?bonus=20000")
	require.Equal(t, http.StatusOK, rec.Code)
	row = decode[analysis.Row](t, rec)
	assert.True(t, row.Exceeded)
}

func TestHandleRarity(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := get(t, h.HandleRarity(), "/rarity?bonus=0")
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[rarity.Distribution](t, rec)
	var sum float64
	for _, p := range d.Percents {
		sum += p
	}
	assert.InDelta(t, 100, sum, 1e-9)
	assert.InDelta(t, 67.679, d.Percents[rarity.Common], 1e-9)

	rec = get(t, h.HandleRarity(), "/rarity?formula=shipped&level=30")
	require.Equal(t, http.StatusOK, rec.Code)
	d = decode[rarity.Distribution](t, rec)
	assert.Less(t, d.Percents[rarity.Common], 67.679)
	assert.InDelta(t, 262.5, d.SkillBonus, 1e-9)
}

func TestHandleExpectedAndAtLeastOne(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := get(t, h.HandleExpected(), "/expected?rate=0.01&trials=100")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 1, decode[ExpectedResponse](t, rec).Expected, 1e-12)

	rec = get(t, h.HandleExpected(), "/expected?rate=0.01")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, h.HandleAtLeastOne(), "/at-least-one?rate=0.01&trials=100&confidence=0.5")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[AtLeastOneResponse](t, rec)
	assert.InDelta(t, 0.634, resp.Probability, 1e-3)
	require.NotNil(t, resp.TrialsNeed)
	assert.Equal(t, 69, *resp.TrialsNeed)

	rec = get(t, h.HandleAtLeastOne(), "/at-least-one?rate=1.5&trials=10")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Must be a probability in [0,1]", decode[ErrorResponse](t, rec).Fields["rate"])

	rec = get(t, h.HandleAtLeastOne(), "/at-least-one?rate=0.5&trials=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSweep(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := get(t, h.HandleSweep(), "/sweep?formula=shipped&levels=0,15,16")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rows := decode[[]analysis.Row](t, rec)
	require.Len(t, rows, 3)
	assert.Equal(t, []float64{0, 225, 245}, []float64{rows[0].BonusPercent, rows[1].BonusPercent, rows[2].BonusPercent})

	rec = get(t, h.HandleSweep(), "/sweep?formula=shipped")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]analysis.Row](t, rec), len(analysis.DefaultLevels()))

	rec = get(t, h.HandleSweep(), "/sweep?formula=shipped&levels=1,x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAssessAndStages(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := get(t, h.HandleAssess(), "/assess")
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[[]analysis.Assessment](t, rec)
	require.Len(t, all, 2)
	for _, a := range all {
		assert.True(t, a.Pass(), a.Label)
	}

	rec = get(t, h.HandleAssess(), "/assess?formula=linear")
	require.Equal(t, http.StatusOK, rec.Code)
	one := decode[[]analysis.Assessment](t, rec)
	require.Len(t, one, 1)
	assert.False(t, one[0].Pass())

	rec = get(t, h.HandleStages(), "/stages?formula=shipped")
	require.Equal(t, http.StatusOK, rec.Code)
	stages := decode[[]analysis.StageRow](t, rec)
	require.Len(t, stages, 4)
	assert.Equal(t, 50, stages[0].Outlook.Trials)

	rec = get(t, h.HandleStages(), "/stages")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleVerify(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := get(t, h.HandleVerify(), "/verify?formula=shipped&level=30&kills=100&trials=300&seed=7")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[VerifyResponse](t, rec)
	assert.Equal(t, 100, resp.Verification.Kills)
	assert.Equal(t, 300, resp.Verification.Trials)
	assert.InDelta(t, 0.05625, resp.Verification.AnalyticRate, 1e-12)
	assert.InDelta(t, resp.Verification.AnalyticRate, resp.Verification.ObservedRate, 0.01)

	// seeded runs repeat
	again := decode[VerifyResponse](t, get(t, h.HandleVerify(), "/verify?formula=shipped&level=30&kills=100&trials=300&seed=7"))
	assert.Equal(t, resp.Verification.ObservedRate, again.Verification.ObservedRate)

	rec = get(t, h.HandleVerify(), "/verify?bonus=20000&kills=10&trials=10")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "valid probability domain")

	rec = get(t, h.HandleVerify(), "/verify?formula=shipped&kills=100000&trials=100000")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, h.HandleVerify(), "/verify?formula=shipped&kills=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleBonusOverridesNamedFormula(t *testing.T) {
	store, err := scenario.NewStore(scenario.NewLoader("../../configs"), scenario.DefaultProfile)
	require.NoError(t, err)
	h := New(store, analysis.NewCache(64, 0))

	tests := []struct {
		name      string
		url       string
		wantBonus float64
	}{
		{"named as configured", "/bonus?formula=sqrt&level=25", 250},
		{"named with scale", "/bonus?formula=sqrt&level=25&scale=10", 50},
		{"named with exponent", "/bonus?formula=power&level=10&exponent=2", 500},
		{"named two-stage late rate", "/bonus?formula=two-stage&level=16&rate2=30", 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h.HandleBonus(), tt.url)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.InDelta(t, tt.wantBonus, decode[BonusResponse](t, rec).BonusPercent, 1e-9)
		})
	}

	rec := get(t, h.HandleBonus(), "/bonus?formula=power&level=10&exponent=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, h.HandleBonus(), "/bonus?formula=power&level=10&exponent=400")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// overridden and plain rows are cached apart
	plain := decode[analysis.Row](t, get(t, h.HandleProjection(), "/projection?formula=sqrt&level=25"))
	scaled := decode[analysis.Row](t, get(t, h.HandleProjection(), "/projection?formula=sqrt&level=25&scale=10"))
	assert.InDelta(t, 250, plain.BonusPercent, 1e-9)
	assert.InDelta(t, 50, scaled.BonusPercent, 1e-9)
}

func TestHandleAdmin(t *testing.T) {
	h, src := newTestHandler(t)

	rec := get(t, h.HandleHealthz(), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[HealthResponse](t, rec)
	assert.Equal(t, "test", health.Profile)
	assert.Equal(t, "7", health.Version)

	rec = get(t, h.HandleScenario(), "/scenario")
	require.Equal(t, http.StatusOK, rec.Code)
	info := decode[ScenarioResponse](t, rec)
	require.Len(t, info.Formulas, 2)
	assert.Equal(t, "two_stage", info.Formulas[0].Kind)
	assert.Equal(t, 10, info.Characters["aurum"])

	rec = httptest.NewRecorder()
	h.HandleReload()(rec, httptest.NewRequest(http.MethodPost, "/admin/reload", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, src.reloads)

	src.reloadErr = fmt.Errorf("profile %q: %w", "test", scenario.ErrInvalidConfig)
	rec = httptest.NewRecorder()
	h.HandleReload()(rec, httptest.NewRequest(http.MethodPost, "/admin/reload", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	src.reloadErr = errors.New("disk on fire")
	rec = httptest.NewRecorder()
	h.HandleReload()(rec, httptest.NewRequest(http.MethodPost, "/admin/reload", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("x: %w", luck.ErrInvalidLevel)))
	assert.Equal(t, http.StatusBadRequest, statusFor(sim.ErrOutOfDomain))
	assert.Equal(t, http.StatusNotFound, statusFor(scenario.ErrUnknownName))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}

func TestToSnake(t *testing.T) {
	assert.Equal(t, "formula", toSnake("Formula"))
	assert.Equal(t, "extra_rate", toSnake("ExtraRate"))
}

func TestHandleLevelFor(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := get(t, h.HandleLevelFor(), "/level-for?formula=shipped")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[LevelForResponse](t, rec)
	assert.True(t, resp.Reachable)
	assert.Equal(t, 27, resp.Level)
	assert.Equal(t, 5.0, resp.Percent)

	rec = get(t, h.HandleLevelFor(), "/level-for?formula=sqrt&percent=5&max_level=50")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[LevelForResponse](t, rec).Reachable)

	rec = get(t, h.HandleLevelFor(), "/level-for?formula=shipped&percent=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
