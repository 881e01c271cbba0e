package scenario

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/luck-curve/internal/analysis"
	"github.com/xtding233/luck-curve/internal/luck"
	"github.com/xtding233/luck-curve/internal/rarity"
)

const defaultYAML = `
version: "1"
model:
  rates:
    nuke: 0.003
    superHoming: 0.003
    superShotgun: 0.003
  rarity:
    skill_factor: 0.5
  targets:
    target_level: 30
formulas:
  - name: shipped
    kind: two_stage
  - name: hybrid
    kind: hybrid
    params:
      after: 20
bonuses:
  - name: early
    level: 3
    counts: {i: 3}
  - name: late
    level: 30
    bonus: 450
characters:
  drifter: 0
`

const enhancedYAML = `
version: "2"
model:
  weights:
    legendary: 2
  rarity:
    floor: 25
formulas:
  - name: enhanced
    kind: linear
    params:
      per_level: 15
bonuses:
  - name: early
    level: 3
    counts: {i: 3}
    rates: {i: 15, ii: 25, iii: 35}
characters:
  aurum: 10
`

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func setupDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	p := Paths{BaseDir: dir}
	writeFile(t, p.DefaultPath(), defaultYAML)
	writeFile(t, p.ProfilePath("enhanced"), enhancedYAML)
	return dir
}

func TestLoadDefaultProfile(t *testing.T) {
	l := NewLoader(setupDir(t))

	raw, err := l.LoadMerged("")
	require.NoError(t, err)
	sc, err := Resolve(DefaultProfile, raw)
	require.NoError(t, err)

	assert.Equal(t, "1", sc.Version)
	assert.Equal(t, analysis.DefaultModel(), sc.Model)
	assert.Equal(t, analysis.DefaultLevels(), sc.Levels)
	require.Len(t, sc.Formulas, 2)
	assert.Equal(t, "shipped", sc.Formulas[0].Name)
	assert.Equal(t, luck.ShippedTwoStage(), sc.Formulas[0].Formula)
	assert.Equal(t, luck.ProposalHybrid(), sc.Formulas[1].Formula)

	require.Len(t, sc.Bonuses, 2)
	assert.InDelta(t, 30, sc.Bonuses[0].BonusPercent, 1e-9)
	assert.InDelta(t, 450, sc.Bonuses[1].BonusPercent, 1e-9)
	assert.Len(t, sc.Stages, 4)
}

func TestLoadProfileMerges(t *testing.T) {
	l := NewLoader(setupDir(t))

	raw, err := l.LoadMerged("enhanced")
	require.NoError(t, err)
	sc, err := Resolve("enhanced", raw)
	require.NoError(t, err)

	assert.Equal(t, "2", sc.Version)
	// per-key overlay keeps the other tiers
	assert.Equal(t, 2.0, sc.Model.Weights[rarity.Legendary])
	assert.Equal(t, rarity.ReferenceWeights()[rarity.Common], sc.Model.Weights[rarity.Common])
	// nested pointer overlay keeps skill_factor from default
	assert.Equal(t, 25.0, sc.Model.Rarity.Floor)
	assert.Equal(t, 0.5, sc.Model.Rarity.SkillFactor)
	// slices replace
	require.Len(t, sc.Formulas, 1)
	assert.Equal(t, luck.EnhancedLinear(), sc.Formulas[0].Formula)
	require.Len(t, sc.Bonuses, 1)
	assert.InDelta(t, 45, sc.Bonuses[0].BonusPercent, 1e-9)

	assert.Equal(t, []string{"aurum", "drifter"}, sc.CharacterNames())
	lv, err := sc.StartLevel("aurum")
	require.NoError(t, err)
	assert.Equal(t, 10, lv)
	_, err = sc.StartLevel("nobody")
	assert.ErrorIs(t, err, ErrUnknownName)

	f, err := sc.Formula("enhanced")
	require.NoError(t, err)
	assert.Equal(t, luck.KindLinear, f.Kind())
	_, err = sc.Formula("shipped")
	assert.ErrorIs(t, err, ErrUnknownName)
}

func TestLoadMissingFiles(t *testing.T) {
	l := NewLoader(t.TempDir())
	_, err := l.LoadMerged("")
	assert.ErrorIs(t, err, ErrNotFound)

	l = NewLoader(setupDir(t))
	_, err = l.LoadMerged("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveEmptyUsesReferences(t *testing.T) {
	sc, err := Resolve(DefaultProfile, RawConfig{})
	require.NoError(t, err)
	require.Len(t, sc.Formulas, len(luck.Kinds))
	for i, f := range sc.Formulas {
		assert.Equal(t, string(luck.Kinds[i]), f.Name)
	}
	assert.Empty(t, sc.Bonuses)
}

func TestValidateRawCollectsErrors(t *testing.T) {
	bad := -1.0
	big := 1.5
	raw := RawConfig{
		Model: ModelConfig{
			Rates:   map[string]float64{"orb": big},
			Weights: map[string]float64{"mythic": 1},
			Rarity:  &RarityConfig{Floor: &bad},
		},
		Levels:   []int{-1},
		Formulas: []FormulaConfig{{Name: "x", Kind: "cubic"}, {Name: "x", Kind: "linear"}},
		Bonuses: []BonusConfig{
			{Name: "none", Level: 1},
			{Name: "cursed", Level: 3, Counts: &luck.TierCounts{I: 3}, Rates: &luck.TierRates{I: -50}},
			{Name: "huge", Level: 3, Counts: &luck.TierCounts{I: 2}, Rates: &luck.TierRates{I: math.MaxFloat64}},
		},
		Stages:   []StageConfig{{Name: "s", Waves: -1}},
	}
	err := ValidateRaw(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	for _, want := range []string{
		"model.rates.orb", "model.weights.mythic", "model.rarity.floor",
		"levels[0]", "formulas[0]", "duplicated", "bonuses[0]", "bonuses[1].rates",
		"bonuses[2].counts", "stages[0]",
	} {
		assert.Contains(t, err.Error(), want)
	}

	_, err = Resolve(DefaultProfile, raw)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidateRawBonusBothSet(t *testing.T) {
	b := 10.0
	err := ValidateRaw(RawConfig{Bonuses: []BonusConfig{{Name: "b", Bonus: &b, Counts: &luck.TierCounts{I: 1}}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not both")
}

func TestLoaderCachesUntilInvalidate(t *testing.T) {
	dir := setupDir(t)
	l := NewLoader(dir)

	first, err := l.LoadMerged("")
	require.NoError(t, err)
	writeFile(t, l.Paths().DefaultPath(), `version: "9"`)

	cached, err := l.LoadMerged("")
	require.NoError(t, err)
	assert.Equal(t, first.Version, cached.Version)

	l.Invalidate()
	fresh, err := l.LoadMerged("")
	require.NoError(t, err)
	assert.Equal(t, "9", fresh.Version)
}

func TestStoreReload(t *testing.T) {
	dir := setupDir(t)
	st, err := NewStore(NewLoader(dir), "enhanced")
	require.NoError(t, err)
	assert.Equal(t, "2", st.Current().Version)

	var calls int
	var lastErr error
	st.OnReload(func(_ *Scenario, err error) {
		calls++
		lastErr = err
	})

	writeFile(t, Paths{BaseDir: dir}.ProfilePath("enhanced"), "version: \"3\"\n")
	require.NoError(t, st.Reload())
	assert.Equal(t, "3", st.Current().Version)
	assert.Equal(t, 1, calls)
	assert.NoError(t, lastErr)

	// a broken file keeps the previous scenario
	writeFile(t, Paths{BaseDir: dir}.ProfilePath("enhanced"), "levels: [-5]\n")
	require.Error(t, st.Reload())
	assert.Equal(t, "3", st.Current().Version)
	assert.Equal(t, 2, calls)
	assert.ErrorIs(t, lastErr, ErrInvalidConfig)
}

func TestNewStoreFailsOnBadProfile(t *testing.T) {
	_, err := NewStore(NewLoader(setupDir(t)), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileWatcherDetectsChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "default.yaml")
	writeFile(t, path, "version: \"1\"\n")

	changed := make(chan string, 4)
	w := NewFileWatcher([]string{path}, 10*time.Millisecond, func(p string) { changed <- p })
	w.Start()
	defer w.Stop()

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case p := <-changed:
		assert.Equal(t, path, p)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not report the change")
	}
	w.Stop()
}
