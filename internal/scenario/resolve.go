package scenario

import (
	"fmt"
	"slices"

	"github.com/xtding233/luck-curve/internal/analysis"
	"github.com/xtding233/luck-curve/internal/drop"
	"github.com/xtding233/luck-curve/internal/luck"
	"github.com/xtding233/luck-curve/internal/rarity"
)

// NamedFormula is a configured formula and the name it is reported under.
type NamedFormula struct {
	Name    string
	Formula luck.Formula
}

// Bonus is a resolved hand-picked bonus scenario.
type Bonus struct {
	Name         string  `json:"name"`
	Level        int     `json:"level"`
	BonusPercent float64 `json:"bonus_percent"`
}

// Scenario is a validated, fully defaulted analysis setup.
type Scenario struct {
	Version    string
	Profile    string
	Model      analysis.Model
	Levels     []int
	Formulas   []NamedFormula
	Bonuses    []Bonus
	Stages     []drop.Stage
	Characters map[string]int
}

// Formula looks up a configured formula by name.
func (s *Scenario) Formula(name string) (luck.Formula, error) {
	for _, f := range s.Formulas {
		if f.Name == name {
			return f.Formula, nil
		}
	}
	return nil, fmt.Errorf("%w: formula %q", ErrUnknownName, name)
}

// StartLevel returns the starting luck level of a named character.
// An empty name starts at 0.
func (s *Scenario) StartLevel(character string) (int, error) {
	if character == "" {
		return 0, nil
	}
	lv, ok := s.Characters[character]
	if !ok {
		return 0, fmt.Errorf("%w: character %q", ErrUnknownName, character)
	}
	return lv, nil
}

// CharacterNames returns the configured characters, sorted.
func (s *Scenario) CharacterNames() []string {
	names := make([]string, 0, len(s.Characters))
	for n := range s.Characters {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Resolve validates raw and fills every unset value from the reference data.
func Resolve(profile string, raw RawConfig) (*Scenario, error) {
	if err := ValidateRaw(raw); err != nil {
		return nil, err
	}

	m := analysis.DefaultModel()
	if len(raw.Model.Rates) > 0 {
		m.Rates = drop.BaseRates(raw.Model.Rates).Clone()
	}
	for name, w := range raw.Model.Weights {
		t, _ := rarity.ParseTier(name)
		m.Weights[t] = w
	}
	if r := raw.Model.Rarity; r != nil {
		set(&m.Rarity.SkillFactor, r.SkillFactor)
		set(&m.Rarity.CommonRate, r.CommonRate)
		set(&m.Rarity.MaxReduction, r.MaxReduction)
		set(&m.Rarity.Floor, r.Floor)
		set(&m.Rarity.UncommonRate, r.UncommonRate)
		set(&m.Rarity.RareRate, r.RareRate)
		set(&m.Rarity.EpicRate, r.EpicRate)
		set(&m.Rarity.LegendaryRate, r.LegendaryRate)
	}
	if t := raw.Model.Targets; t != nil {
		set(&m.Targets.TargetLevel, t.TargetLevel)
		set(&m.Targets.TargetPercent, t.TargetPercent)
		set(&m.Targets.CeilingLevel, t.CeilingLevel)
		set(&m.Targets.CeilingPercent, t.CeilingPercent)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	s := &Scenario{
		Version:    raw.Version,
		Profile:    profile,
		Model:      m,
		Levels:     analysis.DefaultLevels(),
		Characters: make(map[string]int, len(raw.Characters)),
	}
	if len(raw.Levels) > 0 {
		s.Levels = slices.Clone(raw.Levels)
	}

	if len(raw.Formulas) == 0 {
		for _, f := range luck.References() {
			s.Formulas = append(s.Formulas, NamedFormula{Name: string(f.Kind()), Formula: f})
		}
	}
	for _, fc := range raw.Formulas {
		f, err := luck.New(luck.Kind(fc.Kind), fc.Params)
		if err != nil {
			return nil, fmt.Errorf("formula %q: %w", fc.Name, err)
		}
		s.Formulas = append(s.Formulas, NamedFormula{Name: fc.Name, Formula: f})
	}

	for _, bc := range raw.Bonuses {
		b := Bonus{Name: bc.Name, Level: bc.Level}
		if bc.Bonus != nil {
			b.BonusPercent = *bc.Bonus
		} else {
			rates := luck.BaselineTierRates()
			if bc.Rates != nil {
				rates = *bc.Rates
			}
			b.BonusPercent = bc.Counts.Bonus(rates)
		}
		s.Bonuses = append(s.Bonuses, b)
	}

	if len(raw.Stages) == 0 {
		s.Stages = drop.ReferenceStages()
	}
	for _, sc := range raw.Stages {
		s.Stages = append(s.Stages, drop.Stage{
			Name:           sc.Name,
			Level:          sc.Level,
			EnemiesPerWave: sc.EnemiesPerWave,
			Waves:          sc.Waves,
		})
	}

	for name, lv := range raw.Characters {
		s.Characters[name] = lv
	}
	return s, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
