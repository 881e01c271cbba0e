package scenario

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/xtding233/luck-curve/internal/luck"
	"github.com/xtding233/luck-curve/internal/rarity"
)

var (
	ErrNotFound      = errors.New("scenario file not found")
	ErrInvalidConfig = errors.New("config validation failed")
	ErrUnknownName   = errors.New("unknown name")
)

// ValidateRaw checks semantic constraints of a RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	// model.rates
	for name, p := range cfg.Model.Rates {
		if !finite(p) || p < 0 || p > 1 {
			errs = append(errs, fmt.Sprintf("model.rates.%s must be in [0,1]", name))
		}
	}
	// model.weights
	for name, w := range cfg.Model.Weights {
		if _, ok := rarity.ParseTier(name); !ok {
			errs = append(errs, fmt.Sprintf("model.weights.%s is not a rarity tier", name))
			continue
		}
		if !finite(w) || w < 0 {
			errs = append(errs, fmt.Sprintf("model.weights.%s must be >= 0", name))
		}
	}
	// model.rarity
	if r := cfg.Model.Rarity; r != nil {
		for _, f := range []struct {
			name string
			v    *float64
		}{
			{"skill_factor", r.SkillFactor},
			{"common_rate", r.CommonRate},
			{"max_reduction", r.MaxReduction},
			{"floor", r.Floor},
			{"uncommon_rate", r.UncommonRate},
			{"rare_rate", r.RareRate},
			{"epic_rate", r.EpicRate},
			{"legendary_rate", r.LegendaryRate},
		} {
			if f.v != nil && (!finite(*f.v) || *f.v < 0) {
				errs = append(errs, fmt.Sprintf("model.rarity.%s must be >= 0", f.name))
			}
		}
	}
	// model.targets
	if t := cfg.Model.Targets; t != nil {
		if t.TargetLevel != nil && *t.TargetLevel < 0 {
			errs = append(errs, "model.targets.target_level must be >= 0")
		}
		if t.CeilingLevel != nil && *t.CeilingLevel < 0 {
			errs = append(errs, "model.targets.ceiling_level must be >= 0")
		}
		if t.TargetPercent != nil && (!finite(*t.TargetPercent) || *t.TargetPercent < 0) {
			errs = append(errs, "model.targets.target_percent must be >= 0")
		}
		if t.CeilingPercent != nil && (!finite(*t.CeilingPercent) || *t.CeilingPercent < 0) {
			errs = append(errs, "model.targets.ceiling_percent must be >= 0")
		}
	}

	for i, lv := range cfg.Levels {
		if lv < 0 {
			errs = append(errs, fmt.Sprintf("levels[%d] must be >= 0", i))
		}
	}

	// formulas
	seen := make(map[string]bool, len(cfg.Formulas))
	for i, f := range cfg.Formulas {
		if f.Name == "" {
			errs = append(errs, fmt.Sprintf("formulas[%d].name is required", i))
		} else if seen[f.Name] {
			errs = append(errs, fmt.Sprintf("formulas[%d].name %q is duplicated", i, f.Name))
		}
		seen[f.Name] = true
		if _, err := luck.New(luck.Kind(f.Kind), f.Params); err != nil {
			errs = append(errs, fmt.Sprintf("formulas[%d] (%s): %v", i, f.Name, err))
		}
	}

	// bonuses
	for i, b := range cfg.Bonuses {
		if b.Name == "" {
			errs = append(errs, fmt.Sprintf("bonuses[%d].name is required", i))
		}
		if b.Level < 0 {
			errs = append(errs, fmt.Sprintf("bonuses[%d].level must be >= 0", i))
		}
		switch {
		case b.Bonus != nil && b.Counts != nil:
			errs = append(errs, fmt.Sprintf("bonuses[%d]: set bonus or counts, not both", i))
		case b.Bonus != nil:
			if err := luck.ValidateBonus(*b.Bonus); err != nil {
				errs = append(errs, fmt.Sprintf("bonuses[%d].bonus: %v", i, err))
			}
			if b.Rates != nil {
				errs = append(errs, fmt.Sprintf("bonuses[%d].rates only apply with counts", i))
			}
		case b.Counts != nil:
			if err := b.Counts.Validate(); err != nil {
				errs = append(errs, fmt.Sprintf("bonuses[%d].counts: %v", i, err))
				break
			}
			rates := luck.BaselineTierRates()
			if b.Rates != nil {
				if err := b.Rates.Validate(); err != nil {
					errs = append(errs, fmt.Sprintf("bonuses[%d].rates: %v", i, err))
					break
				}
				rates = *b.Rates
			}
			if err := luck.ValidateBonus(b.Counts.Bonus(rates)); err != nil {
				errs = append(errs, fmt.Sprintf("bonuses[%d].counts: %v", i, err))
			}
		default:
			errs = append(errs, fmt.Sprintf("bonuses[%d]: one of bonus or counts is required", i))
		}
	}

	// stages
	for i, s := range cfg.Stages {
		if s.Level < 0 {
			errs = append(errs, fmt.Sprintf("stages[%d].level must be >= 0", i))
		}
		if s.EnemiesPerWave < 0 || s.Waves < 0 {
			errs = append(errs, fmt.Sprintf("stages[%d]: enemies_per_wave and waves must be >= 0", i))
		}
	}

	for name, lv := range cfg.Characters {
		if lv < 0 {
			errs = append(errs, fmt.Sprintf("characters.%s must be >= 0", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
