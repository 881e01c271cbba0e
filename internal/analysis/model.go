// Package analysis runs the bonus -> multiplier -> drop rates -> rarity pipeline
// and returns plain rows for any report sink.
package analysis

import (
	"fmt"

	"github.com/xtding233/luck-curve/internal/drop"
	"github.com/xtding233/luck-curve/internal/rarity"
)

// Targets are the balance goals a formula is judged against.
type Targets struct {
	TargetLevel    int     `json:"target_level"`
	TargetPercent  float64 `json:"target_percent"`
	CeilingLevel   int     `json:"ceiling_level"`
	CeilingPercent float64 `json:"ceiling_percent"`
}

// DefaultTargets: at least 5% total rare drops by Lv30, at most 10% by Lv50.
func DefaultTargets() Targets {
	return Targets{TargetLevel: 30, TargetPercent: 5, CeilingLevel: 50, CeilingPercent: 10}
}

// Model is the immutable base data every evaluation reads.
type Model struct {
	Rates   drop.BaseRates `json:"rates"`
	Weights rarity.Weights `json:"weights"`
	Rarity  rarity.Params  `json:"rarity"`
	Targets Targets        `json:"targets"`
}

// DefaultModel uses the reference drop rates, rarity table and coefficients.
func DefaultModel() Model {
	return Model{
		Rates:   drop.ReferenceRates(),
		Weights: rarity.ReferenceWeights(),
		Rarity:  rarity.DefaultParams(),
		Targets: DefaultTargets(),
	}
}

// Validate checks the base tables and coefficients.
func (m Model) Validate() error {
	if err := m.Rates.Validate(); err != nil {
		return fmt.Errorf("rates: %w", err)
	}
	if err := m.Weights.Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	if err := m.Rarity.Validate(); err != nil {
		return fmt.Errorf("rarity: %w", err)
	}
	if m.Targets.TargetLevel < 0 || m.Targets.CeilingLevel < 0 {
		return fmt.Errorf("targets: levels must be >= 0")
	}
	return nil
}
