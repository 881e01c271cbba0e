package luck

import (
	"fmt"
	"math"
)

// Kind tags a formula variant.
type Kind string

const (
	KindLinear   Kind = "linear"
	KindTwoStage Kind = "two_stage"
	KindSqrt     Kind = "sqrt"
	KindPower    Kind = "power"
	KindHybrid   Kind = "hybrid"
)

// Kinds lists every supported variant.
var Kinds = []Kind{KindLinear, KindTwoStage, KindSqrt, KindPower, KindHybrid}

// Formula maps a luck level to a bonus percent.
// Bonus assumes a valid level and params; Compute is the checked entry point.
type Formula interface {
	Kind() Kind
	Bonus(level int) float64
	Validate() error
	String() string
}

// Compute returns the bonus percent of formula f at the given level.
func Compute(level int, f Formula) (float64, error) {
	if level < 0 {
		return 0, ErrInvalidLevel
	}
	if f == nil {
		return 0, fmt.Errorf("%w: nil formula", ErrInvalidFormulaParams)
	}
	if err := f.Validate(); err != nil {
		return 0, err
	}
	// finite params can still overflow, e.g. a huge exponent or Inf*0
	b := f.Bonus(level)
	if math.IsNaN(b) || math.IsInf(b, 0) {
		return 0, fmt.Errorf("%w: %s is not finite at level %d", ErrInvalidFormulaParams, f, level)
	}
	return b, nil
}

// Multiplier converts a bonus percent into the factor applied to base probabilities.
func Multiplier(bonusPercent float64) float64 {
	return 1 + bonusPercent/100
}

// Linear grows by a fixed percent per level, uncapped.
type Linear struct {
	PerLevel float64 `json:"per_level"`
}

func (Linear) Kind() Kind { return KindLinear }

func (f Linear) Bonus(level int) float64 { return float64(level) * f.PerLevel }

func (f Linear) Validate() error {
	if !nonNegative(f.PerLevel) {
		return fmt.Errorf("%w: linear per_level must be >= 0", ErrInvalidFormulaParams)
	}
	return nil
}

func (f Linear) String() string { return fmt.Sprintf("linear(+%g%%/lv)", f.PerLevel) }

// TwoStage grows by Rate1 up to Breakpoint and by Rate2 past it.
type TwoStage struct {
	Breakpoint int     `json:"breakpoint"`
	Rate1      float64 `json:"rate1"`
	Rate2      float64 `json:"rate2"`
}

func (TwoStage) Kind() Kind { return KindTwoStage }

func (f TwoStage) Bonus(level int) float64 {
	early := min(level, f.Breakpoint)
	late := max(0, level-f.Breakpoint)
	return float64(early)*f.Rate1 + float64(late)*f.Rate2
}

func (f TwoStage) Validate() error {
	if f.Breakpoint < 0 {
		return fmt.Errorf("%w: two_stage breakpoint must be >= 0", ErrInvalidFormulaParams)
	}
	if !nonNegative(f.Rate1) || !nonNegative(f.Rate2) {
		return fmt.Errorf("%w: two_stage rates must be >= 0", ErrInvalidFormulaParams)
	}
	return nil
}

func (f TwoStage) String() string {
	return fmt.Sprintf("two_stage(+%g%%/lv to %d, +%g%%/lv after)", f.Rate1, f.Breakpoint, f.Rate2)
}

// Sqrt grows with the square root of the level.
type Sqrt struct {
	Scale float64 `json:"scale"`
}

func (Sqrt) Kind() Kind { return KindSqrt }

func (f Sqrt) Bonus(level int) float64 {
	if level <= 0 {
		return 0
	}
	return math.Sqrt(float64(level)) * f.Scale
}

func (f Sqrt) Validate() error {
	if !nonNegative(f.Scale) {
		return fmt.Errorf("%w: sqrt scale must be >= 0", ErrInvalidFormulaParams)
	}
	return nil
}

func (f Sqrt) String() string { return fmt.Sprintf("sqrt(lv)*%g%%", f.Scale) }

// Power grows with level raised to Exponent.
type Power struct {
	Exponent float64 `json:"exponent"`
	Scale    float64 `json:"scale"`
}

func (Power) Kind() Kind { return KindPower }

func (f Power) Bonus(level int) float64 {
	// 0**0 would be 1; level 0 is always no bonus
	if level <= 0 {
		return 0
	}
	return math.Pow(float64(level), f.Exponent) * f.Scale
}

func (f Power) Validate() error {
	if !nonNegative(f.Exponent) || !nonNegative(f.Scale) {
		return fmt.Errorf("%w: power exponent and scale must be >= 0", ErrInvalidFormulaParams)
	}
	return nil
}

func (f Power) String() string { return fmt.Sprintf("lv^%g*%g%%", f.Exponent, f.Scale) }

// Hybrid adds a linear late bonus on top of a tier accumulation.
// With Counts set, the base is the accumulated tier bonus of that build;
// without, the level is read as that many tier I picks.
type Hybrid struct {
	Rates     TierRates   `json:"rates"`
	Counts    *TierCounts `json:"counts,omitempty"`
	After     int         `json:"after"`
	ExtraRate float64     `json:"extra_rate"`
}

func (Hybrid) Kind() Kind { return KindHybrid }

// WithCounts returns a copy of f bound to a concrete build.
func (f Hybrid) WithCounts(c TierCounts) Hybrid {
	f.Counts = &c
	return f
}

// Base is the bonus before the late extra.
func (f Hybrid) Base(level int) float64 {
	if f.Counts != nil {
		return f.Counts.Bonus(f.Rates)
	}
	return float64(level) * f.Rates.I
}

func (f Hybrid) Bonus(level int) float64 {
	return f.Base(level) + float64(max(0, level-f.After))*f.ExtraRate
}

func (f Hybrid) Validate() error {
	if err := f.Rates.Validate(); err != nil {
		return err
	}
	if f.Counts != nil {
		if err := f.Counts.Validate(); err != nil {
			return err
		}
	}
	if f.After < 0 {
		return fmt.Errorf("%w: hybrid after must be >= 0", ErrInvalidFormulaParams)
	}
	if !nonNegative(f.ExtraRate) {
		return fmt.Errorf("%w: hybrid extra_rate must be >= 0", ErrInvalidFormulaParams)
	}
	return nil
}

func (f Hybrid) String() string {
	s := fmt.Sprintf("hybrid(I/II/III +%g/%g/%g%%, +%g%%/lv after %d)", f.Rates.I, f.Rates.II, f.Rates.III, f.ExtraRate, f.After)
	if f.Counts != nil {
		s += " [" + f.Counts.String() + "]"
	}
	return s
}
