package luck

import "fmt"

// Params is the flat parameter record used by callers that select a formula by id.
// Nil fields fall back to the reference values of the chosen kind.
type Params struct {
	PerLevel   *float64    `json:"per_level,omitempty" yaml:"per_level,omitempty"`
	Breakpoint *int        `json:"breakpoint,omitempty" yaml:"breakpoint,omitempty"`
	Rate1      *float64    `json:"rate1,omitempty" yaml:"rate1,omitempty"`
	Rate2      *float64    `json:"rate2,omitempty" yaml:"rate2,omitempty"`
	Scale      *float64    `json:"scale,omitempty" yaml:"scale,omitempty"`
	Exponent   *float64    `json:"exponent,omitempty" yaml:"exponent,omitempty"`
	Rates      *TierRates  `json:"rates,omitempty" yaml:"rates,omitempty"`
	Counts     *TierCounts `json:"counts,omitempty" yaml:"counts,omitempty"`
	After      *int        `json:"after,omitempty" yaml:"after,omitempty"`
	ExtraRate  *float64    `json:"extra_rate,omitempty" yaml:"extra_rate,omitempty"`
}

// IsZero reports whether p overrides nothing.
func (p Params) IsZero() bool {
	return p == Params{}
}

// New builds and validates the formula of the given kind.
func New(kind Kind, p Params) (Formula, error) {
	var base Formula
	switch kind {
	case KindLinear:
		base = BaselineLinear()
	case KindTwoStage:
		base = ShippedTwoStage()
	case KindSqrt:
		base = ProposalSqrt()
	case KindPower:
		base = ProposalPower()
	case KindHybrid:
		base = ProposalHybrid()
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidFormulaParams, kind)
	}
	return Apply(base, p)
}

// Apply returns a copy of f with the non-nil fields of p layered on top,
// validated. Fields that do not belong to f's kind are ignored.
func Apply(f Formula, p Params) (Formula, error) {
	var out Formula
	switch f := f.(type) {
	case Linear:
		setFloat(&f.PerLevel, p.PerLevel)
		out = f
	case TwoStage:
		setInt(&f.Breakpoint, p.Breakpoint)
		setFloat(&f.Rate1, p.Rate1)
		setFloat(&f.Rate2, p.Rate2)
		out = f
	case Sqrt:
		setFloat(&f.Scale, p.Scale)
		out = f
	case Power:
		setFloat(&f.Exponent, p.Exponent)
		setFloat(&f.Scale, p.Scale)
		out = f
	case Hybrid:
		if p.Rates != nil {
			f.Rates = *p.Rates
		}
		if p.Counts != nil {
			f = f.WithCounts(*p.Counts)
		}
		setInt(&f.After, p.After)
		setFloat(&f.ExtraRate, p.ExtraRate)
		out = f
	case nil:
		return nil, fmt.Errorf("%w: nil formula", ErrInvalidFormulaParams)
	default:
		return nil, fmt.Errorf("%w: cannot override %T", ErrInvalidFormulaParams, f)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
