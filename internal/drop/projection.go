package drop

import "github.com/xtding233/luck-curve/internal/luck"

// Projection is the per-kill drop chance after applying a luck bonus.
// Rates are not clamped: any value above 1 is listed in Overflow and sets Exceeded.
type Projection struct {
	BonusPercent float64            `json:"bonus_percent"`
	Multiplier   float64            `json:"multiplier"`
	Rates        map[string]float64 `json:"rates"`
	TotalRate    float64            `json:"total_rate"`
	Overflow     []string           `json:"overflow,omitempty"`
	Exceeded     bool               `json:"exceeded"`
}

// Project scales every base rate by the multiplier of bonusPercent.
func Project(base BaseRates, bonusPercent float64) (Projection, error) {
	if err := base.Validate(); err != nil {
		return Projection{}, err
	}
	if err := luck.ValidateBonus(bonusPercent); err != nil {
		return Projection{}, err
	}

	m := luck.Multiplier(bonusPercent)
	p := Projection{
		BonusPercent: bonusPercent,
		Multiplier:   m,
		Rates:        make(map[string]float64, len(base)),
	}
	for _, name := range base.Names() {
		r := base[name] * m
		p.Rates[name] = r
		p.TotalRate += r
		if r > 1 {
			p.Overflow = append(p.Overflow, name)
		}
	}
	p.Exceeded = len(p.Overflow) > 0 || p.TotalRate > 1
	return p, nil
}

// Percent returns an item's adjusted rate as a percentage.
func (p Projection) Percent(item string) float64 { return p.Rates[item] * 100 }

// TotalPercent returns the combined adjusted rate as a percentage.
func (p Projection) TotalPercent() float64 { return p.TotalRate * 100 }
