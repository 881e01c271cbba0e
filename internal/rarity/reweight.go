package rarity

import (
	"fmt"
	"math"

	"github.com/xtding233/luck-curve/internal/luck"
)

// Params holds the tuning coefficients of the reweighter.
// skill = bonus * SkillFactor;
// common' = max(Floor, common - min(skill*CommonRate, MaxReduction));
// every other tier gains skill * its rate.
type Params struct {
	SkillFactor   float64 `json:"skill_factor" yaml:"skill_factor"`
	CommonRate    float64 `json:"common_rate" yaml:"common_rate"`
	MaxReduction  float64 `json:"max_reduction" yaml:"max_reduction"`
	Floor         float64 `json:"floor" yaml:"floor"`
	UncommonRate  float64 `json:"uncommon_rate" yaml:"uncommon_rate"`
	RareRate      float64 `json:"rare_rate" yaml:"rare_rate"`
	EpicRate      float64 `json:"epic_rate" yaml:"epic_rate"`
	LegendaryRate float64 `json:"legendary_rate" yaml:"legendary_rate"`
}

// DefaultParams returns the tuned coefficients.
func DefaultParams() Params {
	return Params{
		SkillFactor:   0.5,
		CommonRate:    0.3,
		MaxReduction:  50,
		Floor:         20,
		UncommonRate:  0.1,
		RareRate:      0.15,
		EpicRate:      0.1,
		LegendaryRate: 0.05,
	}
}

// Validate rejects negative or non-finite coefficients.
func (p Params) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"skill_factor", p.SkillFactor},
		{"common_rate", p.CommonRate},
		{"max_reduction", p.MaxReduction},
		{"floor", p.Floor},
		{"uncommon_rate", p.UncommonRate},
		{"rare_rate", p.RareRate},
		{"epic_rate", p.EpicRate},
		{"legendary_rate", p.LegendaryRate},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return fmt.Errorf("%w: %s must be >= 0", ErrInvalidParams, f.name)
		}
	}
	return nil
}

func (p Params) gain(t Tier) float64 {
	switch t {
	case Uncommon:
		return p.UncommonRate
	case Rare:
		return p.RareRate
	case Epic:
		return p.EpicRate
	case Legendary:
		return p.LegendaryRate
	default:
		return 0
	}
}

// Distribution is the outcome of one reweighting.
type Distribution struct {
	SkillBonus float64          `json:"skill_bonus"`
	Weights    Weights          `json:"weights"`
	Percents   map[Tier]float64 `json:"percents"`
	// Changes is the percentage-point shift against the normalized base.
	Changes map[Tier]float64 `json:"changes"`
}

// Reweight shifts mass from common toward rarer tiers for bonusPercent and renormalizes.
// The result is always derived from base; nothing carries over between calls.
func Reweight(base Weights, bonusPercent float64, p Params) (Distribution, error) {
	if err := base.Validate(); err != nil {
		return Distribution{}, err
	}
	if err := luck.ValidateBonus(bonusPercent); err != nil {
		return Distribution{}, err
	}
	if err := p.Validate(); err != nil {
		return Distribution{}, err
	}

	skill := bonusPercent * p.SkillFactor
	adjusted := make(Weights, len(Tiers))
	reduction := math.Min(skill*p.CommonRate, p.MaxReduction)
	adjusted[Common] = math.Max(p.Floor, base[Common]-reduction)
	for _, t := range Tiers[1:] {
		adjusted[t] = base[t] + skill*p.gain(t)
	}

	percents := adjusted.Percents()
	basePercents := base.Percents()
	changes := make(map[Tier]float64, len(Tiers))
	for _, t := range Tiers {
		changes[t] = percents[t] - basePercents[t]
	}

	return Distribution{
		SkillBonus: skill,
		Weights:    adjusted,
		Percents:   percents,
		Changes:    changes,
	}, nil
}

// Percent returns the probability of a tier as a percentage.
func (d Distribution) Percent(t Tier) float64 { return d.Percents[t] }
