package rarity

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidWeights = errors.New("invalid rarity weights")
	ErrInvalidParams  = errors.New("invalid reweight params")
)

// Tier is one of the five skill rarity categories.
type Tier string

const (
	Common    Tier = "common"
	Uncommon  Tier = "uncommon"
	Rare      Tier = "rare"
	Epic      Tier = "epic"
	Legendary Tier = "legendary"
)

// Tiers is every tier from most to least common.
var Tiers = []Tier{Common, Uncommon, Rare, Epic, Legendary}

// ParseTier maps a name onto a Tier.
func ParseTier(s string) (Tier, bool) {
	for _, t := range Tiers {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Weights is a non-negative weight per tier. It is renormalized before being read as probabilities.
type Weights map[Tier]float64

// ReferenceWeights is the measured skill rarity table (percent, sums to ~100).
func ReferenceWeights() Weights {
	return Weights{
		Common:    67.679,
		Uncommon:  17.591,
		Rare:      8.329,
		Epic:      5.391,
		Legendary: 1.010,
	}
}

// LevelUpWeights is the level-up upgrade pick table.
func LevelUpWeights() Weights {
	return Weights{Common: 50, Uncommon: 30, Rare: 13, Epic: 5, Legendary: 2}
}

// Validate requires all five tiers with finite non-negative weights and a positive sum.
func (w Weights) Validate() error {
	var sum float64
	for _, t := range Tiers {
		v, ok := w[t]
		if !ok {
			return fmt.Errorf("%w: missing tier %q", ErrInvalidWeights, t)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: tier %q weight %v must be >= 0", ErrInvalidWeights, t, v)
		}
		sum += v
	}
	if len(w) != len(Tiers) {
		return fmt.Errorf("%w: unknown tier present", ErrInvalidWeights)
	}
	if sum <= 0 {
		return fmt.Errorf("%w: weights sum to zero", ErrInvalidWeights)
	}
	return nil
}

// Sum adds the weights of all tiers.
func (w Weights) Sum() float64 {
	var sum float64
	for _, t := range Tiers {
		sum += w[t]
	}
	return sum
}

// Percents renormalizes w to percentages summing to 100.
func (w Weights) Percents() map[Tier]float64 {
	sum := w.Sum()
	out := make(map[Tier]float64, len(Tiers))
	for _, t := range Tiers {
		if sum > 0 {
			out[t] = w[t] / sum * 100
		}
	}
	return out
}

// Clone returns an independent copy.
func (w Weights) Clone() Weights {
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}
