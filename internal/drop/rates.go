package drop

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrInvalidProbability = errors.New("invalid probability; must be 0..1")
	ErrInvalidTrials      = errors.New("invalid trials; must be >= 0")
	ErrNoRates            = errors.New("no base drop rates")
)

// Rare weapon names and their shared base rate.
const (
	ItemNuke         = "nuke"
	ItemSuperHoming  = "superHoming"
	ItemSuperShotgun = "superShotgun"

	ReferenceItemRate = 0.003
	ReferenceTotal    = 0.009
)

// BaseRates maps an item to its level-0 drop probability per kill.
type BaseRates map[string]float64

// ReferenceRates returns the three rare weapons at 0.3% each.
func ReferenceRates() BaseRates {
	return BaseRates{
		ItemNuke:         ReferenceItemRate,
		ItemSuperHoming:  ReferenceItemRate,
		ItemSuperShotgun: ReferenceItemRate,
	}
}

// ValidateProbability rejects NaN, infinities and values outside [0,1].
func ValidateProbability(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return ErrInvalidProbability
	}
	if p < 0 || p > 1 {
		return ErrInvalidProbability
	}
	return nil
}

// Validate checks every rate is a probability.
func (b BaseRates) Validate() error {
	if len(b) == 0 {
		return ErrNoRates
	}
	for _, name := range b.Names() {
		if err := ValidateProbability(b[name]); err != nil {
			return fmt.Errorf("base rate %q=%v: %w", name, b[name], err)
		}
	}
	return nil
}

// Names returns the item names in a stable order.
func (b BaseRates) Names() []string {
	names := make([]string, 0, len(b))
	for n := range b {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Total is the chance that any of the items drops on one kill.
func (b BaseRates) Total() float64 {
	var sum float64
	for _, n := range b.Names() {
		sum += b[n]
	}
	return sum
}

// Clone returns an independent copy.
func (b BaseRates) Clone() BaseRates {
	out := make(BaseRates, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
