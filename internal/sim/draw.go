package sim

import "github.com/xtding233/luck-curve/internal/drop"

// Draw rolls one Bernoulli trial at probability p.
// p <= 0 never hits, p >= 1 always hits, otherwise rng.Float64() < p.
func Draw(p float64, rng Source) (bool, error) {
	if err := drop.ValidateProbability(p); err != nil {
		return false, err
	}
	if p <= 0 {
		return false, nil
	}
	if p >= 1 {
		return true, nil
	}
	rng = orUnseeded(rng)
	return rng.Float64() < p, nil
}
