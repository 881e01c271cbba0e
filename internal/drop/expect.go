package drop

import (
	"fmt"
	"math"
)

// ExpectedValue is the expected number of drops over trials kills at rate p.
// p may exceed 1 for an unclamped projection; the product is still returned.
func ExpectedValue(p float64, trials int) (float64, error) {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return 0, ErrInvalidProbability
	}
	if trials < 0 {
		return 0, ErrInvalidTrials
	}
	return p * float64(trials), nil
}

// AtLeastOne is the probability of one or more drops over trials independent kills.
// Computed as -expm1(n*log1p(-p)) so tiny p and large n keep their precision.
func AtLeastOne(p float64, trials int) (float64, error) {
	if err := ValidateProbability(p); err != nil {
		return 0, err
	}
	if trials < 0 {
		return 0, ErrInvalidTrials
	}
	switch {
	case trials == 0 || p == 0:
		return 0, nil
	case p == 1:
		return 1, nil
	}
	return -math.Expm1(float64(trials) * math.Log1p(-p)), nil
}

// TrialsForConfidence returns the fewest kills needed so that at least one drop
// happens with probability >= confidence.
func TrialsForConfidence(p, confidence float64) (int, error) {
	if err := ValidateProbability(p); err != nil {
		return 0, err
	}
	if p == 0 {
		return 0, fmt.Errorf("%w: p=0 never drops", ErrInvalidProbability)
	}
	if math.IsNaN(confidence) || confidence <= 0 || confidence >= 1 {
		return 0, fmt.Errorf("%w: confidence must be in (0,1)", ErrInvalidProbability)
	}
	if p == 1 {
		return 1, nil
	}
	n := int(math.Ceil(math.Log1p(-confidence) / math.Log1p(-p)))
	if n < 1 {
		n = 1
	}
	// guard against rounding at the boundary
	for n > 1 {
		prev, _ := AtLeastOne(p, n-1)
		if prev < confidence {
			break
		}
		n--
	}
	return n, nil
}
