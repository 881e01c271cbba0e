package luck

import (
	"errors"
	"math"
)

var (
	ErrInvalidLevel         = errors.New("invalid luck level; must be >= 0")
	ErrInvalidBonus         = errors.New("invalid bonus percent; must be a finite value >= 0")
	ErrInvalidFormulaParams = errors.New("invalid formula params")
)

// ValidateBonus rejects negative, NaN and infinite bonus percentages.
func ValidateBonus(bonusPercent float64) error {
	if math.IsNaN(bonusPercent) || math.IsInf(bonusPercent, 0) || bonusPercent < 0 {
		return ErrInvalidBonus
	}
	return nil
}

// nonNegative reports whether v is a finite value >= 0.
func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
