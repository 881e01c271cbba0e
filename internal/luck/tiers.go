package luck

import "fmt"

// TierRates is the bonus percent granted by one pick of each luck skill tier.
type TierRates struct {
	I   float64 `json:"i" yaml:"i"`
	II  float64 `json:"ii" yaml:"ii"`
	III float64 `json:"iii" yaml:"iii"`
}

// BaselineTierRates are the shipped luck I/II/III values (+10/+20/+30%).
func BaselineTierRates() TierRates { return TierRates{I: 10, II: 20, III: 30} }

// EnhancedTierRates are the strengthened values of the hybrid proposal (+15/+25/+35%).
func EnhancedTierRates() TierRates { return TierRates{I: 15, II: 25, III: 35} }

// Validate rejects negative or non-finite tier rates.
func (r TierRates) Validate() error {
	if !nonNegative(r.I) || !nonNegative(r.II) || !nonNegative(r.III) {
		return fmt.Errorf("%w: tier rates must be >= 0", ErrInvalidFormulaParams)
	}
	return nil
}

// TierCounts records how many times each luck skill tier was picked.
type TierCounts struct {
	I   int `json:"i" yaml:"i"`
	II  int `json:"ii" yaml:"ii"`
	III int `json:"iii" yaml:"iii"`
}

// Picks is the total number of luck skills acquired.
func (c TierCounts) Picks() int { return c.I + c.II + c.III }

// Bonus accumulates the per-tier contributions.
func (c TierCounts) Bonus(r TierRates) float64 {
	return float64(c.I)*r.I + float64(c.II)*r.II + float64(c.III)*r.III
}

// Validate rejects negative pick counts.
func (c TierCounts) Validate() error {
	if c.I < 0 || c.II < 0 || c.III < 0 {
		return fmt.Errorf("%w: tier counts must be >= 0", ErrInvalidFormulaParams)
	}
	return nil
}

func (c TierCounts) String() string {
	return fmt.Sprintf("I x%d, II x%d, III x%d", c.I, c.II, c.III)
}
