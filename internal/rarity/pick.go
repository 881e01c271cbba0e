package rarity

// Pick maps a roll in [0,1) onto a tier of d using cumulative percentages.
// Rolls outside the range clamp to the first or last tier.
func Pick(d Distribution, roll float64) Tier {
	cumul := make([]float64, len(Tiers))
	var total float64
	for i, t := range Tiers {
		total += d.Percents[t]
		cumul[i] = total
	}
	target := roll * total

	lo, hi := 0, len(cumul)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if cumul[mid] <= target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return Tiers[lo]
}
