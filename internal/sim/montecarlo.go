package sim

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/xtding233/luck-curve/internal/drop"
	"github.com/xtding233/luck-curve/internal/rarity"
)

var ErrOutOfDomain = errors.New("projection exceeds the valid probability domain")

// Stats summarizes simulation results.
type Stats struct {
	Mean   float64 `json:"mean"`
	Var    float64 `json:"var"`
	StdDev float64 `json:"stddev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
	// raw samples if caller needs histograms/exports
	Samples []int `json:"-"`
}

// calcStats computes mean/variance/percentiles for integer samples.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return float64(cp[0])
		}
		if p >= 1 {
			return float64(cp[n-1])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: xs,
	}
}

// Verification compares a simulated run against the closed-form projection.
type Verification struct {
	Kills  int `json:"kills"`
	Trials int `json:"trials"`

	AnalyticRate       float64 `json:"analytic_rate"`
	ObservedRate       float64 `json:"observed_rate"`
	AnalyticExpected   float64 `json:"analytic_expected"`
	AnalyticAtLeastOne float64 `json:"analytic_at_least_one"`
	ObservedAtLeastOne float64 `json:"observed_at_least_one"`

	// Hits is the number of rare drops per trial.
	Hits      Stats              `json:"hits"`
	ItemRates map[string]float64 `json:"item_rates"`
}

// VerifyProjection simulates trials runs of kills kills each.
// Each kill rolls once for any rare drop, then picks the item by its share of the total rate.
func VerifyProjection(p drop.Projection, kills, trials int, rng Source) (Verification, error) {
	if p.Exceeded {
		return Verification{}, fmt.Errorf("%w: total rate %v", ErrOutOfDomain, p.TotalRate)
	}
	if kills < 0 || trials < 0 {
		return Verification{}, drop.ErrInvalidTrials
	}
	rng = orUnseeded(rng)

	names := make([]string, 0, len(p.Rates))
	for n := range p.Rates {
		names = append(names, n)
	}
	sort.Strings(names)

	itemHits := make(map[string]int, len(names))
	samples := make([]int, trials)
	anyHit := 0
	for i := 0; i < trials; i++ {
		hits := 0
		for k := 0; k < kills; k++ {
			hit, err := Draw(p.TotalRate, rng)
			if err != nil {
				return Verification{}, err
			}
			if !hit {
				continue
			}
			hits++
			itemHits[pickItem(names, p.Rates, p.TotalRate, rng.Float64())]++
		}
		samples[i] = hits
		if hits > 0 {
			anyHit++
		}
	}

	v := Verification{
		Kills:        kills,
		Trials:       trials,
		AnalyticRate: p.TotalRate,
		Hits:         calcStats(samples),
		ItemRates:    make(map[string]float64, len(names)),
	}
	v.AnalyticExpected, _ = drop.ExpectedValue(p.TotalRate, kills)
	v.AnalyticAtLeastOne, _ = drop.AtLeastOne(p.TotalRate, kills)

	total := kills * trials
	if total > 0 {
		v.ObservedRate = float64(sumInts(samples)) / float64(total)
		for _, n := range names {
			v.ItemRates[n] = float64(itemHits[n]) / float64(total)
		}
	}
	if trials > 0 {
		v.ObservedAtLeastOne = float64(anyHit) / float64(trials)
	}
	return v, nil
}

// pickItem chooses an item in proportion to its rate given a roll in [0,1).
func pickItem(names []string, rates map[string]float64, total, roll float64) string {
	target := roll * total
	var cumul float64
	for _, n := range names {
		cumul += rates[n]
		if target < cumul {
			return n
		}
	}
	return names[len(names)-1]
}

func sumInts(xs []int) int {
	s := 0
	for _, v := range xs {
		s += v
	}
	return s
}

// SampleRarity draws n tiers from d and returns the count per tier.
func SampleRarity(d rarity.Distribution, n int, rng Source) (map[rarity.Tier]int, error) {
	if n < 0 {
		return nil, drop.ErrInvalidTrials
	}
	rng = orUnseeded(rng)
	counts := make(map[rarity.Tier]int, len(rarity.Tiers))
	for i := 0; i < n; i++ {
		counts[rarity.Pick(d, rng.Float64())]++
	}
	return counts, nil
}
