package analysis

import (
	"fmt"
	"math"

	"github.com/xtding233/luck-curve/internal/drop"
	"github.com/xtding233/luck-curve/internal/luck"
)

// MaxSearchLevel bounds LevelForPercent when callers have no better limit.
const MaxSearchLevel = 200

// LevelForPercent finds the lowest level in [0, maxLevel] whose total rare drop
// percent is at least percent. ok is false when even maxLevel falls short.
// Every formula is non-decreasing in level, so a binary search is exact.
func LevelForPercent(m Model, f luck.Formula, percent float64, maxLevel int) (level int, ok bool, err error) {
	if maxLevel < 0 {
		return 0, false, luck.ErrInvalidLevel
	}
	if math.IsNaN(percent) || math.IsInf(percent, 0) || percent < 0 {
		return 0, false, fmt.Errorf("%w: percent %v", drop.ErrInvalidProbability, percent)
	}

	reaches := func(lv int) (bool, error) {
		bonus, err := luck.Compute(lv, f)
		if err != nil {
			return false, err
		}
		p, err := drop.Project(m.Rates, bonus)
		if err != nil {
			return false, err
		}
		return p.TotalPercent() >= percent, nil
	}

	top, err := reaches(maxLevel)
	if err != nil || !top {
		return 0, false, err
	}
	lo, hi := 0, maxLevel
	for lo < hi {
		mid := lo + (hi-lo)/2
		r, err := reaches(mid)
		if err != nil {
			return 0, false, err
		}
		if r {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo, true, nil
}
