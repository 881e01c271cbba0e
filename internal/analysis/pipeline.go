package analysis

import (
	"fmt"

	"github.com/xtding233/luck-curve/internal/drop"
	"github.com/xtding233/luck-curve/internal/luck"
	"github.com/xtding233/luck-curve/internal/rarity"
)

// Row is one evaluated (label, level) point.
type Row struct {
	Label            string                  `json:"label"`
	Formula          string                  `json:"formula,omitempty"`
	Level            int                     `json:"level"`
	BonusPercent     float64                 `json:"bonus_percent"`
	Multiplier       float64                 `json:"multiplier"`
	ItemPercents     map[string]float64      `json:"item_percents"`
	TotalRarePercent float64                 `json:"total_rare_percent"`
	RarityPercents   map[rarity.Tier]float64 `json:"rarity_percents"`
	RarityChanges    map[rarity.Tier]float64 `json:"rarity_changes"`
	Overflow         []string                `json:"overflow,omitempty"`
	Exceeded         bool                    `json:"exceeded"`
	TargetMet        bool                    `json:"target_met"`
	CeilingBreached  bool                    `json:"ceiling_breached"`
}

// Describe returns a human label for a formula.
func Describe(f luck.Formula) string {
	return f.String()
}

// Evaluate runs the whole pipeline for one level of formula f.
func Evaluate(m Model, label string, level int, f luck.Formula) (Row, error) {
	bonus, err := luck.Compute(level, f)
	if err != nil {
		return Row{}, err
	}
	row, err := EvaluateBonus(m, label, level, bonus)
	if err != nil {
		return Row{}, err
	}
	row.Formula = Describe(f)
	return row, nil
}

// EvaluateBonus runs the pipeline for an explicit bonus percent.
// level is carried into the row for display only.
func EvaluateBonus(m Model, label string, level int, bonusPercent float64) (Row, error) {
	if level < 0 {
		return Row{}, luck.ErrInvalidLevel
	}
	proj, err := drop.Project(m.Rates, bonusPercent)
	if err != nil {
		return Row{}, err
	}
	dist, err := rarity.Reweight(m.Weights, bonusPercent, m.Rarity)
	if err != nil {
		return Row{}, err
	}

	row := Row{
		Label:            label,
		Level:            level,
		BonusPercent:     bonusPercent,
		Multiplier:       proj.Multiplier,
		ItemPercents:     make(map[string]float64, len(proj.Rates)),
		TotalRarePercent: proj.TotalPercent(),
		RarityPercents:   dist.Percents,
		RarityChanges:    dist.Changes,
		Overflow:         proj.Overflow,
		Exceeded:         proj.Exceeded,
	}
	for name := range proj.Rates {
		row.ItemPercents[name] = proj.Percent(name)
	}
	row.TargetMet = row.TotalRarePercent >= m.Targets.TargetPercent
	row.CeilingBreached = row.TotalRarePercent > m.Targets.CeilingPercent
	return row, nil
}

// Sweep evaluates f at every level, in order.
func Sweep(m Model, label string, levels []int, f luck.Formula) ([]Row, error) {
	rows := make([]Row, 0, len(levels))
	for _, lv := range levels {
		row, err := Evaluate(m, label, lv, f)
		if err != nil {
			return nil, fmt.Errorf("%s lv%d: %w", label, lv, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WithStart shifts every level by a character's starting luck level.
func WithStart(levels []int, start int) []int {
	out := make([]int, len(levels))
	for i, lv := range levels {
		out[i] = lv + start
	}
	return out
}

// DefaultLevels are the comparison points used across the proposals.
func DefaultLevels() []int {
	return []int{0, 3, 5, 7, 10, 15, 20, 25, 30, 35, 40, 50}
}
