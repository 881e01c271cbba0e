package scenario

import "github.com/xtding233/luck-curve/internal/luck"

// RawConfig is a scenario file as loaded from YAML, before defaults are applied.
type RawConfig struct {
	Version    string          `yaml:"version"`
	Notes      string          `yaml:"notes,omitempty"`
	Model      ModelConfig     `yaml:"model"`
	Levels     []int           `yaml:"levels,omitempty"`
	Formulas   []FormulaConfig `yaml:"formulas,omitempty"`
	Bonuses    []BonusConfig   `yaml:"bonuses,omitempty"`
	Stages     []StageConfig   `yaml:"stages,omitempty"`
	Characters map[string]int  `yaml:"characters,omitempty"`
}

type ModelConfig struct {
	Rates   map[string]float64 `yaml:"rates,omitempty"`
	Weights map[string]float64 `yaml:"weights,omitempty"`
	Rarity  *RarityConfig      `yaml:"rarity,omitempty"`
	Targets *TargetsConfig     `yaml:"targets,omitempty"`
}

type RarityConfig struct {
	SkillFactor   *float64 `yaml:"skill_factor,omitempty"`
	CommonRate    *float64 `yaml:"common_rate,omitempty"`
	MaxReduction  *float64 `yaml:"max_reduction,omitempty"`
	Floor         *float64 `yaml:"floor,omitempty"`
	UncommonRate  *float64 `yaml:"uncommon_rate,omitempty"`
	RareRate      *float64 `yaml:"rare_rate,omitempty"`
	EpicRate      *float64 `yaml:"epic_rate,omitempty"`
	LegendaryRate *float64 `yaml:"legendary_rate,omitempty"`
}

type TargetsConfig struct {
	TargetLevel    *int     `yaml:"target_level,omitempty"`
	TargetPercent  *float64 `yaml:"target_percent,omitempty"`
	CeilingLevel   *int     `yaml:"ceiling_level,omitempty"`
	CeilingPercent *float64 `yaml:"ceiling_percent,omitempty"`
}

// FormulaConfig names a formula kind with optional parameter overrides.
type FormulaConfig struct {
	Name   string      `yaml:"name"`
	Kind   string      `yaml:"kind"`
	Params luck.Params `yaml:"params,omitempty"`
}

// BonusConfig is a hand-picked bonus at a level: either an explicit
// percent or a set of luck skill picks.
type BonusConfig struct {
	Name   string           `yaml:"name"`
	Level  int              `yaml:"level"`
	Bonus  *float64         `yaml:"bonus,omitempty"`
	Counts *luck.TierCounts `yaml:"counts,omitempty"`
	Rates  *luck.TierRates  `yaml:"rates,omitempty"`
}

type StageConfig struct {
	Name           string `yaml:"name"`
	Level          int    `yaml:"level"`
	EnemiesPerWave int    `yaml:"enemies_per_wave"`
	Waves          int    `yaml:"waves"`
}
