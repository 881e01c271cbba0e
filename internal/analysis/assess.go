package analysis

import (
	"fmt"

	"github.com/xtding233/luck-curve/internal/drop"
	"github.com/xtding233/luck-curve/internal/luck"
)

// Assessment judges one formula against the model's targets.
type Assessment struct {
	Label           string `json:"label"`
	Formula         string `json:"formula"`
	Target          Row    `json:"target"`
	Ceiling         Row    `json:"ceiling"`
	TargetMet       bool   `json:"target_met"`
	CeilingBreached bool   `json:"ceiling_breached"`
	// ReachLevel is the first level meeting the target percent, when Reachable.
	ReachLevel int  `json:"reach_level"`
	Reachable  bool `json:"reachable"`
}

// Pass reports whether the target is met without breaching the ceiling.
func (a Assessment) Pass() bool { return a.TargetMet && !a.CeilingBreached }

// Assess evaluates f at the target and ceiling levels.
func Assess(m Model, label string, f luck.Formula) (Assessment, error) {
	target, err := Evaluate(m, label, m.Targets.TargetLevel, f)
	if err != nil {
		return Assessment{}, err
	}
	ceiling, err := Evaluate(m, label, m.Targets.CeilingLevel, f)
	if err != nil {
		return Assessment{}, err
	}
	reach, ok, err := LevelForPercent(m, f, m.Targets.TargetPercent, MaxSearchLevel)
	if err != nil {
		return Assessment{}, err
	}
	return Assessment{
		Label:           label,
		Formula:         target.Formula,
		Target:          target,
		Ceiling:         ceiling,
		TargetMet:       target.TargetMet,
		CeilingBreached: ceiling.CeilingBreached,
		ReachLevel:      reach,
		Reachable:       ok,
	}, nil
}

// StageRow is a stage evaluated under one formula.
type StageRow struct {
	Stage   drop.Stage   `json:"stage"`
	Row     Row          `json:"row"`
	Outlook drop.Outlook `json:"outlook"`
}

// ProjectStages evaluates each stage at its level and projects drops over its kills.
func ProjectStages(m Model, label string, f luck.Formula, stages []drop.Stage) ([]StageRow, error) {
	out := make([]StageRow, 0, len(stages))
	for _, s := range stages {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		row, err := Evaluate(m, label, s.Level, f)
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", s.Name, err)
		}
		proj, err := drop.Project(m.Rates, row.BonusPercent)
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", s.Name, err)
		}
		o, err := drop.Over(proj, s.Trials())
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", s.Name, err)
		}
		out = append(out, StageRow{Stage: s, Row: row, Outlook: o})
	}
	return out, nil
}
