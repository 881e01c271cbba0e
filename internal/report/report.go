// Package report turns a scenario into comparison tables and prints them.
package report

import (
	"fmt"
	"io"

	"github.com/xtding233/luck-curve/internal/analysis"
	"github.com/xtding233/luck-curve/internal/luck"
	"github.com/xtding233/luck-curve/internal/scenario"
)

// Sweep is one formula evaluated across the report levels.
type Sweep struct {
	Name    string         `json:"name"`
	Kind    luck.Kind      `json:"kind"`
	Formula string         `json:"formula"`
	Rows    []analysis.Row `json:"rows"`
}

// StageSet is the stage outlook of one formula.
type StageSet struct {
	Name string              `json:"name"`
	Rows []analysis.StageRow `json:"rows"`
}

// Report is everything a printer needs; it holds plain values only.
type Report struct {
	Profile     string                `json:"profile"`
	Version     string                `json:"version,omitempty"`
	Character   string                `json:"character,omitempty"`
	StartLevel  int                   `json:"start_level"`
	Items       []string              `json:"items"`
	Sweeps      []Sweep               `json:"sweeps"`
	Bonuses     []analysis.Row        `json:"bonuses,omitempty"`
	Assessments []analysis.Assessment `json:"assessments"`
	Stages      []StageSet            `json:"stages"`
}

// Options narrow what Build evaluates.
type Options struct {
	Character string // shifts every level by the character's start level
	Levels    []int  // overrides the scenario levels when set
}

// Build evaluates every formula of the scenario.
func Build(sc *scenario.Scenario, opts Options) (*Report, error) {
	start, err := sc.StartLevel(opts.Character)
	if err != nil {
		return nil, err
	}
	levels := sc.Levels
	if len(opts.Levels) > 0 {
		levels = opts.Levels
	}
	levels = analysis.WithStart(levels, start)

	r := &Report{
		Profile:    sc.Profile,
		Version:    sc.Version,
		Character:  opts.Character,
		StartLevel: start,
		Items:      sc.Model.Rates.Names(),
	}
	for _, nf := range sc.Formulas {
		rows, err := analysis.Sweep(sc.Model, nf.Name, levels, nf.Formula)
		if err != nil {
			return nil, err
		}
		r.Sweeps = append(r.Sweeps, Sweep{
			Name:    nf.Name,
			Kind:    nf.Formula.Kind(),
			Formula: analysis.Describe(nf.Formula),
			Rows:    rows,
		})

		a, err := analysis.Assess(sc.Model, nf.Name, nf.Formula)
		if err != nil {
			return nil, fmt.Errorf("assess %s: %w", nf.Name, err)
		}
		r.Assessments = append(r.Assessments, a)

		stages, err := analysis.ProjectStages(sc.Model, nf.Name, nf.Formula, sc.Stages)
		if err != nil {
			return nil, fmt.Errorf("stages %s: %w", nf.Name, err)
		}
		r.Stages = append(r.Stages, StageSet{Name: nf.Name, Rows: stages})
	}
	for _, b := range sc.Bonuses {
		row, err := analysis.EvaluateBonus(sc.Model, b.Name, b.Level, b.BonusPercent)
		if err != nil {
			return nil, fmt.Errorf("bonus %s: %w", b.Name, err)
		}
		r.Bonuses = append(r.Bonuses, row)
	}
	return r, nil
}

// Printer renders a report.
type Printer interface {
	Print(w io.Writer, r *Report) error
}

// Formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// NewPrinter returns the printer for a format name.
func NewPrinter(format string) (Printer, error) {
	switch format {
	case "", FormatText:
		return TextPrinter{}, nil
	case FormatJSON:
		return JSONPrinter{Indent: "  "}, nil
	case FormatCSV:
		return CSVPrinter{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}
