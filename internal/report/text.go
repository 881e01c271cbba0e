package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/xtding233/luck-curve/internal/analysis"
	"github.com/xtding233/luck-curve/internal/rarity"
)

// TextPrinter writes aligned tables for a terminal.
type TextPrinter struct{}

func (TextPrinter) Print(w io.Writer, r *Report) error {
	p := message.NewPrinter(language.English)
	title := cases.Title(language.English)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := func(s string) {
		fmt.Fprintf(tw, "\n== %s ==\n", s)
	}

	fmt.Fprintf(tw, "profile: %s", r.Profile)
	if r.Version != "" {
		fmt.Fprintf(tw, " (v%s)", r.Version)
	}
	if r.Character != "" {
		fmt.Fprintf(tw, "  character: %s (start Lv%d)", r.Character, r.StartLevel)
	}
	fmt.Fprintln(tw)

	tiers := make([]string, len(rarity.Tiers))
	for i, t := range rarity.Tiers {
		tiers[i] = title.String(string(t))
	}
	drops := "Rare drop\t"
	for _, item := range r.Items {
		drops += item + "\t"
	}
	drops += strings.Join(tiers, "\t") + "\tFlags\t"
	cols := "Level\tBonus\tMult\t" + drops

	for _, s := range r.Sweeps {
		header(fmt.Sprintf("%s: %s", title.String(s.Name), s.Formula))
		fmt.Fprintln(tw, cols)
		for _, row := range s.Rows {
			writeRow(tw, p, fmt.Sprintf("Lv%d", row.Level), r.Items, row)
		}
	}

	if len(r.Bonuses) > 0 {
		header("Luck skill scenarios")
		fmt.Fprintln(tw, "Scenario\tBonus\tMult\t"+drops)
		for _, row := range r.Bonuses {
			writeRow(tw, p, row.Label, r.Items, row)
		}
	}

	header("Targets")
	fmt.Fprintln(tw, "Formula\tTarget\tCeiling\tReaches target\tResult\t")
	for _, a := range r.Assessments {
		result := "FAIL"
		if a.Pass() {
			result = "PASS"
		}
		reach := "never"
		if a.Reachable {
			reach = fmt.Sprintf("Lv%d", a.ReachLevel)
		}
		p.Fprintf(tw, "%s\tLv%d %.3f%%\tLv%d %.3f%%\t%s\t%s\t\n",
			a.Label, a.Target.Level, a.Target.TotalRarePercent,
			a.Ceiling.Level, a.Ceiling.TotalRarePercent, reach, result)
	}

	for _, set := range r.Stages {
		header(fmt.Sprintf("Stages: %s", set.Name))
		fmt.Fprintln(tw, "Stage\tLevel\tKills\tRare drop\tExpected\tAt least one\t")
		for _, sr := range set.Rows {
			p.Fprintf(tw, "%s\tLv%d\t%d\t%.3f%%\t%.2f\t%.1f%%\t\n",
				title.String(sr.Stage.Name), sr.Stage.Level, sr.Outlook.Trials,
				sr.Row.TotalRarePercent, sr.Outlook.ExpectedTotal, sr.Outlook.AtLeastOne*100)
		}
	}

	return tw.Flush()
}

func writeRow(tw io.Writer, p *message.Printer, label string, items []string, row analysis.Row) {
	p.Fprintf(tw, "%s\t+%.0f%%\tx%.2f\t%.3f%%\t", label, row.BonusPercent, row.Multiplier, row.TotalRarePercent)
	for _, item := range items {
		p.Fprintf(tw, "%.3f%%\t", row.ItemPercents[item])
	}
	for _, t := range rarity.Tiers {
		p.Fprintf(tw, "%.2f%%\t", row.RarityPercents[t])
	}
	fmt.Fprintf(tw, "%s\t\n", flags(row))
}

func flags(row analysis.Row) string {
	var f []string
	if row.Exceeded {
		f = append(f, "OVERFLOW "+strings.Join(row.Overflow, ","))
	}
	if row.TargetMet {
		f = append(f, "target")
	}
	if row.CeilingBreached {
		f = append(f, "over-ceiling")
	}
	if len(f) == 0 {
		return "-"
	}
	return strings.Join(f, " ")
}
