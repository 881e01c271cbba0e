package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/xtding233/luck-curve/internal/analysis"
	"github.com/xtding233/luck-curve/internal/rarity"
)

// JSONPrinter writes the whole report as one JSON document.
type JSONPrinter struct {
	Indent string
}

func (jp JSONPrinter) Print(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	if jp.Indent != "" {
		enc.SetIndent("", jp.Indent)
	}
	return enc.Encode(r)
}

// CSVPrinter writes one record per evaluated row: sweeps first, then bonus scenarios.
type CSVPrinter struct{}

// CSVHeader is the first record CSVPrinter writes for a report over items.
func CSVHeader(items []string) []string {
	h := []string{"section", "label", "formula", "level", "bonus_percent", "multiplier", "total_rare_percent"}
	for _, item := range items {
		h = append(h, item+"_percent")
	}
	for _, t := range rarity.Tiers {
		h = append(h, string(t)+"_percent")
	}
	return append(h, "overflow", "target_met", "ceiling_breached")
}

func (CSVPrinter) Print(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader(r.Items)); err != nil {
		return err
	}
	for _, s := range r.Sweeps {
		for _, row := range s.Rows {
			if err := cw.Write(csvRecord("sweep", r.Items, row)); err != nil {
				return err
			}
		}
	}
	for _, row := range r.Bonuses {
		if err := cw.Write(csvRecord("bonus", r.Items, row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRecord(section string, items []string, row analysis.Row) []string {
	rec := []string{
		section,
		row.Label,
		row.Formula,
		strconv.Itoa(row.Level),
		fmtFloat(row.BonusPercent),
		fmtFloat(row.Multiplier),
		fmtFloat(row.TotalRarePercent),
	}
	for _, item := range items {
		rec = append(rec, fmtFloat(row.ItemPercents[item]))
	}
	for _, t := range rarity.Tiers {
		rec = append(rec, fmtFloat(row.RarityPercents[t]))
	}
	return append(rec,
		strings.Join(row.Overflow, ";"),
		strconv.FormatBool(row.TargetMet),
		strconv.FormatBool(row.CeilingBreached),
	)
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
