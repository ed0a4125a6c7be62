// Package report renders attribution records for downstream consumers.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/commission-cli/internal/model"
)

var header = []string{"company", "participant", "raw_percent", "rounded_percent"}

// rows flattens records into one row per (company, participant), sorted so
// output is stable across runs.
func rows(records []model.AttributionRecord) [][]string {
	sorted := append([]model.AttributionRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Company < sorted[j].Company })

	var out [][]string
	for _, rec := range sorted {
		participants := make([]string, 0, len(rec.RawPercent))
		for id := range rec.RawPercent {
			participants = append(participants, id)
		}
		sort.Strings(participants)

		for _, id := range participants {
			out = append(out, []string{
				rec.Company,
				id,
				fmt.Sprintf("%.2f", rec.RawPercent[id]),
				fmt.Sprintf("%.0f", rec.RoundedPercent[id]),
			})
		}
	}
	return out
}

// WriteCSV writes the attribution report as CSV.
func WriteCSV(w io.Writer, records []model.AttributionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	for _, row := range rows(records) {
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "report: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush csv")
}

// WriteXLSX writes the attribution report as a single-sheet workbook.
func WriteXLSX(path string, records []model.AttributionRecord) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Attribution")
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	hr := sheet.AddRow()
	for _, h := range header {
		hr.AddCell().Value = h
	}
	for _, row := range rows(records) {
		xr := sheet.AddRow()
		for _, cell := range row {
			xr.AddCell().Value = cell
		}
	}

	return eris.Wrapf(f.Save(path), "report: save %s", path)
}
