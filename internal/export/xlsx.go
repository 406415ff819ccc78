package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	sheetRanking = "Ranking"
	sheetBasis   = "Basis"
)

var rankingHeader = []any{"Rank", "Key", "Name", "Kind", "Quality", "Level", "EV", "Stat EV", "Socket EV", "Sockets"}

func colName(n int) string {
	// 1-indexed: 1 -> A, 26 -> Z, 27 -> AA
	if n <= 0 {
		return ""
	}
	out := ""
	for n > 0 {
		n--
		out = string(rune('A'+(n%26))) + out
		n /= 26
	}
	return out
}

// WriteXLSX writes the ranking and the reference basis as an xlsx workbook.
//
// The Ranking sheet has one row per valuation in report order, followed by
// one column per resolved stat. The Basis sheet lists the reference basis
// and the vital socket value.
func WriteXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetRanking); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if err := writeRankingSheet(f, r); err != nil {
		return err
	}
	if err := writeBasisSheet(f, r); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}
	return nil
}

func writeRankingSheet(f *excelize.File, r Report) error {
	stats := statColumns(r.Valuations)
	statCol := make(map[string]int, len(stats))

	header := make([]any, 0, len(rankingHeader)+len(stats))
	header = append(header, rankingHeader...)
	for i, s := range stats {
		statCol[s] = i
		header = append(header, s)
	}
	if err := f.SetSheetRow(sheetRanking, "A1", &header); err != nil {
		return fmt.Errorf("writing ranking header: %w", err)
	}

	for i, v := range r.Valuations {
		row := make([]any, len(rankingHeader)+len(stats))
		row[0] = i + 1
		row[1] = v.Key
		row[2] = v.Name
		row[3] = v.Kind.String()
		row[4] = v.Quality.String()
		row[5] = v.Level
		row[6] = v.EV
		row[7] = v.StatEV
		row[8] = v.SocketEV
		row[9] = v.Sockets.String()
		for _, sv := range v.Sheet() {
			row[len(rankingHeader)+statCol[sv.Name]] = sv.Value
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetRanking, cell, &row); err != nil {
			return fmt.Errorf("writing ranking row %d: %w", i+1, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	lastCol := colName(len(header))
	if err := f.SetCellStyle(sheetRanking, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	if len(r.Valuations) > 0 {
		evStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
		if err != nil {
			return err
		}
		lastRow := len(r.Valuations) + 1
		if err := f.SetCellStyle(sheetRanking, "G2", fmt.Sprintf("I%d", lastRow), evStyle); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheetRanking, "C", "C", 40); err != nil {
		return err
	}
	return f.SetPanes(sheetRanking, &excelize.Panes{
		Freeze:      true,
		XSplit:      3,
		YSplit:      1,
		TopLeftCell: "D2",
		ActivePane:  "bottomRight",
	})
}

func writeBasisSheet(f *excelize.File, r Report) error {
	if _, err := f.NewSheet(sheetBasis); err != nil {
		return fmt.Errorf("creating basis sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetBasis, "A1", &[]any{"Stat", "Reference"}); err != nil {
		return err
	}

	row := 2
	for _, stat := range r.Basis.Stats() {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheetBasis, cell, &[]any{stat, r.Basis[stat]}); err != nil {
			return fmt.Errorf("writing basis %s: %w", stat, err)
		}
		row++
	}

	row++
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(sheetBasis, cell, &[]any{"Vital socket value", r.VitalSocketValue}); err != nil {
		return err
	}
	if r.Level > 0 {
		cell, _ = excelize.CoordinatesToCellName(1, row+1)
		if err := f.SetSheetRow(sheetBasis, cell, &[]any{"Item level", r.Level}); err != nil {
			return err
		}
	}
	return nil
}
