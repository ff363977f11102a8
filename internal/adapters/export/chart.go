package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okian/tracker/internal/domain/types"
)

// ChartSheet is the sheet holding the chart data.
const ChartSheet = "Students"

var chartHeaders = []string{"Name", "Total", "Tag", "Top", "Middle", "Bottom"}

// one data column per tag, so each series carries its own color
var seriesColumns = []struct {
	tag types.Tag
	col int
}{
	{types.TagTop, 4},
	{types.TagMiddle, 5},
	{types.TagBottom, 6},
}

// ChartTitle is the chart heading for n highlighted entries per side.
func ChartTitle(n int) string {
	return fmt.Sprintf("Total Score Highlight Top %d Green / Bottom %d Red", n, n)
}

// ChartWorkbook writes the ranked entries as an XLSX workbook with a column
// chart.
type ChartWorkbook struct{}

// Render writes the workbook to w. An empty entry list produces the header
// row only and no chart.
func (ChartWorkbook) Render(w io.Writer, title string, entries []types.Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := fillChartSheet(f, entries); err != nil {
		return fmt.Errorf("%w: xlsx: %w", ErrRender, err)
	}
	if len(entries) > 0 {
		if err := f.AddChart(ChartSheet, "H2", columnChart(title, len(entries))); err != nil {
			return fmt.Errorf("%w: xlsx chart: %w", ErrRender, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: xlsx: %w", ErrRender, err)
	}
	return nil
}

func fillChartSheet(f *excelize.File, entries []types.Entry) error {
	if err := f.SetSheetName(f.GetSheetName(0), ChartSheet); err != nil {
		return err
	}
	for i, h := range chartHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ChartSheet, cell, h); err != nil {
			return err
		}
	}

	styles := make(map[types.Tag]int, len(types.Colors))
	for tag, color := range types.Colors {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{excelColor(color)}},
		})
		if err != nil {
			return err
		}
		styles[tag] = id
	}

	for i, e := range entries {
		row := i + 2
		tag := e.Tag()
		if err := f.SetSheetRow(ChartSheet, fmt.Sprintf("A%d", row), &[]any{e.Name, e.Score, string(tag)}); err != nil {
			return err
		}
		for _, s := range seriesColumns {
			if s.tag != tag {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(s.col, row)
			if err := f.SetCellValue(ChartSheet, cell, e.Score); err != nil {
				return err
			}
		}
		if err := f.SetCellStyle(ChartSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), styles[tag]); err != nil {
			return err
		}
	}
	return nil
}

func columnChart(title string, n int) *excelize.Chart {
	last := n + 1
	series := make([]excelize.ChartSeries, 0, len(seriesColumns))
	for _, s := range seriesColumns {
		col, _ := excelize.ColumnNumberToName(s.col)
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", ChartSheet, col),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", ChartSheet, last),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", ChartSheet, col, col, last),
			Fill:       excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{excelColor(types.Colors[s.tag])}},
		})
	}
	return &excelize.Chart{
		Type:      excelize.ColStacked,
		Series:    series,
		Title:     []excelize.RichTextRun{{Text: title}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: 720, Height: 400},
	}
}

func excelColor(hex string) string {
	return strings.ToUpper(strings.TrimPrefix(hex, "#"))
}
