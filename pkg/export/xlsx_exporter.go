package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXExporter renders a Sheet into an Excel workbook, preserving formula
// cells so totals keep recomputing after manual edits.
type XLSXExporter struct{}

// NewXLSXExporter constructs an Excel exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render produces the xlsx bytes for the sheet.
func (e *XLSXExporter) Render(sheet *Sheet) ([]byte, error) {
	if sheet == nil || len(sheet.Rows) == 0 {
		return nil, fmt.Errorf("xlsx requires a non-empty sheet")
	}

	f := excelize.NewFile()
	name := sheet.Title
	if name == "" {
		name = "Report"
	}
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	styleIDs := map[Style]int{}

	for i, row := range sheet.Rows {
		rowNum := i + 1
		for col, cell := range row.Cells {
			ref, err := excelize.CoordinatesToCellName(col, rowNum)
			if err != nil {
				return nil, fmt.Errorf("cell reference %d,%d: %w", col, rowNum, err)
			}

			if cell.Formula != "" {
				formula := strings.TrimPrefix(cell.Formula, "=")
				if err := f.SetCellFormula(name, ref, formula); err != nil {
					return nil, fmt.Errorf("set formula %s: %w", ref, err)
				}
			} else if cell.Value != nil {
				if err := f.SetCellValue(name, ref, cell.Value); err != nil {
					return nil, fmt.Errorf("set value %s: %w", ref, err)
				}
			}

			styleID, err := e.styleID(f, styleIDs, cell.Style)
			if err != nil {
				return nil, err
			}
			if styleID != 0 {
				if err := f.SetCellStyle(name, ref, ref, styleID); err != nil {
					return nil, fmt.Errorf("set style %s: %w", ref, err)
				}
			}

			if cell.SpanCols > 1 || cell.SpanRows > 1 {
				endCol, endRow := col, rowNum
				if cell.SpanCols > 1 {
					endCol = col + cell.SpanCols - 1
				}
				if cell.SpanRows > 1 {
					endRow = rowNum + cell.SpanRows - 1
				}
				end, err := excelize.CoordinatesToCellName(endCol, endRow)
				if err != nil {
					return nil, fmt.Errorf("merge reference %d,%d: %w", endCol, endRow, err)
				}
				if err := f.MergeCell(name, ref, end); err != nil {
					return nil, fmt.Errorf("merge %s:%s: %w", ref, end, err)
				}
			}
		}
	}

	for col, width := range sheet.ColWidths {
		letter := ColumnName(col)
		if err := f.SetColWidth(name, letter, letter, width); err != nil {
			return nil, fmt.Errorf("set column width %s: %w", letter, err)
		}
	}

	for rowNum, height := range sheet.RowHeights {
		if err := f.SetRowHeight(name, rowNum, height); err != nil {
			return nil, fmt.Errorf("set row height %d: %w", rowNum, err)
		}
	}

	if sheet.FreezeCell != "" {
		col, rowNum, err := excelize.CellNameToCoordinates(sheet.FreezeCell)
		if err != nil {
			return nil, fmt.Errorf("freeze cell %s: %w", sheet.FreezeCell, err)
		}
		panes := &excelize.Panes{
			Freeze:      true,
			XSplit:      col - 1,
			YSplit:      rowNum - 1,
			TopLeftCell: sheet.FreezeCell,
			ActivePane:  "bottomRight",
		}
		if err := f.SetPanes(name, panes); err != nil {
			return nil, fmt.Errorf("freeze panes: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *XLSXExporter) styleID(f *excelize.File, cache map[Style]int, s Style) (int, error) {
	if s == (Style{}) {
		return 0, nil
	}
	if id, ok := cache[s]; ok {
		return id, nil
	}

	style := &excelize.Style{}

	if s.Fill != "" {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.Fill}}
	}

	font := &excelize.Font{Bold: s.Bold, Italic: s.Italic}
	if s.FontColor != "" {
		font.Color = s.FontColor
	}
	if s.FontSize > 0 {
		font.Size = s.FontSize
	}
	style.Font = font

	if s.Align != "" || s.Wrap {
		style.Alignment = &excelize.Alignment{
			Horizontal: s.Align,
			Vertical:   "center",
			WrapText:   s.Wrap,
		}
	}

	if s.Border {
		style.Border = []excelize.Border{
			{Type: "left", Style: 1, Color: "D9D9D9"},
			{Type: "right", Style: 1, Color: "D9D9D9"},
			{Type: "top", Style: 1, Color: "D9D9D9"},
			{Type: "bottom", Style: 1, Color: "D9D9D9"},
		}
	}

	id, err := f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("build style: %w", err)
	}
	cache[s] = id
	return id, nil
}
