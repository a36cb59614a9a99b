package export

import "strconv"

// Style captures the visual treatment of a sheet cell.
type Style struct {
	Fill      string // hex RGB without '#', empty = no fill
	FontColor string
	FontSize  float64
	Bold      bool
	Italic    bool
	Align     string // "left", "center" or "right"
	Border    bool
	Wrap      bool
}

// Cell is a single logical cell handed to a tabular sink. When Formula is set
// the sink may write it as a live spreadsheet formula; Value always carries
// the eagerly computed equivalent so value-only sinks stay correct.
type Cell struct {
	Value    interface{}
	Formula  string
	Style    Style
	SpanCols int
	SpanRows int
}

// Row maps 1-based column indexes to cells. Rows with no cells act as
// spacers.
type Row struct {
	Cells map[int]Cell
}

// Sheet is the ordered, sink-agnostic output of the report assembler.
type Sheet struct {
	Title      string
	Rows       []Row
	ColWidths  map[int]float64
	RowHeights map[int]float64
	FreezeCell string
}

// AddRow appends a row and returns its 1-based index.
func (s *Sheet) AddRow(r Row) int {
	s.Rows = append(s.Rows, r)
	return len(s.Rows)
}

// ColumnName converts a 1-based column index into spreadsheet letters
// (1 = A, 27 = AA).
func ColumnName(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}

// CellName builds an A1-style reference from 1-based coordinates.
func CellName(col, row int) string {
	return ColumnName(col) + strconv.Itoa(row)
}
