package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnName(t *testing.T) {
	cases := map[int]string{
		1:  "A",
		2:  "B",
		26: "Z",
		27: "AA",
		28: "AB",
		52: "AZ",
		53: "BA",
	}
	for n, want := range cases {
		assert.Equal(t, want, ColumnName(n), "n=%d", n)
	}
}

func TestCellName(t *testing.T) {
	assert.Equal(t, "A1", CellName(1, 1))
	assert.Equal(t, "C15", CellName(3, 15))
	assert.Equal(t, "AA3", CellName(27, 3))
}

func TestSheetAddRow(t *testing.T) {
	s := &Sheet{}
	assert.Equal(t, 1, s.AddRow(Row{Cells: map[int]Cell{1: {Value: "a"}}}))
	assert.Equal(t, 2, s.AddRow(Row{}))
	assert.Equal(t, 3, s.AddRow(Row{Cells: map[int]Cell{7: {Value: "b"}}}))
	assert.Len(t, s.Rows, 3)
}
