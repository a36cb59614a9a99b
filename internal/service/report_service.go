package service

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/credit-strategy/internal/models"
	apperrors "github.com/noah-isme/credit-strategy/pkg/errors"
	"github.com/noah-isme/credit-strategy/pkg/export"
)

// Checkmark marks registered modules; the registered-credits totals are
// SUMIF formulas conditioned on it, so it must stay in sync with them.
const Checkmark = "✓"

const (
	lightenFactor = 0.5

	headerBlue   = "5B9BD5"
	summaryBlue  = "2E75B6"
	greenText    = "228B22"
	orangeText   = "FF8C00"
	purpleText   = "9966FF"
	redText      = "C00000"
	mutedText    = "666666"
	fadedText    = "999999"
	fadedLabel   = "888888"
	categoryFill = "E7E6E6"
	bonusFill    = "F3E5F5"
	bonusRegFill = "E8D5F0"
	regFill      = "D4EDDA"
	stripeA      = "FFFFFF"
	stripeB      = "F8F9FA"
)

// AssembleInput carries everything the assembler needs for one report run.
type AssembleInput struct {
	Semester    int
	Rows        []ModuleRow
	Grid        []models.WeekInterval
	User        *models.UserInfo
	YearCredits map[int]models.SemesterCredit
	Totals      models.YearTotals
}

// ReportService turns laid-out module rows into an ordered sheet for the
// tabular sink. The two main totals are emitted as spreadsheet formulas so
// manual edits to individual rows keep totals consistent; each formula cell
// also carries the computed value for value-only sinks.
type ReportService struct {
	logger *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{logger: logger}
}

// Assemble produces the full report sheet: week header, regular module rows
// with category breaks, totals, the bonus section and the year credit
// summary.
func (s *ReportService) Assemble(in AssembleInput) (*export.Sheet, error) {
	if len(in.Rows) == 0 {
		return nil, apperrors.New(apperrors.ErrEmptyResult.Code, "no modules to report")
	}

	weekCount := len(in.Grid)
	creditsCol := weekCount + 2
	regCol := creditsCol + 1

	sheet := &export.Sheet{
		Title:      fmt.Sprintf("Semester %d", in.Semester),
		ColWidths:  map[int]float64{},
		RowHeights: map[int]float64{},
		FreezeCell: "B3",
	}

	s.writeHeader(sheet, in.Grid, creditsCol, regCol)

	var regular, bonus []ModuleRow
	for _, row := range in.Rows {
		if row.Bonus {
			bonus = append(bonus, row)
		} else {
			regular = append(regular, row)
		}
	}

	firstDataRow := len(sheet.Rows) + 1
	lastDataRow := firstDataRow
	for _, row := range regular {
		if row.CategoryBreak {
			s.writeCategoryBreak(sheet, row.Category.Name, regCol)
		}
		lastDataRow = s.writeModuleRow(sheet, row, in.Semester, weekCount, creditsCol, regCol)
	}

	sheet.AddRow(export.Row{})
	s.writeTotalsBlock(sheet, regular, firstDataRow, lastDataRow, creditsCol, regCol)

	if len(bonus) > 0 {
		sheet.AddRow(export.Row{})
		s.writeBonusSection(sheet, bonus, in.Semester, weekCount, creditsCol, regCol)
	}

	if in.User != nil && len(in.YearCredits) > 0 {
		sheet.AddRow(export.Row{})
		sheet.AddRow(export.Row{})
		s.writeCreditSummary(sheet, in, creditsCol, regCol)
	}

	sheet.ColWidths[1] = 28
	for col := 2; col <= weekCount+1; col++ {
		sheet.ColWidths[col] = 5.5
	}
	sheet.ColWidths[creditsCol] = 7
	sheet.ColWidths[regCol] = 5
	for r := 3; r <= len(sheet.Rows); r++ {
		sheet.RowHeights[r] = 18
	}

	return sheet, nil
}

func (s *ReportService) writeHeader(sheet *export.Sheet, grid []models.WeekInterval, creditsCol, regCol int) {
	headerStyle := export.Style{
		Fill: headerBlue, FontColor: "FFFFFF", Bold: true, FontSize: 10,
		Align: "center", Border: true, Wrap: true,
	}
	weekStyle := export.Style{
		Fill: "F2F2F2", FontColor: mutedText, FontSize: 8,
		Align: "center", Border: true,
	}

	monthRow := export.Row{Cells: map[int]export.Cell{
		1:          {Value: "Module", Style: headerStyle, SpanRows: 2},
		creditsCol: {Value: "Credits", Style: headerStyle, SpanRows: 2},
		regCol:     {Value: "Reg.", Style: headerStyle, SpanRows: 2},
	}}
	weekRow := export.Row{Cells: map[int]export.Cell{}}

	monthStart := 0
	for i, week := range grid {
		col := i + 2
		weekRow.Cells[col] = export.Cell{Value: week.Start.Format("02/01"), Style: weekStyle}

		label := monthLabel(week.Start)
		if i == 0 || label != monthLabel(grid[monthStart].Start) {
			monthStart = i
			monthRow.Cells[col] = export.Cell{Value: label, Style: headerStyle, SpanCols: monthSpan(grid, i)}
		}
	}

	sheet.AddRow(monthRow)
	sheet.AddRow(weekRow)
}

func monthLabel(t time.Time) string {
	return t.Format("Jan 2006")
}

// monthSpan counts how many consecutive weeks from index i share a month.
func monthSpan(grid []models.WeekInterval, i int) int {
	label := monthLabel(grid[i].Start)
	span := 1
	for j := i + 1; j < len(grid) && monthLabel(grid[j].Start) == label; j++ {
		span++
	}
	return span
}

func (s *ReportService) writeCategoryBreak(sheet *export.Sheet, name string, regCol int) {
	cells := s.bandCells(regCol, export.Style{Fill: categoryFill, Border: true})
	cells[1] = export.Cell{Value: "  " + name, Style: export.Style{
		Fill: categoryFill, FontColor: mutedText, Bold: true, Italic: true,
		FontSize: 9, Align: "left", Border: true,
	}}
	sheet.AddRow(export.Row{Cells: cells})
}

func (s *ReportService) writeModuleRow(sheet *export.Sheet, row ModuleRow, semester, weekCount, creditsCol, regCol int) int {
	m := row.Module

	barColor := row.Color
	nameStyle := export.Style{FontSize: 9, Bold: true, Align: "left", Border: true, Wrap: true}
	labelStyle := export.Style{FontSize: 7, Bold: true, Align: "center", Border: true, Wrap: true}
	if !m.Registered {
		barColor = models.LightenColor(row.Color, lightenFactor)
		nameStyle = export.Style{FontSize: 9, FontColor: fadedText, Align: "left", Border: true, Wrap: true}
		labelStyle = export.Style{FontSize: 7, FontColor: fadedLabel, Align: "center", Border: true, Wrap: true}
	}

	cells := map[int]export.Cell{
		1: {Value: m.DisplayTitle(semester), Style: nameStyle},
	}

	border := export.Style{Border: true}
	for i := 0; i < weekCount; i++ {
		col := i + 2
		week, ok := row.Cells[i]
		if !ok || !week.Filled {
			cells[col] = export.Cell{Style: border}
			continue
		}
		cell := export.Cell{Style: export.Style{Fill: barColor, Border: true}}
		if week.Label != "" {
			cell.Value = week.Label
			style := labelStyle
			style.Fill = barColor
			cell.Style = style
		}
		cells[col] = cell
	}

	cells[creditsCol] = export.Cell{Value: m.Credits, Style: export.Style{
		Bold: true, Align: "center", Border: true,
	}}

	regCell := export.Cell{Style: border}
	if m.Registered {
		regCell = export.Cell{Value: Checkmark, Style: export.Style{
			Fill: regFill, FontColor: greenText, Bold: true, FontSize: 12,
			Align: "center", Border: true,
		}}
	}
	cells[regCol] = regCell

	return sheet.AddRow(export.Row{Cells: cells})
}

func (s *ReportService) writeTotalsBlock(sheet *export.Sheet, regular []ModuleRow, firstDataRow, lastDataRow, creditsCol, regCol int) {
	available, registered := 0, 0
	for _, row := range regular {
		available += row.Module.Credits
		if row.Module.Registered {
			registered += row.Module.Credits
		}
	}

	creditRange := export.CellName(creditsCol, firstDataRow) + ":" + export.CellName(creditsCol, lastDataRow)
	regRange := export.CellName(regCol, firstDataRow) + ":" + export.CellName(regCol, lastDataRow)

	sheet.AddRow(export.Row{Cells: map[int]export.Cell{
		1: {Value: "TOTAL AVAILABLE", Style: export.Style{Bold: true, FontSize: 10}},
		creditsCol: {
			Formula: fmt.Sprintf("SUM(%s)", creditRange),
			Value:   available,
			Style:   export.Style{Bold: true, FontSize: 10, Align: "center"},
		},
	}})

	sheet.AddRow(export.Row{Cells: map[int]export.Cell{
		1: {Value: "TOTAL REGISTERED", Style: export.Style{Bold: true, FontSize: 10, FontColor: greenText}},
		creditsCol: {
			Formula: fmt.Sprintf("SUMIF(%s,%q,%s)", regRange, Checkmark, creditRange),
			Value:   registered,
			Style:   export.Style{Bold: true, FontSize: 10, FontColor: greenText, Align: "center"},
		},
	}})
}

func (s *ReportService) writeBonusSection(sheet *export.Sheet, bonus []ModuleRow, semester, weekCount, creditsCol, regCol int) {
	headerCells := s.bandCells(regCol, export.Style{Fill: bonusFill, Border: true})
	headerCells[1] = export.Cell{Value: "  INNOVATION (Bonus credits)", Style: export.Style{
		Fill: bonusFill, FontColor: purpleText, Bold: true, Italic: true,
		FontSize: 9, Align: "left", Border: true,
	}}
	sheet.AddRow(export.Row{Cells: headerCells})

	border := export.Style{Border: true}
	firstRow := len(sheet.Rows) + 1
	lastRow := firstRow
	registered := 0
	for _, row := range bonus {
		m := row.Module
		if m.Registered {
			registered += m.Credits
		}

		cells := map[int]export.Cell{
			1: {Value: m.DisplayTitle(semester), Style: export.Style{
				FontSize: 9, Italic: true, Align: "left", Border: true, Wrap: true,
			}},
		}
		for i := 0; i < weekCount; i++ {
			col := i + 2
			week, ok := row.Cells[i]
			if !ok || !week.Filled {
				cells[col] = export.Cell{Style: border}
				continue
			}
			cell := export.Cell{Style: export.Style{Fill: row.Color, Border: true}}
			if week.Label != "" {
				cell.Value = week.Label
				cell.Style = export.Style{
					Fill: row.Color, FontSize: 7, Italic: true,
					Align: "center", Border: true, Wrap: true,
				}
			}
			cells[col] = cell
		}

		cells[creditsCol] = export.Cell{Value: m.Credits, Style: export.Style{
			Italic: true, FontColor: purpleText, Align: "center", Border: true,
		}}

		regCell := export.Cell{Style: border}
		if m.Registered {
			regCell = export.Cell{Value: Checkmark, Style: export.Style{
				Fill: bonusRegFill, FontColor: purpleText, Bold: true, FontSize: 12,
				Align: "center", Border: true,
			}}
		}
		cells[regCol] = regCell

		lastRow = sheet.AddRow(export.Row{Cells: cells})
	}

	sheet.AddRow(export.Row{})

	creditRange := export.CellName(creditsCol, firstRow) + ":" + export.CellName(creditsCol, lastRow)
	regRange := export.CellName(regCol, firstRow) + ":" + export.CellName(regCol, lastRow)
	sheet.AddRow(export.Row{Cells: map[int]export.Cell{
		1: {Value: "TOTAL BONUS (if validated)", Style: export.Style{
			Bold: true, Italic: true, FontSize: 10, FontColor: purpleText,
		}},
		creditsCol: {
			Formula: fmt.Sprintf("SUMIF(%s,%q,%s)", regRange, Checkmark, creditRange),
			Value:   registered,
			Style: export.Style{
				Bold: true, Italic: true, FontSize: 10, FontColor: purpleText, Align: "center",
			},
		},
	}})
}

// stripes hands out the alternating summary-row backgrounds.
type stripes struct {
	index int
}

func (s *stripes) next() string {
	fill := stripeA
	if s.index%2 == 1 {
		fill = stripeB
	}
	s.index++
	return fill
}

func (s *ReportService) writeCreditSummary(sheet *export.Sheet, in AssembleInput, creditsCol, regCol int) {
	s.writeBandRow(sheet, regCol, fmt.Sprintf("CREDIT SUMMARY - Year %d", in.User.StudentYear),
		export.Style{Fill: summaryBlue, FontColor: "FFFFFF", Bold: true, FontSize: 10, Align: "left", Border: true},
		export.Style{Fill: summaryBlue, Border: true})

	semesters := make([]int, 0, len(in.YearCredits))
	for sem := range in.YearCredits {
		semesters = append(semesters, sem)
	}
	sort.Ints(semesters)

	for _, sem := range semesters {
		credit := in.YearCredits[sem]

		s.writeBandRow(sheet, regCol, "Semester "+strconv.Itoa(sem),
			export.Style{Fill: "E8F0FE", FontColor: summaryBlue, Bold: true, FontSize: 9, Align: "left", Border: true},
			export.Style{Fill: "E8F0FE", Border: true})

		// Alternation restarts for every semester block.
		str := &stripes{}
		s.writeSummaryLine(sheet, str, creditsCol, regCol, "Validated (projects)", credit.Validated, greenText, false)
		s.writeSummaryLine(sheet, str, creditsCol, regCol, "Pending (projects)", credit.Pending, orangeText, false)
		if credit.HasInnovation() {
			s.writeSummaryLine(sheet, str, creditsCol, regCol, "Innovation validated (bonus)", credit.InnovationValidated, purpleText, true)
			s.writeSummaryLine(sheet, str, creditsCol, regCol, "Innovation pending (bonus)", credit.InnovationPending, purpleText, true)
		}
	}

	sheet.AddRow(export.Row{})
	s.writeBandRow(sheet, regCol, "YEAR TOTALS",
		export.Style{Fill: "D9E2F3", FontColor: summaryBlue, Bold: true, FontSize: 9, Align: "left", Border: true},
		export.Style{Fill: "D9E2F3", Border: true})

	totals := in.Totals
	str := &stripes{}
	s.writeSummaryLine(sheet, str, creditsCol, regCol, "Projects validated", totals.Validated, greenText, false)
	s.writeSummaryLine(sheet, str, creditsCol, regCol, "Projects pending", totals.Pending, orangeText, false)
	if totals.HasInnovation() {
		s.writeSummaryLine(sheet, str, creditsCol, regCol, "Innovation validated (bonus)", totals.InnovationValidated, purpleText, true)
		s.writeSummaryLine(sheet, str, creditsCol, regCol, "Innovation pending (bonus)", totals.InnovationPending, purpleText, true)
	}
	s.writeSummaryLine(sheet, str, creditsCol, regCol, "Year goal", totals.Goal, mutedText, false)
	s.writeSummaryLine(sheet, str, creditsCol, regCol, "Remaining to goal", totals.RemainingToGoal, redText, false)

	sheet.AddRow(export.Row{})

	cells := s.bandCells(regCol, export.Style{Fill: "E2F0D9", Border: true})
	cells[1] = export.Cell{Value: "POTENTIAL TOTAL (projects)", Style: export.Style{
		Fill: "E2F0D9", Bold: true, FontSize: 10, Align: "right", Border: true,
	}}
	cells[creditsCol] = export.Cell{Value: totals.PotentialTotal(), Style: export.Style{
		Fill: "E2F0D9", Bold: true, FontSize: 11, FontColor: greenText, Align: "center", Border: true,
	}}
	sheet.AddRow(export.Row{Cells: cells})

	if totals.HasInnovation() {
		cells := s.bandCells(regCol, export.Style{Fill: bonusFill, Border: true})
		cells[1] = export.Cell{Value: "WITH INNOVATION (if validated)", Style: export.Style{
			Fill: bonusFill, Bold: true, Italic: true, FontSize: 10, Align: "right", Border: true,
		}}
		cells[creditsCol] = export.Cell{Value: totals.PotentialWithInnovation(), Style: export.Style{
			Fill: bonusFill, Bold: true, Italic: true, FontSize: 11, FontColor: purpleText, Align: "center", Border: true,
		}}
		sheet.AddRow(export.Row{Cells: cells})
	}
}

// writeBandRow writes a full-width banner row: a styled label in column 1
// and the band fill across the remaining columns.
func (s *ReportService) writeBandRow(sheet *export.Sheet, regCol int, label string, labelStyle, fillStyle export.Style) {
	cells := s.bandCells(regCol, fillStyle)
	cells[1] = export.Cell{Value: label, Style: labelStyle}
	sheet.AddRow(export.Row{Cells: cells})
}

func (s *ReportService) bandCells(regCol int, fill export.Style) map[int]export.Cell {
	cells := map[int]export.Cell{}
	for col := 2; col <= regCol; col++ {
		cells[col] = export.Cell{Style: fill}
	}
	return cells
}

func (s *ReportService) writeSummaryLine(sheet *export.Sheet, str *stripes, creditsCol, regCol int, label string, value int, color string, italic bool) {
	bg := str.next()
	cells := s.bandCells(regCol, export.Style{Fill: bg, Border: true})
	cells[1] = export.Cell{Value: label, Style: export.Style{
		Fill: bg, FontSize: 9, Italic: italic, Align: "right", Border: true,
	}}
	cells[creditsCol] = export.Cell{Value: value, Style: export.Style{
		Fill: bg, Bold: true, Italic: italic, FontColor: color, Align: "center", Border: true,
	}}
	sheet.AddRow(export.Row{Cells: cells})
}
