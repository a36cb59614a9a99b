package service

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/credit-strategy/internal/models"
	apperrors "github.com/noah-isme/credit-strategy/pkg/errors"
)

// WeekCell is the layout verdict for one module in one week column.
type WeekCell struct {
	Filled bool
	Label  string
}

// ModuleRow is one laid-out timeline row. CategoryBreak marks the first row
// of a newly encountered category; the assembler inserts a separator row
// before it.
type ModuleRow struct {
	Module        models.Module
	Category      models.Category
	CategoryBreak bool
	Bonus         bool
	// Color is the base bar color before any registered/unregistered
	// treatment.
	Color string
	Cells map[int]WeekCell
}

// LayoutContext carries the mutable layout state of a single report run: the
// round-robin palette cursor. It must not be shared across runs.
type LayoutContext struct {
	paletteIndex int
}

func (c *LayoutContext) nextColor() string {
	color := models.Palette[c.paletteIndex%len(models.Palette)]
	c.paletteIndex++
	return color
}

// TimelineService lays module activities out on a week-granularity grid.
type TimelineService struct {
	logger *zap.Logger
}

// NewTimelineService constructs a TimelineService.
func NewTimelineService(logger *zap.Logger) *TimelineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimelineService{logger: logger}
}

// FilterProjects trims every module's activity list down to project
// activities. This is the only mutation modules undergo after fetch.
func (s *TimelineService) FilterProjects(modules []models.Module) {
	for i := range modules {
		modules[i].Activities = modules[i].ProjectActivities()
	}
}

// DateRange finds the overall [min, max] span of the retained activities,
// falling back to module begin/end dates when no activity carries dates.
// With no dates at all it returns an EmptyResult error.
func (s *TimelineService) DateRange(modules []models.Module) (time.Time, time.Time, error) {
	var dates []time.Time
	for _, m := range modules {
		for _, a := range m.Activities {
			dates = append(dates, a.Begin, a.End)
		}
	}
	if len(dates) == 0 {
		for _, m := range modules {
			if m.Begin != nil {
				dates = append(dates, *m.Begin)
			}
			if m.End != nil {
				dates = append(dates, *m.End)
			}
		}
	}
	if len(dates) == 0 {
		return time.Time{}, time.Time{}, apperrors.New(apperrors.ErrEmptyResult.Code, "no dates found")
	}

	min, max := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}
	return min, max, nil
}

// BuildWeekGrid produces the ordered sequence of contiguous Monday-aligned
// week intervals covering [min, max].
func (s *TimelineService) BuildWeekGrid(min, max time.Time) ([]models.WeekInterval, error) {
	if min.After(max) {
		return nil, apperrors.New(apperrors.ErrInvalidRange.Code, "grid start after end")
	}

	var weeks []models.WeekInterval
	for cur := startOfWeek(min); !cur.After(max); cur = cur.AddDate(0, 0, 7) {
		weeks = append(weeks, models.WeekInterval{
			Start: cur,
			End:   cur.AddDate(0, 0, 6),
		})
	}
	return weeks, nil
}

// startOfWeek returns the Monday on or before t.
func startOfWeek(t time.Time) time.Time {
	// Go numbers Sunday as 0; shift so Monday is 0.
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// Layout sorts and maps modules onto the week grid. Regular modules come
// first, grouped by category name and ordered by begin date (modules without
// a begin date last); bonus modules trail in fetch order. The palette cursor
// advances once per regular module, never for category breaks or bonus rows.
func (s *TimelineService) Layout(modules []models.Module, grid []models.WeekInterval) []ModuleRow {
	ctx := &LayoutContext{}

	var regular, bonus []models.Module
	for _, m := range modules {
		if m.IsBonus() {
			bonus = append(bonus, m)
		} else {
			regular = append(regular, m)
		}
	}

	sort.SliceStable(regular, func(i, j int) bool {
		ci := models.CategoryFor(regular[i].Code).Name
		cj := models.CategoryFor(regular[j].Code).Name
		if ci != cj {
			return ci < cj
		}
		bi, bj := regular[i].Begin, regular[j].Begin
		switch {
		case bi == nil:
			return false
		case bj == nil:
			return true
		default:
			return bi.Before(*bj)
		}
	})

	rows := make([]ModuleRow, 0, len(regular)+len(bonus))

	currentCategory := ""
	for _, m := range regular {
		category := models.CategoryFor(m.Code)
		row := ModuleRow{
			Module:        m,
			Category:      category,
			CategoryBreak: category.Name != currentCategory,
			Color:         ctx.nextColor(),
			Cells:         s.occupancy(m, grid),
		}
		currentCategory = category.Name
		rows = append(rows, row)
	}

	for _, m := range bonus {
		rows = append(rows, ModuleRow{
			Module:   m,
			Category: models.CategoryFor(m.Code),
			Bonus:    true,
			Color:    models.BonusColor,
			Cells:    s.occupancy(m, grid),
		})
	}

	return rows
}

// occupancy fills one module's week cells. A cell is filled when any
// activity overlaps the week; the label lands only on the week containing
// the activity's begin date.
func (s *TimelineService) occupancy(m models.Module, grid []models.WeekInterval) map[int]WeekCell {
	cells := make(map[int]WeekCell)
	for i, week := range grid {
		for _, act := range m.Activities {
			if !week.Overlaps(act.Begin, act.End) {
				continue
			}
			cell := WeekCell{Filled: true}
			if week.Contains(act.Begin) {
				cell.Label = act.Label()
			}
			cells[i] = cell
			break
		}
	}
	return cells
}
