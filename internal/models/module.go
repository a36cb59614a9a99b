package models

import (
	"strconv"
	"strings"
	"time"
)

// BonusPrefix marks modules whose credits are tracked outside the year goal.
const BonusPrefix = "G-INN"

// Activity is a project or session scheduled inside a module.
type Activity struct {
	Title       string
	TypeTitle   string
	Begin       time.Time
	End         time.Time
	ModuleTitle string
}

// IsProject reports whether the activity should appear on the timeline.
func (a Activity) IsProject() bool {
	return a.TypeTitle == "Project" || strings.Contains(strings.ToLower(a.TypeTitle), "proj")
}

// Label is the short name rendered in the activity's start-week cell: the
// suffix after the last " - " separator, truncated to ten characters.
func (a Activity) Label() string {
	name := a.Title
	if idx := strings.LastIndex(name, " - "); idx >= 0 {
		name = name[idx+len(" - "):]
	}
	if r := []rune(name); len(r) > 10 {
		name = string(r[:10])
	}
	return name
}

// Module is a course module for one semester, with its scheduled activities.
type Module struct {
	ID             int
	Code           string
	Instance       string
	Title          string
	Credits        int
	Semester       int
	Begin          *time.Time
	End            *time.Time
	ScolarYear     int
	Activities     []Activity
	Registered     bool
	StudentCredits int
}

// IsBonus reports whether the module's credits count outside the year goal.
func (m Module) IsBonus() bool {
	return strings.HasPrefix(m.Code, BonusPrefix)
}

// ProjectActivities returns only the activities retained for timeline
// rendering.
func (m Module) ProjectActivities() []Activity {
	kept := make([]Activity, 0, len(m.Activities))
	for _, a := range m.Activities {
		if a.IsProject() {
			kept = append(kept, a)
		}
	}
	return kept
}

// DisplayTitle strips the "G<semester> - " prefix the intranet prepends to
// module titles.
func (m Module) DisplayTitle(semester int) string {
	prefix := "G" + strconv.Itoa(semester) + " - "
	return strings.Replace(m.Title, prefix, "", 1)
}

// UserInfo is a read-only snapshot of the student profile.
type UserInfo struct {
	Login       string
	Name        string
	Semester    int
	StudentYear int
	Promo       int
	Credits     int
	GPA         float64
}

// YearCredits returns the credits already earned in the current academic
// year, assuming 60 credits per year numbered contiguously from 1.
func (u UserInfo) YearCredits() int {
	return u.Credits % 60
}

// WeekInterval is one Monday-aligned seven-day window of the timeline grid.
type WeekInterval struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the interval, bounds included.
func (w WeekInterval) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Overlaps reports whether [begin, end] intersects the interval, bounds
// included.
func (w WeekInterval) Overlaps(begin, end time.Time) bool {
	return !w.Start.After(end) && !w.End.Before(begin)
}
