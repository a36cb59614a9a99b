package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// The intranet serves loosely typed JSON: numbers arrive as strings or
// numbers depending on the endpoint, and optional fields as null or "".
// Everything is normalised here, once, at the API boundary.

// FlexInt decodes from a JSON number, a numeric string, null or "". Missing
// and unparseable values default to 0.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = 0
		return nil
	}
	raw := strings.Trim(string(trimmed), `"`)
	if raw == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		// Some numeric fields come back as floats ("2.0").
		fl, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			*f = 0
			return nil
		}
		n = int(fl)
	}
	*f = FlexInt(n)
	return nil
}

// Int returns the plain value.
func (f FlexInt) Int() int { return int(f) }

var dateLayouts = []string{"2006-01-02 15:04:05", "2006-01-02"}

// Date decodes the intranet's date strings; zero when absent or malformed.
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t
			return nil
		}
	}
	d.Time = time.Time{}
	return nil
}

// ModuleSummary is one record of the /course/filter listing.
type ModuleSummary struct {
	ID               int     `json:"id"`
	Code             string  `json:"code" validate:"required"`
	CodeInstance     string  `json:"codeinstance" validate:"required"`
	ScolarYear       FlexInt `json:"scolaryear"`
	Credits          FlexInt `json:"credits"`
	InstanceLocation string  `json:"instance_location"`
	Semester         int     `json:"semester"`
	Title            string  `json:"title"`
}

// ModuleList is the /course/filter response envelope.
type ModuleList struct {
	Items []ModuleSummary `json:"items"`
}

// ActivityRecord is one entry of a module detail's "activites" list. The
// begin date is served as either "begin" or "start" depending on activity
// kind.
type ActivityRecord struct {
	Title     string `json:"title"`
	TypeTitle string `json:"type_title"`
	Begin     *Date  `json:"begin"`
	Start     *Date  `json:"start"`
	End       *Date  `json:"end"`
}

// BeginDate resolves the effective begin date, preferring "begin".
func (a ActivityRecord) BeginDate() *time.Time {
	for _, d := range []*Date{a.Begin, a.Start} {
		if d != nil && !d.IsZero() {
			t := d.Time
			return &t
		}
	}
	return nil
}

// EndDate resolves the effective end date.
func (a ActivityRecord) EndDate() *time.Time {
	if a.End != nil && !a.End.IsZero() {
		t := a.End.Time
		return &t
	}
	return nil
}

// ModuleDetail is the /module/{year}/{code}/{instance} response.
type ModuleDetail struct {
	Title             string           `json:"title"`
	Credits           FlexInt          `json:"credits"`
	Begin             *Date            `json:"begin"`
	End               *Date            `json:"end"`
	StudentRegistered FlexInt          `json:"student_registered"`
	StudentCredits    FlexInt          `json:"student_credits"`
	Activities        []ActivityRecord `json:"activites"`
}

// GPAEntry is one element of the user profile's gpa list.
type GPAEntry struct {
	GPA string `json:"gpa"`
}

// UserProfile is the /user/ response.
type UserProfile struct {
	Login       string     `json:"login" validate:"required"`
	Title       string     `json:"title"`
	Semester    int        `json:"semester"`
	StudentYear int        `json:"studentyear"`
	Promo       int        `json:"promo"`
	Credits     FlexInt    `json:"credits"`
	GPA         []GPAEntry `json:"gpa"`
}

// GPAValue extracts the first GPA entry as a float, 0 when absent.
func (p UserProfile) GPAValue() float64 {
	if len(p.GPA) == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(p.GPA[0].GPA, 64)
	if err != nil {
		return 0
	}
	return v
}
