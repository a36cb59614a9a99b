package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexIntDecoding(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{`5`, 5},
		{`"5"`, 5},
		{`"2.0"`, 2},
		{`null`, 0},
		{`""`, 0},
		{`"garbage"`, 0},
	}
	for _, tc := range cases {
		var f FlexInt
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &f), "raw %s", tc.raw)
		assert.Equal(t, tc.want, f.Int(), "raw %s", tc.raw)
	}
}

func TestDateDecoding(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-01-06 09:30:00"`), &d))
	assert.Equal(t, time.Date(2025, 1, 6, 9, 30, 0, 0, time.UTC), d.Time)

	require.NoError(t, json.Unmarshal([]byte(`"2025-01-06"`), &d))
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), d.Time)

	require.NoError(t, json.Unmarshal([]byte(`"not a date"`), &d))
	assert.True(t, d.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())
}

func TestActivityRecordBeginPrefersBegin(t *testing.T) {
	begin := &Date{Time: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)}
	start := &Date{Time: time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)}

	both := ActivityRecord{Begin: begin, Start: start}
	require.NotNil(t, both.BeginDate())
	assert.Equal(t, begin.Time, *both.BeginDate())

	startOnly := ActivityRecord{Start: start}
	require.NotNil(t, startOnly.BeginDate())
	assert.Equal(t, start.Time, *startOnly.BeginDate())

	assert.Nil(t, ActivityRecord{}.BeginDate())
	assert.Nil(t, ActivityRecord{Begin: &Date{}}.BeginDate())
	assert.Nil(t, ActivityRecord{}.EndDate())
}

func TestModuleDetailDecoding(t *testing.T) {
	raw := `{
		"title": "G5 - Machine Learning",
		"credits": "5",
		"begin": "2025-01-06",
		"end": "2025-06-30",
		"student_registered": "1",
		"student_credits": null,
		"activites": [
			{"title": "Project - Corewar", "type_title": "Project",
			 "begin": "2025-01-06 09:00:00", "end": "2025-01-17 17:00:00"}
		]
	}`

	var detail ModuleDetail
	require.NoError(t, json.Unmarshal([]byte(raw), &detail))

	assert.Equal(t, "G5 - Machine Learning", detail.Title)
	assert.Equal(t, 5, detail.Credits.Int())
	assert.Equal(t, 1, detail.StudentRegistered.Int())
	assert.Zero(t, detail.StudentCredits.Int())
	require.NotNil(t, detail.Begin)
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), detail.Begin.Time)
	require.Len(t, detail.Activities, 1)
}

func TestUserProfileGPAValue(t *testing.T) {
	assert.Zero(t, UserProfile{}.GPAValue())
	assert.Zero(t, UserProfile{GPA: []GPAEntry{{GPA: "n/a"}}}.GPAValue())
	assert.InDelta(t, 2.95, UserProfile{GPA: []GPAEntry{{GPA: "2.95"}}}.GPAValue(), 0.001)
}
