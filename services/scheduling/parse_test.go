package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		phrase string
		hour   int
		minute int
	}{
		{"2pm", 14, 0},
		{"2 pm", 14, 0},
		{"2:30pm", 14, 30},
		{"9am", 9, 0},
		{"12pm", 12, 0},
		{"12am", 0, 0},
		{"noon", 12, 0},
		{"Noon", 12, 0},
		{"midnight", 0, 0},
		{"", 14, 0},
		{"whenever", 14, 0},
		{"25pm", 14, 0},
		{"3:75pm", 14, 0},
	}
	for _, tc := range cases {
		hour, minute := ParseTimeOfDay(tc.phrase)
		assert.Equal(t, tc.hour, hour, "phrase %q hour", tc.phrase)
		assert.Equal(t, tc.minute, minute, "phrase %q minute", tc.phrase)
	}
}

func TestMatchWeekday(t *testing.T) {
	day, ok := MatchWeekday("Tuesday")
	assert.True(t, ok)
	assert.Equal(t, time.Tuesday, day)

	// One-character typos still resolve.
	day, ok = MatchWeekday("tuesda")
	assert.True(t, ok)
	assert.Equal(t, time.Tuesday, day)

	day, ok = MatchWeekday("mondey")
	assert.True(t, ok)
	assert.Equal(t, time.Monday, day)

	day, ok = MatchWeekday("wednesdays")
	assert.True(t, ok)
	assert.Equal(t, time.Wednesday, day)

	_, ok = MatchWeekday("someday")
	assert.False(t, ok)

	_, ok = MatchWeekday("")
	assert.False(t, ok)
}

func TestResolveDay(t *testing.T) {
	// A Tuesday morning.
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// Unrecognized phrases default to tomorrow.
	got := ResolveDay("sometime soon", now, 14, 0)
	assert.Equal(t, now.AddDate(0, 0, 1).Day(), got.Day())

	// A future weekday resolves to its next occurrence.
	got = ResolveDay("friday", now, 14, 0)
	assert.Equal(t, time.Friday, got.Weekday())
	assert.Equal(t, 13, got.Day())

	// Today's weekday with time still ahead stays today.
	got = ResolveDay("tuesday", now, 14, 0)
	assert.Equal(t, 10, got.Day())

	// Today's weekday with the time already past jumps a week.
	got = ResolveDay("tuesday", now, 8, 0)
	assert.Equal(t, 17, got.Day())
}
