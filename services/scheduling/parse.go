package scheduling

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Defaults for the deterministic path when the user's phrasing is
// missing or unrecognized.
const (
	defaultHour   = 14
	defaultMinute = 0
)

var clockPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm)$`)

// ParseTimeOfDay resolves a preferred-time phrase against the small set
// of canonical phrasings: "<H>[:MM] am|pm" plus the named hours "noon"
// and "midnight". Unparseable input falls back to 14:00.
func ParseTimeOfDay(phrase string) (hour, minute int) {
	p := strings.ToLower(strings.TrimSpace(phrase))
	switch p {
	case "":
		return defaultHour, defaultMinute
	case "noon":
		return 12, 0
	case "midnight":
		return 0, 0
	}

	m := clockPattern.FindStringSubmatch(p)
	if m == nil {
		return defaultHour, defaultMinute
	}
	h, _ := strconv.Atoi(m[1])
	if h < 1 || h > 12 {
		return defaultHour, defaultMinute
	}
	min := 0
	if m[2] != "" {
		min, _ = strconv.Atoi(m[2])
		if min > 59 {
			return defaultHour, defaultMinute
		}
	}
	if m[3] == "pm" && h != 12 {
		h += 12
	}
	if m[3] == "am" && h == 12 {
		h = 0
	}
	return h, min
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// MatchWeekday resolves a day phrase against the weekday names,
// case-insensitively and tolerating a single-character typo.
func MatchWeekday(phrase string) (time.Weekday, bool) {
	p := strings.ToLower(strings.TrimSpace(phrase))
	if p == "" {
		return 0, false
	}
	if day, ok := weekdayNames[p]; ok {
		return day, true
	}
	for name, day := range weekdayNames {
		if withinOneEdit(p, name) {
			return day, true
		}
	}
	return 0, false
}

// withinOneEdit reports whether a and b differ by at most one
// substitution, insertion or deletion.
func withinOneEdit(a, b string) bool {
	if a == b {
		return true
	}
	la, lb := len(a), len(b)
	if la > lb {
		a, b, la, lb = b, a, lb, la
	}
	if lb-la > 1 {
		return false
	}
	if la == lb {
		diff := 0
		for i := 0; i < la; i++ {
			if a[i] != b[i] {
				diff++
				if diff > 1 {
					return false
				}
			}
		}
		return true
	}
	// One insertion: walk both, allow a single skip in the longer.
	i, j, skipped := 0, 0, false
	for i < la && j < lb {
		if a[i] == b[j] {
			i++
			j++
			continue
		}
		if skipped {
			return false
		}
		skipped = true
		j++
	}
	return true
}

// ResolveDay computes the date a preferred-day phrase refers to. A
// recognized weekday resolves to its next future occurrence (today
// counts only while timeOfDay is still ahead); anything else defaults
// to tomorrow.
func ResolveDay(phrase string, now time.Time, hour, minute int) time.Time {
	day, ok := MatchWeekday(phrase)
	if !ok {
		return now.AddDate(0, 0, 1)
	}

	offset := (int(day) - int(now.Weekday()) + 7) % 7
	candidate := now.AddDate(0, 0, offset)
	if offset == 0 {
		at := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if !at.After(now) {
			candidate = now.AddDate(0, 0, 7)
		}
	}
	return candidate
}
