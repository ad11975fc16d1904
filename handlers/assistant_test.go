package handlers

import (
	"testing"

	"slotify/models"

	"github.com/stretchr/testify/assert"
)

func TestParseSlotSelection(t *testing.T) {
	cases := []struct {
		text    string
		offered int
		idx     int
		ok      bool
	}{
		{"1", 3, 0, true},
		{"2", 3, 1, true},
		{"option 3", 3, 2, true},
		{"slot 2", 3, 1, true},
		{"first", 3, 0, true},
		{"The second one", 3, 1, true},
		{"third", 2, 0, false}, // out of range
		{"4", 3, 0, false},
		{"0", 3, 0, false},
		{"yes", 1, 0, true},
		{"Book it!", 1, 0, true},
		{"yes", 3, 0, false}, // ambiguous with several slots
		{"actually make it a dinner", 3, 0, false},
	}
	for _, tc := range cases {
		idx, ok := parseSlotSelection(tc.text, tc.offered)
		assert.Equal(t, tc.ok, ok, "text %q", tc.text)
		if tc.ok {
			assert.Equal(t, tc.idx, idx, "text %q", tc.text)
		}
	}
}

func TestTitleFromIntent(t *testing.T) {
	assert.Equal(t, "Coffee with Sarah", titleFromIntent(&models.BookingIntent{
		EventType: "coffee",
		Invitees:  []string{"Sarah"},
	}))
	assert.Equal(t, "Standup", titleFromIntent(&models.BookingIntent{EventType: "standup"}))
	assert.Equal(t, "Meeting", titleFromIntent(&models.BookingIntent{}))
}
