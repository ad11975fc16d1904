package scheduling

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"slotify/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCompletion struct {
	reply string
	err   error
	calls int
}

func (s *stubCompletion) GenerateContent(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func fixedNow() time.Time {
	// A Tuesday morning.
	return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
}

func testRecommender(client *stubCompletion) *Recommender {
	r := NewRecommender(nil, zap.NewNop())
	if client != nil {
		r.Client = client
	}
	r.now = fixedNow
	return r
}

func TestSuggestDeterministicWithoutClient(t *testing.T) {
	r := testRecommender(nil)
	intent := &models.BookingIntent{
		EventType:       "meeting",
		PreferredDay:    "tuesday",
		PreferredTime:   "2pm",
		DurationMinutes: 30,
	}

	slots := r.Suggest(context.Background(), intent, nil)

	require.Len(t, slots, 1)
	assert.Equal(t, time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC), slots[0].Start)
	assert.Equal(t, time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC), slots[0].End)
	assert.NotEmpty(t, slots[0].Label)
}

func TestSuggestExplicitTimeSkipsCompletion(t *testing.T) {
	client := &stubCompletion{reply: "[]"}
	r := testRecommender(client)
	intent := &models.BookingIntent{EventType: "call", PreferredTime: "10am"}

	slots := r.Suggest(context.Background(), intent, nil)

	require.Len(t, slots, 1)
	assert.Equal(t, 0, client.calls, "an explicit preferred time resolves deterministically")
	assert.Equal(t, 10, slots[0].Start.Hour())
}

func TestSuggestUsesCompletionSlots(t *testing.T) {
	start1 := fixedNow().Add(24 * time.Hour)
	start2 := fixedNow().Add(48 * time.Hour)
	client := &stubCompletion{reply: fmt.Sprintf(
		`[{"start":%q,"end":%q,"label":"Wednesday morning"},{"start":%q,"end":%q,"label":""}]`,
		start1.Format(time.RFC3339), start1.Add(time.Hour).Format(time.RFC3339),
		start2.Format(time.RFC3339), start2.Add(time.Hour).Format(time.RFC3339),
	)}
	r := testRecommender(client)
	intent := &models.BookingIntent{EventType: "meeting"}

	slots := r.Suggest(context.Background(), intent, nil)

	require.Len(t, slots, 2)
	assert.Equal(t, "Wednesday morning", slots[0].Label)
	assert.NotEmpty(t, slots[1].Label, "missing labels are synthesized")
	for _, slot := range slots {
		assert.True(t, slot.Start.After(fixedNow()), "every suggested slot starts in the future")
		assert.True(t, slot.End.After(slot.Start))
	}
}

func TestSuggestFallsBackOnCompletionFailure(t *testing.T) {
	cases := map[string]*stubCompletion{
		"transport error": {err: errors.New("upstream down")},
		"invalid json":    {reply: "sure, how about tomorrow at noon?"},
		"empty array":     {reply: "[]"},
		"past slot": {reply: fmt.Sprintf(
			`[{"start":%q,"end":%q,"label":"yesterday"}]`,
			fixedNow().Add(-24*time.Hour).Format(time.RFC3339),
			fixedNow().Add(-23*time.Hour).Format(time.RFC3339),
		)},
	}
	for name, client := range cases {
		r := testRecommender(client)
		intent := &models.BookingIntent{EventType: "meeting"}

		slots := r.Suggest(context.Background(), intent, nil)

		require.Len(t, slots, 1, name)
		assert.Equal(t, 1, client.calls, name)
		// Deterministic fallback: tomorrow at the default hour.
		assert.Equal(t, time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC), slots[0].Start, name)
	}
}

func TestSuggestCapsCompletionSlotsAtThree(t *testing.T) {
	var payload string
	for i := 0; i < 5; i++ {
		if i > 0 {
			payload += ","
		}
		start := fixedNow().Add(time.Duration(i+1) * 24 * time.Hour)
		payload += fmt.Sprintf(`{"start":%q,"end":%q,"label":"slot"}`,
			start.Format(time.RFC3339), start.Add(time.Hour).Format(time.RFC3339))
	}
	client := &stubCompletion{reply: "[" + payload + "]"}
	r := testRecommender(client)

	slots := r.Suggest(context.Background(), &models.BookingIntent{EventType: "meeting"}, nil)

	assert.Len(t, slots, 3)
}

func TestDeterministicSlotDefaultDuration(t *testing.T) {
	r := testRecommender(nil)
	intent := &models.BookingIntent{EventType: "lunch", PreferredDay: "friday", PreferredTime: "noon"}

	slots := r.Suggest(context.Background(), intent, nil)

	require.Len(t, slots, 1)
	assert.Equal(t, time.Date(2026, 3, 13, 12, 0, 0, 0, time.UTC), slots[0].Start)
	assert.Equal(t, time.Hour, slots[0].End.Sub(slots[0].Start))
}
