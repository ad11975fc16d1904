package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"slotify/models"
	ai "slotify/services/intelligence"

	"go.uber.org/zap"
)

// Recommender suggests candidate time slots for a booking intent.
//
// Two paths exist. The completion-backed path asks for 2-3 slots that
// respect business hours and the user's existing bookings. The
// deterministic path resolves the intent's own day/time phrases into a
// single slot; it runs whenever the intent carries an explicit
// preferred time, when no completion client is configured, or when the
// upstream call fails. The deterministic path does NOT re-check the
// slot against existing bookings; callers must not assume it is
// conflict-free.
type Recommender struct {
	Client ai.CompletionClient // nil when no completion service is configured
	Logger *zap.Logger

	now func() time.Time
}

func NewRecommender(client ai.CompletionClient, logger *zap.Logger) *Recommender {
	return &Recommender{Client: client, Logger: logger, now: time.Now}
}

func (r *Recommender) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

const suggestPrompt = `You are a scheduling assistant. Suggest 2 or 3 candidate time slots for this request.
Rules:
- stay within business hours, 09:00 to 18:00
- avoid the existing bookings listed below and leave a 15 minute buffer around them
- anchor close to any explicitly stated day or time
- every slot must start after %s
Request: event type %q, preferred day %q, preferred window %q, duration %d minutes.
Existing bookings:
%s
Respond with ONLY a JSON array, no prose and no markdown, of objects shaped like
{"start": "<RFC3339>", "end": "<RFC3339>", "label": "<short human label>"}`

// Suggest produces one or more candidate slots for the intent.
func (r *Recommender) Suggest(ctx context.Context, intent *models.BookingIntent, existing []models.Booking) []models.TimeSlot {
	if r.Client != nil && intent.PreferredTime == "" {
		if slots, err := r.suggestViaCompletion(ctx, intent, existing); err == nil {
			return slots
		} else {
			r.Logger.Warn("slot suggestion",
				zap.String("event", "completion_fallback"),
				zap.String("reason", err.Error()))
		}
	}
	return []models.TimeSlot{r.deterministicSlot(intent)}
}

func (r *Recommender) suggestViaCompletion(ctx context.Context, intent *models.BookingIntent, existing []models.Booking) ([]models.TimeSlot, error) {
	now := r.clock()

	var sb strings.Builder
	for _, b := range existing {
		if b.Status == models.BookingCancelled {
			continue
		}
		fmt.Fprintf(&sb, "- %s to %s: %s\n", b.Start.Format(time.RFC3339), b.End.Format(time.RFC3339), b.Title)
	}
	if sb.Len() == 0 {
		sb.WriteString("(none)\n")
	}

	prompt := fmt.Sprintf(suggestPrompt,
		now.Format(time.RFC3339),
		intent.EventType, intent.PreferredDay, intent.PreferredWindow,
		intent.Duration(), sb.String())

	raw, err := r.Client.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed []struct {
		Start string `json:"start"`
		End   string `json:"end"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal([]byte(ai.StripCodeFences(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("completion returned invalid JSON: %w", err)
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("completion returned no slots")
	}

	slots := make([]models.TimeSlot, 0, len(parsed))
	for _, p := range parsed {
		start, err := time.Parse(time.RFC3339, p.Start)
		if err != nil {
			return nil, fmt.Errorf("completion returned invalid start %q", p.Start)
		}
		end, err := time.Parse(time.RFC3339, p.End)
		if err != nil {
			return nil, fmt.Errorf("completion returned invalid end %q", p.End)
		}
		if !end.After(start) || !start.After(now) {
			return nil, fmt.Errorf("completion returned an unusable slot")
		}
		label := p.Label
		if label == "" {
			label = formatSlotLabel(start)
		}
		slots = append(slots, models.TimeSlot{Start: start, End: end, Label: label})
	}
	if len(slots) > 3 {
		slots = slots[:3]
	}
	return slots, nil
}

// deterministicSlot resolves the intent's day/time phrases into one
// candidate slot of the requested duration.
func (r *Recommender) deterministicSlot(intent *models.BookingIntent) models.TimeSlot {
	now := r.clock()

	hour, minute := ParseTimeOfDay(intent.PreferredTime)
	day := ResolveDay(intent.PreferredDay, now, hour, minute)

	start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
	end := start.Add(time.Duration(intent.Duration()) * time.Minute)

	return models.TimeSlot{Start: start, End: end, Label: formatSlotLabel(start)}
}

func formatSlotLabel(start time.Time) string {
	return start.Format("Monday, Jan 2 at 3:04 PM")
}
