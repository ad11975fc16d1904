package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"slotify/models"

	"go.uber.org/zap"
)

// IntentParseError signals that the completion service returned output
// that is not valid against the BookingIntent schema. The user is
// asked to rephrase; there is no retry.
type IntentParseError struct {
	Reason string
}

func (e *IntentParseError) Error() string {
	return fmt.Sprintf("could not parse booking intent: %s", e.Reason)
}

const intentPrompt = `You are a scheduling assistant. Extract the booking intent from the user's message.
Respond with ONLY a JSON object, no prose and no markdown, in exactly this shape:
{
  "event_type": "<short label such as call, meeting, lunch>",
  "preferred_day": "<weekday or day phrase if stated, else empty>",
  "preferred_time": "<time phrase if stated, else empty>",
  "preferred_window": "<morning/afternoon/evening if stated, else empty>",
  "location": "<location if stated, else empty>",
  "duration_minutes": <integer, 60 if not stated>,
  "invitees": ["<names of people mentioned>"],
  "notes": "<anything else relevant, else empty>"
}
event_type is required and must not be empty.

User message: %q`

// IntentExtractor turns one free-text message into a BookingIntent.
type IntentExtractor struct {
	Client CompletionClient
	Logger *zap.Logger
}

func NewIntentExtractor(client CompletionClient, logger *zap.Logger) *IntentExtractor {
	return &IntentExtractor{Client: client, Logger: logger}
}

// Extract sends the fixed instruction template plus the raw message to
// the completion service and validates the strict-JSON result. One call
// per user message.
func (e *IntentExtractor) Extract(ctx context.Context, userMessage string) (*models.BookingIntent, error) {
	if e.Client == nil {
		return nil, fmt.Errorf("no completion service configured")
	}
	raw, err := e.Client.GenerateContent(ctx, fmt.Sprintf(intentPrompt, userMessage))
	if err != nil {
		return nil, fmt.Errorf("completion service: %w", err)
	}

	var intent models.BookingIntent
	if err := json.Unmarshal([]byte(StripCodeFences(raw)), &intent); err != nil {
		e.Logger.Warn("intent extraction",
			zap.String("event", "parse_failed"),
			zap.String("reason", err.Error()))
		return nil, &IntentParseError{Reason: "response is not valid JSON"}
	}
	if strings.TrimSpace(intent.EventType) == "" {
		return nil, &IntentParseError{Reason: "missing required field event_type"}
	}
	if intent.DurationMinutes < 0 {
		return nil, &IntentParseError{Reason: "duration_minutes must not be negative"}
	}
	return &intent, nil
}

// StripCodeFences removes a markdown code fence wrapper if the model
// added one despite the instructions.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
