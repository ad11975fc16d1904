package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCompletion struct {
	reply string
	err   error
}

func (s *stubCompletion) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func TestExtractParsesStrictJSON(t *testing.T) {
	client := &stubCompletion{reply: `{
		"event_type": "coffee",
		"preferred_day": "tuesday",
		"preferred_time": "2pm",
		"duration_minutes": 30,
		"invitees": ["Sarah"],
		"notes": "catch up"
	}`}
	e := NewIntentExtractor(client, zap.NewNop())

	intent, err := e.Extract(context.Background(), "coffee with Sarah on Tuesday at 2pm")
	require.NoError(t, err)

	assert.Equal(t, "coffee", intent.EventType)
	assert.Equal(t, "tuesday", intent.PreferredDay)
	assert.Equal(t, "2pm", intent.PreferredTime)
	assert.Equal(t, 30, intent.Duration())
	assert.Equal(t, []string{"Sarah"}, intent.Invitees)
}

func TestExtractToleratesCodeFences(t *testing.T) {
	client := &stubCompletion{reply: "```json\n{\"event_type\": \"call\"}\n```"}
	e := NewIntentExtractor(client, zap.NewNop())

	intent, err := e.Extract(context.Background(), "quick call")
	require.NoError(t, err)
	assert.Equal(t, "call", intent.EventType)
}

func TestExtractRejectsInvalidOutput(t *testing.T) {
	cases := map[string]string{
		"prose":              "Sure! Sounds like a meeting on Tuesday.",
		"missing event_type": `{"preferred_day": "tuesday"}`,
		"blank event_type":   `{"event_type": "  "}`,
		"negative duration":  `{"event_type": "call", "duration_minutes": -15}`,
	}
	for name, reply := range cases {
		e := NewIntentExtractor(&stubCompletion{reply: reply}, zap.NewNop())

		_, err := e.Extract(context.Background(), "anything")

		var pe *IntentParseError
		assert.ErrorAs(t, err, &pe, name)
	}
}

func TestExtractPropagatesTransportErrors(t *testing.T) {
	e := NewIntentExtractor(&stubCompletion{err: errors.New("upstream down")}, zap.NewNop())

	_, err := e.Extract(context.Background(), "anything")
	require.Error(t, err)

	var pe *IntentParseError
	assert.False(t, errors.As(err, &pe), "transport failures are not parse failures")
}

func TestExtractDefaultsDuration(t *testing.T) {
	e := NewIntentExtractor(&stubCompletion{reply: `{"event_type": "meeting"}`}, zap.NewNop())

	intent, err := e.Extract(context.Background(), "set up a meeting")
	require.NoError(t, err)
	assert.Equal(t, 60, intent.Duration())
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences(`{"a":1}`))
}
