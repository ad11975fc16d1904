package models

// AssistantRequest is the payload coming from the frontend into /api/assistant/chat.
type AssistantRequest struct {
	Text string `json:"text"` // user's message
}

// AssistantAction is a single button/card action returned with a reply.
type AssistantAction struct {
	Label     string `json:"label"`                // text on the button
	Type      string `json:"type"`                 // e.g. "select_slot", "connect_calendar"
	SlotIndex int    `json:"slot_index,omitempty"` // when selecting a suggested slot
}

// AssistantResponse is what the chat handler returns to the frontend.
type AssistantResponse struct {
	ResponseText string            `json:"response"`
	Intent       *BookingIntent    `json:"intent,omitempty"`
	Slots        []TimeSlot        `json:"slots,omitempty"`
	Actions      []AssistantAction `json:"actions,omitempty"`
	Booking      *Booking          `json:"booking,omitempty"`
	Sync         *SyncOutcome      `json:"sync,omitempty"`
}

// AssistantContext is the per-user conversation state kept in Redis
// between turns: the intent awaiting slot selection and the slots that
// were offered.
type AssistantContext struct {
	PendingIntent *BookingIntent `json:"pendingIntent,omitempty"`
	OfferedSlots  []TimeSlot     `json:"offeredSlots,omitempty"`
}
