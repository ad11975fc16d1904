// File: slotify/handlers/bundle.go
package handlers

import (
	userRepoPkg "slotify/database/repository/user"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	UserRepo userRepoPkg.UserRepository

	User      *UserHandler
	Booking   *BookingHandler
	Calendar  *CalendarHandler
	Contacts  *ContactHandler
	Assistant *AssistantHandler
}
