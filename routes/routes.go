package routes

import (
	"net/http"
	"time"

	"slotify/handlers"
	"slotify/middleware"
	"slotify/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers user endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.User.RegisterUserHandler)
		api.POST("/login", hb.User.AuthenticateUserHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.GET("/me", hb.User.GetUserByIDHandler)
		api.PUT("/me", hb.User.UpdateUserHandler)
		api.DELETE("/revoke", hb.User.RevokeUserAuthTokenHandler)
	}
}

// RegisterBookingRoutes sets up the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.POST("", hb.Booking.CreateBookingHandler)
		api.GET("", hb.Booking.GetBookingsHandler)
		api.GET("/:id", hb.Booking.GetBookingHandler)
		api.PUT("/:id/confirm", hb.Booking.ConfirmBookingHandler)
		api.PUT("/:id/cancel", hb.Booking.CancelBookingHandler)
	}
}

// RegisterCalendarRoutes sets up the calendar connection endpoints. The
// OAuth callback stays outside the auth group: the provider redirect
// carries no bearer token, the state parameter is the correlation.
func RegisterCalendarRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/calendar/callback", hb.Calendar.CalendarCallbackHandler)

	api := r.Group("/api/calendar")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.POST("/connect", hb.Calendar.ConnectCalendarHandler)
		api.POST("/sync", hb.Calendar.SyncCalendarHandler)
		api.GET("/status", hb.Calendar.CalendarStatusHandler)
		api.DELETE("/connection", hb.Calendar.DisconnectCalendarHandler)
	}
}

// RegisterAssistantRoutes registers the chat endpoints.
func RegisterAssistantRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/assistant")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.POST("/chat", hb.Assistant.ChatHandler)
		api.POST("/select-slot", hb.Assistant.SelectSlotHandler)
	}
}

// RegisterContactRoutes registers the contact list endpoint.
func RegisterContactRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/contacts")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.UserRepo))
		api.GET("", hb.Contacts.ListContactsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterUserRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterCalendarRoutes(r, hb)
	RegisterAssistantRoutes(r, hb)
	RegisterContactRoutes(r, hb)
	RegisterHealthRoute(r)
}
