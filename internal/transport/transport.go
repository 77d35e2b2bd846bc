package transport

import (
	"net/http"
	"time"

	"github.com/micdrop/openmic/internal/service"
	"github.com/micdrop/openmic/internal/transport/middleware"
	"github.com/micdrop/openmic/pkg/auth"

	"github.com/gin-gonic/gin"
)

// Handlers bundles the dependencies InitRoutes wires up.
type Handlers struct {
	Auth   *AuthHandler
	User   *UserHandler
	Venue  *VenueHandler
	Event  *EventHandler
	Tokens *auth.TokenManager

	// AuthService is needed by the auth middleware to resolve tokens back
	// into users.
	AuthService service.AuthService

	// RequestTimeout bounds handler contexts, mirroring the http.Server
	// write timeout.
	RequestTimeout time.Duration
}

func InitRoutes(h *Handlers) *gin.Engine {
	router := gin.New()

	timeout := h.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(timeout))

	authRequired := middleware.Auth(h.Tokens, h.AuthService)

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.Auth.Register)
			authGroup.POST("/login", h.Auth.Login)
			authGroup.GET("/me", authRequired, h.Auth.Me)
			authGroup.GET("/me/events", authRequired, h.User.GetMyEvents)
		}

		users := api.Group("/users")
		{
			users.GET("/:id", h.User.GetUser)
			users.PUT("/me", authRequired, h.User.UpdateProfile)
			users.DELETE("/:id", authRequired, h.User.DeleteUser)
		}

		venues := api.Group("/venues")
		{
			venues.GET("", h.Venue.GetAllVenues)
			venues.GET("/:id", h.Venue.GetVenue)
			venues.GET("/:id/reviews", h.Venue.GetVenueReviews)

			venues.POST("", authRequired, h.Venue.CreateVenue)
			venues.PUT("/:id", authRequired, h.Venue.UpdateVenue)
			venues.DELETE("/:id", authRequired, h.Venue.DeleteVenue)
			venues.POST("/:id/reviews", authRequired, h.Venue.CreateReview)
		}

		// Radius search lives outside /venues because gin's router rejects a
		// static "radius" segment next to the ":id" wildcard.
		api.GET("/search/venues/:zipcode/:distance", h.Venue.GetVenuesInRadius)

		reviews := api.Group("/reviews")
		{
			reviews.DELETE("/:id", authRequired, h.Venue.DeleteReview)
		}

		events := api.Group("/events")
		{
			events.GET("", h.Event.GetAllEvents)
			events.GET("/:id", h.Event.GetEvent)
			events.GET("/:id/performers", h.Event.GetPerformers)
			events.GET("/:id/attendees", h.Event.GetAttendees)

			events.POST("", authRequired, h.Event.CreateEvent)
			events.PUT("/:id", authRequired, h.Event.UpdateEvent)
			events.PUT("/:id/cancel", authRequired, h.Event.CancelEvent)

			events.POST("/:id/perform", authRequired, h.Event.RegisterPerformer)
			events.DELETE("/:id/performers", authRequired, h.Event.UnregisterPerformer)
			events.POST("/:id/attend", authRequired, h.Event.RegisterAttendee)
			events.DELETE("/:id/attendees", authRequired, h.Event.UnregisterAttendee)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
		})
	})

	return router
}
