package api

import (
	"log"
	stdhttp "net/http"

	intconfig "ambulance/internal/config"
	h "ambulance/internal/http/handlers"
	"ambulance/internal/http/middleware"
	"ambulance/internal/services"

	"github.com/gin-gonic/gin"
)

// Deps are the long-lived services the handlers are built from.
type Deps struct {
	Forms         *services.FormSessions
	Gateway       *services.TripGateway
	Notifications *services.NotificationCenter
	Monitor       *services.ConnectionMonitor
}

func NewRouter(env intconfig.Env, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	booking := h.BookingHandler{Forms: deps.Forms, Gateway: deps.Gateway, Notifications: deps.Notifications}
	trips := h.TripsHandler{Gateway: deps.Gateway}
	stream := h.NewStreamHandler(deps.Gateway, env.CORSOrigins)
	system := h.SystemHandler{Monitor: deps.Monitor}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", system.DBCheck)
		api.GET("/connection", system.Connection)

		authed := api.Group("", middleware.Auth([]byte(env.JWTSecret)))

		authed.GET("/hospitals", trips.ListHospitals)

		draft := authed.Group("/booking/draft")
		draft.GET("", booking.GetDraft)
		draft.DELETE("", booking.DiscardDraft)
		draft.PATCH("/patient-details", booking.PatchPatientDetails)
		draft.PATCH("/trip-route", booking.PatchTripRoute)
		draft.PATCH("/financials", booking.PatchFinancials)
		draft.PATCH("/trip-mode", booking.PatchTripMode)
		draft.POST("/hospital", booking.SelectHospital)
		authed.POST("/booking/submit", booking.Submit)

		// stream is registered before :id so it is not taken as a trip id
		tripRoutes := authed.Group("/trips")
		tripRoutes.GET("/stream", stream.Stream)
		tripRoutes.GET("/:id", trips.GetTrip)
		tripRoutes.GET("/:id/slip", trips.GetTripSlip)
	}

	return r
}
