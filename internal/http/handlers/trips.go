package handlers

import (
	"net/http"
	"strings"

	"ambulance/internal/http/middleware"
	"ambulance/internal/services"

	"github.com/gin-gonic/gin"
)

// TripsHandler serves saved trips and the hospital reference list.
type TripsHandler struct {
	Gateway *services.TripGateway
}

func (h TripsHandler) GetTrip(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, http.StatusBadRequest, "invalid_trip_id", "trip id is required", nil)
		return
	}
	trip, err := h.Gateway.GetTrip(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// GetTripSlip returns the printable trip slip (inline PDF).
func (h TripsHandler) GetTripSlip(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	trip, err := h.Gateway.GetTrip(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	svc := services.DocsService{RequestID: middleware.GetRequestID(c)}
	pdfBytes, filename, err := svc.GenerateTripSlip(trip)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "pdf_failed", "failed to render trip slip", nil)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// ListHospitals never fails; an unavailable table yields an empty list.
func (h TripsHandler) ListHospitals(c *gin.Context) {
	c.JSON(http.StatusOK, h.Gateway.ListHospitals(c.Request.Context()))
}
