package handlers

import (
	"net/http"

	"ambulance/internal/domain"
	"ambulance/internal/domain/models"
	"ambulance/internal/services"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves the per-user booking draft.
type BookingHandler struct {
	Forms         *services.FormSessions
	Gateway       *services.TripGateway
	Notifications *services.NotificationCenter
}

type draftResponse struct {
	services.FormState
	Notifications []services.Notification `json:"notifications"`
}

type tripModeRequest struct {
	TripMode models.TripMode `json:"tripMode" binding:"required"`
}

type hospitalRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h BookingHandler) form(c *gin.Context) (*services.BookingForm, string, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return nil, "", false
	}
	return h.Forms.For(userID), userID, true
}

func (h BookingHandler) respondState(c *gin.Context, status int, userID string, st services.FormState) {
	c.JSON(status, draftResponse{FormState: st, Notifications: h.Notifications.Drain(userID)})
}

// GetDraft returns the draft, its field errors and pending notifications.
func (h BookingHandler) GetDraft(c *gin.Context) {
	f, userID, ok := h.form(c)
	if !ok {
		return
	}
	h.respondState(c, http.StatusOK, userID, f.Snapshot())
}

func (h BookingHandler) PatchPatientDetails(c *gin.Context) {
	f, userID, ok := h.form(c)
	if !ok {
		return
	}
	var p models.PatientDetailsPatch
	if !BindJSONOrError(c, &p) {
		return
	}
	if p.Gender != nil && !p.Gender.Valid() {
		RespondDomainError(c, domain.ValidationError{Field: "gender", Msg: "must be one of Male, Female, Other, Not Specified"})
		return
	}
	h.respondState(c, http.StatusOK, userID, f.UpdatePatientDetails(p))
}

func (h BookingHandler) PatchTripRoute(c *gin.Context) {
	f, userID, ok := h.form(c)
	if !ok {
		return
	}
	var p models.TripRoutePatch
	if !BindJSONOrError(c, &p) {
		return
	}
	h.respondState(c, http.StatusOK, userID, f.UpdateTripRoute(p))
}

func (h BookingHandler) PatchFinancials(c *gin.Context) {
	f, userID, ok := h.form(c)
	if !ok {
		return
	}
	var p models.FinancialsPatch
	if !BindJSONOrError(c, &p) {
		return
	}
	h.respondState(c, http.StatusOK, userID, f.UpdateFinancials(p))
}

func (h BookingHandler) PatchTripMode(c *gin.Context) {
	f, userID, ok := h.form(c)
	if !ok {
		return
	}
	var req tripModeRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if !req.TripMode.Valid() {
		RespondDomainError(c, domain.ValidationError{Field: "tripMode", Msg: "must be Online or Offline"})
		return
	}
	h.respondState(c, http.StatusOK, userID, f.UpdateTripMode(req.TripMode))
}

// SelectHospital fills hospital and drop location from the hospital list.
func (h BookingHandler) SelectHospital(c *gin.Context) {
	f, userID, ok := h.form(c)
	if !ok {
		return
	}
	var req hospitalRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	st, found := f.SelectHospital(req.Name, h.Gateway.ListHospitals(c.Request.Context()))
	if !found {
		RespondDomainError(c, domain.NotFoundError{Resource: "hospital"})
		return
	}
	h.respondState(c, http.StatusOK, userID, st)
}

// Submit validates and saves the draft. On success the draft is reset.
func (h BookingHandler) Submit(c *gin.Context) {
	f, userID, ok := h.form(c)
	if !ok {
		return
	}
	trip, err := f.Submit(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"trip":          trip,
		"notifications": h.Notifications.Drain(userID),
	})
}

func (h BookingHandler) DiscardDraft(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	h.Forms.Discard(userID)
	c.Status(http.StatusNoContent)
}
