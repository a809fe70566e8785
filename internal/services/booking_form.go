package services

import (
	"context"
	"fmt"
	"sync"

	"ambulance/internal/domain"
	"ambulance/internal/domain/models"
	"ambulance/internal/utils"
)

const msgFillRequired = "Please fill in all required fields"

// ErrSubmitInFlight is returned when Submit is called while a write for the
// same draft is still pending.
var ErrSubmitInFlight = domain.ConflictError{Resource: "trip", Msg: "a save is already in progress"}

// TripSaver persists a validated draft.
type TripSaver interface {
	SaveTrip(ctx context.Context, trip models.TripData) SaveResult
}

// BookingForm owns one draft trip and the field errors shown next to it.
// Merges and submits are serialized by mu; at most one write is in flight.
type BookingForm struct {
	mu       sync.Mutex
	draft    models.TripData
	errors   domain.FormErrors
	pending  bool
	saver    TripSaver
	validate func(models.TripData) (bool, domain.FormErrors)
	notifier Notifier
}

// FormState is a copy of the form at one point in time.
type FormState struct {
	Draft   models.TripData   `json:"draft"`
	Errors  domain.FormErrors `json:"errors"`
	Pending bool              `json:"pending"`
}

func NewBookingForm(saver TripSaver, validator TripValidator, notifier Notifier) *BookingForm {
	return &BookingForm{
		draft:    models.NewDraft(),
		errors:   domain.NewFormErrors(),
		saver:    saver,
		validate: validator.Validate,
		notifier: notifier,
	}
}

func (f *BookingForm) Snapshot() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *BookingForm) snapshotLocked() FormState {
	return FormState{Draft: f.draft, Errors: f.errors.Clone(), Pending: f.pending}
}

// UpdatePatientDetails merges p over the patient section. A key sent as null
// resets the field.
func (f *BookingForm) UpdatePatientDetails(p models.PatientDetailsPatch) FormState {
	f.mu.Lock()
	defer f.mu.Unlock()

	d := &f.draft.PatientDetails
	touched := []string{}
	if p.Name != nil || p.Sent(FieldName) {
		d.Name = deref(p.Name)
		touched = append(touched, FieldName)
	}
	if p.PhoneNumber != nil || p.Sent(FieldPhoneNumber) {
		d.PhoneNumber = p.PhoneNumber
		touched = append(touched, FieldPhoneNumber)
	}
	if p.Email != nil || p.Sent(FieldEmail) {
		d.Email = p.Email
		touched = append(touched, FieldEmail)
	}
	if p.Age != nil || p.Sent(FieldAge) {
		d.Age = p.Age
		touched = append(touched, FieldAge)
	}
	if p.Gender != nil || p.Sent(FieldGender) {
		d.Gender = p.Gender
		touched = append(touched, FieldGender)
	}
	if p.Condition != nil || p.Sent(FieldCondition) {
		d.Condition = deref(p.Condition)
		touched = append(touched, FieldCondition)
	}
	f.clearErrorsLocked(domain.SectionPatientDetails, touched)
	return f.snapshotLocked()
}

func (f *BookingForm) UpdateTripRoute(p models.TripRoutePatch) FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applyRouteLocked(p)
	return f.snapshotLocked()
}

func (f *BookingForm) applyRouteLocked(p models.TripRoutePatch) {
	r := &f.draft.TripRoute
	touched := []string{}
	if p.PickupLocation != nil || p.Sent(FieldPickupLocation) {
		r.PickupLocation = deref(p.PickupLocation)
		touched = append(touched, FieldPickupLocation)
	}
	if p.DropLocation != nil || p.Sent(FieldDropLocation) {
		r.DropLocation = deref(p.DropLocation)
		touched = append(touched, FieldDropLocation)
	}
	if p.Hospital != nil || p.Sent(FieldHospital) {
		r.Hospital = p.Hospital
		touched = append(touched, FieldHospital)
	}
	if p.Distance != nil || p.Sent(FieldDistance) {
		r.Distance = deref(p.Distance)
		touched = append(touched, FieldDistance)
	}
	f.clearErrorsLocked(domain.SectionTripRoute, touched)
}

// UpdateFinancials merges p and, when expenses changed, recomputes the total.
// Expenses sent as null empties every category.
func (f *BookingForm) UpdateFinancials(p models.FinancialsPatch) FormState {
	f.mu.Lock()
	defer f.mu.Unlock()

	fin := &f.draft.Financials
	touched := []string{}
	if p.MoneyCharged != nil || p.Sent(FieldMoneyCharged) {
		fin.MoneyCharged = deref(p.MoneyCharged)
		touched = append(touched, FieldMoneyCharged)
	}
	if p.Expenses != nil || p.Sent(FieldExpenses) {
		fin.Expenses = deref(p.Expenses)
		fin.RecomputeTotal()
		touched = append(touched, FieldExpenses)
	}
	f.clearErrorsLocked(domain.SectionFinancials, touched)
	return f.snapshotLocked()
}

// deref returns the zero value for a nil pointer.
func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (f *BookingForm) UpdateTripMode(mode models.TripMode) FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.TripMode = mode
	return f.snapshotLocked()
}

// SelectHospital sets the route's hospital and replaces the drop location
// with the hospital's address. Unknown names leave the draft unchanged.
func (f *BookingForm) SelectHospital(name string, hospitals []models.Hospital) (FormState, bool) {
	h, ok := models.FindHospital(hospitals, name)

	f.mu.Lock()
	defer f.mu.Unlock()
	if !ok {
		return f.snapshotLocked(), false
	}
	hospital, address := h.Name, h.Address
	f.applyRouteLocked(models.TripRoutePatch{Hospital: &hospital, DropLocation: &address})
	return f.snapshotLocked(), true
}

func (f *BookingForm) clearErrorsLocked(section string, fields []string) {
	for _, field := range fields {
		f.errors.Clear(section, field)
	}
}

// Submit validates the draft and hands it to the saver. The draft is reset
// only after a successful write; on failure it is kept for a retry.
func (f *BookingForm) Submit(ctx context.Context) (models.TripData, error) {
	f.mu.Lock()
	if f.pending {
		f.mu.Unlock()
		return models.TripData{}, ErrSubmitInFlight
	}

	ok, errs := f.validate(f.draft)
	f.errors = errs
	if !ok {
		f.mu.Unlock()
		f.notify(ctx, LevelError, msgFillRequired)
		return models.TripData{}, domain.ValidationError{Field: "trip", Msg: msgFillRequired, Details: errs.Clone()}
	}

	f.pending = true
	draft := f.draft
	f.mu.Unlock()

	var res SaveResult
	defer func() {
		f.mu.Lock()
		f.pending = false
		if res.Success {
			f.draft = models.NewDraft()
			f.errors = domain.NewFormErrors()
		}
		f.mu.Unlock()
	}()

	res = f.saver.SaveTrip(ctx, draft)
	if !res.Success {
		utils.LogEventCtx(ctx, "booking", "submit", fmt.Sprintf("save failed: %v", res.Err))
		return models.TripData{}, domain.InternalError{Msg: msgSaveFailed, Err: res.Err}
	}
	utils.LogEventCtx(ctx, "booking", "submit", "trip_id="+res.Data.ID)
	return res.Data, nil
}

func (f *BookingForm) notify(ctx context.Context, level NotificationLevel, msg string) {
	if f.notifier != nil {
		f.notifier.Notify(ctx, level, msg)
	}
}
