package services

import (
	"ambulance/internal/domain"
	"ambulance/internal/domain/models"
	"ambulance/internal/utils"
)

// Field names as the client knows them.
const (
	FieldName           = "name"
	FieldPhoneNumber    = "phoneNumber"
	FieldEmail          = "email"
	FieldAge            = "age"
	FieldGender         = "gender"
	FieldCondition      = "condition"
	FieldPickupLocation = "pickupLocation"
	FieldDropLocation   = "dropLocation"
	FieldHospital       = "hospital"
	FieldDistance       = "distance"
	FieldMoneyCharged   = "moneyCharged"
	FieldExpenses       = "expenses"
)

// TripValidator checks a draft before it is sent to storage. With
// StrictContact, non-empty phone and email values must also be well formed.
type TripValidator struct {
	StrictContact bool
}

// ValidateTrip applies the base rules.
func ValidateTrip(t models.TripData) (bool, domain.FormErrors) {
	return TripValidator{}.Validate(t)
}

// Validate evaluates every rule and reports all failures at once.
// Distance and money charged must be positive: 0 counts as missing.
func (v TripValidator) Validate(t models.TripData) (bool, domain.FormErrors) {
	errs := domain.NewFormErrors()

	if t.PatientDetails.Name == "" {
		errs.Add(domain.SectionPatientDetails, FieldName, "Patient name is required")
	}
	if t.PatientDetails.Condition == "" {
		errs.Add(domain.SectionPatientDetails, FieldCondition, "Patient condition is required")
	}
	if t.TripRoute.PickupLocation == "" {
		errs.Add(domain.SectionTripRoute, FieldPickupLocation, "Pickup location is required")
	}
	if t.TripRoute.DropLocation == "" {
		errs.Add(domain.SectionTripRoute, FieldDropLocation, "Drop location is required")
	}
	if !(t.TripRoute.Distance > 0) {
		errs.Add(domain.SectionTripRoute, FieldDistance, "Distance is required")
	}
	if !(t.Financials.MoneyCharged > 0) {
		errs.Add(domain.SectionFinancials, FieldMoneyCharged, "Money charged is required")
	}

	if v.StrictContact {
		if p := t.PatientDetails.PhoneNumber; p != nil && *p != "" && !utils.IsValidPhoneNumber(*p) {
			errs.Add(domain.SectionPatientDetails, FieldPhoneNumber, "Invalid phone number")
		}
		if e := t.PatientDetails.Email; e != nil && *e != "" && !utils.IsValidEmail(*e) {
			errs.Add(domain.SectionPatientDetails, FieldEmail, "Invalid email address")
		}
	}

	return errs.Count() == 0, errs
}
