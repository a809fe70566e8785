package services

import (
	"math"
	"testing"

	"ambulance/internal/domain"
	"ambulance/internal/domain/models"
)

func TestValidateTripScenarioAPasses(t *testing.T) {
	ok, errs := ValidateTrip(filledDraft())
	if !ok || errs.Count() != 0 {
		t.Fatalf("expected valid draft, got %v", errs)
	}
}

func TestValidateTripScenarioBZeroDistanceAndMoney(t *testing.T) {
	d := filledDraft()
	d.TripRoute.Distance = 0
	d.Financials.MoneyCharged = 0

	ok, errs := ValidateTrip(d)
	if ok {
		t.Fatalf("expected validation failure")
	}
	if errs.Count() != 2 {
		t.Fatalf("expected exactly 2 errors, got %d: %v", errs.Count(), errs)
	}
	if !errs.Has(domain.SectionTripRoute, FieldDistance) || !errs.Has(domain.SectionFinancials, FieldMoneyCharged) {
		t.Fatalf("unexpected errors %v", errs)
	}
}

func TestValidateTripCompleteness(t *testing.T) {
	type rule struct {
		section, field string
		clear          func(*models.TripData)
	}
	rules := []rule{
		{domain.SectionPatientDetails, FieldName, func(d *models.TripData) { d.PatientDetails.Name = "" }},
		{domain.SectionPatientDetails, FieldCondition, func(d *models.TripData) { d.PatientDetails.Condition = "" }},
		{domain.SectionTripRoute, FieldPickupLocation, func(d *models.TripData) { d.TripRoute.PickupLocation = "" }},
		{domain.SectionTripRoute, FieldDropLocation, func(d *models.TripData) { d.TripRoute.DropLocation = "" }},
		{domain.SectionTripRoute, FieldDistance, func(d *models.TripData) { d.TripRoute.Distance = 0 }},
		{domain.SectionFinancials, FieldMoneyCharged, func(d *models.TripData) { d.Financials.MoneyCharged = 0 }},
	}

	// every subset of the six required fields
	for mask := 0; mask < 1<<len(rules); mask++ {
		d := filledDraft()
		missing := 0
		for i, r := range rules {
			if mask&(1<<i) != 0 {
				r.clear(&d)
				missing++
			}
		}
		ok, errs := ValidateTrip(d)
		if ok != (missing == 0) {
			t.Fatalf("mask %b: ok=%v with %d missing", mask, ok, missing)
		}
		if errs.Count() != missing {
			t.Fatalf("mask %b: expected %d errors, got %d (%v)", mask, missing, errs.Count(), errs)
		}
		for i, r := range rules {
			if (mask&(1<<i) != 0) != errs.Has(r.section, r.field) {
				t.Fatalf("mask %b: %s.%s presence mismatch", mask, r.section, r.field)
			}
		}
	}
}

func TestValidateTripRejectsNonPositiveNumbers(t *testing.T) {
	for _, v := range []float64{-1, math.NaN()} {
		d := filledDraft()
		d.TripRoute.Distance = v
		d.Financials.MoneyCharged = v
		if ok, errs := ValidateTrip(d); ok || errs.Count() != 2 {
			t.Fatalf("value %v should fail distance and moneyCharged, got %v", v, errs)
		}
	}
}

func TestValidateTripIgnoresOptionalFields(t *testing.T) {
	d := filledDraft()
	d.PatientDetails.Email = str("not-an-email")
	d.PatientDetails.PhoneNumber = str("123")
	if ok, errs := ValidateTrip(d); !ok {
		t.Fatalf("base rules must not check contact formats: %v", errs)
	}

	ok, errs := TripValidator{StrictContact: true}.Validate(d)
	if ok || !errs.Has(domain.SectionPatientDetails, FieldEmail) || !errs.Has(domain.SectionPatientDetails, FieldPhoneNumber) {
		t.Fatalf("strict validator should flag contact fields, got %v", errs)
	}

	d.PatientDetails.Email = str("jane@example.com")
	d.PatientDetails.PhoneNumber = str("9876543210")
	if ok, errs := (TripValidator{StrictContact: true}).Validate(d); !ok {
		t.Fatalf("well formed contact rejected: %v", errs)
	}
}
