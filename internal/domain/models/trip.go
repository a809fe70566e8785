package models

import (
	"encoding/json"
	"math"
	"time"
)

type Gender string

const (
	GenderMale         Gender = "Male"
	GenderFemale       Gender = "Female"
	GenderOther        Gender = "Other"
	GenderNotSpecified Gender = "Not Specified"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderNotSpecified:
		return true
	}
	return false
}

type TripMode string

const (
	TripModeOnline  TripMode = "Online"
	TripModeOffline TripMode = "Offline"
)

func (m TripMode) Valid() bool {
	return m == TripModeOnline || m == TripModeOffline
}

type PatientDetails struct {
	Name        string  `json:"name"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Email       *string `json:"email,omitempty"`
	Age         *int    `json:"age,omitempty"`
	Gender      *Gender `json:"gender,omitempty"`
	Condition   string  `json:"condition"`
}

type TripRoute struct {
	PickupLocation string  `json:"pickupLocation"`
	DropLocation   string  `json:"dropLocation"`
	Hospital       *string `json:"hospital,omitempty"`
	Distance       float64 `json:"distance"`
}

// Expenses holds the per-category trip costs. A nil field means the cost was
// not incurred, which is different from an explicit zero.
type Expenses struct {
	Fuel          *float64 `json:"fuel,omitempty"`
	Driver        *float64 `json:"driver,omitempty"`
	NursingStaff  *float64 `json:"nursingStaff,omitempty"`
	Maintenance   *float64 `json:"maintenance,omitempty"`
	Miscellaneous *float64 `json:"miscellaneous,omitempty"`
}

// Total sums the set fields; unset fields contribute 0.
func (e Expenses) Total() float64 {
	total := 0.0
	for _, v := range []*float64{e.Fuel, e.Driver, e.NursingStaff, e.Maintenance, e.Miscellaneous} {
		if v != nil {
			total += *v
		}
	}
	return total
}

type Financials struct {
	MoneyCharged  float64  `json:"moneyCharged"`
	Expenses      Expenses `json:"expenses"`
	TotalExpenses float64  `json:"totalExpenses"`
}

// RecomputeTotal brings TotalExpenses in line with Expenses and reports
// whether the stored value changed.
func (f *Financials) RecomputeTotal() bool {
	total := f.Expenses.Total()
	if total == f.TotalExpenses || (math.IsNaN(total) && math.IsNaN(f.TotalExpenses)) {
		return false
	}
	f.TotalExpenses = total
	return true
}

// TripData is one booking. ID, UserID and the timestamps are assigned by the
// persistence layer at save time.
type TripData struct {
	ID             string         `json:"id,omitempty"`
	PatientDetails PatientDetails `json:"patientDetails"`
	TripRoute      TripRoute      `json:"tripRoute"`
	Financials     Financials     `json:"financials"`
	TripMode       TripMode       `json:"tripMode"`
	UserID         string         `json:"userId,omitempty"`
	CreatedAt      *time.Time     `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time     `json:"updatedAt,omitempty"`
}

// NewDraft returns the empty booking the form starts from.
func NewDraft() TripData {
	return TripData{
		PatientDetails: PatientDetails{},
		TripRoute:      TripRoute{},
		Financials: Financials{
			Expenses: Expenses{},
		},
		TripMode: TripModeOnline,
	}
}

// Partial updates. A non-nil pointer sets the field. A key sent as JSON null
// leaves the pointer nil but is still recorded by Sent, so the field is reset.

// sentKeys records which top-level keys a JSON object carried.
type sentKeys map[string]bool

func readSentKeys(b []byte) (sentKeys, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	keys := make(sentKeys, len(raw))
	for k := range raw {
		keys[k] = true
	}
	return keys, nil
}

type PatientDetailsPatch struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phoneNumber"`
	Email       *string `json:"email"`
	Age         *int    `json:"age" binding:"omitempty,min=0"`
	Gender      *Gender `json:"gender"`
	Condition   *string `json:"condition"`

	sent sentKeys
}

func (p *PatientDetailsPatch) UnmarshalJSON(b []byte) error {
	type plain PatientDetailsPatch
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	keys, err := readSentKeys(b)
	if err != nil {
		return err
	}
	*p = PatientDetailsPatch(v)
	p.sent = keys
	return nil
}

// Sent reports whether key was present in the decoded JSON, null included.
func (p PatientDetailsPatch) Sent(key string) bool { return p.sent[key] }

type TripRoutePatch struct {
	PickupLocation *string  `json:"pickupLocation"`
	DropLocation   *string  `json:"dropLocation"`
	Hospital       *string  `json:"hospital"`
	Distance       *float64 `json:"distance"`

	sent sentKeys
}

func (p *TripRoutePatch) UnmarshalJSON(b []byte) error {
	type plain TripRoutePatch
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	keys, err := readSentKeys(b)
	if err != nil {
		return err
	}
	*p = TripRoutePatch(v)
	p.sent = keys
	return nil
}

func (p TripRoutePatch) Sent(key string) bool { return p.sent[key] }

// FinancialsPatch has no TotalExpenses: the total is always derived.
type FinancialsPatch struct {
	MoneyCharged *float64  `json:"moneyCharged"`
	Expenses     *Expenses `json:"expenses"`

	sent sentKeys
}

func (p *FinancialsPatch) UnmarshalJSON(b []byte) error {
	type plain FinancialsPatch
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	keys, err := readSentKeys(b)
	if err != nil {
		return err
	}
	*p = FinancialsPatch(v)
	p.sent = keys
	return nil
}

func (p FinancialsPatch) Sent(key string) bool { return p.sent[key] }
