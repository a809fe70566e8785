package services

import (
	"bytes"
	"fmt"

	"ambulance/internal/domain/models"
	"ambulance/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders printable documents for saved trips.
type DocsService struct {
	RequestID string
}

func (s DocsService) GenerateTripSlip(t models.TripData) ([]byte, string, error) {
	utils.LogEvent(s.RequestID, "docs", "generate_trip_slip", "trip_id="+t.ID)
	return buildTripSlipPDF(t)
}

func buildTripSlipPDF(t models.TripData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Trip Slip", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "AMBULANCE TRIP SLIP")
	pdf.Ln(12)

	pd, tr, fin := t.PatientDetails, t.TripRoute, t.Financials

	section(pdf, "Patient")
	lines(pdf,
		fmt.Sprintf("Trip ID     : %s", utils.Safe(t.ID, "-")),
		fmt.Sprintf("Name        : %s", utils.Safe(pd.Name, "-")),
		fmt.Sprintf("Phone       : %s", optString(pd.PhoneNumber)),
		fmt.Sprintf("Email       : %s", optString(pd.Email)),
		fmt.Sprintf("Age         : %s", optInt(pd.Age)),
		fmt.Sprintf("Gender      : %s", optGender(pd.Gender)),
		fmt.Sprintf("Condition   : %s", utils.Safe(pd.Condition, "-")),
	)

	section(pdf, "Route")
	lines(pdf,
		fmt.Sprintf("Pickup      : %s", utils.Safe(tr.PickupLocation, "-")),
		fmt.Sprintf("Drop        : %s", utils.Safe(tr.DropLocation, "-")),
		fmt.Sprintf("Hospital    : %s", optString(tr.Hospital)),
		fmt.Sprintf("Distance    : %.1f km", tr.Distance),
		fmt.Sprintf("Mode        : %s", utils.Safe(string(t.TripMode), "-")),
	)

	section(pdf, "Financials")
	lines(pdf, fmt.Sprintf("Charged     : %s", utils.FormatINR(fin.MoneyCharged)))
	for _, e := range []struct {
		label string
		v     *float64
	}{
		{"Fuel", fin.Expenses.Fuel},
		{"Driver", fin.Expenses.Driver},
		{"Nursing", fin.Expenses.NursingStaff},
		{"Maintenance", fin.Expenses.Maintenance},
		{"Misc", fin.Expenses.Miscellaneous},
	} {
		if e.v != nil {
			lines(pdf, fmt.Sprintf("  %-10s: %s", e.label, utils.FormatINR(*e.v)))
		}
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total expenses: "+utils.FormatINR(fin.TotalExpenses))
	pdf.Ln(8)
	pdf.Cell(0, 8, "Net: "+utils.FormatINR(fin.MoneyCharged-fin.TotalExpenses))
	pdf.Ln(12)

	if t.CreatedAt != nil {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 6, "Recorded at "+utils.FormatDateTime(*t.CreatedAt))
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("TRIP_%s_%s.pdf", utils.SafeFilenamePart(t.ID), utils.SafeFilenamePart(pd.Name))
	return buf.Bytes(), filename, nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
}

func lines(pdf *gofpdf.Fpdf, ls ...string) {
	for _, s := range ls {
		pdf.Cell(0, 6, s)
		pdf.Ln(6)
	}
}

func optString(s *string) string {
	if s == nil {
		return "-"
	}
	return utils.Safe(*s, "-")
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func optGender(g *models.Gender) string {
	if g == nil {
		return "-"
	}
	return utils.Safe(string(*g), "-")
}
