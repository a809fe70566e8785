package repositories

import (
	"context"
	"database/sql"
	"fmt"

	intdb "ambulance/internal/db"
	"ambulance/internal/domain/models"
	"ambulance/internal/utils"
)

const hospitalTable = "hospital_locations"

type HospitalRepository struct {
	DB *sql.DB
}

// ListHospitals returns every hospital_locations row. Reference data is best
// effort: any failure is logged and yields an empty list.
func (r HospitalRepository) ListHospitals(ctx context.Context) []models.Hospital {
	out, err := r.listHospitals(ctx)
	if err != nil {
		utils.LogEventCtx(ctx, "hospitals", "list", fmt.Sprintf("error=%v", err))
		return []models.Hospital{}
	}
	return out
}

func (r HospitalRepository) listHospitals(ctx context.Context) ([]models.Hospital, error) {
	if r.DB == nil {
		return nil, errNoDB
	}
	if !intdb.HasTable(ctx, r.DB, hospitalTable) {
		return nil, fmt.Errorf("table %s not found", hospitalTable)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, COALESCE(name,''), COALESCE(address,'')
		FROM hospital_locations
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Hospital{}
	for rows.Next() {
		var h models.Hospital
		if err := rows.Scan(&h.ID, &h.Name, &h.Address); err != nil {
			return nil, err
		}
		h.Name = utils.TrimOrEmpty(h.Name)
		h.Address = utils.TrimOrEmpty(h.Address)
		out = append(out, h)
	}
	return out, rows.Err()
}
