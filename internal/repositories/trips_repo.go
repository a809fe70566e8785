package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	intdb "ambulance/internal/db"
	"ambulance/internal/domain"
	"ambulance/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

var errNoDB = errors.New("database not connected")

// TripRow is the stored representation of one booking in the trips table.
// Column names are lower-cased; nested sections are JSON blobs.
type TripRow struct {
	ID             string
	PatientDetails StoredValue
	TripRoute      StoredValue
	Financials     StoredValue
	TripMode       string
	UserID         sql.NullString
	CreatedAt      sql.NullTime
	UpdatedAt      sql.NullTime
}

// EncodeTrip maps a domain trip onto its stored row. It is the exact inverse
// of DecodeTrip.
func EncodeTrip(t models.TripData) (TripRow, error) {
	patient, err := json.Marshal(t.PatientDetails)
	if err != nil {
		return TripRow{}, fmt.Errorf("encode patientdetails: %w", err)
	}
	route, err := json.Marshal(t.TripRoute)
	if err != nil {
		return TripRow{}, fmt.Errorf("encode triproute: %w", err)
	}
	financials, err := json.Marshal(t.Financials)
	if err != nil {
		return TripRow{}, fmt.Errorf("encode financials: %w", err)
	}

	return TripRow{
		ID:             t.ID,
		PatientDetails: RawValue(patient),
		TripRoute:      RawValue(route),
		Financials:     RawValue(financials),
		TripMode:       string(t.TripMode),
		UserID:         intdb.NullIfEmpty(t.UserID),
		CreatedAt:      nullTime(t.CreatedAt),
		UpdatedAt:      nullTime(t.UpdatedAt),
	}, nil
}

// DecodeTrip maps a stored row back onto the domain shape. Nested columns may
// arrive either serialized or already structured.
func DecodeTrip(row TripRow) (models.TripData, error) {
	out := models.TripData{
		ID:        row.ID,
		TripMode:  models.TripMode(row.TripMode),
		UserID:    row.UserID.String,
		CreatedAt: timePtr(row.CreatedAt),
		UpdatedAt: timePtr(row.UpdatedAt),
	}
	if err := row.PatientDetails.decodeInto(&out.PatientDetails); err != nil {
		return models.TripData{}, fmt.Errorf("decode patientdetails: %w", err)
	}
	if err := row.TripRoute.decodeInto(&out.TripRoute); err != nil {
		return models.TripData{}, fmt.Errorf("decode triproute: %w", err)
	}
	if err := row.Financials.decodeInto(&out.Financials); err != nil {
		return models.TripData{}, fmt.Errorf("decode financials: %w", err)
	}
	return out, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

const mysqlErrDuplicateEntry = 1062

// IsDuplicateKey reports whether err is a MySQL duplicate-entry error.
func IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry
}

type TripsRepository struct {
	DB *sql.DB
}

func (r TripsRepository) Insert(ctx context.Context, row TripRow) error {
	if r.DB == nil {
		return errNoDB
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO trips (
		  id, patientdetails, triproute, financials, tripmode, userid, createdat, updatedat
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		row.ID, row.PatientDetails, row.TripRoute, row.Financials, row.TripMode,
		row.UserID, row.CreatedAt, row.UpdatedAt,
	)
	return err
}

func (r TripsRepository) GetByID(ctx context.Context, id string) (TripRow, error) {
	if r.DB == nil {
		return TripRow{}, errNoDB
	}
	var row TripRow
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, patientdetails, triproute, financials, COALESCE(tripmode,''), userid, createdat, updatedat
		FROM trips
		WHERE id = ?
	`, id).Scan(
		&row.ID,
		&row.PatientDetails,
		&row.TripRoute,
		&row.Financials,
		&row.TripMode,
		&row.UserID,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return TripRow{}, domain.NotFoundError{Resource: "trip", Err: err}
	}
	return row, err
}

// Ping issues the cheapest query against trips; an empty table is healthy.
func (r TripsRepository) Ping(ctx context.Context) error {
	if r.DB == nil {
		return errNoDB
	}
	var id string
	err := r.DB.QueryRowContext(ctx, `SELECT id FROM trips LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}
