package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ambulance/internal/domain/models"
	"ambulance/internal/realtime"
	"ambulance/internal/repositories"
	"ambulance/internal/session"
	"ambulance/internal/utils"
)

const (
	msgSaveSucceeded  = "Trip saved successfully"
	msgSaveFailed     = "Failed to save trip data"
	msgSaveUnexpected = "An unexpected error occurred"
)

// SaveResult is the tagged outcome of a write. Err is set iff !Success.
type SaveResult struct {
	Success bool
	Data    models.TripData
	Err     error
}

type TripStore interface {
	Insert(ctx context.Context, row repositories.TripRow) error
	GetByID(ctx context.Context, id string) (repositories.TripRow, error)
}

type HospitalLister interface {
	ListHospitals(ctx context.Context) []models.Hospital
}

// TripGateway maps drafts to stored rows and back, performs the create, and
// publishes created rows on Feed.
type TripGateway struct {
	Store     TripStore
	Hospitals HospitalLister
	Session   session.Provider
	Notifier  Notifier
	Feed      *realtime.Feed[repositories.TripRow]

	Now   func() time.Time
	NewID func() string
}

func (g *TripGateway) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return utils.NowUTC()
}

func (g *TripGateway) newID() string {
	if g.NewID != nil {
		return g.NewID()
	}
	return utils.GenerateTripID()
}

// SaveTrip stamps id, user and timestamps on trip and inserts it. Failures
// never escape as errors or panics; they come back in the result.
func (g *TripGateway) SaveTrip(ctx context.Context, trip models.TripData) (res SaveResult) {
	defer func() {
		if r := recover(); r != nil {
			utils.LogEventCtx(ctx, "trips", "save", fmt.Sprintf("panic: %v", r))
			g.notify(ctx, LevelError, msgSaveUnexpected)
			res = SaveResult{Err: fmt.Errorf("unexpected error saving trip: %v", r)}
		}
	}()

	record := trip
	record.ID = g.newID()
	if g.Session != nil {
		userID, err := g.Session.CurrentUserID(ctx)
		if err != nil {
			utils.LogEventCtx(ctx, "trips", "save", "no session user: "+err.Error())
		}
		record.UserID = userID
	}
	now := g.now()
	created, updated := now, now
	record.CreatedAt = &created
	record.UpdatedAt = &updated

	row, err := repositories.EncodeTrip(record)
	if err != nil {
		return g.fail(ctx, err)
	}
	if g.Store == nil {
		return g.fail(ctx, errors.New("trip store not configured"))
	}
	err = g.Store.Insert(ctx, row)
	if repositories.IsDuplicateKey(err) {
		// trip ids are short; a collision gets one fresh id
		utils.LogEventCtx(ctx, "trips", "save", "duplicate trip_id="+row.ID+", regenerating")
		row.ID = g.newID()
		err = g.Store.Insert(ctx, row)
	}
	if err != nil {
		return g.fail(ctx, err)
	}

	stored, err := repositories.DecodeTrip(row)
	if err != nil {
		return g.fail(ctx, err)
	}

	utils.LogEventCtx(ctx, "trips", "save", fmt.Sprintf("trip_id=%s user_id=%s", stored.ID, stored.UserID))
	g.notify(ctx, LevelSuccess, msgSaveSucceeded)
	if g.Feed != nil {
		g.Feed.Publish(row)
	}
	return SaveResult{Success: true, Data: stored}
}

func (g *TripGateway) fail(ctx context.Context, err error) SaveResult {
	utils.LogEventCtx(ctx, "trips", "save", fmt.Sprintf("error=%v", err))
	g.notify(ctx, LevelError, msgSaveFailed)
	return SaveResult{Err: err}
}

func (g *TripGateway) notify(ctx context.Context, level NotificationLevel, msg string) {
	if g.Notifier != nil {
		g.Notifier.Notify(ctx, level, msg)
	}
}

func (g *TripGateway) GetTrip(ctx context.Context, id string) (models.TripData, error) {
	if g.Store == nil {
		return models.TripData{}, errors.New("trip store not configured")
	}
	row, err := g.Store.GetByID(ctx, id)
	if err != nil {
		return models.TripData{}, err
	}
	return repositories.DecodeTrip(row)
}

// ListHospitals never fails; an unavailable lookup yields an empty list.
func (g *TripGateway) ListHospitals(ctx context.Context) []models.Hospital {
	if g.Hospitals == nil {
		return []models.Hospital{}
	}
	return g.Hospitals.ListHospitals(ctx)
}

// SubscribeToTrips calls fn with every newly created trip, decoded from its
// stored row. The returned disposer detaches fn and is safe to call repeatedly.
func (g *TripGateway) SubscribeToTrips(fn func(models.TripData)) (dispose func()) {
	if g.Feed == nil {
		return func() {}
	}
	return g.Feed.Subscribe(func(row repositories.TripRow) {
		trip, err := repositories.DecodeTrip(row)
		if err != nil {
			utils.LogEvent("", "trips", "subscribe", fmt.Sprintf("decode trip_id=%s: %v", row.ID, err))
			return
		}
		fn(trip)
	})
}
