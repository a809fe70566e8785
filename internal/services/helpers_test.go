package services

import (
	"context"
	"sync"

	"ambulance/internal/domain/models"
	"ambulance/internal/repositories"
)

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

type recordingNotifier struct {
	mu    sync.Mutex
	items []Notification
}

func (r *recordingNotifier) Notify(_ context.Context, level NotificationLevel, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Level: level, Message: msg})
}

func (r *recordingNotifier) last() Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}
	}
	return r.items[len(r.items)-1]
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// memStore is an in-memory TripStore.
type memStore struct {
	mu      sync.Mutex
	rows    map[string]repositories.TripRow
	failErr error
	block   chan struct{}
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]repositories.TripRow{}}
}

func (m *memStore) Insert(_ context.Context, row repositories.TripRow) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.rows[row.ID] = row
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (repositories.TripRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return repositories.TripRow{}, errNotFoundForTest
	}
	return row, nil
}

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type staticHospitals []models.Hospital

func (s staticHospitals) ListHospitals(context.Context) []models.Hospital { return s }

// filledDraft is scenario A's booking.
func filledDraft() models.TripData {
	d := models.NewDraft()
	d.PatientDetails.Name = "Jane Doe"
	d.PatientDetails.Condition = "Fracture"
	d.TripRoute.PickupLocation = "12 Elm St"
	d.TripRoute.DropLocation = "City Hospital"
	d.TripRoute.Distance = 5
	d.Financials.MoneyCharged = 500
	return d
}
