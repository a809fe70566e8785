package services

import (
	"sync"
	"time"
)

const defaultFormIdleTTL = 2 * time.Hour

type formEntry struct {
	form     *BookingForm
	lastUsed time.Time
}

// FormSessions keeps one BookingForm per authenticated user. Forms untouched
// for IdleTTL are dropped on the next lookup unless a save is in flight.
type FormSessions struct {
	IdleTTL time.Duration

	mu      sync.Mutex
	forms   map[string]*formEntry
	newForm func() *BookingForm
	now     func() time.Time
}

func NewFormSessions(newForm func() *BookingForm) *FormSessions {
	return &FormSessions{
		IdleTTL: defaultFormIdleTTL,
		forms:   map[string]*formEntry{},
		newForm: newForm,
		now:     time.Now,
	}
}

func (s *FormSessions) For(userID string) *BookingForm {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictIdleLocked(now)
	if e, ok := s.forms[userID]; ok {
		e.lastUsed = now
		return e.form
	}
	f := s.newForm()
	s.forms[userID] = &formEntry{form: f, lastUsed: now}
	return f
}

// Discard drops the user's draft, e.g. on logout.
func (s *FormSessions) Discard(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.forms, userID)
}

// Len returns the number of live drafts.
func (s *FormSessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.forms)
}

func (s *FormSessions) evictIdleLocked(now time.Time) {
	if s.IdleTTL <= 0 {
		return
	}
	for id, e := range s.forms {
		if now.Sub(e.lastUsed) > s.IdleTTL && !e.form.Snapshot().Pending {
			delete(s.forms, id)
		}
	}
}
