package core

import (
	"context"
	"errors"
	"sort"
	"sync"

	"aria/aria/sources/psql/dao"
	"aria/aria/sources/psql/models"

	"github.com/google/uuid"
)

// memStore is an in-memory Store for engine tests. Its slot-conflict checks
// run under one mutex, matching the atomicity the psql DAO provides with a
// transaction plus partial unique index.
type memStore struct {
	mu        sync.Mutex
	users     map[string]*string
	appts     map[uuid.UUID]models.Appointment
	prefs     []models.Preference
	summaries map[string]models.CallSummary

	failWrites bool
	failReads  bool
}

var errStoreDown = errors.New("store unavailable")

func newMemStore() *memStore {
	return &memStore{
		users:     map[string]*string{},
		appts:     map[uuid.UUID]models.Appointment{},
		summaries: map[string]models.CallSummary{},
	}
}

func (m *memStore) UpsertUser(ctx context.Context, phone string, name *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return errStoreDown
	}
	if name != nil {
		m.users[phone] = name
	} else if _, ok := m.users[phone]; !ok {
		m.users[phone] = nil
	}
	return nil
}

func (m *memStore) GetUserName(ctx context.Context, phone string) (*string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReads {
		return nil, errStoreDown
	}
	return m.users[phone], nil
}

func (m *memStore) QueryAppointments(ctx context.Context, f dao.AppointmentFilter) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReads {
		return nil, errStoreDown
	}
	var out []models.Appointment
	for _, a := range m.appts {
		if f.UserPhone != "" && a.UserPhone != f.UserPhone {
			continue
		}
		if f.Status != "" && f.Status != "all" && a.Status != f.Status {
			continue
		}
		if f.Date != "" && a.Date != f.Date {
			continue
		}
		if f.DateFrom != "" && a.Date < f.DateFrom {
			continue
		}
		if f.DateTo != "" && a.Date > f.DateTo {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (m *memStore) CreateAppointment(ctx context.Context, appt *models.Appointment) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return false, errStoreDown
	}
	for _, a := range m.appts {
		if a.Date == appt.Date && a.Time == appt.Time && a.Status == models.AppointmentConfirmed {
			return true, nil
		}
	}
	appt.ID = uuid.New()
	m.appts[appt.ID] = *appt
	return false, nil
}

func (m *memStore) GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReads {
		return nil, errStoreDown
	}
	a, ok := m.appts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *memStore) RescheduleAppointment(ctx context.Context, id uuid.UUID, date, timeOfDay string) (*models.Appointment, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return nil, false, errStoreDown
	}
	current, ok := m.appts[id]
	if !ok {
		return nil, false, nil
	}
	for _, a := range m.appts {
		if a.ID != id && a.Date == date && a.Time == timeOfDay && a.Status == models.AppointmentConfirmed {
			return nil, true, nil
		}
	}
	current.Date = date
	current.Time = timeOfDay
	m.appts[id] = current
	return &current, false, nil
}

func (m *memStore) CancelAppointment(ctx context.Context, id uuid.UUID, phone string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return nil, errStoreDown
	}
	a, ok := m.appts[id]
	if !ok || a.UserPhone != phone {
		return nil, nil
	}
	a.Status = models.AppointmentCancelled
	m.appts[id] = a
	return &a, nil
}

func (m *memStore) InsertPreference(ctx context.Context, pref *models.Preference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return errStoreDown
	}
	pref.ID = uuid.New()
	m.prefs = append(m.prefs, *pref)
	return nil
}

func (m *memStore) SaveCallSummary(ctx context.Context, summary *models.CallSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return errStoreDown
	}
	m.summaries[summary.SessionID] = *summary
	return nil
}

func (m *memStore) confirmedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.appts {
		if a.Status == models.AppointmentConfirmed {
			n++
		}
	}
	return n
}
