package dao

import (
	"aria/aria/sources/psql/models"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store bundles the per-table DAOs behind the flat surface the session
// engine consumes (see agents/core.Store).
type Store struct {
	Users        *UserDAO
	Appointments *AppointmentDAO
	Preferences  *PreferenceDAO
	Summaries    *CallSummaryDAO
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		Users:        NewUserDAO(db),
		Appointments: NewAppointmentDAO(db),
		Preferences:  NewPreferenceDAO(db),
		Summaries:    NewCallSummaryDAO(db),
	}
}

func (s *Store) UpsertUser(ctx context.Context, phone string, name *string) error {
	return s.Users.UpsertUser(ctx, phone, name)
}

func (s *Store) GetUserName(ctx context.Context, phone string) (*string, error) {
	return s.Users.GetUserName(ctx, phone)
}

func (s *Store) QueryAppointments(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	return s.Appointments.QueryAppointments(ctx, f)
}

func (s *Store) CreateAppointment(ctx context.Context, appt *models.Appointment) (bool, error) {
	return s.Appointments.CreateAppointment(ctx, appt)
}

func (s *Store) GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	return s.Appointments.GetAppointment(ctx, id)
}

func (s *Store) RescheduleAppointment(ctx context.Context, id uuid.UUID, date, timeOfDay string) (*models.Appointment, bool, error) {
	return s.Appointments.RescheduleAppointment(ctx, id, date, timeOfDay)
}

func (s *Store) CancelAppointment(ctx context.Context, id uuid.UUID, phone string) (*models.Appointment, error) {
	return s.Appointments.CancelAppointment(ctx, id, phone)
}

func (s *Store) InsertPreference(ctx context.Context, pref *models.Preference) error {
	return s.Preferences.InsertPreference(ctx, pref)
}

func (s *Store) SaveCallSummary(ctx context.Context, summary *models.CallSummary) error {
	return s.Summaries.SaveCallSummary(ctx, summary)
}
