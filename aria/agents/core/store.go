package core

import (
	"aria/aria/sources/psql/dao"
	"aria/aria/sources/psql/models"
	"context"

	"github.com/google/uuid"
)

// Store is the slice of the persistence layer the session engine needs. The
// psql dao.Store satisfies it; tests use an in-memory implementation.
//
// CreateAppointment and RescheduleAppointment perform their slot-conflict
// check atomically with the write. Two sessions racing for one slot must
// resolve to exactly one confirmed appointment.
type Store interface {
	UpsertUser(ctx context.Context, phone string, name *string) error
	GetUserName(ctx context.Context, phone string) (*string, error)

	QueryAppointments(ctx context.Context, f dao.AppointmentFilter) ([]models.Appointment, error)
	CreateAppointment(ctx context.Context, appt *models.Appointment) (conflict bool, err error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	RescheduleAppointment(ctx context.Context, id uuid.UUID, date, timeOfDay string) (appt *models.Appointment, conflict bool, err error)
	CancelAppointment(ctx context.Context, id uuid.UUID, phone string) (*models.Appointment, error)

	InsertPreference(ctx context.Context, pref *models.Preference) error
	SaveCallSummary(ctx context.Context, summary *models.CallSummary) error
}

// Summarizer turns a transcript-derived prompt into a short natural-language
// summary. Implementations may fail; the engine substitutes a fallback.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// TranscriptArchive receives the full transcript at session end, best-effort.
type TranscriptArchive interface {
	ArchiveTranscript(ctx context.Context, sessionID string, transcript []byte) error
}

// Broadcaster pushes transcript events to an observing front-end.
// Fire-and-forget: implementations swallow their own failures.
type Broadcaster interface {
	Broadcast(role, text string)
}
