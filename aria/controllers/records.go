package controllers

import (
	"context"

	"aria/aria/sources/psql/dao"
	"aria/aria/sources/psql/models"
)

const summaryListLimit = 50

// RecordsController serves the operator-facing read APIs over the store.
type RecordsController struct {
	store *dao.Store
}

func NewRecordsController(store *dao.Store) *RecordsController {
	return &RecordsController{store: store}
}

func (c *RecordsController) ListSummaries(ctx context.Context, phone string) ([]models.CallSummary, error) {
	return c.store.Summaries.ListCallSummaries(ctx, phone, summaryListLimit)
}

func (c *RecordsController) ListAppointments(ctx context.Context, phone, status string) ([]models.Appointment, error) {
	return c.store.Appointments.QueryAppointments(ctx, dao.AppointmentFilter{
		UserPhone: phone,
		Status:    status,
	})
}

func (c *RecordsController) ListPreferences(ctx context.Context, phone string) ([]models.Preference, error) {
	return c.store.Preferences.ListPreferences(ctx, phone)
}
