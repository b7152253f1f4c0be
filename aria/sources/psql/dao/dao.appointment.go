package dao

import (
	"aria/aria/sources/psql/models"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AppointmentDAO struct {
	DB *gorm.DB
}

func NewAppointmentDAO(db *gorm.DB) *AppointmentDAO {
	return &AppointmentDAO{DB: db}
}

// AppointmentFilter narrows QueryAppointments. Zero values mean "no filter";
// Status "all" is treated the same as empty.
type AppointmentFilter struct {
	UserPhone string
	Status    string
	Date      string
	DateFrom  string
	DateTo    string
}

func (dao *AppointmentDAO) QueryAppointments(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	q := dao.DB.WithContext(ctx).Model(&models.Appointment{})
	if f.UserPhone != "" {
		q = q.Where("user_phone = ?", f.UserPhone)
	}
	if f.Status != "" && f.Status != "all" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Date != "" {
		q = q.Where("date = ?", f.Date)
	}
	if f.DateFrom != "" {
		q = q.Where("date >= ?", f.DateFrom)
	}
	if f.DateTo != "" {
		q = q.Where("date <= ?", f.DateTo)
	}
	var appts []models.Appointment
	if err := q.Order("date ASC, time ASC").Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

// CreateAppointment inserts a confirmed appointment, reporting a slot
// conflict instead of an error when the (date, time) pair is already taken.
// The check and the insert run in one transaction with the slot row locked,
// and the partial unique index backstops anything the lock misses.
func (dao *AppointmentDAO) CreateAppointment(ctx context.Context, appt *models.Appointment) (conflict bool, err error) {
	err = dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.Appointment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("date = ? AND time = ? AND status = ?", appt.Date, appt.Time, models.AppointmentConfirmed).
			Find(&existing).Error
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			conflict = true
			return nil
		}
		return tx.Create(appt).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true, nil
	}
	return conflict, err
}

// GetAppointment fetches one appointment by id; nil when absent.
func (dao *AppointmentDAO) GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appt models.Appointment
	err := dao.DB.WithContext(ctx).Where("id = ?", id).First(&appt).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// RescheduleAppointment moves an appointment to a new slot. The conflict
// check excludes the appointment itself, so moving onto its current slot
// succeeds. Returns (nil, false, nil) when the id is unknown.
func (dao *AppointmentDAO) RescheduleAppointment(ctx context.Context, id uuid.UUID, date, timeOfDay string) (appt *models.Appointment, conflict bool, err error) {
	err = dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Appointment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&current).Error
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		var taken []models.Appointment
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("date = ? AND time = ? AND status = ? AND id <> ?", date, timeOfDay, models.AppointmentConfirmed, id).
			Find(&taken).Error
		if err != nil {
			return err
		}
		if len(taken) > 0 {
			conflict = true
			return nil
		}

		current.Date = date
		current.Time = timeOfDay
		if err := tx.Save(&current).Error; err != nil {
			return err
		}
		appt = &current
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, true, nil
	}
	return appt, conflict, err
}

// CancelAppointment flips status to cancelled, scoped to the owner's phone.
// Returns nil when the id is unknown or belongs to a different caller.
func (dao *AppointmentDAO) CancelAppointment(ctx context.Context, id uuid.UUID, phone string) (*models.Appointment, error) {
	res := dao.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ? AND user_phone = ?", id, phone).
		Update("status", models.AppointmentCancelled)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	var appt models.Appointment
	if err := dao.DB.WithContext(ctx).Where("id = ?", id).First(&appt).Error; err != nil {
		return nil, err
	}
	return &appt, nil
}
